package model

import (
	"time"
)

type TaskLog struct {
	LogID    int       `gorm:"column:log_id;primaryKey;autoIncrement"`
	TaskID   int       `gorm:"column:task_id;not null"`
	UserID   int       `gorm:"column:user_id;not null"`
	Action   string    `gorm:"column:action;type:varchar(45);not null"`
	Detail   string    `gorm:"column:detail;type:varchar(255)"`
	CreateAt time.Time `gorm:"column:create_at;autoCreateTime"`

	// Relations
	Task Tasks `gorm:"foreignKey:TaskID;references:TaskID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE"`
}

func (TaskLog) TableName() string {
	return "task_logs"
}
