package model

import (
	"time"
)

type UserAlarm struct {
	AlarmID   int       `gorm:"column:alarm_id;primaryKey;autoIncrement"`
	UserID    int       `gorm:"column:user_id;not null"`
	TaskID    *int      `gorm:"column:task_id"`
	SubTaskID *int      `gorm:"column:subtask_id"`
	AlarmDate time.Time `gorm:"column:alarm_date;not null"` // fire timestamp; invisible until passed
	Content   string    `gorm:"column:content;type:varchar(255);not null"`
	IsRead    bool      `gorm:"column:is_read;default:false;not null"`
	CreateAt  time.Time `gorm:"column:create_at;autoCreateTime"`

	// Relations
	User    User     `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE"`
	Task    *Tasks   `gorm:"foreignKey:TaskID;references:TaskID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE"`
	SubTask *SubTask `gorm:"foreignKey:SubTaskID;references:SubTaskID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE"`
}

func (UserAlarm) TableName() string {
	return "user_alarms"
}
