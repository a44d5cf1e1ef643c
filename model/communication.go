package model

import (
	"time"
)

// Communication is a task-level message board entry, distinct from
// sub-task comments.
type Communication struct {
	CommID   int       `gorm:"column:comm_id;primaryKey;autoIncrement"`
	TaskID   int       `gorm:"column:task_id;not null"`
	UserID   int       `gorm:"column:user_id;not null"`
	Content  string    `gorm:"column:content;type:text;not null"`
	CreateAt time.Time `gorm:"column:create_at;autoCreateTime"`

	// Relations
	Task Tasks `gorm:"foreignKey:TaskID;references:TaskID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE"`
	User User  `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE"`
}

func (Communication) TableName() string {
	return "communications"
}
