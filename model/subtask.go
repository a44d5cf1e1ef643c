package model

import (
	"time"
)

// SubTask status values. These travel verbatim in realtime broadcasts.
const (
	SubTaskPending   = "PENDING"
	SubTaskProgress  = "PROGRESS"
	SubTaskCompleted = "COMPLETED"
)

type SubTask struct {
	SubTaskID    int        `gorm:"column:subtask_id;primaryKey;autoIncrement"`
	TaskID       int        `gorm:"column:task_id;not null"`
	Title        string     `gorm:"column:title;type:varchar(255);not null"`
	EndDate      *time.Time `gorm:"column:end_date"`
	Status       string     `gorm:"column:status;type:enum('PENDING','PROGRESS','COMPLETED');default:'PENDING';not null"`
	AssigneeID   *int       `gorm:"column:assignee_id"`
	AlarmEnabled bool       `gorm:"column:alarm_enabled;default:false"`
	CreateAt     time.Time  `gorm:"column:create_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`

	// Relations
	Task     Tasks `gorm:"foreignKey:TaskID;references:TaskID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE"`
	Assignee *User `gorm:"foreignKey:AssigneeID;references:UserID;constraint:OnDelete:SET NULL,OnUpdate:CASCADE"`
}

func (SubTask) TableName() string {
	return "subtasks"
}
