package model

import (
	"time"
)

type Tasks struct {
	TaskID          int        `gorm:"column:task_id;primaryKey;autoIncrement"`
	FolderID        *int       `gorm:"column:folder_id"`
	TaskName        string     `gorm:"column:task_name;type:varchar(255);not null"`
	Description     string     `gorm:"column:description;type:text"`
	TaskType        string     `gorm:"column:task_type;type:enum('personal','team');default:'personal';not null"`
	Deadline        *time.Time `gorm:"column:deadline"`
	Status          string     `gorm:"column:status;type:enum('PENDING','PROGRESS','COMPLETED');default:'PENDING';not null"`
	InviteCode      *string    `gorm:"column:invite_code;type:varchar(255)"`
	InviteExpiresAt *time.Time `gorm:"column:invite_expires_at"`
	CreateBy        int        `gorm:"column:create_by"`
	CreateAt        time.Time  `gorm:"column:create_at;autoCreateTime"`

	// Relations
	Folder  *Folder `gorm:"foreignKey:FolderID;references:FolderID;constraint:OnDelete:SET NULL,OnUpdate:CASCADE"`
	Creator User    `gorm:"foreignKey:CreateBy;references:UserID;constraint:OnUpdate:CASCADE"`
}

func (Tasks) TableName() string {
	return "tasks"
}
