package model

import (
	"time"
)

type Folder struct {
	FolderID int       `gorm:"column:folder_id;primaryKey;autoIncrement"`
	UserID   int       `gorm:"column:user_id;not null"`
	Title    string    `gorm:"column:title;type:varchar(255);not null"`
	Color    string    `gorm:"column:color;type:varchar(45)"`
	CreateAt time.Time `gorm:"column:create_at;autoCreateTime"`

	// Relations
	User User `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE"`
}

func (Folder) TableName() string {
	return "folders"
}
