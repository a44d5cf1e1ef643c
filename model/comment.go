package model

import (
	"time"
)

type Comment struct {
	CommentID int       `gorm:"column:comment_id;primaryKey;autoIncrement"`
	SubTaskID int       `gorm:"column:subtask_id;not null"`
	UserID    int       `gorm:"column:user_id;not null"`
	Content   string    `gorm:"column:content;type:text;not null"`
	CreateAt  time.Time `gorm:"column:create_at;autoCreateTime"`

	// Relations
	SubTask SubTask `gorm:"foreignKey:SubTaskID;references:SubTaskID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE"`
	User    User    `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE"`
}

func (Comment) TableName() string {
	return "comments"
}
