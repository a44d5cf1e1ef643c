package model

import (
	"time"
)

type Reference struct {
	RefID    int       `gorm:"column:ref_id;primaryKey;autoIncrement"`
	TaskID   int       `gorm:"column:task_id;not null"`
	Title    string    `gorm:"column:title;type:varchar(255);not null"`
	URL      string    `gorm:"column:url;type:varchar(255);not null"`
	CreateBy int       `gorm:"column:create_by"`
	CreateAt time.Time `gorm:"column:create_at;autoCreateTime"`

	// Relations
	Task Tasks `gorm:"foreignKey:TaskID;references:TaskID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE"`
}

func (Reference) TableName() string {
	return "references"
}
