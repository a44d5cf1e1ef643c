package model

import (
	"time"
)

type User struct {
	UserID            int        `gorm:"column:user_id;primaryKey;autoIncrement"`
	Email             string     `gorm:"column:email;type:varchar(255);not null;uniqueIndex"`
	Nickname          string     `gorm:"column:nickname;type:varchar(45);not null"`
	ProviderID        string     `gorm:"column:provider_id;type:varchar(255);not null;uniqueIndex"`
	FCMToken          *string    `gorm:"column:fcm_token;type:varchar(255)"`
	RefreshTokenHash  *string    `gorm:"column:refresh_token_hash;type:varchar(255)"`
	PersonalAlarmLead int        `gorm:"column:personal_alarm_lead;default:1"` // hours before deadline
	TeamAlarmLead     int        `gorm:"column:team_alarm_lead;default:1"`
	DeletedAt         *time.Time `gorm:"column:deleted_at"` // soft delete marker
	CreateAt          time.Time  `gorm:"column:create_at;autoCreateTime"`
}

func (User) TableName() string {
	return "users"
}
