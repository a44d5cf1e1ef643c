package model

import (
	"time"
)

// Role values for TaskMember. Exactly one OWNER per task; the transfer
// endpoint swaps roles inside a single transaction.
const (
	RoleOwner  = "OWNER"
	RoleMember = "MEMBER"
)

type TaskMember struct {
	MemberID int       `gorm:"column:member_id;primaryKey;autoIncrement"`
	TaskID   int       `gorm:"column:task_id;not null;uniqueIndex:idx_task_user"`
	UserID   int       `gorm:"column:user_id;not null;uniqueIndex:idx_task_user"`
	Role     string    `gorm:"column:role;type:enum('OWNER','MEMBER');default:'MEMBER';not null"`
	JoinAt   time.Time `gorm:"column:join_at;autoCreateTime"`

	// Relations
	Task Tasks `gorm:"foreignKey:TaskID;references:TaskID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE"`
	User User  `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE"`
}

func (TaskMember) TableName() string {
	return "task_members"
}
