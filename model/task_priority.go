package model

// DefaultPriorityRank is reported for tasks the user has never ranked.
const DefaultPriorityRank = 999

type TaskPriority struct {
	PriorityID int `gorm:"column:priority_id;primaryKey;autoIncrement"`
	UserID     int `gorm:"column:user_id;not null;uniqueIndex:idx_user_task"`
	TaskID     int `gorm:"column:task_id;not null;uniqueIndex:idx_user_task"`
	Rank       int `gorm:"column:rank;not null"`

	// Relations
	Task Tasks `gorm:"foreignKey:TaskID;references:TaskID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE"`
	User User  `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE"`
}

func (TaskPriority) TableName() string {
	return "task_priorities"
}
