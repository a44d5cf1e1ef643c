package dto

type AlarmFeedQuery struct {
	Cursor  *int   `form:"cursor"`
	Limit   *int   `form:"limit"`
	OrderBy string `form:"orderBy"`
	Order   string `form:"order"`
}

type AlarmFeedMeta struct {
	HasNextPage bool `json:"hasNextPage"`
	Cursor      *int `json:"cursor"`
}

type BulkAlarmRequest struct {
	AlarmIDs []int `json:"alarm_ids" binding:"required,min=1"`
}
