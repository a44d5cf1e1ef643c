package dto

type CreateSubTaskRequest struct {
	Title        string `json:"title" binding:"required"`
	EndDate      string `json:"end_date"`
	AssigneeID   *int   `json:"assignee_id"`
	AlarmEnabled bool   `json:"alarm_enabled"`
}

type UpdateSubTaskStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=PENDING PROGRESS COMPLETED"`
}

type UpdateSubTaskDeadlineRequest struct {
	EndDate string `json:"end_date" binding:"required"`
}

type UpdateSubTaskAssigneeRequest struct {
	AssigneeID *int `json:"assignee_id"`
}
