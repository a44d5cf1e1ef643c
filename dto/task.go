package dto

type CreateTaskRequest struct {
	FolderID    *int   `json:"folder_id"`
	TaskName    string `json:"task_name" binding:"required"`
	Description string `json:"description"`
	TaskType    string `json:"task_type" binding:"required,oneof=personal team"`
	Deadline    string `json:"deadline"`
}

type UpdateTaskRequest struct {
	TaskName    *string `json:"task_name"`
	Description *string `json:"description"`
	Deadline    *string `json:"deadline"`
	Status      *string `json:"status" binding:"omitempty,oneof=PENDING PROGRESS COMPLETED"`
}

type JoinTaskRequest struct {
	InviteCode string `json:"invite_code" binding:"required"`
}
