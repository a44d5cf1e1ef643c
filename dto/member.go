package dto

type TransferOwnerRequest struct {
	NewOwnerID int `json:"new_owner_id" binding:"required"`
}

type SetPriorityRequest struct {
	Rank int `json:"rank" binding:"required,gt=0"`
}
