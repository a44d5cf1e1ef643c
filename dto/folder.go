package dto

type CreateFolderRequest struct {
	Title string `json:"title" binding:"required"`
	Color string `json:"color"`
}

type UpdateFolderRequest struct {
	Title *string `json:"title"`
	Color *string `json:"color"`
}
