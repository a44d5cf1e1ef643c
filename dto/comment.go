package dto

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

type CreateCommunicationRequest struct {
	Content string `json:"content" binding:"required"`
}

type CreateReferenceRequest struct {
	Title string `json:"title" binding:"required"`
	URL   string `json:"url" binding:"required,url"`
}
