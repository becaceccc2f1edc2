package position

type CreatePositionRequest struct {
	Title string `json:"title" binding:"required,min=2,max=100"`
}

// UpdatePositionRequest is a partial update; a nil title is left alone.
type UpdatePositionRequest struct {
	Title *string `json:"title" binding:"omitempty,min=2,max=100"`
}

type PositionResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
