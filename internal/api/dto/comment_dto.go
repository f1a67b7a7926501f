package dto

import "time"

// CreateCommentRequest payload for comments and replies.
type CreateCommentRequest struct {
	PostID   int64  `json:"postId" validate:"required,min=1"`
	Content  string `json:"content" validate:"required,min=1,max=1000"`
	ParentID *int64 `json:"parentId" validate:"omitempty,min=1"`
}

// UpdateCommentRequest payload for comment edits.
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=1000"`
}

// CommentResponse is a comment with author and nested replies.
type CommentResponse struct {
	ID        int64             `json:"id"`
	PostID    int64             `json:"postId"`
	AuthorID  int64             `json:"authorId"`
	ParentID  *int64            `json:"parentId"`
	Content   string            `json:"content"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
	Author    AuthorResponse    `json:"author"`
	Replies   []CommentResponse `json:"replies"`
}
