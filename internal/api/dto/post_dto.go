package dto

import "time"

// CreatePostRequest payload for new posts.
type CreatePostRequest struct {
	Title     string   `json:"title" validate:"required,min=5,max=200"`
	Content   string   `json:"content" validate:"required,min=10"`
	Published *bool    `json:"published"`
	Tags      []string `json:"tags" validate:"omitempty,max=20,dive,max=50"`
}

// UpdatePostRequest carries optional post fields.
type UpdatePostRequest struct {
	Title     *string  `json:"title" validate:"omitempty,min=5,max=200"`
	Content   *string  `json:"content" validate:"omitempty,min=10"`
	Published *bool    `json:"published"`
	Tags      []string `json:"tags" validate:"omitempty,max=20,dive,max=50"`
}

// ListPostsQuery binds GET /posts query parameters.
type ListPostsQuery struct {
	Page     int    `query:"page" validate:"omitempty,min=1,max=100000"`
	Limit    int    `query:"limit" validate:"omitempty,min=1"`
	Search   string `query:"search" validate:"omitempty,max=200"`
	AuthorID int64  `query:"authorId" validate:"omitempty,min=1"`
}

// PostCounts mirrors the engagement counters of a post.
type PostCounts struct {
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
}

// PostResponse is a post as stored.
type PostResponse struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Slug       string    `json:"slug"`
	Published  bool      `json:"published"`
	Tags       []string  `json:"tags"`
	ViewsCount int64     `json:"viewsCount"`
	AuthorID   int64     `json:"authorId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// PostViewResponse is a post with its author and counters.
type PostViewResponse struct {
	PostResponse
	Author        AuthorResponse `json:"author"`
	LikesCount    int64          `json:"likesCount"`
	CommentsCount int64          `json:"commentsCount"`
	Count         PostCounts     `json:"_count"`
	IsLiked       *bool          `json:"isLiked,omitempty"`
}

// Pagination describes a page of results.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// PostListResponse is a page of posts.
type PostListResponse struct {
	Posts      []PostViewResponse `json:"posts"`
	Pagination Pagination         `json:"pagination"`
}

// LikeResponse is returned by the like toggle.
type LikeResponse struct {
	Message    string `json:"message"`
	Liked      bool   `json:"liked"`
	LikesCount int64  `json:"likesCount"`
}

// FavoriteResponse describes a stored favorite.
type FavoriteResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	PostID    int64     `json:"postId"`
	CreatedAt time.Time `json:"createdAt"`
}

// MessageResponse is a bare acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}
