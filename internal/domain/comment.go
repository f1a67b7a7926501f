package domain

import "time"

// Comment belongs to a post and optionally replies to another comment of the same post.
type Comment struct {
	ID        int64
	PostID    int64
	AuthorID  int64
	ParentID  *int64
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CommentView is a comment with its author and nested replies.
type CommentView struct {
	Comment
	Author  UserSummary
	Replies []CommentView
}
