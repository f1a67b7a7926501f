package domain

import "time"

// Like marks a post as liked by a user. At most one per (user, post).
type Like struct {
	ID        int64
	UserID    int64
	PostID    int64
	CreatedAt time.Time
}

// Favorite bookmarks a post for a user. At most one per (user, post).
type Favorite struct {
	ID        int64
	UserID    int64
	PostID    int64
	CreatedAt time.Time
}
