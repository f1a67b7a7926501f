package domain

import "time"

// Post is a blog article. AuthorID is fixed at creation.
type Post struct {
	ID         int64
	AuthorID   int64
	Title      string
	Content    string
	Slug       string
	Published  bool
	Tags       []string
	ViewsCount int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PostView is a post joined with its author and engagement counters.
type PostView struct {
	Post
	Author        UserSummary
	LikesCount    int64
	CommentsCount int64
}

// PostUpdate carries optional post fields; nil leaves a field unchanged.
type PostUpdate struct {
	Title     *string
	Content   *string
	Published *bool
	Tags      []string
}

// PostFilter narrows post listings. Listings only include published posts.
type PostFilter struct {
	AuthorID *int64
	Search   string
	Limit    int
	Offset   int
}
