package domain

import "time"

// User is an account able to author posts and comments.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	FullName     *string
	Bio          *string
	AvatarURL    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserSummary is the author block embedded in posts and comments.
type UserSummary struct {
	ID        int64
	Username  string
	FullName  *string
	AvatarURL *string
}

// UserProfile is a user together with aggregate counters.
type UserProfile struct {
	User
	PostsCount int64
}

// ProfileUpdate carries optional profile fields; nil leaves a field unchanged.
type ProfileUpdate struct {
	FullName  *string
	Bio       *string
	AvatarURL *string
}

// Summary projects the public author fields.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, FullName: u.FullName, AvatarURL: u.AvatarURL}
}
