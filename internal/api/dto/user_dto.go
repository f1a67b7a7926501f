package dto

import "time"

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=50"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6,max=100"`
	FullName *string `json:"fullName" validate:"omitempty,max=100"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// RefreshRequest carries the refresh token. Presence is checked by the service.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// AuthUser is the account block of auth responses.
type AuthUser struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	FullName *string `json:"fullName"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Message      string   `json:"message"`
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	User         AuthUser `json:"user"`
}

// RefreshResponse carries the new access token.
type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

// UpdateProfileRequest payload for PATCH /users/me.
type UpdateProfileRequest struct {
	FullName  *string `json:"fullName" validate:"omitempty,max=100"`
	Bio       *string `json:"bio" validate:"omitempty,max=500"`
	AvatarURL *string `json:"avatarUrl" validate:"omitempty,url"`
}

// AuthorResponse is the author block embedded in posts and comments.
type AuthorResponse struct {
	ID        int64   `json:"id"`
	Username  string  `json:"username"`
	FullName  *string `json:"fullName,omitempty"`
	AvatarURL *string `json:"avatarUrl"`
}

// PublicUserResponse omits private fields such as email.
type PublicUserResponse struct {
	ID        int64   `json:"id"`
	Username  string  `json:"username"`
	FullName  *string `json:"fullName"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatarUrl"`
}

// ProfileCounts aggregates profile counters.
type ProfileCounts struct {
	Posts int64 `json:"posts"`
}

// ProfileResponse is a user profile. Email is only set for the owner.
type ProfileResponse struct {
	ID         int64         `json:"id"`
	Username   string        `json:"username"`
	Email      string        `json:"email,omitempty"`
	FullName   *string       `json:"fullName"`
	Bio        *string       `json:"bio"`
	AvatarURL  *string       `json:"avatarUrl"`
	CreatedAt  time.Time     `json:"createdAt"`
	PostsCount int64         `json:"postsCount"`
	Count      ProfileCounts `json:"_count"`
}
