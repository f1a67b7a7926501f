package domain

import "time"

// TokenClass separates access tokens from refresh tokens.
type TokenClass string

const (
	TokenClassAccess  TokenClass = "access"
	TokenClassRefresh TokenClass = "refresh"
)

// Token is a signed credential with its expiry.
type Token struct {
	Value     string
	Class     TokenClass
	ExpiresAt time.Time
}

// TokenPair is issued on login and registration.
type TokenPair struct {
	Access  Token
	Refresh Token
}
