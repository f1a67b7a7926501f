package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/blog-service/internal/domain"
)

var (
	// ErrInvalidToken covers malformed, forged, wrong-class and expired tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is returned (wrapped in ErrInvalidToken) for expired tokens.
	ErrTokenExpired = errors.New("token expired")
)

// TokenConfig configures both token classes.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// TokenManager issues and verifies access and refresh tokens. Each class is
// signed with its own secret and tagged with its class.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// Claims describes the JWT payload.
type Claims struct {
	UserID int64             `json:"userId"`
	Class  domain.TokenClass `json:"typ"`
	jwt.RegisteredClaims
}

// NewTokenManager builds a new manager.
func NewTokenManager(cfg TokenConfig) (*TokenManager, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, errors.New("jwt secrets must be provided")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, errors.New("access and refresh secrets must differ")
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = time.Hour
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	return &TokenManager{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		now:           time.Now,
	}, nil
}

// WithClock returns a copy of the manager reading time from now.
func (tm *TokenManager) WithClock(now func() time.Time) *TokenManager {
	clone := *tm
	clone.now = now
	return &clone
}

// IssueAccessToken signs a short-lived access token for userID.
func (tm *TokenManager) IssueAccessToken(userID int64) (domain.Token, error) {
	return tm.issue(userID, domain.TokenClassAccess)
}

// IssueRefreshToken signs a long-lived refresh token for userID.
func (tm *TokenManager) IssueRefreshToken(userID int64) (domain.Token, error) {
	return tm.issue(userID, domain.TokenClassRefresh)
}

// IssuePair signs one token of each class.
func (tm *TokenManager) IssuePair(userID int64) (domain.TokenPair, error) {
	access, err := tm.IssueAccessToken(userID)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, err := tm.IssueRefreshToken(userID)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{Access: access, Refresh: refresh}, nil
}

// VerifyAccessToken validates an access token and returns its claims.
func (tm *TokenManager) VerifyAccessToken(tokenStr string) (*Claims, error) {
	return tm.verify(tokenStr, domain.TokenClassAccess)
}

// VerifyRefreshToken validates a refresh token and returns its claims.
func (tm *TokenManager) VerifyRefreshToken(tokenStr string) (*Claims, error) {
	return tm.verify(tokenStr, domain.TokenClassRefresh)
}

func (tm *TokenManager) issue(userID int64, class domain.TokenClass) (domain.Token, error) {
	issuedAt := tm.now()
	expiresAt := issuedAt.Add(tm.ttl(class))
	claims := &Claims{
		UserID: userID,
		Class:  class,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret(class))
	if err != nil {
		return domain.Token{}, err
	}
	return domain.Token{Value: tokenString, Class: class, ExpiresAt: expiresAt}, nil
}

func (tm *TokenManager) verify(tokenStr string, class domain.TokenClass) (*Claims, error) {
	if tokenStr == "" {
		return nil, ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret(class), nil
	}, jwt.WithTimeFunc(tm.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidToken, ErrTokenExpired)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Class != class || claims.UserID <= 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (tm *TokenManager) secret(class domain.TokenClass) []byte {
	if class == domain.TokenClassRefresh {
		return tm.refreshSecret
	}
	return tm.accessSecret
}

func (tm *TokenManager) ttl(class domain.TokenClass) time.Duration {
	if class == domain.TokenClassRefresh {
		return tm.refreshTTL
	}
	return tm.accessTTL
}
