package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/repository"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

// AuthService coordinates registration, login and token refresh.
type AuthService struct {
	users      repository.UserRepository
	tokens     *auth.TokenManager
	bcryptCost int
	logger     *zap.Logger
}

// RegisterInput describes a new account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName *string
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	User   *domain.User
	Tokens domain.TokenPair
}

// NewAuthService builds the service.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager, bcryptCost int, logger *zap.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, bcryptCost: bcryptCost, logger: logger}
}

// Register creates an account and issues both token classes.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Username:     input.Username,
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hash,
		FullName:     input.FullName,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			if strings.Contains(err.Error(), "email") {
				return nil, apperrors.NewConflict("email is already registered")
			}
			return nil, apperrors.NewConflict("username is already taken")
		}
		return nil, translate(err, "user")
	}

	tokens, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	s.logger.Info("user registered", zap.Int64("user_id", user.ID))
	return &AuthResult{User: user, Tokens: tokens}, nil
}

// Login authenticates by email and password. Unknown emails and wrong
// passwords fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NewInvalidCredentials()
		}
		return nil, translate(err, "user")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewInvalidCredentials()
	}

	tokens, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &AuthResult{User: user, Tokens: tokens}, nil
}

// Refresh mints a new access token from a valid refresh token. The refresh
// token is neither rotated nor revoked.
func (s *AuthService) Refresh(_ context.Context, refreshToken string) (domain.Token, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return domain.Token{}, apperrors.NewUnauthenticated("refresh token is required")
	}

	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		s.logger.Debug("refresh rejected", zap.Error(err))
		return domain.Token{}, apperrors.NewInvalidRefreshToken()
	}

	access, err := s.tokens.IssueAccessToken(claims.UserID)
	if err != nil {
		return domain.Token{}, apperrors.NewInternalError(err)
	}
	return access, nil
}
