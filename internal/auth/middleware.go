package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/domain"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

const identityKey = "auth_identity"

// AuthMiddleware validates bearer access tokens. Verification is purely
// cryptographic; no store lookup happens here.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Required rejects the request with Unauthenticated unless a valid access
// token is presented.
func (m *AuthMiddleware) Required(c *fiber.Ctx) error {
	token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return apperrors.NewUnauthenticated("missing or malformed authorization header")
	}

	claims, err := m.tokens.VerifyAccessToken(token)
	if err != nil {
		return apperrors.NewUnauthenticated("invalid or expired token")
	}

	c.Locals(identityKey, domain.Identity(domain.Authenticated{UserID: claims.UserID}))
	return c.Next()
}

// Optional attaches an Authenticated identity when a valid access token is
// presented and Anonymous otherwise. It never fails the request.
func (m *AuthMiddleware) Optional(c *fiber.Ctx) error {
	var identity domain.Identity = domain.Anonymous{}
	if token, ok := bearerToken(c.Get(fiber.HeaderAuthorization)); ok {
		if claims, err := m.tokens.VerifyAccessToken(token); err == nil {
			identity = domain.Authenticated{UserID: claims.UserID}
		}
	}

	c.Locals(identityKey, identity)
	return c.Next()
}

// IdentityFromContext returns the caller identity, Anonymous when no gate ran.
func IdentityFromContext(c *fiber.Ctx) domain.Identity {
	if identity, ok := c.Locals(identityKey).(domain.Identity); ok {
		return identity
	}
	return domain.Anonymous{}
}

// RequireUserID returns the authenticated user id or an Unauthenticated error.
func RequireUserID(c *fiber.Ctx) (int64, error) {
	if userID, ok := domain.UserIDOf(IdentityFromContext(c)); ok {
		return userID, nil
	}
	return 0, apperrors.NewUnauthenticated("authentication required")
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}
