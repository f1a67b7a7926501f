package ratelimit

import (
	"errors"
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

// Middleware limits requests per client IP. Redis failures let the request through.
func Middleware(limiter *Limiter, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := limiter.Hit(c.UserContext(), c.IP())
		switch {
		case errors.Is(err, ErrRedisUnavailable):
			logger.Warn("rate limiter unavailable", zap.Error(err))
			return c.Next()
		case err != nil && !errors.Is(err, ErrRateLimited):
			return err
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		c.Set("X-RateLimit-Reset", strconv.Itoa(int(math.Ceil(res.ResetIn.Seconds()))))

		if errors.Is(err, ErrRateLimited) {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(res.ResetIn.Seconds()))))
			return apperrors.NewRateLimited()
		}
		return c.Next()
	}
}
