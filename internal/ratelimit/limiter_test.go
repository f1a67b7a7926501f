package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestHitEnforcesBudget(t *testing.T) {
	_, client := newTestRedis(t)
	limiter := New(client, Config{Max: 2, Window: time.Minute})
	ctx := context.Background()

	res, err := limiter.Hit(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Remaining)

	res, err = limiter.Hit(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Remaining)

	_, err = limiter.Hit(ctx, "1.2.3.4")
	assert.ErrorIs(t, err, ErrRateLimited)

	_, err = limiter.Hit(ctx, "5.6.7.8")
	assert.NoError(t, err, "keys are counted independently")
}

func TestWindowResets(t *testing.T) {
	mr, client := newTestRedis(t)
	limiter := New(client, Config{Max: 1, Window: time.Minute})
	ctx := context.Background()

	_, err := limiter.Hit(ctx, "k")
	require.NoError(t, err)
	_, err = limiter.Hit(ctx, "k")
	require.ErrorIs(t, err, ErrRateLimited)

	mr.FastForward(61 * time.Second)

	_, err = limiter.Hit(ctx, "k")
	assert.NoError(t, err)
}

func TestHitReportsUnavailableRedis(t *testing.T) {
	mr, client := newTestRedis(t)
	limiter := New(client, Config{Max: 1, Window: time.Minute})
	mr.Close()

	_, err := limiter.Hit(context.Background(), "k")
	assert.ErrorIs(t, err, ErrRedisUnavailable)
}

func newLimitedApp(limiter *Limiter) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).SendString(de.Code)
		},
	})
	app.Use(Middleware(limiter, zap.NewNop()))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })
	return app
}

func TestMiddlewareRejectsOverBudget(t *testing.T) {
	_, client := newTestRedis(t)
	app := newLimitedApp(New(client, Config{Max: 1, Window: time.Minute}))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("X-RateLimit-Limit"))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderRetryAfter))
}

func TestMiddlewareFailsOpen(t *testing.T) {
	mr, client := newTestRedis(t)
	app := newLimitedApp(New(client, Config{Max: 1, Window: time.Minute}))
	mr.Close()

	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
}
