// Package ratelimit caps requests per client with Redis fixed-window counters.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrRateLimited      = errors.New("rate limited")
	ErrRedisUnavailable = errors.New("redis unavailable")
)

const keyPrefix = "blog:ratelimit:"

// Config holds the window size and budget.
type Config struct {
	Max    int
	Window time.Duration
}

// Result describes the counter state after a hit.
type Result struct {
	Limit     int
	Remaining int
	ResetIn   time.Duration
}

// Limiter counts hits per key in fixed windows.
type Limiter struct {
	redis  redis.UniversalClient
	config Config
}

// New creates a Limiter backed by the given Redis client.
func New(client redis.UniversalClient, cfg Config) *Limiter {
	if cfg.Max <= 0 {
		cfg.Max = 100
	}
	if cfg.Window <= 0 {
		cfg.Window = 15 * time.Minute
	}
	return &Limiter{redis: client, config: cfg}
}

// Hit records one request for key. It returns ErrRateLimited once the
// window budget is spent and ErrRedisUnavailable when the counter cannot be read.
func (l *Limiter) Hit(ctx context.Context, key string) (Result, error) {
	redisKey := keyPrefix + key
	count, err := l.redis.Incr(ctx, redisKey).Result()
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	// The TTL is set on the first hit only so the window does not slide.
	if count == 1 {
		if err := l.redis.Expire(ctx, redisKey, l.config.Window).Err(); err != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}

	ttl, err := l.redis.TTL(ctx, redisKey).Result()
	if err != nil || ttl < 0 {
		ttl = l.config.Window
	}

	res := Result{Limit: l.config.Max, ResetIn: ttl}
	if remaining := l.config.Max - int(count); remaining > 0 {
		res.Remaining = remaining
	}
	if count > int64(l.config.Max) {
		return res, ErrRateLimited
	}
	return res, nil
}
