package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/config"
)

// ErrNoRedis is returned by Ping when no client was built.
var ErrNoRedis = errors.New("redis not configured")

const (
	redisDialTimeout = 2 * time.Second
	redisIOTimeout   = time.Second
)

// Redis holds the client shared by the rate limiter and the readiness probe.
type Redis struct {
	Client *redis.Client
}

// NewRedis builds the client from a host:port address or a redis:// URL.
// An unreachable server is only logged: rate limiting fails open.
func NewRedis(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (*Redis, error) {
	opts, err := redisOptions(cfg)
	if err != nil {
		return nil, err
	}
	r := &Redis{Client: redis.NewClient(opts)}

	pingCtx, cancel := context.WithTimeout(ctx, redisDialTimeout)
	defer cancel()
	if err := r.Ping(pingCtx); err != nil {
		logger.Warn("redis unreachable, rate limiting disabled until it recovers",
			zap.String("addr", opts.Addr), zap.Error(err))
	} else {
		logger.Info("connected to redis", zap.String("addr", opts.Addr), zap.Int("db", opts.DB))
	}
	return r, nil
}

func redisOptions(cfg config.RedisConfig) (*redis.Options, error) {
	var opts *redis.Options
	if strings.HasPrefix(cfg.Addr, "redis://") || strings.HasPrefix(cfg.Addr, "rediss://") {
		parsed, err := redis.ParseURL(cfg.Addr)
		if err != nil {
			return nil, err
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}
	}
	opts.DialTimeout = redisDialTimeout
	opts.ReadTimeout = redisIOTimeout
	opts.WriteTimeout = redisIOTimeout
	return opts, nil
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return ErrNoRedis
	}
	return r.Client.Ping(ctx).Err()
}

// Status summarises connectivity for health responses.
func (r *Redis) Status(ctx context.Context) string {
	switch err := r.Ping(ctx); {
	case errors.Is(err, ErrNoRedis):
		return "disabled"
	case err != nil:
		return "unavailable"
	default:
		return "ok"
	}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}
