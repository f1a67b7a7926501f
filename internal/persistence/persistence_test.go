package persistence

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/config"
)

func TestRunMigrationsWithoutPoolIsNoop(t *testing.T) {
	assert.NoError(t, RunMigrations(context.Background(), nil, zap.NewNop()))
}

func TestEmbeddedMigrationsAreGooseAnnotated(t *testing.T) {
	names, err := fs.Glob(migrationFS, "migrations/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	for _, name := range names {
		body, err := fs.ReadFile(migrationFS, name)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(body), "-- +goose Up"), name)
		assert.Contains(t, string(body), "-- +goose Down", name)
	}
}

func TestPostgresWithoutDSN(t *testing.T) {
	pg, err := NewPostgres(context.Background(), config.PostgresConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, pg.Enabled())
	assert.ErrorIs(t, pg.Ping(context.Background()), ErrNoDatabase)
	pg.Close()
}

func TestRedisPingAndStatus(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()
	r, err := NewRedis(ctx, config.RedisConfig{Addr: mr.Addr()}, zap.NewNop())
	require.NoError(t, err)
	defer r.Close()

	assert.NoError(t, r.Ping(ctx))
	assert.Equal(t, "ok", r.Status(ctx))

	mr.Close()
	assert.Error(t, r.Ping(ctx))
	assert.Equal(t, "unavailable", r.Status(ctx))

	var missing *Redis
	assert.ErrorIs(t, missing.Ping(ctx), ErrNoRedis)
	assert.Equal(t, "disabled", missing.Status(ctx))
}

func TestRedisOptionsAcceptURLs(t *testing.T) {
	opts, err := redisOptions(config.RedisConfig{Addr: "redis://:secret@cache.internal:6380/2"})
	require.NoError(t, err)
	assert.Equal(t, "cache.internal:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, redisDialTimeout, opts.DialTimeout)

	opts, err = redisOptions(config.RedisConfig{Addr: "127.0.0.1:6379", DB: 1})
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:6379", opts.Addr)
	assert.Equal(t, 1, opts.DB)

	_, err = redisOptions(config.RedisConfig{Addr: "redis://bad host:x"})
	assert.Error(t, err)
}
