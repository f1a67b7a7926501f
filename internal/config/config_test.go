package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("AUTH_JWT_ACCESS_SECRET", "")
	t.Setenv("AUTH_JWT_REFRESH_SECRET", "")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "")
	t.Setenv("AUTH_REFRESH_TOKEN_TTL_HOURS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, time.Hour, cfg.Auth.AccessTTL())
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.RefreshTTL())
	assert.NotEqual(t, cfg.Auth.AccessSecret, cfg.Auth.RefreshSecret)
	assert.Equal(t, 100, cfg.RateLimit.Max)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.Window())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_HOST", "127.0.0.1")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "5")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("POSTGRES_MAX_CONNS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.App.Addr())
	assert.Equal(t, 5*time.Minute, cfg.Auth.AccessTTL())
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, int32(10), cfg.Postgres.MaxConns)
}

func TestLoadRejectsInvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "x")
	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			App:  AppConfig{Env: "development"},
			Auth: AuthConfig{AccessSecret: "a", RefreshSecret: "b"},
		}
	}

	assert.NoError(t, base().Validate())

	same := base()
	same.Auth.RefreshSecret = "a"
	assert.ErrorContains(t, same.Validate(), "must differ")

	empty := base()
	empty.Auth.AccessSecret = " "
	assert.ErrorContains(t, empty.Validate(), "must be provided")

	prod := base()
	prod.App.Env = "production"
	prod.Auth.AccessSecret = devAccessSecret
	assert.ErrorContains(t, prod.Validate(), "production")
}

func TestRequestTimeout(t *testing.T) {
	assert.Equal(t, time.Duration(0), AppConfig{}.RequestTimeout())
	assert.Equal(t, 3*time.Second, AppConfig{RequestTimeoutSeconds: 3}.RequestTimeout())
}
