package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "HTTP_PORT", "STORE_BACKEND", "REDIS_ADDR", "AUTH_ENABLED", "ALLOWED_ORIGINS", "CACHE_TTL"} {
		t.Setenv(k, "")
	}

	cfg := FromEnv()
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "8081", cfg.HTTPPort)
	assert.Equal(t, "postgres", cfg.StoreBackend)
	assert.Empty(t, cfg.RedisAddr)
	assert.False(t, cfg.AuthEnabled)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.False(t, cfg.Production())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("RATE_LIMIT_PER_MIN", "30")
	t.Setenv("STREAM_HEARTBEAT", "5s")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")

	cfg := FromEnv()
	assert.True(t, cfg.Production())
	assert.True(t, cfg.AuthEnabled)
	assert.Equal(t, 30, cfg.RateLimitPerMin)
	assert.Equal(t, 5*time.Second, cfg.StreamHeartbeat)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestFromEnvInvalidFallsBack(t *testing.T) {
	t.Setenv("RATE_LIMIT_PER_MIN", "lots")
	t.Setenv("CACHE_TTL", "soon")
	t.Setenv("AUTH_ENABLED", "maybe")

	cfg := FromEnv()
	assert.Equal(t, 240, cfg.RateLimitPerMin)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.False(t, cfg.AuthEnabled)
}
