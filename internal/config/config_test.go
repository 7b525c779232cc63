package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "STORE_DRIVER", "REDIS_ADDR", "KAFKA_BROKERS", "CORS_ALLOWED_ORIGINS", "COOKIE_SECURE", "SESSION_TTL"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("COOKIE_SECURE", "false")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("AUTH_RATE_BURST", "3")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, 3, cfg.AuthRateBurst)
}

func TestLoadIgnoresBadValues(t *testing.T) {
	t.Setenv("SESSION_TTL", "-5m")
	t.Setenv("AUTH_RATE_LIMIT", "lots")

	cfg := Load()

	assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 5.0, cfg.AuthRateLimit)
}
