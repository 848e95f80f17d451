package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "DB_DRIVER", "JWT_ACCESS_TTL", "WORKERS", "CORS_ORIGINS"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessTTL)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("DB_DRIVER", "Mongo")
	t.Setenv("JWT_ACCESS_TTL", "5m")
	t.Setenv("WORKERS", "8")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")

	cfg := Load()
	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "mongo", cfg.DBDriver)
	assert.Equal(t, 5*time.Minute, cfg.JWTAccessTTL)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoadIgnoresBadNumbers(t *testing.T) {
	t.Setenv("WORKERS", "many")
	t.Setenv("JWT_REFRESH_TTL", "-1h")

	cfg := Load()
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTRefreshTTL)
}
