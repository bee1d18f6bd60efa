package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ENVIRONMENT", "test")

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, "postgres", c.DatabaseDriver)
	assert.Equal(t, 720*time.Hour, c.JWTExpiry)
	assert.Equal(t, 10, c.BcryptCost)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, c.CORSOrigins)
	assert.Equal(t, "5-M", c.ContactRateLimit)
	assert.Empty(t, c.TrustedProxies)
	assert.Equal(t, int32(10), c.DBMaxConns)
	assert.Equal(t, int32(2), c.DBMinConns)
	assert.Equal(t, 15*time.Minute, c.DBMaxConnIdleTime)
	assert.False(t, c.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DATABASE_DRIVER", "memory")
	t.Setenv("JWT_EXPIRE", "24h")
	t.Setenv("CORS_ORIGINS", " https://pixelcraft.studio , ")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 172.16.0.1")
	t.Setenv("DB_MAX_CONNS", "40")

	c, err := Load()
	require.NoError(t, err)

	assert.True(t, c.IsProduction())
	assert.Equal(t, "memory", c.DatabaseDriver)
	assert.Equal(t, 24*time.Hour, c.JWTExpiry)
	assert.Equal(t, []string{"https://pixelcraft.studio"}, c.CORSOrigins)
	assert.Equal(t, []string{"10.0.0.0/8", "172.16.0.1"}, c.TrustedProxies)
	assert.Equal(t, int32(40), c.DBMaxConns)
}

func TestLoadRejectsMissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DATABASE_DRIVER", "sqlite")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsMinConnsAboveMax(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DB_MAX_CONNS", "4")
	t.Setenv("DB_MIN_CONNS", "8")

	_, err := Load()
	assert.Error(t, err)
}
