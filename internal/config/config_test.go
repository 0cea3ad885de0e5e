package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"PORT", "LOG_LEVEL", "CLIENT_ORIGIN", "PUBLIC_ORIGIN", "STORE_BACKEND",
		"DATABASE_PATH", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
	} {
		t.Setenv(k, "")
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	c, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "5175", c.Port)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, BackendSQLite, c.StoreBackend)
	assert.Equal(t, "http://localhost:5173", c.PublicOrigin)
	assert.Equal(t, 0, c.RedisDB)
}

func TestOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_BACKEND", "Redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CLIENT_ORIGIN", "https://app.example")
	t.Setenv("PUBLIC_ORIGIN", "https://share.example")

	c, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, BackendRedis, c.StoreBackend)
	assert.Equal(t, 3, c.RedisDB)
	assert.Equal(t, "https://share.example", c.PublicOrigin)
}

func TestPublicOriginFallsBackToClientOrigin(t *testing.T) {
	clearEnv(t)
	t.Setenv("CLIENT_ORIGIN", "https://app.example")
	c, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "https://app.example", c.PublicOrigin)
}

func TestRejectsBadValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_BACKEND", "postgres")
	_, err := FromEnv()
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("REDIS_DB", "one")
	_, err = FromEnv()
	assert.Error(t, err)
}
