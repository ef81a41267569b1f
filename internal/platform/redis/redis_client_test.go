package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "")
	t.Setenv("REDIS_PASSWORD", "pw")
	t.Setenv("CACHE_TTL", "15m")

	cfg := LoadConfig()

	assert.True(t, cfg.Enabled())
	assert.Equal(t, "cache:6379", cfg.Addr())
	assert.Equal(t, "pw", cfg.Password)
	assert.Equal(t, 15*time.Minute, cfg.CacheTTL)

	t.Setenv("CACHE_TTL", "soon")
	assert.Equal(t, time.Hour, LoadConfig().CacheTTL)
}

func TestNewRedisClient_Disabled(t *testing.T) {
	t.Parallel()

	rdb, err := NewRedisClient(context.Background(), Config{})

	require.NoError(t, err)
	assert.Nil(t, rdb)
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	rdb, err := NewRedisClient(ctx, Config{Host: "127.0.0.1", Port: "1"})

	assert.Error(t, err)
	assert.Nil(t, rdb)
}
