package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assetguard/internal/platform/config"
)

func TestNewWithoutURL(t *testing.T) {
	client, err := New(context.Background(), config.RedisConfig{})
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New(context.Background(), config.RedisConfig{URL: "http://localhost:6379"})
	assert.ErrorContains(t, err, "parse redis URL")
}

func TestOptionsOverrides(t *testing.T) {
	opts, err := options(config.RedisConfig{
		URL:          "redis://cache.internal:6380/2",
		PoolSize:     20,
		MinIdleConns: 3,
		DialTimeout:  2 * time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, "cache.internal:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 20, opts.PoolSize)
	assert.Equal(t, 3, opts.MinIdleConns)
	assert.Equal(t, 2*time.Second, opts.DialTimeout)
}

func TestOptionsKeepsURLDefaults(t *testing.T) {
	opts, err := options(config.RedisConfig{URL: "redis://localhost:6379"})
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)
	assert.Zero(t, opts.PoolSize)
}
