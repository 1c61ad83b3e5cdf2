package cache

import (
	"context"
	"net"
	"os"
	"testing"
	"time"

	"turf-hire/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedis_DisabledDegradesGracefully(t *testing.T) {
	ctx := context.Background()
	r := NewRedis(ctx, config.RedisConfig{Enabled: false}, nil)

	var out map[string]string
	found, err := r.GetJSON(ctx, "skills:catalog", &out)
	require.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, r.SetJSON(ctx, "skills:catalog", map[string]string{"a": "b"}, 0))
	assert.NoError(t, r.Delete(ctx, "skills:catalog"))
	assert.Error(t, r.Ping(ctx))

	token, ok, err := r.AcquireLock(ctx, "claims:lock:u:s", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotEmpty(t, token)
	assert.NoError(t, r.ReleaseLock(ctx, "claims:lock:u:s", token))
	assert.NoError(t, r.Close())
}

func TestRedis_UnreachableHostFallsBack(t *testing.T) {
	ctx := context.Background()
	r := NewRedis(ctx, config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: "1"}, nil)

	assert.True(t, r.isUnavailable())
	assert.Equal(t, 10*time.Minute, r.ttl)
}

func TestRedis_NilReceiver(t *testing.T) {
	var r *Redis
	found, err := r.GetJSON(context.Background(), "k", &struct{}{})
	assert.NoError(t, err)
	assert.False(t, found)
}

func liveRedis(t *testing.T) *Redis {
	t.Helper()
	addr := os.Getenv("TURFHIRE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TURFHIRE_TEST_REDIS_ADDR not set")
	}
	host, port, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	r := NewRedis(context.Background(), config.RedisConfig{Enabled: true, Host: host, Port: port}, nil)
	require.False(t, r.isUnavailable(), "redis at %s unreachable", addr)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestRedis_ReleaseOnlyWithOwnToken(t *testing.T) {
	r := liveRedis(t)
	ctx := context.Background()
	key := "claims:lock:test:" + t.Name()
	t.Cleanup(func() { _ = r.Delete(ctx, key) })

	first, ok, err := r.AcquireLock(ctx, key, 50*time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = r.AcquireLock(ctx, key, time.Second)
	require.NoError(t, err)
	assert.False(t, ok)

	time.Sleep(100 * time.Millisecond)
	second, ok, err := r.AcquireLock(ctx, key, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotEqual(t, first, second)

	require.NoError(t, r.ReleaseLock(ctx, key, first))
	held, err := r.client.Get(ctx, key).Result()
	require.NoError(t, err)
	assert.Equal(t, second, held)

	require.NoError(t, r.ReleaseLock(ctx, key, second))
	assert.Zero(t, r.client.Exists(ctx, key).Val())
}
