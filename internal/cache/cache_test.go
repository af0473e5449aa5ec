package cache

import (
	"context"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRedisCache_SetGet(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	c := NewRedisCache(redis.NewClient(&redis.Options{Addr: m.Addr()}), "test:")
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "k1")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, c.Set(ctx, "k1", []byte(`{"a":1}`), time.Minute))
	b, ok, err := c.Get(ctx, "k1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"a":1}`, string(b))
	require.True(t, m.Exists("test:k1"))
}

func TestRedisCache_TTLExpiry(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	c := NewRedisCache(redis.NewClient(&redis.Options{Addr: m.Addr()}), "")
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", []byte("v"), 2*time.Second))

	m.FastForward(3 * time.Second)
	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestKey_StableAndDistinct(t *testing.T) {
	require.Equal(t, Key("a", "b"), Key("a", "b"))
	require.NotEqual(t, Key("ab", ""), Key("a", "b"))
	require.Len(t, Key("x"), 64)
}
