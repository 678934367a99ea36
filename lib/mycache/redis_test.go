package mycache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tour struct {
	ID    int64
	Title string
}

func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() {
		client.Close()
	})

	return NewRedisCache(client), mr
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()

	t.Run("Miss", func(t *testing.T) {
		cache, _ := setupTestRedis(t)

		value := tour{}
		err := cache.Get(ctx, "product-list:16220:EN", &value)
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("Set then get", func(t *testing.T) {
		cache, mr := setupTestRedis(t)

		err := cache.Set(ctx, "tour:42", tour{ID: 42, Title: "Old town walk"}, 5*time.Minute)
		require.NoError(t, err)
		assert.True(t, mr.Exists("booking:tour:42"))
		assert.Equal(t, 5*time.Minute, mr.TTL("booking:tour:42"))

		value := tour{}
		err = cache.Get(ctx, "tour:42", &value)
		require.NoError(t, err)
		assert.Equal(t, tour{ID: 42, Title: "Old town walk"}, value)
	})

	t.Run("Expired", func(t *testing.T) {
		cache, mr := setupTestRedis(t)

		err := cache.Set(ctx, "tour:1", tour{ID: 1}, time.Minute)
		require.NoError(t, err)
		mr.FastForward(2 * time.Minute)

		err = cache.Get(ctx, "tour:1", &tour{})
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("Invalid json", func(t *testing.T) {
		cache, mr := setupTestRedis(t)

		require.NoError(t, mr.Set("booking:tour:2", `{"ID":`))

		err := cache.Get(ctx, "tour:2", &tour{})
		require.ErrorContains(t, err, "unmarshal tour:2 failed")
	})

	t.Run("Ping", func(t *testing.T) {
		cache, mr := setupTestRedis(t)
		assert.NoError(t, cache.Ping(ctx))

		mr.Close()
		assert.Error(t, cache.Ping(ctx))
	})
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("Without address", func(t *testing.T) {
		cache, cleanup, err := New(ctx, "", "")
		require.NoError(t, err)
		defer cleanup()

		assert.NoError(t, cache.Set(ctx, "k", "v", time.Minute))
		var value string
		assert.ErrorIs(t, cache.Get(ctx, "k", &value), ErrCacheMiss)
	})

	t.Run("With address", func(t *testing.T) {
		mr := miniredis.RunT(t)

		cache, cleanup, err := New(ctx, mr.Addr(), "")
		require.NoError(t, err)
		defer cleanup()

		assert.NoError(t, cache.Set(ctx, "k", "v", time.Minute))
		var value string
		assert.NoError(t, cache.Get(ctx, "k", &value))
		assert.Equal(t, "v", value)
	})
}
