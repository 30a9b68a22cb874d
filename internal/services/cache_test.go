package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedValue struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newTestCache(t *testing.T) (*CacheService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCacheService(client), mr
}

func TestCacheService_SetGetDelete(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()
	key := SessionCacheKey("abc")

	require.NoError(t, cache.Set(ctx, key, cachedValue{Name: "x", Count: 2}, time.Minute))

	var got cachedValue
	require.NoError(t, cache.Get(ctx, key, &got))
	assert.Equal(t, cachedValue{Name: "x", Count: 2}, got)

	exists, err := cache.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, cache.Delete(ctx, key))
	assert.ErrorIs(t, cache.Get(ctx, key, &got), ErrCacheMiss)
}

func TestCacheService_Expiry(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.SetWithRetry(ctx, "k", 1, time.Second, 3))
	mr.FastForward(2 * time.Second)

	var n int
	assert.ErrorIs(t, cache.Get(ctx, "k", &n), ErrCacheMiss)
}

func TestCacheService_Ping(t *testing.T) {
	cache, mr := newTestCache(t)
	require.NoError(t, cache.Ping(context.Background()))

	mr.Close()
	assert.Error(t, cache.Ping(context.Background()))
}

func TestSessionCacheKey(t *testing.T) {
	assert.Equal(t, "megasena:session:abc", SessionCacheKey("abc"))
}
