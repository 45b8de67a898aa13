package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newTestCache(t *testing.T) (*JSONCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client), mr
}

func TestGetOrLoad_MissThenHit(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	calls := 0
	load := func(context.Context) ([]item, error) {
		calls++
		return []item{{Name: "a", Count: 1}}, nil
	}

	first, err := GetOrLoad(ctx, c, "k", time.Minute, load)
	require.NoError(t, err)
	second, err := GetOrLoad(ctx, c, "k", time.Minute, load)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
	assert.Equal(t, Counters{Hits: 1, Misses: 1, Loads: 1}, c.Counters())
	assert.True(t, mr.Exists("k"))
}

func TestGetOrLoad_ExpiresAfterTTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	calls := 0
	load := func(context.Context) (int, error) {
		calls++
		return calls, nil
	}

	v, err := GetOrLoad(ctx, c, "ttl", 30*time.Second, load)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	mr.FastForward(31 * time.Second)

	v, err = GetOrLoad(ctx, c, "ttl", 30*time.Second, load)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestGetOrLoad_LoadErrorIsNotCached(t *testing.T) {
	c, mr := newTestCache(t)
	boom := errors.New("boom")

	_, err := GetOrLoad(context.Background(), c, "err", time.Minute, func(context.Context) (int, error) {
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("err"))
}

func TestGetOrLoad_NilCacheAlwaysLoads(t *testing.T) {
	var c *JSONCache
	calls := 0
	for i := 0; i < 3; i++ {
		_, err := GetOrLoad(context.Background(), c, "k", time.Minute, func(context.Context) (int, error) {
			calls++
			return 0, nil
		})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, calls)
}

func TestGetOrLoad_RedisDownFallsBackToLoad(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()

	v, err := GetOrLoad(context.Background(), c, "k", time.Minute, func(context.Context) (string, error) {
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)
}

func TestDeletePrefix(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "leaderboard:top:1", 1, time.Minute)
	c.Set(ctx, "leaderboard:top:10", 10, time.Minute)
	c.Set(ctx, "tags:popular", 3, time.Minute)

	n, err := c.DeletePrefix(ctx, "leaderboard:")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.False(t, mr.Exists("leaderboard:top:1"))
	assert.True(t, mr.Exists("tags:popular"))
}
