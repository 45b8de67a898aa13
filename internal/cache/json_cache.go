package cache

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/qa-forum/pkg/logger"
)

// JSONCache memoizes JSON-encoded values in Redis with a per-call TTL.
// A nil *JSONCache (or one without a client) is valid and always loads.
type JSONCache struct {
	client *redis.Client

	hits   atomic.Int64
	misses atomic.Int64
	loads  atomic.Int64
}

func New(client *redis.Client) *JSONCache {
	return &JSONCache{client: client}
}

// GetOrLoad returns the cached value under key, or calls load and stores its
// result for ttl. Redis errors are treated as misses.
func GetOrLoad[T any](ctx context.Context, c *JSONCache, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	if c == nil || c.client == nil {
		return load(ctx)
	}

	if data, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var out T
		if uErr := json.Unmarshal(data, &out); uErr == nil {
			c.hits.Add(1)
			return out, nil
		}
	} else if err != redis.Nil {
		logger.Debug("cache get failed", zap.String("key", key), zap.Error(err))
	}
	c.misses.Add(1)

	c.loads.Add(1)
	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	c.Set(ctx, key, v, ttl)
	return v, nil
}

// Set stores v under key. Failures are logged and ignored.
func (c *JSONCache) Set(ctx context.Context, key string, v interface{}, ttl time.Duration) {
	if c == nil || c.client == nil {
		return
	}
	payload, err := json.Marshal(v)
	if err != nil {
		logger.Warn("cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		logger.Debug("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *JSONCache) Delete(ctx context.Context, keys ...string) error {
	if c == nil || c.client == nil || len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// DeletePrefix removes every key starting with prefix using SCAN.
func (c *JSONCache) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	var (
		cursor  uint64
		removed int
	)
	for {
		keys, next, err := c.client.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			return removed, err
		}
		if len(keys) > 0 {
			n, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				return removed, err
			}
			removed += int(n)
		}
		if next == 0 {
			return removed, nil
		}
		cursor = next
	}
}

// ResetCounters clears recorded hit/miss counters.
func (c *JSONCache) ResetCounters() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.loads.Store(0)
}

// Counters reports cache effectiveness since the last reset.
func (c *JSONCache) Counters() Counters {
	return Counters{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Loads:  c.loads.Load(),
	}
}

// Counters summarises cache lookups during a run.
type Counters struct {
	Hits   int64
	Misses int64
	Loads  int64
}
