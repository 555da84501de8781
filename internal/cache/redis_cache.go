package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// ErrCacheMiss is returned by Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

type CacheService interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, key string) error
	DeletePattern(ctx context.Context, pattern string) error
	CacheOrExecute(ctx context.Context, key string, dest interface{}, ttl time.Duration, load func(ctx context.Context) (interface{}, error)) error
}

type redisCache struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
	sf     singleflight.Group
}

// NewRedisCache returns a JSON cache whose keys are namespaced by prefix. A nil
// client yields a cache that always misses, so callers work without Redis.
func NewRedisCache(client *redis.Client, prefix string, logger *slog.Logger) CacheService {
	if logger == nil {
		logger = slog.Default()
	}
	return &redisCache{
		client: client,
		prefix: prefix,
		logger: logger.With("component", "cache", "namespace", prefix),
	}
}

func (r *redisCache) key(key string) string {
	return r.prefix + ":" + key
}

func (r *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if r.client == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	if err := r.client.Set(ctx, r.key(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache key %s: %w", key, err)
	}
	return nil
}

func (r *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	if r.client == nil {
		return ErrCacheMiss
	}
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return fmt.Errorf("failed to get cache key %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return nil
}

func (r *redisCache) Delete(ctx context.Context, key string) error {
	if r.client == nil {
		return nil
	}
	return r.client.Del(ctx, r.key(key)).Err()
}

func (r *redisCache) DeletePattern(ctx context.Context, pattern string) error {
	if r.client == nil {
		return nil
	}

	iter := r.client.Scan(ctx, 0, r.key(pattern), 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache pattern %s: %w", pattern, err)
	}
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

// CacheOrExecute fills dest from the cache, or runs load, stores its result
// and copies it into dest. Concurrent misses for the same key share one load.
// The shared load runs without the starting caller's cancellation, so one
// caller going away does not fail the others waiting on it.
// Redis failures are logged and fall through to load.
func (r *redisCache) CacheOrExecute(ctx context.Context, key string, dest interface{}, ttl time.Duration, load func(ctx context.Context) (interface{}, error)) error {
	err := r.Get(ctx, key, dest)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		r.logger.Warn("Cache read failed, loading from source", "key", key, "error", err)
	}

	flightCtx := context.WithoutCancel(ctx)
	value, err, _ := r.sf.Do(key, func() (interface{}, error) {
		v, err := load(flightCtx)
		if err != nil {
			return nil, err
		}
		if setErr := r.Set(flightCtx, key, v, ttl); setErr != nil {
			r.logger.Warn("Cache write failed", "key", key, "error", setErr)
		}
		return v, nil
	})
	if err != nil {
		return err
	}

	// Round-trip through JSON so dest never aliases a value shared with other callers.
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal loaded value: %w", err)
	}
	return json.Unmarshal(data, dest)
}

// SafeInvalidatePattern deletes matching keys and only logs failures.
func SafeInvalidatePattern(ctx context.Context, c CacheService, pattern string, logger *slog.Logger) {
	if err := c.DeletePattern(ctx, pattern); err != nil && logger != nil {
		logger.Warn("Cache invalidation failed", "pattern", pattern, "error", err)
	}
}
