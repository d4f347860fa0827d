package comparison

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache holds recently read comparisons. Records never change after insert,
// so entries need no invalidation.
type Cache interface {
	Get(ctx context.Context, id int64) (*Comparison, bool, error)
	Set(ctx context.Context, c *Comparison) error
}

// RedisCache stores comparisons as JSON in Redis.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a cache on an existing client. A zero ttl keeps
// entries until Redis evicts them.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func cacheKey(id int64) string {
	return fmt.Sprintf("comparison:%d", id)
}

// Get returns the cached comparison, or false on a miss.
func (r *RedisCache) Get(ctx context.Context, id int64) (*Comparison, bool, error) {
	val, err := r.client.Get(ctx, cacheKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache: %w", err)
	}

	var c Comparison
	if err := json.Unmarshal(val, &c); err != nil {
		return nil, false, fmt.Errorf("decoding cached comparison %d: %w", id, err)
	}
	return &c, true, nil
}

// Set stores a comparison under its ID.
func (r *RedisCache) Set(ctx context.Context, c *Comparison) error {
	val, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding comparison %d: %w", c.ID, err)
	}
	if err := r.client.Set(ctx, cacheKey(c.ID), val, r.ttl).Err(); err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	return nil
}

// nopCache is used when no cache is configured.
type nopCache struct{}

func (nopCache) Get(context.Context, int64) (*Comparison, bool, error) { return nil, false, nil }
func (nopCache) Set(context.Context, *Comparison) error                { return nil }
