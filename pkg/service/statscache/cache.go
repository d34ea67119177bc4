// Package statscache caches computed alert statistics in Redis so that
// dashboard refreshes do not re-aggregate the full alert set on every hit.
package statscache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/redis/go-redis/v9"
	"github.com/umbrella-sec/umbrella/pkg/domain/model"
)

const keyPrefix = "umbrella:alert_stats:"

// Cache stores serialized AlertStats with a TTL
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a stats cache backed by the given Redis address
func New(ctx context.Context, addr string, ttl time.Duration) (*Cache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to connect to redis", goerr.V("addr", addr))
	}

	ctxlog.From(ctx).Info("Stats cache initialized", "addr", addr, "ttl", ttl)

	return &Cache{client: client, ttl: ttl}, nil
}

// Get returns cached stats for the key, or nil on a miss
func (c *Cache) Get(ctx context.Context, key string) (*model.AlertStats, error) {
	raw, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read stats cache", goerr.V("key", key))
	}

	var stats model.AlertStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, goerr.Wrap(err, "failed to decode cached stats", goerr.V("key", key))
	}

	return &stats, nil
}

// Set stores stats under the key with the configured TTL
func (c *Cache) Set(ctx context.Context, key string, stats *model.AlertStats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return goerr.Wrap(err, "failed to encode stats")
	}

	if err := c.client.Set(ctx, keyPrefix+key, raw, c.ttl).Err(); err != nil {
		return goerr.Wrap(err, "failed to write stats cache", goerr.V("key", key))
	}

	return nil
}

// Close closes the Redis client
func (c *Cache) Close() error {
	return c.client.Close()
}
