package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"todo-web/pkg/logger"
)

// Open connects to Redis and verifies the connection with a ping.
func Open(ctx context.Context, url string, poolSize int) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if poolSize > 0 {
		opts.PoolSize = poolSize
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	logger.Info(ctx, "Redis client initialized", "pool_size", opts.PoolSize)
	return client, nil
}

// TodoCache stores encoded todo lists keyed by store version. Entries are
// namespaced per server instance because each instance owns its own store.
// A nil *TodoCache is valid and behaves as an always-missing cache.
type TodoCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// New wraps client. A nil client yields a nil cache.
func New(client *redis.Client, instance string, ttl time.Duration) *TodoCache {
	if client == nil {
		return nil
	}
	return &TodoCache{
		client: client,
		prefix: "todos:" + instance,
		ttl:    ttl,
	}
}

// Key returns the cache key of the list at version.
func (c *TodoCache) Key(version uint64) string {
	return fmt.Sprintf("%s:v%d", c.prefix, version)
}

// GetRawTodos reads the encoded list for version. Returns (nil, false) on miss or error.
func (c *TodoCache) GetRawTodos(ctx context.Context, version uint64) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	b, err := c.client.Get(ctx, c.Key(version)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		logger.Debug(ctx, "Redis get todos failed", "error", err)
		return nil, false
	}
	return b, true
}

// SetRawTodos writes the encoded list for version with the configured TTL.
func (c *TodoCache) SetRawTodos(ctx context.Context, version uint64, b []byte) {
	if c == nil {
		return
	}
	if err := c.client.Set(ctx, c.Key(version), b, c.ttl).Err(); err != nil {
		logger.Debug(ctx, "Redis set todos failed", "error", err)
	}
}

// InvalidateTodos deletes the entry for a superseded version.
func (c *TodoCache) InvalidateTodos(ctx context.Context, version uint64) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, c.Key(version)).Err(); err != nil {
		logger.Debug(ctx, "Redis invalidate todos failed", "error", err)
	}
}

// Ping checks that Redis is reachable.
func (c *TodoCache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (c *TodoCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
