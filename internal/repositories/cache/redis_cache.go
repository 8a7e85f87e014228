package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"compromisos/internal/apperrors"
	portsrepo "compromisos/internal/core/ports/repositories"
	"github.com/redis/go-redis/v9"
)

// RedisDashboardCache stores serialized dashboard responses in Redis. Entries
// carry a TTL and are never invalidated explicitly; keys embed the user's
// revision, so a stale entry is simply never asked for again.
type RedisDashboardCache struct {
	client *redis.Client
}

func NewRedisDashboardCache(addr, password string) *RedisDashboardCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	return &RedisDashboardCache{client: rdb}
}

// Ensure RedisDashboardCache implements portsrepo.DashboardCache
var _ portsrepo.DashboardCache = (*RedisDashboardCache)(nil)

func (c *RedisDashboardCache) Get(ctx context.Context, key string) ([]byte, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read cache key %s: %w", key, err)
	}
	return payload, nil
}

func (c *RedisDashboardCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}
	return nil
}

// Ping verifies the connection. Called once at startup so a misconfigured
// cache shows up in the logs rather than as silent recomputes.
func (c *RedisDashboardCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (c *RedisDashboardCache) Close() error {
	return c.client.Close()
}
