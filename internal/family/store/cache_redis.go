package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	id "nachlass/pkg/domain"
	"nachlass/pkg/platform/sentinel"

	"nachlass/internal/family/rules"
)

const groupViewKeyPrefix = "family:groups:"

// RedisGroupCache caches the grouped family view per universe. The view is
// derived data, so every member write must invalidate it; a stale read is
// worse than a recomputation.
type RedisGroupCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisGroupCache constructs a Redis-backed group view cache.
func NewRedisGroupCache(client *redis.Client, ttl time.Duration) *RedisGroupCache {
	return &RedisGroupCache{
		client: client,
		ttl:    ttl,
	}
}

// Get returns the cached group view, or sentinel.ErrNotFound on a miss.
func (c *RedisGroupCache) Get(ctx context.Context, universeID id.UniverseID) ([]rules.Group, error) {
	raw, err := c.client.Get(ctx, groupViewKey(universeID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("group view cache miss: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get group view: %w", err)
	}
	var groups []rules.Group
	if err := json.Unmarshal(raw, &groups); err != nil {
		return nil, fmt.Errorf("decode group view: %w", err)
	}
	return groups, nil
}

// Set stores the group view with the configured TTL.
func (c *RedisGroupCache) Set(ctx context.Context, universeID id.UniverseID, groups []rules.Group) error {
	raw, err := json.Marshal(groups)
	if err != nil {
		return fmt.Errorf("encode group view: %w", err)
	}
	if err := c.client.Set(ctx, groupViewKey(universeID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set group view: %w", err)
	}
	return nil
}

// Invalidate drops the cached view for a universe.
func (c *RedisGroupCache) Invalidate(ctx context.Context, universeID id.UniverseID) error {
	if err := c.client.Del(ctx, groupViewKey(universeID)).Err(); err != nil {
		return fmt.Errorf("invalidate group view: %w", err)
	}
	return nil
}

func groupViewKey(universeID id.UniverseID) string {
	return groupViewKeyPrefix + universeID.String()
}
