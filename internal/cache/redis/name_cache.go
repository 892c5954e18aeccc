package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/DJBrause/MarketSpreadSniper/internal/domain"
)

// NameCache implements domain.NameCache using Redis strings.
// Each resolved type name is stored at key "typename:{typeID}" with a TTL so
// stale entries age out on their own.
type NameCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewNameCache creates a NameCache backed by the given Client. Entries expire
// after ttl; a non-positive ttl stores them without expiry.
func NewNameCache(c *Client, ttl time.Duration) *NameCache {
	return &NameCache{rdb: c.rdb, ttl: ttl}
}

func nameKey(typeID int64) string {
	return "typename:" + strconv.FormatInt(typeID, 10)
}

// GetNames retrieves cached names for the given type IDs using a pipeline.
// IDs with no cached entry are omitted from the result map.
func (nc *NameCache) GetNames(ctx context.Context, typeIDs []int64) (map[int64]string, error) {
	if len(typeIDs) == 0 {
		return map[int64]string{}, nil
	}

	pipe := nc.rdb.Pipeline()
	cmds := make(map[int64]*redis.StringCmd, len(typeIDs))
	for _, id := range typeIDs {
		cmds[id] = pipe.Get(ctx, nameKey(id))
	}

	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redis: get names pipeline: %w", err)
	}

	result := make(map[int64]string, len(typeIDs))
	for id, cmd := range cmds {
		name, err := cmd.Result()
		if err != nil {
			continue
		}
		result[id] = name
	}

	return result, nil
}

// SetNames stores resolved names using a pipeline.
func (nc *NameCache) SetNames(ctx context.Context, names map[int64]string) error {
	if len(names) == 0 {
		return nil
	}

	pipe := nc.rdb.Pipeline()
	for id, name := range names {
		pipe.Set(ctx, nameKey(id), name, nc.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: set names pipeline: %w", err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.NameCache = (*NameCache)(nil)
