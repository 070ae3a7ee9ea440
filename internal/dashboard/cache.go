package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores resolved snapshots in Redis so warm dashboards skip the
// backend entirely. Entries expire on their own; there is no explicit
// invalidation beyond the user's forced refresh.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

// Snapshots are keyed per caller scope: tier-2 metrics come from the caller's
// own token-scoped order list, so one vendor's numbers must never warm
// another vendor's dashboard.
func cacheKey(scope, period string, topN int) string {
	if scope == "" {
		scope = "anon"
	}
	if period == "" {
		period = "default"
	}
	return fmt.Sprintf("dashboard:snapshot:%s:%s:%d", scope, period, topN)
}

// Get returns the cached snapshot or nil on a clean miss.
func (c *Cache) Get(ctx context.Context, scope, period string, topN int) (*Snapshot, error) {
	raw, err := c.rdb.Get(ctx, cacheKey(scope, period, topN)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (c *Cache) Put(ctx context.Context, scope, period string, topN int, snap Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, cacheKey(scope, period, topN), raw, c.ttl).Err()
}
