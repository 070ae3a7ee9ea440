// Package cart keeps a per-session cart scratchpad in Redis. Prices are
// decimal strings (backend NUMERIC convention); checkout itself is a backend
// pass-through, nothing here touches inventory or payments.
package cart

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

type Item struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func key(sessionID string) string { return "cart:" + sessionID }

// Put inserts or replaces a line. A non-positive quantity removes it.
func (s *Store) Put(ctx context.Context, sessionID string, it Item) error {
	if it.Quantity <= 0 {
		return s.Remove(ctx, sessionID, it.ProductID)
	}
	raw, err := json.Marshal(it)
	if err != nil {
		return err
	}
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key(sessionID), it.ProductID, raw)
	pipe.Expire(ctx, key(sessionID), s.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Store) Remove(ctx context.Context, sessionID, productID string) error {
	return s.rdb.HDel(ctx, key(sessionID), productID).Err()
}

func (s *Store) Clear(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, key(sessionID)).Err()
}

// Items returns the cart lines sorted by product name for stable rendering.
func (s *Store) Items(ctx context.Context, sessionID string) ([]Item, error) {
	raw, err := s.rdb.HGetAll(ctx, key(sessionID)).Result()
	if err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(raw))
	for _, v := range raw {
		var it Item
		if err := json.Unmarshal([]byte(v), &it); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

// Totals sums the cart with decimal arithmetic. Unparsable prices count as
// zero, mirroring how order aggregation treats bad amounts.
func Totals(items []Item) (count int, subtotal decimal.Decimal) {
	for _, it := range items {
		count += it.Quantity
		price, err := decimal.NewFromString(it.UnitPrice)
		if err != nil {
			continue
		}
		subtotal = subtotal.Add(price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return count, subtotal
}
