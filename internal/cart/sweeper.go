package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Sweeper strips retired products out of every persisted cart snapshot.
// The consumer runs one when the catalog announces a deletion, so stale
// line items never resurface on rehydration.
type Sweeper struct {
	client *redis.Client
	logger *zap.Logger
}

func NewSweeper(client *redis.Client, logger *zap.Logger) *Sweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{client: client, logger: logger}
}

// RemoveProduct removes the product's line item from all cart snapshots
// and reports how many carts changed. Snapshots that fail to decode are
// left untouched.
func (s *Sweeper) RemoveProduct(ctx context.Context, productID string) (int, error) {
	swept := 0

	iter := s.client.Scan(ctx, 0, slotKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		changed, err := s.sweepKey(ctx, key, productID)
		if err != nil {
			s.logger.Warn("cart sweep failed", zap.String("key", key), zap.Error(err))
			continue
		}
		if changed {
			swept++
		}
	}
	if err := iter.Err(); err != nil {
		return swept, fmt.Errorf("scan cart keys: %w", err)
	}

	return swept, nil
}

func (s *Sweeper) sweepKey(ctx context.Context, key, productID string) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var items []LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return false, err
	}

	kept := items[:0]
	for _, item := range items {
		if item.ID != productID {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return false, nil
	}

	out, err := json.Marshal(kept)
	if err != nil {
		return false, err
	}

	ttl, err := s.client.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, key, out, ttl).Err(); err != nil {
		return false, err
	}
	return true, nil
}
