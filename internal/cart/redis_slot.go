package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const slotKeyPrefix = "cart"

// RedisSlot persists a cart snapshot under a single Redis key so the
// cart survives reloads and restarts.
type RedisSlot struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisSlot binds a slot to the session's key. An empty session id
// yields the legacy shared key "cart".
func NewRedisSlot(client *redis.Client, sessionID string, ttl time.Duration) *RedisSlot {
	key := slotKeyPrefix
	if sessionID != "" {
		key = fmt.Sprintf("%s:%s", slotKeyPrefix, sessionID)
	}
	return &RedisSlot{
		client: client,
		key:    key,
		ttl:    ttl,
	}
}

func (s *RedisSlot) Read(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return data, nil
}

func (s *RedisSlot) Write(ctx context.Context, data []byte) error {
	if err := s.client.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}
