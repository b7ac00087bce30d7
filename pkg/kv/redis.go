package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lm1285/project3-instrument-management-sub001/pkg/config"
)

// RedisSlot keeps the payload under one Redis key.
type RedisSlot struct {
	client *redis.Client
	key    string
}

// NewRedisClient returns a configured Redis client.
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}

// NewRedisSlot wraps a client and a static key as a Slot.
func NewRedisSlot(client *redis.Client, key string) *RedisSlot {
	return &RedisSlot{client: client, key: key}
}

// Load fetches the payload stored under the slot key.
func (s *RedisSlot) Load(ctx context.Context) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read slot key: %w", err)
	}
	return data, true, nil
}

// Store overwrites the slot key and verifies the write by reading it back.
func (s *RedisSlot) Store(ctx context.Context, payload []byte) error {
	if err := s.client.Set(ctx, s.key, payload, 0).Err(); err != nil {
		return fmt.Errorf("write slot key: %w", err)
	}
	written, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		return fmt.Errorf("verify slot write: %w", err)
	}
	if string(written) != string(payload) {
		return fmt.Errorf("slot write verification mismatch")
	}
	return nil
}
