package slot

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis stores the snapshot as a plain string value under prefix+key.
type Redis struct {
	client *redis.Client
	key    string
}

// NewRedis creates a Redis-backed slot.
func NewRedis(client *redis.Client, prefix, key string) *Redis {
	if client == nil {
		panic("slot.NewRedis: client is nil")
	}
	if key == "" {
		key = DefaultKey
	}
	return &Redis{client: client, key: prefix + key}
}

// Key returns the full Redis key.
func (r *Redis) Key() string { return r.key }

func (r *Redis) Read(ctx context.Context) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", r.key, err)
	}
	return data, nil
}

func (r *Redis) Write(ctx context.Context, value []byte) error {
	if err := r.client.Set(ctx, r.key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", r.key, err)
	}
	return nil
}
