package store

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/set-night/ragzy/internal/domain"
)

// RedisStore keeps snapshots under "<prefix><chatID>:<key>".
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(ctx context.Context, addr, password string, db int, prefix string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{client: client, prefix: prefix}, nil
}

func (r *RedisStore) key(chatID int64, key string) string {
	return fmt.Sprintf("%s%d:%s", r.prefix, chatID, key)
}

func (r *RedisStore) Get(ctx context.Context, chatID int64, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key(chatID, key)).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return data, nil
}

func (r *RedisStore) Set(ctx context.Context, chatID int64, key string, value []byte) error {
	if err := r.client.Set(ctx, r.key(chatID, key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
