package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRepo stores session fields as individual Redis string keys so that
// PopOnce maps onto GETDEL and stays atomic under concurrent callbacks.
type RedisRepo struct {
	client *redis.Client
	ttl    time.Duration
}

var _ Repo = (*RedisRepo)(nil)

// NewRedisClient connects to Redis and verifies the connection, so a bad
// URL fails at startup rather than on the first login.
func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

func NewRedisRepo(client *redis.Client, ttl time.Duration) *RedisRepo {
	return &RedisRepo{client: client, ttl: ttl}
}

func (r *RedisRepo) Put(ctx context.Context, sessionID, key, value string) error {
	if err := r.client.Set(ctx, fieldKey(sessionID, key), value, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *RedisRepo) Get(ctx context.Context, sessionID, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, fieldKey(sessionID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	return value, true, nil
}

func (r *RedisRepo) PopOnce(ctx context.Context, sessionID, key string) (string, bool, error) {
	value, err := r.client.GetDel(ctx, fieldKey(sessionID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis getdel: %w", err)
	}
	return value, true, nil
}

func (r *RedisRepo) ClearAll(ctx context.Context, sessionID string) error {
	var keys []string
	iter := r.client.Scan(ctx, 0, fieldKey(sessionID, "*"), 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func fieldKey(sessionID, key string) string {
	return fmt.Sprintf("session:%s:%s", sessionID, key)
}
