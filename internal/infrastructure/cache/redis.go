package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/johnquangdev/notegen/errors"
	"github.com/johnquangdev/notegen/pkg/config"
)

// NewRedisClient creates a Redis client and verifies the connection.
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Println("✅ Redis connected successfully")
	return client, nil
}

// RedisStore persists preferences in Redis so they survive restarts and are
// shared across instances.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore wraps a Redis client as a preference store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "notegen:pref:"}
}

// Get retrieves a value by key (returns empty string if not set)
func (rs *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := rs.client.Get(ctx, rs.prefix+key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", apperrors.ErrCacheFailed("get", err)
	}
	return value, nil
}

// Set stores a key-value pair without expiration
func (rs *RedisStore) Set(ctx context.Context, key string, value string) error {
	if err := rs.client.Set(ctx, rs.prefix+key, value, 0).Err(); err != nil {
		return apperrors.ErrCacheFailed("set", err)
	}
	return nil
}
