package redis

import (
	"context"

	"healthsync/common/config"

	"github.com/go-redis/redis/v8"
)

// Client is an alias so callers do not import go-redis directly
type Client = redis.Client

// NewRedisClient builds a client from RedisConfig
func NewRedisClient(cfg *config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Ping checks the connection
func Ping(ctx context.Context, client *redis.Client) error {
	return client.Ping(ctx).Err()
}

// Close closes the client, tolerating nil
func Close(client *redis.Client) error {
	if client == nil {
		return nil
	}
	return client.Close()
}
