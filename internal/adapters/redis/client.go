package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"normatlas/internal/adapters/config"
)

// Client wraps the Redis client used for per-user query cooldowns.
type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(cfg config.RedisConfig) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &Client{rdb: rdb}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Health checks Redis connectivity
func (c *Client) Health(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// AcquireCooldown marks the user as active for the given TTL. It returns
// false when the user is still inside a previous cooldown window.
func (c *Client) AcquireCooldown(ctx context.Context, userID string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, "cooldown:"+userID, "1", ttl).Result()
}
