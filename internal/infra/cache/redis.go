package cache

import (
	"context"
	"fmt"
	"time"

	"blog-app/internal/domain/billing"

	"github.com/redis/go-redis/v9"
)

const (
	premiumKeyPrefix = "premium:email:"
	DefaultTTL       = 24 * time.Hour
)

// Premium is nil when REDIS_URL is unset; premium lookups then always hit
// the database.
var Premium billing.PremiumCache

// NewRedisClient parses redisURL and checks the connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// PremiumCache keeps one key per premium email.
type PremiumCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPremiumCache(client *redis.Client, ttl time.Duration) *PremiumCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &PremiumCache{client: client, ttl: ttl}
}

func (c *PremiumCache) IsPremium(ctx context.Context, email string) (bool, error) {
	n, err := c.client.Exists(ctx, premiumKey(email)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *PremiumCache) MarkPremium(ctx context.Context, email string) error {
	return c.client.Set(ctx, premiumKey(email), "1", c.ttl).Err()
}

func premiumKey(email string) string {
	return premiumKeyPrefix + email
}
