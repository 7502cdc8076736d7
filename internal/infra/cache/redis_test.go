package cache

import (
	"testing"
	"time"

	"blog-app/internal/domain/billing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

var _ billing.PremiumCache = (*PremiumCache)(nil)

func TestPremiumKey(t *testing.T) {
	assert.Equal(t, "premium:email:reader@example.com", premiumKey("reader@example.com"))
}

func TestNewPremiumCache_DefaultTTL(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()

	assert.Equal(t, DefaultTTL, NewPremiumCache(client, 0).ttl)
	assert.Equal(t, time.Minute, NewPremiumCache(client, time.Minute).ttl)
}
