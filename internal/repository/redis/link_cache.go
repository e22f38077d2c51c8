package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/utafrali/EcommerceGo/wishlist/pkg/errors"
)

const keyPrefix = "wishlist:customer:"

// LinkCache implements repository.LinkCache using Redis. Links never change
// once written, so entries only leave the cache by TTL or explicit Delete.
type LinkCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewLinkCache creates a new Redis-backed link cache.
func NewLinkCache(client redis.Cmdable, ttl time.Duration) *LinkCache {
	return &LinkCache{
		client: client,
		ttl:    ttl,
	}
}

// Get returns the cached wishlist id for customerID.
func (c *LinkCache) Get(ctx context.Context, customerID string) (string, error) {
	id, err := c.client.Get(ctx, keyPrefix+customerID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperrors.NotFound("cached customer wishlist", customerID)
		}
		return "", fmt.Errorf("redis get customer wishlist: %w", err)
	}
	return id, nil
}

// Set caches the link for the configured TTL.
func (c *LinkCache) Set(ctx context.Context, customerID, wishlistID string) error {
	if err := c.client.Set(ctx, keyPrefix+customerID, wishlistID, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set customer wishlist: %w", err)
	}
	return nil
}

// Delete drops the cached link of customerID.
func (c *LinkCache) Delete(ctx context.Context, customerID string) error {
	if err := c.client.Del(ctx, keyPrefix+customerID).Err(); err != nil {
		return fmt.Errorf("redis del customer wishlist: %w", err)
	}
	return nil
}
