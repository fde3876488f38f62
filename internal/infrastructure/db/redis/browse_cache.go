package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/farmgate/livestock-market/internal/core/ports"
)

const (
	browseKey = "listings:browse:default"
	browseTTL = 30 * time.Second
)

// BrowseCache caches the default marketplace browse page (first page of
// available listings) for a short TTL. Writers invalidate the key so stale
// pages never outlive browseTTL.
type BrowseCache struct {
	client *redis.Client
}

// NewBrowseCache creates a BrowseCache wrapping the given Redis client.
func NewBrowseCache(client *redis.Client) *BrowseCache {
	return &BrowseCache{client: client}
}

// Get returns the cached browse result, or (nil, nil) on a miss.
func (c *BrowseCache) Get(ctx context.Context) (*ports.ListAnimalsResult, error) {
	raw, err := c.client.Get(ctx, browseKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("browse cache get: %w", err)
	}

	var result ports.ListAnimalsResult
	if err := json.Unmarshal(raw, &result); err != nil {
		// Treat undecodable payloads as a miss; the key will be rewritten.
		return nil, nil
	}
	return &result, nil
}

// Set stores the browse result with the cache TTL.
func (c *BrowseCache) Set(ctx context.Context, result *ports.ListAnimalsResult) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("browse cache encode: %w", err)
	}
	return c.client.Set(ctx, browseKey, raw, browseTTL).Err()
}

// Invalidate drops the cached page after a listing write.
func (c *BrowseCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, browseKey).Err()
}
