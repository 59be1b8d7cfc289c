package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Cache provides typed caching for computed reports. Reports are
// recomputed on every miss; the cache is a pure optimization and
// never a correctness dependency.
type Cache struct {
	client *Client
	prefix string
}

// NewCache creates a new cache helper.
func NewCache(client *Client, prefix string) *Cache {
	return &Cache{
		client: client,
		prefix: prefix,
	}
}

// Get retrieves a cached value. A missing key is not an error.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !c.client.Enabled() {
		return false, nil
	}

	fullKey := fmt.Sprintf("%s:cache:%s", c.prefix, key)
	data, err := c.client.Redis().Get(ctx, fullKey).Bytes()
	if err != nil {
		return false, nil
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal failed: %w", err)
	}

	return true, nil
}

// Set stores a value in cache with TTL.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.client.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}

	fullKey := fmt.Sprintf("%s:cache:%s", c.prefix, key)
	return c.client.Redis().Set(ctx, fullKey, data, ttl).Err()
}

// Delete removes a cached value.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if !c.client.Enabled() || len(keys) == 0 {
		return nil
	}

	fullKeys := make([]string, len(keys))
	for i, key := range keys {
		fullKeys[i] = fmt.Sprintf("%s:cache:%s", c.prefix, key)
	}
	return c.client.Redis().Del(ctx, fullKeys...).Err()
}

// Report cache key generators. Keys carry the dataset version and the
// config hash, so a snapshot refresh or a threshold change never
// serves a stale report; superseded keys simply age out via TTL.

func QualityReportKey(version, configHash, category, minScore string) string {
	return fmt.Sprintf("report:quality:%s:%s:%s:%s", version, configHash, category, minScore)
}

func PromoSummaryKey(version, configHash, supplier string) string {
	return fmt.Sprintf("report:promo:%s:%s:%s", version, configHash, supplier)
}

func PriceIndexKey(version, configHash, supplier, view string) string {
	return fmt.Sprintf("report:price:%s:%s:%s:%s", version, configHash, supplier, view)
}
