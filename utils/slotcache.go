package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"slotwise/models"

	"github.com/go-redis/redis/v8"
)

const slotCachePrefix = "slots:"

// RedisSlotCache stores computed slot listings per provider. Each provider has a
// version counter; bumping it orphans every cached listing for that provider.
type RedisSlotCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSlotCache(client *redis.Client, ttl time.Duration) *RedisSlotCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisSlotCache{client: client, ttl: ttl}
}

func versionKey(providerID string) string {
	return slotCachePrefix + "ver:" + providerID
}

func listingKey(providerID, version, key string) string {
	return fmt.Sprintf("%s%s:%s:%s", slotCachePrefix, providerID, version, key)
}

// Lookup returns the cached listing and the provider version it was read under.
func (c *RedisSlotCache) Lookup(ctx context.Context, providerID, key string) ([]models.Slot, string, bool, error) {
	version, err := c.client.Get(ctx, versionKey(providerID)).Result()
	if err == redis.Nil {
		version = "0"
	} else if err != nil {
		return nil, "", false, fmt.Errorf("read slot cache version: %w", err)
	}

	raw, err := c.client.Get(ctx, listingKey(providerID, version, key)).Bytes()
	if err == redis.Nil {
		return nil, version, false, nil
	}
	if err != nil {
		return nil, version, false, fmt.Errorf("read slot cache: %w", err)
	}

	var slots []models.Slot
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, version, false, fmt.Errorf("decode cached slots: %w", err)
	}
	return slots, version, true, nil
}

// Store caches slots under the version returned by Lookup.
func (c *RedisSlotCache) Store(ctx context.Context, providerID, version, key string, slots []models.Slot) error {
	raw, err := json.Marshal(slots)
	if err != nil {
		return fmt.Errorf("encode slots: %w", err)
	}
	if err := c.client.Set(ctx, listingKey(providerID, version, key), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("write slot cache: %w", err)
	}
	return nil
}

// Invalidate drops every cached listing for the provider.
func (c *RedisSlotCache) Invalidate(ctx context.Context, providerID string) error {
	if err := c.client.Incr(ctx, versionKey(providerID)).Err(); err != nil {
		return fmt.Errorf("bump slot cache version: %w", err)
	}
	return nil
}
