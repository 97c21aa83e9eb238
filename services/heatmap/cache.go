// File: services/heatmap/cache.go
package heatmap

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/go-redis/redis/v8"

	"slotsync/models"
)

// CachedWeek is the per-(scope, week) aggregation payload that may be reused
// verbatim across visits. Membership rows and roles are never cached; they are
// re-fetched live on every view.
type CachedWeek struct {
	Busy     []models.AvailabilityMark `json:"busy"`
	Overlays []models.SessionWithGroup `json:"overlays"`
}

// CacheKey builds the cache key for one resolved scope: the sorted ids of the
// contributing groups plus the first day index of the week. The cache is
// shared across viewers, and "all" resolves to a different group set per
// viewer, so the key is derived from the resolved groups rather than the
// scope label. Viewers whose scopes resolve to the same groups share an
// entry; everyone else gets their own.
func CacheKey(groupIDs []string, firstDayIndex int) string {
	ids := append([]string(nil), groupIDs...)
	sort.Strings(ids)
	return fmt.Sprintf("%s-%d", strings.Join(ids, ","), firstDayIndex)
}

// ScopeCache memoizes resolved weeks. Entries have no TTL; switching scope or
// week changes the key, nothing evicts.
type ScopeCache interface {
	Get(ctx context.Context, key string) (*CachedWeek, error)
	Set(ctx context.Context, key string, value CachedWeek) error
}

// MemoryScopeCache is a map-backed cache, used in tests and as a fallback
// when no Redis is configured.
type MemoryScopeCache struct {
	mu      sync.Mutex
	entries map[string]CachedWeek
}

// NewMemoryScopeCache creates an empty in-process cache.
func NewMemoryScopeCache() *MemoryScopeCache {
	return &MemoryScopeCache{entries: make(map[string]CachedWeek)}
}

func (c *MemoryScopeCache) Get(_ context.Context, key string) (*CachedWeek, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.entries[key]; ok {
		return &v, nil
	}
	return nil, nil
}

func (c *MemoryScopeCache) Set(_ context.Context, key string, value CachedWeek) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

const scopeCachePrefix = "scopeWeek:"

// RedisScopeCache keeps resolved weeks in Redis so repeated back-and-forth
// navigation stays instant across server instances.
type RedisScopeCache struct {
	client *redis.Client
}

// NewRedisScopeCache creates a cache over the given client.
func NewRedisScopeCache(client *redis.Client) *RedisScopeCache {
	return &RedisScopeCache{client: client}
}

func (c *RedisScopeCache) Get(ctx context.Context, key string) (*CachedWeek, error) {
	data, err := c.client.Get(ctx, scopeCachePrefix+key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read scope cache: %w", err)
	}
	var week CachedWeek
	if err := json.Unmarshal([]byte(data), &week); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scope cache entry: %w", err)
	}
	return &week, nil
}

func (c *RedisScopeCache) Set(ctx context.Context, key string, value CachedWeek) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal scope cache entry: %w", err)
	}
	if err := c.client.Set(ctx, scopeCachePrefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write scope cache: %w", err)
	}
	return nil
}
