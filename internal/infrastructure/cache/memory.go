package cache

import (
	"context"
	"sync"
	"time"

	"github.com/calorietrack/backend/internal/domain"
)

// cacheEntry is a single cached item with expiration
type cacheEntry struct {
	item       domain.EnrichedFoodItem
	expiration time.Time
}

// MemoryCache is a thread-safe in-memory cache of enriched food items
// keyed by ingredient ID, with TTL support. A hit lets the enrichment
// pipeline skip the detail fetch for an ingredient it has seen recently.
type MemoryCache struct {
	data  map[int]cacheEntry
	mutex sync.RWMutex
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache() *MemoryCache {
	c := &MemoryCache{
		data: make(map[int]cacheEntry),
	}

	// Cleanup goroutine removes expired entries every 10 minutes
	go c.cleanupExpired()

	return c
}

// Get retrieves an enriched item from the cache. The returned pointer is
// to a copy, so callers cannot mutate the cached value.
func (c *MemoryCache) Get(ctx context.Context, id int) (*domain.EnrichedFoodItem, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.data[id]
	if !exists {
		return nil, domain.ErrCacheMiss
	}

	if time.Now().After(entry.expiration) {
		return nil, domain.ErrCacheMiss
	}

	item := entry.item
	return &item, nil
}

// Set stores an enriched item in the cache with TTL
func (c *MemoryCache) Set(ctx context.Context, id int, item *domain.EnrichedFoodItem, ttl time.Duration) error {
	if item == nil {
		return domain.ErrInvalidInput
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[id] = cacheEntry{
		item:       *item,
		expiration: time.Now().Add(ttl),
	}

	return nil
}

// Delete removes an item from the cache
func (c *MemoryCache) Delete(ctx context.Context, id int) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, id)
	return nil
}

// cleanupExpired removes expired entries from the cache periodically
func (c *MemoryCache) cleanupExpired() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mutex.Lock()
		now := time.Now()
		for id, entry := range c.data {
			if now.After(entry.expiration) {
				delete(c.data, id)
			}
		}
		c.mutex.Unlock()
	}
}

// Size returns the current number of items in the cache (for debugging/monitoring)
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Clear removes all items from the cache
func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[int]cacheEntry)
}
