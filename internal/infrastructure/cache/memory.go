package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/suptia/backend/internal/domain"
)

const sweepInterval = 10 * time.Minute

// entry is a stored value with its expiry.
type entry struct {
	value     interface{}
	expiresAt time.Time
}

func (e entry) live(now time.Time) bool {
	return now.Before(e.expiresAt)
}

// MemoryCache is a thread-safe in-memory cache with TTL support, used for
// computed product metrics (scores, synced prices) between store reads.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewMemoryCache creates a new in-memory cache and starts its background
// sweeper.
func NewMemoryCache() *MemoryCache {
	c := &MemoryCache{
		entries: make(map[string]entry),
	}
	go c.sweep()
	return c
}

// Get retrieves a value from the cache. Expired entries are treated as
// misses; the sweeper reclaims them later.
func (c *MemoryCache) Get(ctx context.Context, key string) (interface{}, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || !e.live(time.Now()) {
		return nil, domain.ErrCacheMiss
	}
	return e.value, nil
}

// Set stores a value in the cache with TTL. Values round-trip through JSON
// so readers always see the same generic shape regardless of what concrete
// type was stored.
func (c *MemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	var stored interface{}
	if err := json.Unmarshal(raw, &stored); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{
		value:     stored,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Delete removes a value from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	return nil
}

// Exists checks if a key exists in the cache and is not expired
func (c *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	return ok && e.live(time.Now()), nil
}

// sweep drops expired entries periodically so metrics for delisted products
// do not accumulate.
func (c *MemoryCache) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		c.mu.Lock()
		for key, e := range c.entries {
			if !e.live(now) {
				delete(c.entries, key)
			}
		}
		c.mu.Unlock()
	}
}

// Size returns the current number of items in the cache
func (c *MemoryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear removes all items from the cache
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}
