package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	appcatalog "github.com/hms/backend/internal/application/catalog"
	"github.com/hms/backend/internal/domain/catalog"
)

// InMemoryProductCache is a process-local product cache with TTL
// expiry. Suitable for single-instance deployments and tests; use the
// Redis cache when running more than one instance.
type InMemoryProductCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]inMemoryEntry
	ttl     time.Duration
	now     func() time.Time
}

type inMemoryEntry struct {
	product   catalog.Product
	expiresAt time.Time
}

// NewInMemoryProductCache creates a new InMemoryProductCache
func NewInMemoryProductCache(ttl time.Duration) *InMemoryProductCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &InMemoryProductCache{
		entries: make(map[uuid.UUID]inMemoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached product, or false on a miss or expired entry
func (c *InMemoryProductCache) Get(_ context.Context, id uuid.UUID) (*catalog.Product, bool) {
	c.mu.RLock()
	entry, ok := c.entries[id]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, id)
		c.mu.Unlock()
		return nil, false
	}

	product := entry.product
	return &product, true
}

// Set stores a copy of the product with the configured TTL
func (c *InMemoryProductCache) Set(_ context.Context, product *catalog.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[product.ID] = inMemoryEntry{
		product:   *product,
		expiresAt: c.now().Add(c.ttl),
	}
}

// Invalidate removes the product from the cache
func (c *InMemoryProductCache) Invalidate(_ context.Context, id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
}

// Len returns the number of cached entries, expired ones included
func (c *InMemoryProductCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Ensure InMemoryProductCache implements ProductCache
var _ appcatalog.ProductCache = (*InMemoryProductCache)(nil)
