package cache

import (
	"container/list"
	"context"
	"log"
	"sync"
	"time"

	"github.com/exportlens/backend/internal/domain"
	"golang.org/x/sync/singleflight"
)

// Config holds sizing and expiry settings for a MemoryCache
type Config struct {
	// MaxEntries bounds the store; the oldest inserted entry is evicted past it. Zero means unbounded.
	MaxEntries int
	// DefaultTTL is used by GetOrCompute
	DefaultTTL time.Duration
	// Name tags log lines
	Name string
}

// cacheItem represents a single item in the cache with expiration
type cacheItem[V any] struct {
	key        string
	value      V
	expiration time.Time
}

// MemoryCache is a thread-safe in-memory cache with TTL support and FIFO eviction
type MemoryCache[V any] struct {
	mutex      sync.Mutex
	data       map[string]*list.Element
	order      *list.List // front is the oldest insertion
	maxEntries int
	defaultTTL time.Duration
	name       string
	group      singleflight.Group
	now        func() time.Time
}

var _ domain.Cache[string] = (*MemoryCache[string])(nil)

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache[V any](cfg Config) *MemoryCache[V] {
	ttl := cfg.DefaultTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	name := cfg.Name
	if name == "" {
		name = "cache"
	}

	return &MemoryCache[V]{
		data:       make(map[string]*list.Element),
		order:      list.New(),
		maxEntries: cfg.MaxEntries,
		defaultTTL: ttl,
		name:       name,
		now:        time.Now,
	}
}

// Get retrieves a value from the cache. Expired entries are dropped and reported absent.
func (c *MemoryCache[V]) Get(key string) (V, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	var zero V
	elem, exists := c.data[key]
	if !exists {
		return zero, false
	}

	item := elem.Value.(*cacheItem[V])
	if c.now().After(item.expiration) {
		c.removeElement(elem)
		return zero, false
	}

	return item.value, true
}

// Set stores a value in the cache with TTL. Re-setting a key counts as a fresh insertion.
func (c *MemoryCache[V]) Set(key string, value V, ttl time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if elem, exists := c.data[key]; exists {
		c.removeElement(elem)
	}

	elem := c.order.PushBack(&cacheItem[V]{
		key:        key,
		value:      value,
		expiration: c.now().Add(ttl),
	})
	c.data[key] = elem

	for c.maxEntries > 0 && c.order.Len() > c.maxEntries {
		c.removeElement(c.order.Front())
	}
}

// GetOrCompute returns the cached value for key, or runs compute and stores its result
// under the default TTL. compute is never called on a hit, and its errors are returned
// without populating the cache. Concurrent misses for the same key share one compute.
func (c *MemoryCache[V]) GetOrCompute(key string, compute func() (V, error)) (V, error) {
	if value, ok := c.Get(key); ok {
		return value, nil
	}

	result, err, _ := c.group.Do(key, func() (interface{}, error) {
		// A concurrent caller may have stored the value while we waited
		if value, ok := c.Get(key); ok {
			return value, nil
		}
		value, err := compute()
		if err != nil {
			return nil, err
		}
		c.Set(key, value, c.defaultTTL)
		return value, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}

	value, _ := result.(V)
	return value, nil
}

// Delete removes a value from the cache
func (c *MemoryCache[V]) Delete(key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if elem, exists := c.data[key]; exists {
		c.removeElement(elem)
	}
}

// Purge removes expired entries and returns how many were dropped
func (c *MemoryCache[V]) Purge() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	removed := 0
	for elem := c.order.Front(); elem != nil; {
		next := elem.Next()
		if now.After(elem.Value.(*cacheItem[V]).expiration) {
			c.removeElement(elem)
			removed++
		}
		elem = next
	}
	return removed
}

// StartJanitor purges expired entries every interval until ctx is done
func (c *MemoryCache[V]) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := c.Purge(); removed > 0 {
					log.Printf("[CACHE] %s: purged %d expired entries", c.name, removed)
				}
			}
		}
	}()
}

// Len returns the current number of stored items, expired ones included until purged
func (c *MemoryCache[V]) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.order.Len()
}

// Clear removes all items from the cache
func (c *MemoryCache[V]) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[string]*list.Element)
	c.order.Init()
}

// removeElement must be called with the mutex held
func (c *MemoryCache[V]) removeElement(elem *list.Element) {
	item := elem.Value.(*cacheItem[V])
	delete(c.data, item.key)
	c.order.Remove(elem)
}
