package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/use-agent/scrape-playground/models"
)

// entry holds cached upstream data with its creation timestamp.
type entry struct {
	data      *models.ScrapeData
	createdAt time.Time
}

// Cache is a simple in-memory cache for upstream scrape data.
// It is safe for concurrent use.
type Cache struct {
	mu         sync.RWMutex
	store      map[string]*entry
	maxEntries int
	ttl        time.Duration
	done       chan struct{}
	now        func() time.Time
}

// New creates a new Cache with the given maximum number of entries.
// A background goroutine runs every 5 minutes to evict entries older than
// 1 hour; call Stop to end it.
func New(maxEntries int) *Cache {
	c := &Cache{
		store:      make(map[string]*entry),
		maxEntries: maxEntries,
		ttl:        time.Hour,
		done:       make(chan struct{}),
		now:        time.Now,
	}

	go c.cleanupLoop(5 * time.Minute)
	return c
}

// Key generates a cache key from the URL and the requested formats.
// Format order matters to the upstream service, so it is preserved.
func Key(url string, formats []string) string {
	h := sha256.New()
	h.Write([]byte(url))
	h.Write([]byte("|"))
	h.Write([]byte(strings.Join(formats, ",")))
	return hex.EncodeToString(h.Sum(nil))
}

// Get retrieves cached data if it exists and is younger than maxAgeMs
// milliseconds. If maxAgeMs <= 0, no cache lookup is performed.
func (c *Cache) Get(key string, maxAgeMs int) (*models.ScrapeData, bool) {
	if c == nil || maxAgeMs <= 0 {
		return nil, false
	}

	c.mu.RLock()
	e, ok := c.store[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	maxAge := time.Duration(maxAgeMs) * time.Millisecond
	if c.now().Sub(e.createdAt) > maxAge {
		return nil, false
	}

	return e.data, true
}

// Set stores data in the cache. If the cache is at capacity, a random
// entry is evicted to make room. A cache with no capacity stores nothing.
func (c *Cache) Set(key string, data *models.ScrapeData) {
	if c == nil || c.maxEntries <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Evict one random entry if at capacity (map iteration is random in Go).
	if _, exists := c.store[key]; !exists && len(c.store) >= c.maxEntries {
		for k := range c.store {
			delete(c.store, k)
			break
		}
	}

	c.store[key] = &entry{
		data:      data,
		createdAt: c.now(),
	}
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Stop terminates the background cleanup goroutine.
func (c *Cache) Stop() {
	if c == nil {
		return
	}
	close(c.done)
}

// cleanupLoop evicts entries older than the TTL on every tick.
func (c *Cache) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.evictExpired()
		}
	}
}

func (c *Cache) evictExpired() {
	cutoff := c.now().Add(-c.ttl)
	c.mu.Lock()
	for k, e := range c.store {
		if e.createdAt.Before(cutoff) {
			delete(c.store, k)
		}
	}
	c.mu.Unlock()
}
