// Package cache provides a TTL cache for analysis results, keyed by a hash
// of the submitted text and source domain. Repeat submissions within the TTL
// skip re-analysis entirely.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/credlens/credlens/internal/analysis"
)

type item struct {
	result    analysis.Result
	expiresAt time.Time
}

// Cache is a thread-safe TTL cache of analysis results.
type Cache struct {
	mu    sync.RWMutex
	items map[string]item
	ttl   time.Duration
}

// New creates a cache with the given TTL and starts its janitor.
func New(ttl time.Duration) *Cache {
	c := &Cache{
		items: make(map[string]item),
		ttl:   ttl,
	}
	go c.cleanup()
	return c
}

// Key derives the cache key for a piece of content.
func Key(content analysis.Content) string {
	sum := sha256.Sum256([]byte(content.SourceDomain + "\x00" + content.Text))
	return hex.EncodeToString(sum[:])
}

// Get returns a cached result when present and unexpired.
func (c *Cache) Get(key string) (analysis.Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	it, ok := c.items[key]
	if !ok || time.Now().After(it.expiresAt) {
		return analysis.Result{}, false
	}
	return it.result, true
}

// Set stores a result under the key.
func (c *Cache) Set(key string, result analysis.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = item{result: result, expiresAt: time.Now().Add(c.ttl)}
}

func (c *Cache) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		now := time.Now()
		c.mu.Lock()
		for key, it := range c.items {
			if now.After(it.expiresAt) {
				delete(c.items, key)
			}
		}
		c.mu.Unlock()
	}
}
