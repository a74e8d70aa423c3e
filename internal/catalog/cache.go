package catalog

import (
	"sync"
	"time"
)

type cacheEntry struct {
	tracks  []Track
	expires time.Time
}

// ttlCache memoises chart results keyed by limit.
type ttlCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[int]cacheEntry
}

func newTTLCache(ttl time.Duration) *ttlCache {
	return &ttlCache{ttl: ttl, now: time.Now, entries: make(map[int]cacheEntry)}
}

func (c *ttlCache) get(key int) ([]Track, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || c.now().After(e.expires) {
		delete(c.entries, key)
		return nil, false
	}
	return e.tracks, true
}

func (c *ttlCache) put(key int, tracks []Track) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{tracks: tracks, expires: c.now().Add(c.ttl)}
}
