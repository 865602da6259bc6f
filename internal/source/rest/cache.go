package rest

import (
	"sync"
	"time"
)

// ttlCache holds fetched collections per path for a fixed lifetime.
// A TTL of zero disables it.
type ttlCache struct {
	ttl time.Duration

	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	users   []User
	expires time.Time
}

func newTTLCache(ttl time.Duration) *ttlCache {
	return &ttlCache{ttl: ttl, entries: make(map[string]cacheEntry)}
}

func (c *ttlCache) get(path string) ([]User, bool) {
	if c.ttl <= 0 {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[path]
	if !ok || time.Now().After(e.expires) {
		delete(c.entries, path)
		return nil, false
	}
	return e.users, true
}

func (c *ttlCache) put(path string, users []User) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = cacheEntry{users: users, expires: time.Now().Add(c.ttl)}
}
