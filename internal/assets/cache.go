package assets

import "sync"

// Cache is an in-memory cache for loaded assets. Each entry carries a
// version; a lookup with a different version misses. When it holds more
// than its limit, the oldest entry is evicted. A limit of 0 disables
// caching.
type Cache struct {
	data  map[string]entry
	order []string
	limit int
	mu    sync.RWMutex

	// Stats
	hits   int
	misses int
}

type entry struct {
	version string
	data    []byte
}

// NewCache creates a new cache holding at most limit entries.
func NewCache(limit int) *Cache {
	return &Cache{
		data:  make(map[string]entry),
		limit: limit,
	}
}

// Get retrieves an item stored under the same version.
func (c *Cache) Get(key, version string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.data[key]
	if ok && e.version == version {
		c.hits++
		return e.data, true
	}
	c.misses++
	return nil, false
}

// Set stores an item in cache, replacing any other version of it.
func (c *Cache) Set(key, version string, data []byte) {
	if c.limit <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.data[key]; !ok {
		c.order = append(c.order, key)
	}
	c.data[key] = entry{version: version, data: data}

	for len(c.order) > c.limit {
		delete(c.data, c.order[0])
		c.order = c.order[1:]
	}
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]entry)
	c.order = nil
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
