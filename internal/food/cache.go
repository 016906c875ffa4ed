package food

import "sync"

// Cache memoizes resolved candidates by normalized name. Entries never expire.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Candidate
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]Candidate)}
}

// Get returns the candidate stored for name.
func (c *Cache) Get(name string) (Candidate, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cand, ok := c.entries[NormalizeKey(name)]
	return cand, ok
}

// Put stores cand under name, replacing any earlier entry.
func (c *Cache) Put(name string, cand Candidate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[NormalizeKey(name)] = cand
}

// Len returns the number of cached names.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
