package dashboard

import (
	"container/list"
	"sync"
)

// cacheKey identifies one computed result. DatasetID changes on every reload,
// so entries for a replaced snapshot can never be served.
type cacheKey struct {
	DatasetID string
	Kind      string
	Filter    string
}

// ResultCache is a thread-safe LRU cache of computed dashboard responses.
// A nil *ResultCache is valid and caches nothing.
type ResultCache struct {
	mu       sync.Mutex
	capacity int
	cache    map[cacheKey]*list.Element
	order    *list.List
}

type cacheEntry struct {
	key   cacheKey
	value any
}

// NewResultCache creates an LRU cache with the given capacity.
// A capacity of zero or less disables caching and returns nil.
func NewResultCache(capacity int) *ResultCache {
	if capacity <= 0 {
		return nil
	}
	return &ResultCache{
		capacity: capacity,
		cache:    make(map[cacheKey]*list.Element),
		order:    list.New(),
	}
}

// Get retrieves a cached value and marks it most recently used.
func (c *ResultCache) Get(key cacheKey) (any, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, exists := c.cache[key]
	if !exists {
		return nil, false
	}

	c.order.MoveToFront(elem)
	return elem.Value.(*cacheEntry).value, true
}

// Put adds a value, evicting the least recently used entry if full.
func (c *ResultCache) Put(key cacheKey, value any) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, exists := c.cache[key]; exists {
		c.order.MoveToFront(elem)
		elem.Value.(*cacheEntry).value = value
		return
	}

	if c.order.Len() >= c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			delete(c.cache, oldest.Value.(*cacheEntry).key)
			c.order.Remove(oldest)
		}
	}

	c.cache[key] = c.order.PushFront(&cacheEntry{key: key, value: value})
}

// Len returns the number of cached entries.
func (c *ResultCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Clear removes all entries from the cache.
func (c *ResultCache) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache = make(map[cacheKey]*list.Element)
	c.order = list.New()
}

// cached returns the value stored under key, computing and storing it on a miss.
// Errors are not cached.
func cached[T any](c *ResultCache, key cacheKey, compute func() (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		return v.(T), nil
	}
	v, err := compute()
	if err != nil {
		return v, err
	}
	c.Put(key, v)
	return v, nil
}
