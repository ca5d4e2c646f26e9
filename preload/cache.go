package preload

import (
	"container/list"
	"sync"
)

// cache is an LRU of fetched image bytes keyed by source. It bounds both
// the entry count and the total payload size.
type cache struct {
	mu         sync.Mutex
	maxEntries int
	maxBytes   int64
	size       int64
	items      map[string]*list.Element
	lru        *list.List // Front = most recently used
}

type cacheEntry struct {
	key  string
	data []byte
}

func newCache(maxEntries int, maxBytes int64) *cache {
	return &cache{
		maxEntries: maxEntries,
		maxBytes:   maxBytes,
		items:      make(map[string]*list.Element),
		lru:        list.New(),
	}
}

// get returns the cached bytes for key and marks it recently used.
func (c *cache) get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.lru.MoveToFront(elem)
		return elem.Value.(*cacheEntry).data, true
	}
	return nil, false
}

// contains reports presence without touching recency.
func (c *cache) contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok
}

// put stores data under key, evicting least recently used entries until
// both limits hold. An entry larger than maxBytes is not stored.
func (c *cache) put(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := int64(len(data))
	if c.maxBytes > 0 && n > c.maxBytes {
		return
	}

	if elem, ok := c.items[key]; ok {
		entry := elem.Value.(*cacheEntry)
		c.size += n - int64(len(entry.data))
		entry.data = data
		c.lru.MoveToFront(elem)
		c.evict()
		return
	}

	c.items[key] = c.lru.PushFront(&cacheEntry{key: key, data: data})
	c.size += n
	c.evict()
}

func (c *cache) evict() {
	for c.lru.Len() > 0 && (c.lru.Len() > c.maxEntries || (c.maxBytes > 0 && c.size > c.maxBytes)) {
		oldest := c.lru.Back()
		entry := oldest.Value.(*cacheEntry)
		c.lru.Remove(oldest)
		delete(c.items, entry.key)
		c.size -= int64(len(entry.data))
	}
}

func (c *cache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

func (c *cache) bytes() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// clear removes all entries.
func (c *cache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.lru.Init()
	c.size = 0
}
