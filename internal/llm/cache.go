package llm

import (
	"container/list"
	"context"
)

// DefaultVariationCacheSize is the cache capacity used when none is configured.
const DefaultVariationCacheSize = 100

// VariationSource is the upstream the cache memoizes, satisfied by
// VariationGenerator.
type VariationSource interface {
	Variations(ctx context.Context, item string) []string
}

type cacheEntry struct {
	key        string
	variations []string
}

// VariationCache memoizes variation lookups per distinct item string with a
// bounded LRU policy. Entries are never invalidated; when an insert would
// exceed capacity the least recently used entry is evicted first.
//
// The cache is not safe for concurrent use. The engine evaluates items
// sequentially; a host that parallelizes evaluation must serialize access.
type VariationCache struct {
	source   VariationSource
	items    map[string]*list.Element
	order    *list.List // front = most recently used
	capacity int
}

// NewVariationCache creates a cache over the given source. A non-positive
// capacity falls back to DefaultVariationCacheSize.
func NewVariationCache(source VariationSource, capacity int) *VariationCache {
	if capacity <= 0 {
		capacity = DefaultVariationCacheSize
	}
	return &VariationCache{
		source:   source,
		items:    make(map[string]*list.Element),
		order:    list.New(),
		capacity: capacity,
	}
}

// Variations returns the cached variations for the item, populating the
// cache from the source on first lookup. The item string is used as the key
// exactly as passed; callers wanting cache hits across differently-cased
// occurrences must normalize before calling.
func (c *VariationCache) Variations(ctx context.Context, item string) []string {
	if elem, ok := c.items[item]; ok {
		c.order.MoveToFront(elem)
		return elem.Value.(*cacheEntry).variations
	}

	variations := c.source.Variations(ctx, item)

	if c.order.Len() >= c.capacity {
		c.evictOldest()
	}
	c.items[item] = c.order.PushFront(&cacheEntry{key: item, variations: variations})

	return variations
}

// Len returns the number of cached entries.
func (c *VariationCache) Len() int {
	return c.order.Len()
}

// Contains reports whether the item is cached, without touching recency.
func (c *VariationCache) Contains(item string) bool {
	_, ok := c.items[item]
	return ok
}

func (c *VariationCache) evictOldest() {
	oldest := c.order.Back()
	if oldest == nil {
		return
	}
	c.order.Remove(oldest)
	delete(c.items, oldest.Value.(*cacheEntry).key)
}
