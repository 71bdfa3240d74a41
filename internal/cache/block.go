package cache

import (
	"container/list"
	"sync"
	"sync/atomic"
)

// BlockKey identifies a cached block within a named byte source.
type BlockKey struct {
	Name  string
	Block int64
}

// BlockCache is a byte-budget LRU over fixed-size read blocks.
type BlockCache struct {
	mu        sync.Mutex
	capacity  int64
	size      int64
	items     map[BlockKey]*list.Element
	evictList *list.List

	hits   atomic.Int64
	misses atomic.Int64
}

type blockEntry struct {
	key   BlockKey
	value []byte
}

// NewBlockCache creates a block cache with the given capacity in bytes.
func NewBlockCache(capacity int64) *BlockCache {
	return &BlockCache{
		capacity:  capacity,
		items:     make(map[BlockKey]*list.Element),
		evictList: list.New(),
	}
}

// Get returns a cached block.
func (c *BlockCache) Get(key BlockKey) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		c.hits.Add(1)
		c.evictList.MoveToFront(ent)
		return ent.Value.(*blockEntry).value, true
	}
	c.misses.Add(1)
	return nil, false
}

// Set caches a block. Blocks larger than the capacity are not cached.
func (c *BlockCache) Set(key BlockKey, b []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		c.evictList.MoveToFront(ent)
		c.size += int64(len(b)) - int64(len(ent.Value.(*blockEntry).value))
		ent.Value.(*blockEntry).value = b
		c.evict()
		return
	}

	itemSize := int64(len(b))
	if itemSize > c.capacity {
		return
	}

	for c.size+itemSize > c.capacity {
		back := c.evictList.Back()
		if back == nil {
			break
		}
		c.removeElement(back)
	}

	c.items[key] = c.evictList.PushFront(&blockEntry{key: key, value: b})
	c.size += itemSize
}

// Invalidate removes entries matching the predicate.
func (c *BlockCache) Invalidate(predicate func(key BlockKey) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var toRemove []*list.Element
	for _, element := range c.items {
		if predicate(element.Value.(*blockEntry).key) {
			toRemove = append(toRemove, element)
		}
	}
	for _, e := range toRemove {
		c.removeElement(e)
	}
}

// Size returns the current size of the cache in bytes.
func (c *BlockCache) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// Stats returns the hit and miss counters.
func (c *BlockCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *BlockCache) evict() {
	for c.size > c.capacity {
		back := c.evictList.Back()
		if back == nil {
			break
		}
		c.removeElement(back)
	}
}

func (c *BlockCache) removeElement(e *list.Element) {
	c.evictList.Remove(e)
	ent := e.Value.(*blockEntry)
	delete(c.items, ent.key)
	c.size -= int64(len(ent.value))
}
