package lru

import (
	"github.com/DmitriyVTitov/size"
	"github.com/hashicorp/golang-lru/v2/simplelru"
	"github.com/lsifkit/shardgraph/pkg/base"
)

// New creates an LRU cache holding at most capacity entries.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	return NewWithEvictionCallback[K, V](capacity, nil)
}

// NewWithEvictionCallback creates an LRU cache calling onEviction for every
// entry dropped to make room. Explicit deletions are not reported.
func NewWithEvictionCallback[K comparable, V any](capacity int, onEviction base.EvictionCallback[K, V]) *Cache[K, V] {
	if capacity <= 0 {
		panic("capacity must be greater than 0")
	}

	// simplelru reports removals and purges through the same callback, so
	// capacity evictions are detected in Set instead.
	list, err := simplelru.NewLRU[K, V](capacity, nil)
	if err != nil {
		panic(err)
	}

	return &Cache[K, V]{
		capacity:   capacity,
		list:       list,
		onEviction: onEviction,
	}
}

// Cache is a least recently used cache.
// It is not safe for concurrent access.
type Cache[K comparable, V any] struct {
	capacity int
	list     *simplelru.LRU[K, V]

	onEviction base.EvictionCallback[K, V]
}

var _ base.Cache[string, int] = (*Cache[string, int])(nil)

// Set stores value and makes key the most recently used entry,
// evicting the least recently used one when the cache is full.
func (c *Cache[K, V]) Set(key K, value V) {
	if !c.list.Contains(key) && c.list.Len() >= c.capacity {
		k, v, ok := c.DeleteOldest()
		if ok && c.onEviction != nil {
			c.onEviction(base.EvictionReasonCapacity, k, v)
		}
	}

	c.list.Add(key, value)
}

// Get returns the value of key and marks it as the most recently used.
func (c *Cache[K, V]) Get(key K) (value V, ok bool) {
	return c.list.Get(key)
}

// Peek returns the value of key without updating the access order.
func (c *Cache[K, V]) Peek(key K) (value V, ok bool) {
	return c.list.Peek(key)
}

// Delete removes key. It returns false when key was absent.
func (c *Cache[K, V]) Delete(key K) bool {
	return c.list.Remove(key)
}

// DeleteOldest removes the least recently used entry.
func (c *Cache[K, V]) DeleteOldest() (k K, v V, ok bool) {
	return c.list.RemoveOldest()
}

// Keys returns the keys from most to least recently used.
func (c *Cache[K, V]) Keys() []K {
	keys := c.list.Keys()
	for i, j := 0, len(keys)-1; i < j; i, j = i+1, j-1 {
		keys[i], keys[j] = keys[j], keys[i]
	}
	return keys
}

// Purge drops every entry without calling the eviction callback.
func (c *Cache[K, V]) Purge() {
	c.list.Purge()
}

func (c *Cache[K, V]) Capacity() int {
	return c.capacity
}

func (c *Cache[K, V]) Len() int {
	return c.list.Len()
}

// SizeBytes walks every entry and is expensive on large graphs.
func (c *Cache[K, V]) SizeBytes() int64 {
	var total int64
	for _, key := range c.list.Keys() {
		value, _ := c.list.Peek(key)
		total += int64(size.Of(key)) + int64(size.Of(value))
	}
	return total
}
