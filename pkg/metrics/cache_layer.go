package metrics

import (
	"github.com/lsifkit/shardgraph/pkg/base"
)

var _ base.Cache[string, int] = (*InstrumentedCache[string, int])(nil)

// NewInstrumentedCache wraps cache and reports its activity to metrics.
func NewInstrumentedCache[K comparable, V any](cache base.Cache[K, V], metrics Collector) *InstrumentedCache[K, V] {
	return &InstrumentedCache[K, V]{
		cache:   cache,
		metrics: metrics,
	}
}

// InstrumentedCache counts insertions, hits, misses, manual and TTL evictions.
// Capacity evictions happen inside the wrapped cache and are reported
// through its eviction callback.
type InstrumentedCache[K comparable, V any] struct {
	cache   base.Cache[K, V]
	metrics Collector
}

func (m *InstrumentedCache[K, V]) Set(key K, value V) {
	m.cache.Set(key, value)
	m.metrics.IncInsertion()
}

func (m *InstrumentedCache[K, V]) Get(key K) (V, bool) {
	value, found := m.cache.Get(key)
	if found {
		m.metrics.IncHit()
	} else {
		m.metrics.IncMiss()
	}
	return value, found
}

func (m *InstrumentedCache[K, V]) Peek(key K) (V, bool) {
	return m.cache.Peek(key)
}

func (m *InstrumentedCache[K, V]) Delete(key K) bool {
	deleted := m.cache.Delete(key)
	if deleted {
		m.metrics.IncEviction(base.EvictionReasonManual)
	}
	return deleted
}

// Expire deletes key and reports it as a TTL eviction.
func (m *InstrumentedCache[K, V]) Expire(key K) bool {
	deleted := m.cache.Delete(key)
	if deleted {
		m.metrics.IncEviction(base.EvictionReasonTTL)
	}
	return deleted
}

func (m *InstrumentedCache[K, V]) Keys() []K {
	return m.cache.Keys()
}

func (m *InstrumentedCache[K, V]) Purge() {
	count := m.cache.Len()
	m.cache.Purge()

	if count > 0 {
		m.metrics.AddEvictions(base.EvictionReasonManual, int64(count))
	}
}

func (m *InstrumentedCache[K, V]) Capacity() int {
	return m.cache.Capacity()
}

func (m *InstrumentedCache[K, V]) Len() int {
	length := m.cache.Len()
	m.metrics.UpdateLength(int64(length))
	return length
}

func (m *InstrumentedCache[K, V]) SizeBytes() int64 {
	size := m.cache.SizeBytes()
	m.metrics.UpdateSizeBytes(size)
	return size
}
