package base

// EvictionReason tells why an entry left a cache.
type EvictionReason string

const (
	EvictionReasonCapacity EvictionReason = "capacity"
	EvictionReasonTTL      EvictionReason = "ttl"
	EvictionReasonManual   EvictionReason = "manual"
)

// EvictionReasons lists the reasons reported by the caches of this module.
var EvictionReasons = []EvictionReason{
	EvictionReasonCapacity,
	EvictionReasonTTL,
	EvictionReasonManual,
}

// EvictionCallback is called with the evicted entry.
// It runs while the shard lock is held and must not call back into the cache.
type EvictionCallback[K comparable, V any] func(reason EvictionReason, key K, value V)
