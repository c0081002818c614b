package base

// Cache is a bounded in-memory store used as a single shard.
// Implementations are not required to be safe for concurrent access: the
// sharded store serializes calls to each shard.
type Cache[K comparable, V any] interface {
	// Set stores a value. An existing value for key is replaced.
	Set(key K, value V)

	// Get returns the value of key and marks it as recently used.
	Get(key K) (V, bool)

	// Peek returns the value of key without touching the access order.
	Peek(key K) (V, bool)

	// Delete removes key and reports whether it was present.
	Delete(key K) bool

	// Keys returns the stored keys, in no particular order.
	Keys() []K

	// Purge drops every entry.
	Purge()

	// Capacity returns the maximum number of entries.
	Capacity() int

	// Len returns the current number of entries.
	Len() int

	// SizeBytes returns an estimate of the memory held by the entries.
	SizeBytes() int64
}
