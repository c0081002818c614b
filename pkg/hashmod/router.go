package hashmod

import "fmt"

// NewRouter returns a Router that spreads keys over backends.
// The order of backends is significant: two routers agree on every key only
// when they were built from the same ordered list.
func NewRouter[T any](backends ...T) (*Router[T], error) {
	if len(backends) == 0 {
		return nil, fmt.Errorf("%w: router needs at least one backend", ErrInvalidArgument)
	}

	cp := make([]T, len(backends))
	copy(cp, backends)

	return &Router[T]{backends: cp}, nil
}

// Router assigns each key to one backend using HashMod.
// It is immutable and safe for concurrent use. Adding or removing a backend
// remaps most keys; callers are expected to redistribute data themselves.
type Router[T any] struct {
	backends []T
}

// Pick returns the backend owning key and its index.
func (r *Router[T]) Pick(key string) (T, int) {
	// len(r.backends) >= 1 is checked by NewRouter, HashMod cannot fail.
	i := int(MD5.Bucket(key, uint64(len(r.backends))))
	return r.backends[i], i
}

// Backends returns a copy of the backend list.
func (r *Router[T]) Backends() []T {
	cp := make([]T, len(r.backends))
	copy(cp, r.backends)
	return cp
}

// Len returns the number of backends.
func (r *Router[T]) Len() int {
	return len(r.backends)
}
