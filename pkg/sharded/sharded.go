package sharded

import (
	"sync"

	"github.com/lsifkit/shardgraph/pkg/base"
	"github.com/lsifkit/shardgraph/pkg/hashmod"
)

// NewStore creates a store of shards caches keyed by repository name.
// newCache is called once per shard with the shard index. With the
// hashmod.MD5 hasher a repository lives in the shard whose index is the
// gitserver bucket of that repository for the same shard count.
func NewStore[V any](shards uint64, newCache func(shardIndex int) base.Cache[string, V], fn hashmod.Hasher) *Store[V] {
	if shards == 0 {
		panic("shards must be greater than 0")
	}
	if fn == nil {
		fn = hashmod.MD5
	}

	s := &Store[V]{
		shards: make([]*shard[V], shards),
		fn:     fn,
	}
	for i := range s.shards {
		s.shards[i] = &shard[V]{cache: newCache(i)}
	}

	return s
}

type shard[V any] struct {
	mu    sync.Mutex
	cache base.Cache[string, V]
}

// Store spreads repositories over independent cache shards so that
// concurrent access to different repositories rarely contends on a lock.
type Store[V any] struct {
	noCopy noCopy

	shards []*shard[V]
	fn     hashmod.Hasher
}

// Shard returns the index of the shard owning repo.
func (s *Store[V]) Shard(repo string) int {
	return int(s.fn.Bucket(repo, uint64(len(s.shards))))
}

// Shards returns the number of shards.
func (s *Store[V]) Shards() int {
	return len(s.shards)
}

func (s *Store[V]) shardOf(repo string) *shard[V] {
	return s.shards[s.Shard(repo)]
}

func (s *Store[V]) Set(repo string, value V) {
	sh := s.shardOf(repo)
	sh.mu.Lock()
	sh.cache.Set(repo, value)
	sh.mu.Unlock()
}

func (s *Store[V]) Delete(repo string) bool {
	sh := s.shardOf(repo)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.cache.Delete(repo)
}

// expirer is implemented by shard caches reporting TTL evictions.
type expirer[K comparable] interface {
	Expire(key K) bool
}

// GetMany groups repos by shard and locks each shard once.
// It returns the values found and the repos that were missing. When expired
// is not nil, values it matches are removed and reported missing: they never
// count as a hit of the shard cache.
func (s *Store[V]) GetMany(repos []string, expired func(V) bool) (map[string]V, []string) {
	found := make(map[string]V, len(repos))
	missing := []string{}

	for i, batch := range s.group(repos) {
		sh := s.shards[i]
		sh.mu.Lock()
		for _, repo := range batch {
			if expired != nil {
				if v, ok := sh.cache.Peek(repo); ok && expired(v) {
					sh.expire(repo)
				}
			}

			if v, ok := sh.cache.Get(repo); ok {
				found[repo] = v
			} else {
				missing = append(missing, repo)
			}
		}
		sh.mu.Unlock()
	}

	return found, missing
}

// expire must be called with the shard lock held.
func (sh *shard[V]) expire(repo string) bool {
	if e, ok := sh.cache.(expirer[string]); ok {
		return e.Expire(repo)
	}
	return sh.cache.Delete(repo)
}

// SetMany groups items by shard and locks each shard once.
func (s *Store[V]) SetMany(items map[string]V) {
	if len(items) == 0 {
		return
	}

	repos := make([]string, 0, len(items))
	for repo := range items {
		repos = append(repos, repo)
	}

	for i, batch := range s.group(repos) {
		sh := s.shards[i]
		sh.mu.Lock()
		for _, repo := range batch {
			sh.cache.Set(repo, items[repo])
		}
		sh.mu.Unlock()
	}
}

func (s *Store[V]) group(repos []string) map[int][]string {
	batch := map[int][]string{}
	for _, repo := range repos {
		i := s.Shard(repo)
		batch[i] = append(batch[i], repo)
	}
	return batch
}

// Keys returns the repositories of every shard.
func (s *Store[V]) Keys() []string {
	keys := []string{}
	for _, sh := range s.shards {
		sh.mu.Lock()
		keys = append(keys, sh.cache.Keys()...)
		sh.mu.Unlock()
	}
	return keys
}

func (s *Store[V]) Purge() {
	for _, sh := range s.shards {
		sh.mu.Lock()
		sh.cache.Purge()
		sh.mu.Unlock()
	}
}

func (s *Store[V]) Len() int {
	total := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		total += sh.cache.Len()
		sh.mu.Unlock()
	}
	return total
}

func (s *Store[V]) Capacity() int {
	total := 0
	for _, sh := range s.shards {
		total += sh.cache.Capacity()
	}
	return total
}

// SizeBytes is slow, see lru.Cache.SizeBytes.
func (s *Store[V]) SizeBytes() int64 {
	var total int64
	for _, sh := range s.shards {
		sh.mu.Lock()
		total += sh.cache.SizeBytes()
		sh.mu.Unlock()
	}
	return total
}

// noCopy may be added to structs which must not be copied after first use.
// See https://golang.org/issues/8005#issuecomment-190753527.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
