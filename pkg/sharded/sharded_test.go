package sharded

import (
	"fmt"
	"sync"
	"testing"

	"github.com/lsifkit/shardgraph/pkg/base"
	"github.com/lsifkit/shardgraph/pkg/hashmod"
	"github.com/lsifkit/shardgraph/pkg/lru"
	"github.com/stretchr/testify/assert"
)

func newTestStore(shards uint64, capacity int) *Store[int] {
	return NewStore[int](shards, func(int) base.Cache[string, int] {
		return lru.New[string, int](capacity)
	}, nil)
}

func TestNewStore(t *testing.T) {
	is := assert.New(t)
	t.Parallel()

	is.Panics(func() {
		newTestStore(0, 1)
	})

	indexes := []int{}
	store := NewStore[int](4, func(i int) base.Cache[string, int] {
		indexes = append(indexes, i)
		return lru.New[string, int](10)
	}, nil)
	is.Equal([]int{0, 1, 2, 3}, indexes)
	is.Equal(4, store.Shards())
	is.Equal(40, store.Capacity())
}

func TestStoreShardMatchesHashMod(t *testing.T) {
	is := assert.New(t)
	t.Parallel()

	store := newTestStore(5, 10)
	is.Equal(4, store.Shard("foobar"))
	is.Equal(3, store.Shard("github.com/sourcegraph/sourcegraph"))

	for _, repo := range []string{"a", "b", "github.com/gorilla/mux"} {
		expected, err := hashmod.HashMod(repo, 5)
		is.NoError(err)
		is.Equal(expected, store.Shard(repo))
	}
}

func TestStoreCustomHasher(t *testing.T) {
	is := assert.New(t)
	t.Parallel()

	store := NewStore[int](3, func(int) base.Cache[string, int] {
		return lru.New[string, int](10)
	}, func(repo string) uint64 {
		return uint64(len(repo))
	})

	is.Equal(0, store.Shard("abc"))
	is.Equal(1, store.Shard("abcd"))
}

func TestStoreSetGetDelete(t *testing.T) {
	is := assert.New(t)
	t.Parallel()

	store := newTestStore(4, 10)
	store.Set("github.com/sourcegraph/sourcegraph", 1)
	store.Set("github.com/gorilla/mux", 2)

	found, missing := store.GetMany([]string{"github.com/sourcegraph/sourcegraph", "github.com/unknown/repo"}, nil)
	is.Equal(map[string]int{"github.com/sourcegraph/sourcegraph": 1}, found)
	is.Equal([]string{"github.com/unknown/repo"}, missing)

	is.Equal(2, store.Len())
	is.ElementsMatch([]string{"github.com/sourcegraph/sourcegraph", "github.com/gorilla/mux"}, store.Keys())

	is.True(store.Delete("github.com/gorilla/mux"))
	is.False(store.Delete("github.com/gorilla/mux"))
	is.Equal(1, store.Len())

	store.Purge()
	is.Zero(store.Len())
}

func TestStoreMany(t *testing.T) {
	is := assert.New(t)
	t.Parallel()

	store := newTestStore(3, 10)
	store.SetMany(map[string]int{"a": 1, "b": 2, "c": 3})
	store.SetMany(map[string]int{})

	found, missing := store.GetMany([]string{"a", "c", "d"}, nil)
	is.Equal(map[string]int{"a": 1, "c": 3}, found)
	is.Equal([]string{"d"}, missing)

	found, missing = store.GetMany(nil, nil)
	is.Empty(found)
	is.Empty(missing)
}

// expiringCache records which keys were expired and which were read.
type expiringCache struct {
	*lru.Cache[string, int]
	expired []string
	reads   []string
}

func (c *expiringCache) Get(key string) (int, bool) {
	c.reads = append(c.reads, key)
	return c.Cache.Get(key)
}

func (c *expiringCache) Expire(key string) bool {
	c.expired = append(c.expired, key)
	return c.Cache.Delete(key)
}

func TestStoreGetManyExpired(t *testing.T) {
	is := assert.New(t)
	t.Parallel()

	cache := &expiringCache{Cache: lru.New[string, int](10)}
	store := NewStore[int](1, func(int) base.Cache[string, int] {
		return cache
	}, nil)
	store.SetMany(map[string]int{"fresh": 1, "stale": -1})

	found, missing := store.GetMany([]string{"fresh", "stale"}, func(v int) bool {
		return v < 0
	})
	is.Equal(map[string]int{"fresh": 1}, found)
	is.Equal([]string{"stale"}, missing)
	is.Equal([]string{"stale"}, cache.expired)
	is.Equal(1, store.Len())

	// "stale" is read only after its removal, as a miss
	is.Equal([]string{"fresh", "stale"}, cache.reads)
	is.NotContains(store.Keys(), "stale")
}

func TestStoreConcurrentAccess(t *testing.T) {
	is := assert.New(t)
	t.Parallel()

	store := newTestStore(8, 1000)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				repo := fmt.Sprintf("github.com/org-%d/repo-%d", id, j)
				store.Set(repo, j)
				store.GetMany([]string{repo}, nil)
			}
		}(i)
	}
	wg.Wait()

	is.Equal(1000, store.Len())
}
