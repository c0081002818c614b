package shardgraph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lsifkit/shardgraph/internal"
	"github.com/lsifkit/shardgraph/pkg/base"
	"github.com/lsifkit/shardgraph/pkg/commits"
	"github.com/lsifkit/shardgraph/pkg/hashmod"
	"github.com/lsifkit/shardgraph/pkg/lru"
	"github.com/lsifkit/shardgraph/pkg/metrics"
	"github.com/lsifkit/shardgraph/pkg/sharded"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/go-singleflightx"
)

// ErrNotFound is returned when no loader knows a repository.
var ErrNotFound = errors.New("shardgraph: repository not found")

var _ prometheus.Collector = (*GraphCache)(nil)

func newGraphCache(
	shards uint64,
	capacity int,
	ttl time.Duration,
	hasher hashmod.Hasher,
	loaderFns LoaderChain,
	prometheusMetrics bool,
	name string,
	logger *slog.Logger,
) *GraphCache {
	collectors := make([]metrics.Collector, shards)
	for i := range collectors {
		if prometheusMetrics {
			collectors[i] = metrics.NewCollector(name, i, capacity)
		} else {
			collectors[i] = &metrics.NoOpCollector{}
		}
	}

	store := sharded.NewStore[*entry](shards, func(shardIndex int) base.Cache[string, *entry] {
		collector := collectors[shardIndex]
		cache := lru.NewWithEvictionCallback(capacity, func(reason base.EvictionReason, repo string, _ *entry) {
			collector.IncEviction(reason)
			logger.Debug("commit graph evicted", "repo", repo, "reason", reason, "shard", shardIndex)
		})
		return metrics.NewInstrumentedCache[string, *entry](cache, collector)
	}, hasher)

	return &GraphCache{
		store:      store,
		ttlNano:    ttl.Nanoseconds(),
		loaderFns:  loaderFns,
		group:      singleflightx.Group[string, *entry]{},
		logger:     logger,
		collectors: collectors,
	}
}

// GraphCache keeps the commit graph of recently used repositories.
// Repositories are spread over shards with the same hash as the one used to
// route them to a gitserver, so a cache instance per gitserver only ever
// fills the shard of its own bucket.
//
// GraphCache is safe for concurrent use. Concurrent loads of the same
// repository share a single loader call.
type GraphCache struct {
	store   *sharded.Store[*entry]
	ttlNano int64

	loaderFns LoaderChain
	group     singleflightx.Group[string, *entry]

	logger     *slog.Logger
	collectors []metrics.Collector // one per shard
}

// Get returns the commit graph of repo, loading it on a miss.
func (c *GraphCache) Get(ctx context.Context, repo string) (*commits.Graph, error) {
	graphs, err := c.GetMany(ctx, []string{repo})
	if err != nil {
		return nil, err
	}
	return graphs[repo], nil
}

// GetMany returns the commit graphs of repos, loading the missing or
// expired ones with a single call to the loader chain. It fails if any
// repository cannot be loaded; no partial result is returned.
func (c *GraphCache) GetMany(ctx context.Context, repos []string) (map[string]*commits.Graph, error) {
	repos = uniq(repos)

	cached, missing := c.getUnexpired(repos)

	output := make(map[string]*commits.Graph, len(repos))
	for repo, e := range cached {
		output[repo] = e.graph
	}

	if len(missing) == 0 {
		return output, nil
	}

	loaded, err := c.loadAndSetMany(ctx, missing)
	if err != nil {
		return nil, err
	}

	for _, repo := range missing {
		e, ok := loaded[repo]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, repo)
		}
		output[repo] = e.graph
	}

	return output, nil
}

// Nearest resolves, in the graph of repo, the closest commit to commit for
// which isIndexed returns true. See commits.Graph.Nearest.
func (c *GraphCache) Nearest(ctx context.Context, repo string, commit string, isIndexed func(string) bool, maxDistance int) (commits.Match, bool, error) {
	graph, err := c.Get(ctx, repo)
	if err != nil {
		return commits.Match{}, false, err
	}

	match, ok := graph.Nearest(commit, isIndexed, maxDistance)
	return match, ok, nil
}

// Set stores graph for repo, replacing any cached graph.
func (c *GraphCache) Set(repo string, graph *commits.Graph) {
	c.store.Set(repo, newEntry(graph, 0, c.ttlNano))
}

// Invalidate drops the cached graph of repo. The next Get reloads it.
func (c *GraphCache) Invalidate(repo string) bool {
	return c.store.Delete(repo)
}

// Purge drops every cached graph.
func (c *GraphCache) Purge() {
	c.store.Purge()
}

// Len returns the number of cached graphs, expired ones included.
func (c *GraphCache) Len() int {
	return c.store.Len()
}

// Repos returns the repositories with a cached graph, expired ones included.
func (c *GraphCache) Repos() []string {
	return c.store.Keys()
}

// Capacity returns the maximum number of cached graphs across all shards.
func (c *GraphCache) Capacity() int {
	return c.store.Capacity()
}

// Shard returns the shard owning repo. With the default hasher it equals
// hashmod.HashMod(repo, shards).
func (c *GraphCache) Shard(repo string) int {
	return c.store.Shard(repo)
}

// Shards returns the number of shards.
func (c *GraphCache) Shards() int {
	return c.store.Shards()
}

// getUnexpired reads repos from the store. Expired graphs are deleted and
// reported as missing.
func (c *GraphCache) getUnexpired(repos []string) (map[string]*entry, []string) {
	now := internal.NowNano()
	return c.store.GetMany(repos, func(e *entry) bool {
		return e.isExpired(now)
	})
}

// loadAndSetMany loads the commit logs of repos, flattens them into graphs
// and caches the result. Concurrent calls for the same repositories are
// deduplicated with singleflight. Repositories unknown to every loader are
// absent from the returned map.
func (c *GraphCache) loadAndSetMany(ctx context.Context, repos []string) (map[string]*entry, error) {
	if len(c.loaderFns) == 0 {
		return map[string]*entry{}, nil
	}

	results := c.group.DoX(repos, func(missing []string) (map[string]*entry, error) {
		c.logger.Debug("loading commit logs", "repos", len(missing))

		logs, stillMissing, err := c.loaderFns.run(ctx, missing)
		if err != nil {
			c.logger.Warn("commit log loader failed", "repos", len(missing), "error", err)
			return nil, err
		}

		entries := make(map[string]*entry, len(logs))
		for repo, lines := range logs {
			edges, err := commits.FlattenParents(lines)
			collector := c.collectors[c.store.Shard(repo)]
			collector.IncLoad(err, len(edges))
			if err != nil {
				c.logger.Warn("malformed commit log", "repo", repo, "error", err)
				return nil, fmt.Errorf("repository %s: %w", repo, err)
			}

			entries[repo] = newEntry(commits.NewGraph(edges), len(edges), c.ttlNano)
		}

		c.store.SetMany(entries)

		if len(stillMissing) > 0 {
			c.logger.Debug("repositories without commit log", "repos", stillMissing)
		}

		return entries, nil
	})

	output := make(map[string]*entry, len(repos))
	for _, repo := range repos {
		r, ok := results[repo]
		if !ok {
			continue
		}
		if r.Err != nil {
			return nil, r.Err
		}
		if r.Value.Valid {
			output[repo] = r.Value.Value
		}
	}

	return output, nil
}

// Describe implements the prometheus.Collector interface.
func (c *GraphCache) Describe(ch chan<- *prometheus.Desc) {
	for _, collector := range c.collectors {
		if prometheusCollector, ok := collector.(prometheus.Collector); ok {
			prometheusCollector.Describe(ch)
		}
	}
}

// Collect implements the prometheus.Collector interface.
// It refreshes the length and size gauges first, which walks every graph.
func (c *GraphCache) Collect(ch chan<- prometheus.Metric) {
	c.store.Len()
	c.store.SizeBytes()

	for _, collector := range c.collectors {
		if prometheusCollector, ok := collector.(prometheus.Collector); ok {
			prometheusCollector.Collect(ch)
		}
	}
}
