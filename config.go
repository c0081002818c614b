package shardgraph

import (
	"io"
	"log/slog"
	"time"

	"github.com/lsifkit/shardgraph/pkg/hashmod"
)

// NewGraphCache starts the configuration of a commit graph cache with the
// given number of shards, each holding up to capacity repositories.
func NewGraphCache(shards uint64, capacity int) GraphCacheConfig {
	assertValue(shards > 0, "shards must be greater than 0")
	assertValue(capacity > 0, "capacity must be greater than 0")

	return GraphCacheConfig{
		shards:   shards,
		capacity: capacity,
	}
}

type GraphCacheConfig struct {
	shards   uint64
	capacity int

	ttl    time.Duration
	hasher hashmod.Hasher

	loaderFns LoaderChain

	prometheusMetrics bool
	name              string

	logger *slog.Logger
}

// WithTTL expires graphs ttl after they were loaded. New commits are not
// visible until then. A ttl of 0 keeps graphs until evicted.
func (cfg GraphCacheConfig) WithTTL(ttl time.Duration) GraphCacheConfig {
	assertValue(ttl >= 0, "ttl must be a positive value")

	cfg.ttl = ttl
	return cfg
}

// WithHasher replaces the MD5 hasher used to pick a shard.
func (cfg GraphCacheConfig) WithHasher(hasher hashmod.Hasher) GraphCacheConfig {
	assertValue(hasher != nil, "hasher must not be nil")

	cfg.hasher = hasher
	return cfg
}

func (cfg GraphCacheConfig) WithLoaders(loaders ...Loader) GraphCacheConfig {
	cfg.loaderFns = loaders
	return cfg
}

// WithPrometheusMetrics enables per-shard metrics labelled with name.
// The cache must then be registered as a prometheus.Collector.
func (cfg GraphCacheConfig) WithPrometheusMetrics(name string) GraphCacheConfig {
	assertValue(name != "", "cache name must not be empty")

	cfg.prometheusMetrics = true
	cfg.name = name
	return cfg
}

func (cfg GraphCacheConfig) WithLogger(logger *slog.Logger) GraphCacheConfig {
	cfg.logger = logger
	return cfg
}

func (cfg GraphCacheConfig) Build() *GraphCache {
	hasher := cfg.hasher
	if hasher == nil {
		hasher = hashmod.MD5
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return newGraphCache(
		cfg.shards,
		cfg.capacity,
		cfg.ttl,
		hasher,
		cfg.loaderFns,
		cfg.prometheusMetrics,
		cfg.name,
		logger,
	)
}
