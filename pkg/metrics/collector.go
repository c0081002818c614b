package metrics

import (
	"github.com/lsifkit/shardgraph/pkg/base"
)

// NewCollector creates the collector of one graph cache shard.
// A negative shard omits the shard label.
func NewCollector(name string, shard int, capacity int) Collector {
	return NewPrometheusCollector(name, shard, capacity)
}

// Collector receives the events of a graph cache shard.
type Collector interface {
	IncInsertion()
	IncEviction(reason base.EvictionReason)
	AddEvictions(reason base.EvictionReason, count int64)
	IncHit()
	IncMiss()
	// IncLoad records a commit log load, with the number of edges produced
	// on success.
	IncLoad(err error, edges int)
	UpdateSizeBytes(sizeBytes int64)
	UpdateLength(length int64)
}
