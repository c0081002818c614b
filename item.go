package shardgraph

import (
	"github.com/lsifkit/shardgraph/internal"
	"github.com/lsifkit/shardgraph/pkg/commits"
)

// newEntry wraps a graph built from edges parent edges.
// A ttlNano of 0 means the entry never expires.
func newEntry(graph *commits.Graph, edges int, ttlNano int64) *entry {
	var expiryNano int64
	if ttlNano != 0 {
		expiryNano = internal.NowNano() + ttlNano
	}

	return &entry{
		graph:      graph,
		edges:      edges,
		expiryNano: expiryNano,
	}
}

// entry is the cached value of a repository.
type entry struct {
	graph      *commits.Graph
	edges      int
	expiryNano int64
}

func (e *entry) isExpired(nowNano int64) bool {
	return e.expiryNano > 0 && nowNano > e.expiryNano
}
