package metrics

import (
	"github.com/lsifkit/shardgraph/pkg/base"
)

var _ Collector = (*NoOpCollector)(nil)

// NoOpCollector drops every event. It is used when metrics are disabled.
type NoOpCollector struct{}

func (n *NoOpCollector) IncInsertion()                                        {}
func (n *NoOpCollector) IncEviction(reason base.EvictionReason)               {}
func (n *NoOpCollector) AddEvictions(reason base.EvictionReason, count int64) {}
func (n *NoOpCollector) IncHit()                                              {}
func (n *NoOpCollector) IncMiss()                                             {}
func (n *NoOpCollector) IncLoad(err error, edges int)                         {}
func (n *NoOpCollector) UpdateSizeBytes(sizeBytes int64)                      {}
func (n *NoOpCollector) UpdateLength(length int64)                            {}
