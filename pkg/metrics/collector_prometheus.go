package metrics

import (
	"strconv"
	"sync/atomic"

	"github.com/lsifkit/shardgraph/pkg/base"
	"github.com/prometheus/client_golang/prometheus"
)

var _ Collector = (*PrometheusCollector)(nil)
var _ prometheus.Collector = (*PrometheusCollector)(nil)

// PrometheusCollector implements Collector with lock-free counters exposed
// as Prometheus const metrics.
type PrometheusCollector struct {
	name   string
	labels prometheus.Labels

	insertionCount int64
	evictionCount  map[base.EvictionReason]*int64 // fixed set, never written after construction
	hitCount       int64
	missCount      int64
	loadCount      int64
	loadErrorCount int64
	edgeCount      int64

	sizeBytes int64
	length    int64

	settingsCapacity prometheus.Gauge

	insertionDesc *prometheus.Desc
	evictionDesc  *prometheus.Desc
	hitDesc       *prometheus.Desc
	missDesc      *prometheus.Desc
	loadDesc      *prometheus.Desc
	edgeDesc      *prometheus.Desc
	sizeDesc      *prometheus.Desc
	lengthDesc    *prometheus.Desc
}

// NewPrometheusCollector creates a collector labelled with the cache name
// and, when shard >= 0, the shard index.
func NewPrometheusCollector(name string, shard int, capacity int) *PrometheusCollector {
	labels := prometheus.Labels{
		"name": name,
	}
	if shard >= 0 {
		labels["shard"] = strconv.Itoa(shard)
	}

	collector := &PrometheusCollector{
		name:          name,
		labels:        labels,
		evictionCount: make(map[base.EvictionReason]*int64, len(base.EvictionReasons)),
	}
	for _, reason := range base.EvictionReasons {
		collector.evictionCount[reason] = new(int64)
	}

	collector.insertionDesc = prometheus.NewDesc(
		"shardgraph_insertion_total",
		"Total number of commit graphs inserted into the cache",
		nil, labels,
	)
	collector.evictionDesc = prometheus.NewDesc(
		"shardgraph_eviction_total",
		"Total number of commit graphs evicted from the cache",
		[]string{"reason"}, labels,
	)
	collector.hitDesc = prometheus.NewDesc(
		"shardgraph_hit_total",
		"Total number of cache hits",
		nil, labels,
	)
	collector.missDesc = prometheus.NewDesc(
		"shardgraph_miss_total",
		"Total number of cache misses",
		nil, labels,
	)
	collector.loadDesc = prometheus.NewDesc(
		"shardgraph_load_total",
		"Total number of commit log loads",
		[]string{"status"}, labels,
	)
	collector.edgeDesc = prometheus.NewDesc(
		"shardgraph_flattened_edges_total",
		"Total number of parent edges produced from loaded commit logs",
		nil, labels,
	)
	collector.sizeDesc = prometheus.NewDesc(
		"shardgraph_size_bytes",
		"Estimated size of the cached commit graphs in bytes",
		nil, labels,
	)
	collector.lengthDesc = prometheus.NewDesc(
		"shardgraph_length",
		"Current number of cached commit graphs",
		nil, labels,
	)

	collector.settingsCapacity = prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "shardgraph_settings_capacity",
		Help:        "Maximum number of commit graphs the cache can hold",
		ConstLabels: labels,
	})
	collector.settingsCapacity.Set(float64(capacity))

	return collector
}

func (p *PrometheusCollector) IncInsertion() {
	atomic.AddInt64(&p.insertionCount, 1)
}

func (p *PrometheusCollector) IncEviction(reason base.EvictionReason) {
	p.AddEvictions(reason, 1)
}

// AddEvictions ignores reasons outside of base.EvictionReasons.
func (p *PrometheusCollector) AddEvictions(reason base.EvictionReason, count int64) {
	if counter, ok := p.evictionCount[reason]; ok {
		atomic.AddInt64(counter, count)
	}
}

func (p *PrometheusCollector) IncHit() {
	atomic.AddInt64(&p.hitCount, 1)
}

func (p *PrometheusCollector) IncMiss() {
	atomic.AddInt64(&p.missCount, 1)
}

func (p *PrometheusCollector) IncLoad(err error, edges int) {
	if err != nil {
		atomic.AddInt64(&p.loadErrorCount, 1)
		return
	}
	atomic.AddInt64(&p.loadCount, 1)
	atomic.AddInt64(&p.edgeCount, int64(edges))
}

func (p *PrometheusCollector) UpdateSizeBytes(sizeBytes int64) {
	atomic.StoreInt64(&p.sizeBytes, sizeBytes)
}

func (p *PrometheusCollector) UpdateLength(length int64) {
	atomic.StoreInt64(&p.length, length)
}

// Describe implements prometheus.Collector.
func (p *PrometheusCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- p.insertionDesc
	ch <- p.evictionDesc
	ch <- p.hitDesc
	ch <- p.missDesc
	ch <- p.loadDesc
	ch <- p.edgeDesc
	ch <- p.sizeDesc
	ch <- p.lengthDesc
	ch <- p.settingsCapacity.Desc()
}

// Collect implements prometheus.Collector.
func (p *PrometheusCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(p.insertionDesc, prometheus.CounterValue, float64(atomic.LoadInt64(&p.insertionCount)))
	ch <- prometheus.MustNewConstMetric(p.hitDesc, prometheus.CounterValue, float64(atomic.LoadInt64(&p.hitCount)))
	ch <- prometheus.MustNewConstMetric(p.missDesc, prometheus.CounterValue, float64(atomic.LoadInt64(&p.missCount)))
	ch <- prometheus.MustNewConstMetric(p.loadDesc, prometheus.CounterValue, float64(atomic.LoadInt64(&p.loadCount)), "success")
	ch <- prometheus.MustNewConstMetric(p.loadDesc, prometheus.CounterValue, float64(atomic.LoadInt64(&p.loadErrorCount)), "error")
	ch <- prometheus.MustNewConstMetric(p.edgeDesc, prometheus.CounterValue, float64(atomic.LoadInt64(&p.edgeCount)))
	ch <- prometheus.MustNewConstMetric(p.sizeDesc, prometheus.GaugeValue, float64(atomic.LoadInt64(&p.sizeBytes)))
	ch <- prometheus.MustNewConstMetric(p.lengthDesc, prometheus.GaugeValue, float64(atomic.LoadInt64(&p.length)))

	for _, reason := range base.EvictionReasons {
		ch <- prometheus.MustNewConstMetric(
			p.evictionDesc,
			prometheus.CounterValue,
			float64(atomic.LoadInt64(p.evictionCount[reason])),
			string(reason),
		)
	}

	p.settingsCapacity.Collect(ch)
}
