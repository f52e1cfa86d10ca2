// Package prom exports index metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	idx, _ := quantbin.NewSlicedIndex(cfg, quantbin.WithMetricsCollector(prom.NewCollector(reg, "quantbin")))
package prom

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/hupe1980/quantbin"
)

// Collector implements quantbin.MetricsCollector with Prometheus metrics.
type Collector struct {
	opLatency  *prometheus.HistogramVec
	ops        *prometheus.CounterVec
	batchBins  *prometheus.CounterVec
	probes     prometheus.Histogram
	hits       prometheus.Counter
	found      prometheus.Counter
	placements *prometheus.CounterVec
}

var _ quantbin.MetricsCollector = (*Collector)(nil)

// NewCollector registers the metrics with reg under namespace.
// A nil reg uses prometheus.DefaultRegisterer.
func NewCollector(reg prometheus.Registerer, namespace string) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Collector{
		opLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_latency_seconds",
			Help:      "Latency of index operations",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		}, []string{"op", "status"}),
		ops: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Total index operations",
		}, []string{"op", "status"}),
		batchBins: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_bins_total",
			Help:      "Bins submitted to InsertAll, by destination",
		}, []string{"dest"}),
		probes: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_probes",
			Help:      "Bucket lookups per query",
			Buckets:   prometheus.ExponentialBuckets(1, 3, 10),
		}),
		hits: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_hits_total",
			Help:      "Bucket lookups that found a non-empty bucket",
		}),
		found: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_matches_total",
			Help:      "Queries that returned a cluster",
		}),
		placements: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "placements_total",
			Help:      "AddOrMerge outcomes",
		}, []string{"placement"}),
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func (c *Collector) observe(op string, d time.Duration, err error) {
	s := status(err)
	c.opLatency.WithLabelValues(op, s).Observe(d.Seconds())
	c.ops.WithLabelValues(op, s).Inc()
}

// RecordInsert implements quantbin.MetricsCollector.
func (c *Collector) RecordInsert(d time.Duration, err error) {
	c.observe("insert", d, err)
}

// RecordBatchInsert implements quantbin.MetricsCollector.
func (c *Collector) RecordBatchInsert(count, residual int, d time.Duration, err error) {
	c.observe("insert_all", d, err)
	c.batchBins.WithLabelValues("residual").Add(float64(residual))
	if err != nil {
		return
	}
	c.batchBins.WithLabelValues("index").Add(float64(count - residual))
}

// RecordQuery implements quantbin.MetricsCollector.
func (c *Collector) RecordQuery(probes, hits int, found bool, d time.Duration, err error) {
	c.observe("query", d, err)
	if err != nil {
		return
	}
	c.probes.Observe(float64(probes))
	c.hits.Add(float64(hits))
	if found {
		c.found.Inc()
	}
}

// RecordPlacement implements quantbin.MetricsCollector.
func (c *Collector) RecordPlacement(p quantbin.Placement) {
	c.placements.WithLabelValues(p.String()).Inc()
}
