package quantbin

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; the prom
// package provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordInsert is called after each insert operation.
	// duration is the total time taken, err is nil if successful.
	RecordInsert(duration time.Duration, err error)

	// RecordBatchInsert is called after each InsertAll that got past
	// validation. count is the number of bins submitted, residual the number
	// routed to the residual list, err is nil if every bin was stored.
	RecordBatchInsert(count, residual int, duration time.Duration, err error)

	// RecordQuery is called after each query with the number of buckets
	// probed, the number of probes that found a non-empty bucket, and
	// whether a match was returned.
	RecordQuery(probes, hits int, found bool, duration time.Duration, err error)

	// RecordPlacement is called after each successful AddOrMerge.
	RecordPlacement(p Placement)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordInsert(time.Duration, error)                {}
func (NoopMetricsCollector) RecordBatchInsert(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordQuery(int, int, bool, time.Duration, error) {}
func (NoopMetricsCollector) RecordPlacement(Placement)                        {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	InsertCount      atomic.Int64
	InsertErrors     atomic.Int64
	InsertTotalNanos atomic.Int64
	BatchCount       atomic.Int64
	BatchItems       atomic.Int64
	BatchResidual    atomic.Int64
	BatchErrors      atomic.Int64
	QueryCount       atomic.Int64
	QueryErrors      atomic.Int64
	QueryFound       atomic.Int64
	QueryProbes      atomic.Int64
	QueryHits        atomic.Int64
	QueryTotalNanos  atomic.Int64
	Merged           atomic.Int64
	Added            atomic.Int64
	Residual         atomic.Int64
}

// RecordInsert implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInsert(duration time.Duration, err error) {
	b.InsertCount.Add(1)
	b.InsertTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.InsertErrors.Add(1)
	}
}

// RecordBatchInsert implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBatchInsert(count, residual int, _ time.Duration, err error) {
	b.BatchCount.Add(1)
	b.BatchItems.Add(int64(count))
	b.BatchResidual.Add(int64(residual))
	if err != nil {
		b.BatchErrors.Add(1)
	}
}

// RecordQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuery(probes, hits int, found bool, duration time.Duration, err error) {
	b.QueryCount.Add(1)
	b.QueryTotalNanos.Add(duration.Nanoseconds())
	b.QueryProbes.Add(int64(probes))
	b.QueryHits.Add(int64(hits))
	if found {
		b.QueryFound.Add(1)
	}
	if err != nil {
		b.QueryErrors.Add(1)
	}
}

// RecordPlacement implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPlacement(p Placement) {
	switch p {
	case Merged:
		b.Merged.Add(1)
	case Added:
		b.Added.Add(1)
	case Residual:
		b.Residual.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		InsertCount:    b.InsertCount.Load(),
		InsertErrors:   b.InsertErrors.Load(),
		InsertAvgNanos: avg(b.InsertTotalNanos.Load(), b.InsertCount.Load()),
		BatchCount:     b.BatchCount.Load(),
		BatchItems:     b.BatchItems.Load(),
		BatchResidual:  b.BatchResidual.Load(),
		BatchErrors:    b.BatchErrors.Load(),
		QueryCount:     b.QueryCount.Load(),
		QueryErrors:    b.QueryErrors.Load(),
		QueryFound:     b.QueryFound.Load(),
		QueryProbes:    b.QueryProbes.Load(),
		QueryHits:      b.QueryHits.Load(),
		QueryAvgNanos:  avg(b.QueryTotalNanos.Load(), b.QueryCount.Load()),
		Merged:         b.Merged.Load(),
		Added:          b.Added.Load(),
		Residual:       b.Residual.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	InsertCount    int64
	InsertErrors   int64
	InsertAvgNanos int64
	BatchCount     int64
	BatchItems     int64
	BatchResidual  int64
	BatchErrors    int64
	QueryCount     int64
	QueryErrors    int64
	QueryFound     int64
	QueryProbes    int64
	QueryHits      int64
	QueryAvgNanos  int64
	Merged         int64
	Added          int64
	Residual       int64
}
