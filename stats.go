package quantbin

import "github.com/hupe1980/quantbin/grid"

// Stats describes the shape of an index and its search efficiency.
type Stats struct {
	Layout  Layout
	KeyType grid.KeyType

	Buckets  int
	Clusters int
	Residual int
	// Strata is the number of distinct GC levels holding buckets.
	Strata int

	Queries int64
	// Probes counts bucket lookups, Hits those that found a non-empty bucket.
	Probes int64
	Hits   int64

	// Bounds is the observed level range per key slot.
	Bounds      grid.Window
	MemoryBytes int64
	// MemoryLimit is the cluster memory budget in bytes, 0 if unlimited.
	MemoryLimit int64
	// Workers is the number of goroutines batch operations may use.
	Workers int
}

// HitRatio returns Hits/Probes, or 0 before the first probe.
func (s Stats) HitRatio() float64 {
	if s.Probes == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Probes)
}

// Occupancy returns the mean number of clusters per bucket.
func (s Stats) Occupancy() float64 {
	if s.Buckets == 0 {
		return 0
	}
	return float64(s.Clusters) / float64(s.Buckets)
}

// Stats implements Index.
func (x *base) Stats() Stats {
	return Stats{
		Layout:      x.layout,
		KeyType:     x.q.KeyType(),
		Buckets:     x.BucketCount(),
		Clusters:    x.ClusterCount(),
		Residual:    x.ResidualCount(),
		Strata:      x.st.strata(),
		Queries:     x.queries.Load(),
		Probes:      x.probes.Load(),
		Hits:        x.hits.Load(),
		Bounds:      x.bounds.window(),
		MemoryBytes: x.rc.MemoryUsage(),
		MemoryLimit: x.rc.MemoryLimit(),
		Workers:     x.rc.Workers(),
	}
}
