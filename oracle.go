package quantbin

import "github.com/hupe1980/quantbin/grid"

// Oracle scores candidate clusters for a query and supplies the base search
// tolerances. It is consumed by the index, never implemented by it.
//
// An Oracle may keep per-query state; the index calls Clear at the start of
// every query. One Oracle must not be used by two goroutines at once, which
// is why the batch APIs take a factory.
type Oracle interface {
	// Clear resets per-query state.
	Clear()
	// Similarity scores candidate against query; higher is better.
	// Only scores above zero count as a match. weight is the size
	// multiplier applied to the tolerances of this query.
	Similarity(query Bin, candidate *Cluster, weight float64) float64
	// Tolerances returns the unscaled maximum GC difference and depth ratio.
	Tolerances() grid.Tolerance
}

// SizeMultiplier maps a query size to the factor applied to the Oracle
// tolerances.
type SizeMultiplier func(size int64) float64

// DefaultSizeMultiplier loosens the tolerances for large bins and tightens
// them for small ones.
func DefaultSizeMultiplier(size int64) float64 {
	switch {
	case size >= 100_000:
		return 1.5
	case size >= 20_000:
		return 1.25
	case size >= 5_000:
		return 1
	case size >= 2_000:
		return 0.85
	default:
		return 0.7
	}
}

// Match is the result of a query.
type Match struct {
	// Cluster is the best candidate, or nil if nothing scored above zero.
	Cluster *Cluster
	// Score is the similarity of Cluster.
	Score float64
	// Probes is the number of bucket lookups performed.
	Probes int
	// Hits is the number of lookups that found a non-empty bucket.
	Hits int
}

// Found reports whether the query returned a cluster.
func (m Match) Found() bool { return m.Cluster != nil }
