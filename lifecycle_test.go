package quantbin_test

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/quantbin"
	"github.com/hupe1980/quantbin/grid"
	"github.com/hupe1980/quantbin/testutil"
)

// TestNoGoroutineLeaks verifies that the batch workers of InsertAll and
// QueryAll are gone once the calls return.
func TestNoGoroutineLeaks(t *testing.T) {
	rng := testutil.NewRNG(1)
	bins := testutil.Bins(rng.Community(testutil.CommunityConfig{Genomes: 20, ContigsPerGenome: 200, Samples: 2}))

	runtime.GC()
	before := runtime.NumGoroutine()

	for _, layout := range layouts {
		idx := newIndex(t, layout, grid.KeyGCHHDepth2, quantbin.WithWorkers(8))
		require.NoError(t, idx.InsertAll(t.Context(), bins, 1000))
		_, err := idx.QueryAll(t.Context(), bins, 1000, 1, func() quantbin.Oracle { return anyMatch() })
		require.NoError(t, err)
		require.NoError(t, idx.Close())
	}

	time.Sleep(50 * time.Millisecond)
	runtime.GC()
	after := runtime.NumGoroutine()

	// Allow small variance (runtime background goroutines)
	assert.LessOrEqual(t, after-before, 2, "goroutine leak: before=%d after=%d", before, after)
}

func TestClear(t *testing.T) {
	for _, layout := range layouts {
		t.Run(string(layout), func(t *testing.T) {
			idx := newIndex(t, layout, grid.KeyGCDepth)
			bins := []quantbin.Bin{contig(1, 0.3, 5000, 10), contig(2, 0.6, 5000, 10), contig(3, 0.6, 10, 10)}
			require.NoError(t, idx.InsertAll(t.Context(), bins, 100))

			q := contig(9, 0.6, 5000, 10)
			_, err := idx.Query(q, idx.Quantizer().Key(q), 0, 1, anyMatch())
			require.NoError(t, err)

			idx.Clear(false)
			assert.Zero(t, idx.ClusterCount())
			assert.Zero(t, idx.BucketCount())
			assert.Equal(t, 1, idx.ResidualCount())
			assert.Zero(t, idx.Stats().Queries)

			m, err := idx.Query(q, idx.Quantizer().Key(q), 0, 1, anyMatch())
			require.NoError(t, err)
			assert.False(t, m.Found())

			// Reusable after Clear.
			_, err = idx.Insert(contig(1, 0.6, 5000, 10))
			require.NoError(t, err)
			m, err = idx.Query(q, idx.Quantizer().Key(q), 0, 1, anyMatch())
			require.NoError(t, err)
			assert.True(t, m.Found())

			idx.Clear(true)
			assert.Zero(t, idx.ResidualCount())
			require.NoError(t, idx.Validate())
		})
	}
}

func TestStats(t *testing.T) {
	for _, layout := range layouts {
		t.Run(string(layout), func(t *testing.T) {
			idx := newIndex(t, layout, grid.KeyGCHH, quantbin.WithWorkers(3), quantbin.WithMemoryLimit(1<<20))
			assert.Zero(t, idx.Stats().HitRatio())
			assert.Zero(t, idx.Stats().Occupancy())

			for i, gc := range []float64{0.2, 0.2, 0.4, 0.6} {
				_, err := idx.Insert(contig(uint32(i), gc, 5000))
				require.NoError(t, err)
			}
			q := contig(10, 0.2, 5000)
			_, err := idx.Query(q, idx.Quantizer().Key(q), 0, 1, anyMatch())
			require.NoError(t, err)

			s := idx.Stats()
			assert.Equal(t, layout, s.Layout)
			assert.Equal(t, grid.KeyGCHH, s.KeyType)
			assert.Equal(t, 3, s.Buckets)
			assert.Equal(t, 4, s.Clusters)
			assert.Equal(t, 3, s.Strata)
			assert.Equal(t, int64(1), s.Queries)
			assert.Equal(t, int64(1), s.Hits)
			assert.Equal(t, grid.Range{Lo: 10, Hi: 30}, s.Bounds[0])
			assert.Equal(t, grid.Range{Lo: 25, Hi: 25}, s.Bounds[1])
			assert.InDelta(t, 4.0/3.0, s.Occupancy(), 1e-12)
			assert.Greater(t, s.HitRatio(), 0.0)
			assert.Equal(t, int64(4*192), s.MemoryBytes)
			assert.Equal(t, int64(1<<20), s.MemoryLimit)
			assert.Equal(t, 3, s.Workers)
		})
	}
}

func TestLogger(t *testing.T) {
	idx := newIndex(t, quantbin.LayoutSliced, grid.KeyGC, quantbin.WithLogger(nil), quantbin.WithMetricsCollector(nil))
	_, err := idx.Insert(contig(1, 0.5, 10))
	require.NoError(t, err)
}
