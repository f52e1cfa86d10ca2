package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/quantbin"
	"github.com/hupe1980/quantbin/grid"
)

func TestRNG_Reproducible(t *testing.T) {
	a := NewRNG(7).Community(CommunityConfig{Genomes: 3, ContigsPerGenome: 5, Samples: 2})
	b := NewRNG(7).Community(CommunityConfig{Genomes: 3, ContigsPerGenome: 5, Samples: 2})
	assert.Equal(t, a, b)

	r := NewRNG(3)
	x := r.Float64()
	r.Reset()
	assert.Equal(t, x, r.Float64())
	assert.Equal(t, int64(3), r.Seed())
}

func TestCommunity(t *testing.T) {
	cfg := CommunityConfig{Genomes: 4, ContigsPerGenome: 25, Samples: 3, MinLength: 1000, MaxLength: 5000, FirstID: 10}
	contigs := NewRNG(1).Community(cfg)
	require.Len(t, contigs, 100)

	seen := make(map[uint32]bool)
	for _, c := range contigs {
		require.NoError(t, quantbin.ValidateBin(c))
		assert.False(t, seen[c.ID()])
		seen[c.ID()] = true
		assert.GreaterOrEqual(t, c.ID(), uint32(10))
		assert.Less(t, c.ID(), uint32(110))
		assert.Equal(t, 3, c.NumDepths())
		assert.GreaterOrEqual(t, c.Size(), int64(1000))
		assert.LessOrEqual(t, c.Size(), int64(5000))
		assert.LessOrEqual(t, c.GC(), 1.0)
	}
}

func TestOracles(t *testing.T) {
	tol := grid.Tolerance{GCDif: 0.1, DepthRatio: 2}
	q := &quantbin.Contig{ContigID: 1, GCContent: 0.5, Coverage: []float64{10}, Length: 100}
	near := quantbin.NewCluster(&quantbin.Contig{ContigID: 2, GCContent: 0.51, Coverage: []float64{11}, Length: 100})
	far := quantbin.NewCluster(&quantbin.Contig{ContigID: 3, GCContent: 0.7, Coverage: []float64{80}, Length: 100})

	d := NewDistanceOracle(tol)
	assert.Equal(t, tol, d.Tolerances())
	assert.Greater(t, d.Similarity(q, near, 1), d.Similarity(q, far, 1))
	assert.Greater(t, d.Similarity(q, far, 1), 0.0)

	c := &ConstantOracle{Score: 2, Tol: tol}
	assert.Equal(t, 2.0, c.Similarity(q, far, 1))
	assert.Equal(t, 1, c.Calls)
	c.Clear()
	assert.Zero(t, c.Calls)
}
