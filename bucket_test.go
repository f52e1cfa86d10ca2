package quantbin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/quantbin/grid"
)

func mkContig(id uint32, gc float64, size int64, depth ...float64) *Contig {
	return &Contig{ContigID: id, GCContent: gc, HHRatio: 0.5, CAGARatio: 0.5, Coverage: depth, Length: size}
}

func ids(list []*Cluster) []uint32 {
	out := make([]uint32, len(list))
	for i, c := range list {
		out[i] = c.ID()
	}
	return out
}

func TestBucket_AddKeepsOrder(t *testing.T) {
	b := newBucket(grid.Key{1})
	for _, c := range []*Contig{
		mkContig(1, 0.5, 10),
		mkContig(2, 0.5, 30),
		mkContig(3, 0.5, 20),
		mkContig(4, 0.5, 30),
	} {
		b.add(NewCluster(c))
	}

	list := b.snapshot()
	assert.Equal(t, []uint32{2, 4, 3, 1}, ids(list))
	for _, c := range list {
		assert.Same(t, b, c.home.Load())
	}
}

func TestBucket_AddClaimsHomeOnce(t *testing.T) {
	b := newBucket(grid.Key{1})
	other := newBucket(grid.Key{2})
	c := NewCluster(mkContig(1, 0.5, 10))

	require.True(t, b.add(c))
	assert.False(t, b.add(c))
	assert.False(t, other.add(c))
	assert.Equal(t, 1, b.len())
	assert.Zero(t, other.len())
	assert.Same(t, b, c.home.Load())
}

func TestBucket_MergeRepositions(t *testing.T) {
	b := newBucket(grid.Key{1})
	a := NewCluster(mkContig(1, 0.5, 100))
	bb := NewCluster(mkContig(2, 0.5, 50))
	c := NewCluster(mkContig(3, 0.5, 10))
	b.add(a)
	b.add(bb)
	b.add(c)

	b.merge(c, mkContig(4, 0.5, 95))
	assert.Equal(t, []uint32{3, 1, 2}, ids(b.snapshot()))
	assert.Equal(t, int64(105), c.Size())

	// Equal size: lower ID first.
	b.merge(bb, mkContig(5, 0.5, 20))
	assert.Equal(t, []uint32{3, 1, 2}, ids(b.snapshot()))
	b.merge(bb, mkContig(6, 0.5, 30))
	assert.Equal(t, []uint32{3, 1, 2}, ids(b.snapshot()))
	b.merge(bb, mkContig(7, 0.5, 1))
	assert.Equal(t, []uint32{3, 2, 1}, ids(b.snapshot()))
}

func TestBucket_ScanStopsEarly(t *testing.T) {
	b := newBucket(grid.Key{})
	for i, size := range []int64{5, 50, 500} {
		b.add(NewCluster(mkContig(uint32(i+1), 0.5, size)))
	}

	var seen []int64
	b.scan(func(c *Cluster) bool {
		if c.Size() < 50 {
			return false
		}
		seen = append(seen, c.Size())
		return true
	})
	assert.Equal(t, []int64{500, 50}, seen)
}

func TestCluster_Absorb(t *testing.T) {
	c := NewCluster(mkContig(1, 0.4, 100, 10, 0))
	c.Absorb(mkContig(2, 0.6, 300, 20))

	assert.Equal(t, int64(400), c.Size())
	assert.Equal(t, 2, c.Len())
	assert.InDelta(t, 0.55, c.GC(), 1e-12)
	assert.InDelta(t, 17.5, c.Depth(0), 1e-12)
	assert.Equal(t, 2, c.NumDepths())
	assert.Equal(t, uint32(1), c.ID())

	other := NewCluster(mkContig(3, 0.5, 100))
	other.Absorb(mkContig(4, 0.5, 100))
	c.Absorb(other)
	assert.Equal(t, 4, c.Len())
	assert.Equal(t, int64(600), c.Size())
	assert.Equal(t, 2, other.Len())

	c.Absorb(c)
	assert.Equal(t, 4, c.Len())
}

func TestCluster_DepthIgnoresMembersWithoutSample(t *testing.T) {
	c := NewCluster(mkContig(1, 0.5, 100, 10, 40))
	c.Absorb(mkContig(2, 0.5, 300, 20))
	c.Absorb(mkContig(3, 0.5, 600))

	assert.InDelta(t, 17.5, c.Depth(0), 1e-12)
	assert.InDelta(t, 40, c.Depth(1), 1e-12)
	assert.Equal(t, 2, c.NumDepths())
}

func TestCluster_ZeroLengthBinKeepsFeatures(t *testing.T) {
	c := NewCluster(mkContig(1, 0.3, 0, 4))
	assert.InDelta(t, 0.3, c.GC(), 1e-12)
	assert.InDelta(t, 4, c.Depth(0), 1e-12)
	require.Same(t, c, NewCluster(c))
}
