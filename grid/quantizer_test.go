package grid

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type feat struct {
	gc, hh, caga float64
	depths       []float64
}

func (f feat) GC() float64         { return f.gc }
func (f feat) HH() float64         { return f.hh }
func (f feat) CAGA() float64       { return f.caga }
func (f feat) Depth(i int) float64 { return f.depths[i] }
func (f feat) NumDepths() int      { return len(f.depths) }

func newQuantizer(t *testing.T, kt KeyType) *Quantizer {
	t.Helper()
	cfg := DefaultConfig()
	cfg.KeyType = kt
	q, err := NewQuantizer(cfg)
	require.NoError(t, err)
	return q
}

func TestDepthLevel(t *testing.T) {
	q := newQuantizer(t, KeyGCDepth)

	cases := []struct {
		depth float64
		level int32
	}{
		{0, 0},
		{0.0625, 1},
		{1, 4},
		{10, 7},
		{100, 10},
		{1000, 13},
		{1_000_000, 23},
		{1e9, 23},
		{math.Inf(1), 23},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.level, q.DepthLevel(tc.depth), "depth %v", tc.depth)
	}

	diff := q.DepthLevel(0.0625) - q.DepthLevel(0)
	assert.LessOrEqual(t, diff, int32(1))
	assert.Equal(t, int32(23), q.MaxLevel(Depth0))
}

func TestLinearLevel(t *testing.T) {
	q := newQuantizer(t, KeyGCHHCAGA)

	assert.Equal(t, int32(0), q.GCLevel(0))
	assert.Equal(t, int32(0), q.GCLevel(-0.5))
	assert.Equal(t, int32(0), q.GCLevel(math.NaN()))
	assert.Equal(t, int32(25), q.GCLevel(0.50))
	assert.Equal(t, int32(25), q.GCLevel(0.505))
	assert.Equal(t, int32(25), q.GCLevel(0.51))
	assert.Equal(t, int32(45), q.GCLevel(0.90))
	assert.Equal(t, int32(50), q.GCLevel(1))
	assert.Equal(t, int32(50), q.GCLevel(3))
	assert.Equal(t, int32(50), q.MaxLevel(GC))
	assert.Equal(t, 51, q.GCLevels())
}

func TestLevelMonotonic(t *testing.T) {
	q := newQuantizer(t, KeyGCHHCAGA)
	rng := rand.New(rand.NewSource(7))

	for range 5000 {
		a, b := rng.Float64()*1.2-0.1, rng.Float64()*1.2-0.1
		if a > b {
			a, b = b, a
		}
		assert.LessOrEqual(t, q.GCLevel(a), q.GCLevel(b))
		assert.LessOrEqual(t, q.HHLevel(a), q.HHLevel(b))
		assert.LessOrEqual(t, q.CAGALevel(a), q.CAGALevel(b))

		da, db := math.Exp(rng.Float64()*20)-1, math.Exp(rng.Float64()*20)-1
		if da > db {
			da, db = db, da
		}
		assert.LessOrEqual(t, q.DepthLevel(da), q.DepthLevel(db))
	}
}

func TestWindowContainsOwnKey(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for _, kt := range KeyTypes() {
		q := newQuantizer(t, kt)
		for range 500 {
			f := feat{
				gc:     rng.Float64(),
				hh:     rng.Float64(),
				caga:   rng.Float64(),
				depths: []float64{rng.ExpFloat64() * 50, rng.ExpFloat64() * 5, 0},
			}
			tol := Tolerance{GCDif: rng.Float64() * 0.1, DepthRatio: 1 + rng.Float64()*3}
			radius := rng.Intn(4)

			w := q.Window(f, tol, radius)
			key := q.Key(f)
			require.True(t, w.Contains(key), "key type %s, key %v, window %v", kt, key, w)
			for i, r := range w {
				assert.LessOrEqual(t, r.Len(), 2*radius+1, "slot %d", i)
			}
		}
	}
}

func TestWindowDegenerateTolerance(t *testing.T) {
	q := newQuantizer(t, KeyGCDepth)
	f := feat{gc: 0.5, depths: []float64{10}}

	w := q.Window(f, Tolerance{GCDif: math.NaN(), DepthRatio: 0.2}, 3)
	assert.Equal(t, Range{Lo: 25, Hi: 25}, w[0])
	assert.Equal(t, Range{Lo: 7, Hi: 7}, w[1])
	assert.Equal(t, Range{}, w[2])

	w = q.Window(f, Tolerance{GCDif: 1, DepthRatio: 2}, -1)
	assert.True(t, w.Contains(q.Key(f)))
	assert.Equal(t, 1, w.Cells())
}

func TestWindowDepthRatio(t *testing.T) {
	q := newQuantizer(t, KeyGCDepth)
	f := feat{gc: 0.5, depths: []float64{10}}

	w := q.Window(f, Tolerance{GCDif: 0.02, DepthRatio: 2}, 5)
	assert.Equal(t, Range{Lo: 24, Hi: 26}, w[0])
	assert.Equal(t, Range{Lo: 6, Hi: 8}, w[1])
	assert.Equal(t, 9, w.Cells())
}

func TestKeyMissingDepths(t *testing.T) {
	q := newQuantizer(t, KeyGCHHDepth3)
	k := q.Key(feat{gc: 0.4, hh: 0.2, depths: []float64{100}})
	assert.Equal(t, Key{20, 10, 10, 0, 0}, k)
}

func TestToleranceScale(t *testing.T) {
	tol := Tolerance{GCDif: 0.04, DepthRatio: 3}

	s := tol.Scale(0.5)
	assert.InDelta(t, 0.02, s.GCDif, 1e-12)
	assert.InDelta(t, 2.0, s.DepthRatio, 1e-12)

	s = tol.Scale(-1)
	assert.Equal(t, 0.0, s.GCDif)
	assert.Equal(t, 1.0, s.DepthRatio)
}

func TestRange(t *testing.T) {
	r := Range{Lo: 2, Hi: 5}
	assert.Equal(t, 4, r.Len())
	assert.True(t, r.Contains(2))
	assert.False(t, r.Contains(6))
	assert.True(t, r.Intersect(Range{Lo: 6, Hi: 9}).Empty())
	assert.Equal(t, Range{Lo: 4, Hi: 5}, r.Intersect(Range{Lo: 4, Hi: 9}))
	assert.Equal(t, 0, Range{Lo: 1, Hi: 0}.Len())
}
