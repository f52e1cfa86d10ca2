package grid

import (
	"fmt"
	"math"
)

const (
	// depthOffset keeps log2 finite at zero coverage.
	depthOffset = 0.0625
	// depthShift moves log2(depthOffset) = -4 to level 0.
	depthShift = 4
	// maxRadius bounds the search radius well above any level count.
	maxRadius = 1 << 16
)

// Features is the read-only view of a bin the quantizer needs.
type Features interface {
	GC() float64
	HH() float64
	CAGA() float64
	// Depth returns the coverage of sample i.
	Depth(i int) float64
	NumDepths() int
}

// DepthAt returns the coverage of sample i, or 0 when f has fewer samples.
func DepthAt(f Features, i int) float64 {
	if i < 0 || i >= f.NumDepths() {
		return 0
	}
	return f.Depth(i)
}

// Tolerance is the per-query search slack, already scaled for bin size.
type Tolerance struct {
	// GCDif is the absolute GC difference allowed. HH and CAGA derive
	// their tolerance from it through the Config difference multipliers.
	GCDif float64
	// DepthRatio is the maximum coverage ratio allowed (>= 1).
	DepthRatio float64
}

// Scale widens (mult > 1) or narrows (mult < 1) the tolerance.
// The depth ratio is scaled on its excess over 1 so it never drops below 1.
func (t Tolerance) Scale(mult float64) Tolerance {
	if !(mult > 0) {
		mult = 0
	}
	ratio := t.DepthRatio
	if ratio < 1 {
		ratio = 1
	}
	return Tolerance{
		GCDif:      t.GCDif * mult,
		DepthRatio: 1 + (ratio-1)*mult,
	}
}

// Range is an inclusive level interval. Lo > Hi means empty.
type Range struct {
	Lo, Hi int32
}

// Empty reports whether the range contains no level.
func (r Range) Empty() bool { return r.Lo > r.Hi }

// Contains reports whether level lies within the range.
func (r Range) Contains(level int32) bool { return level >= r.Lo && level <= r.Hi }

// Len returns the number of levels in the range.
func (r Range) Len() int {
	if r.Empty() {
		return 0
	}
	return int(r.Hi-r.Lo) + 1
}

// Intersect returns the overlap of r and o.
func (r Range) Intersect(o Range) Range {
	return Range{Lo: max(r.Lo, o.Lo), Hi: min(r.Hi, o.Hi)}
}

// Window holds one search Range per Key slot.
type Window [NumSlots]Range

// Empty reports whether any slot range is empty.
func (w Window) Empty() bool {
	for _, r := range w {
		if r.Empty() {
			return true
		}
	}
	return false
}

// Cells returns the size of the Cartesian product of the window.
func (w Window) Cells() int {
	n := 1
	for _, r := range w {
		n *= r.Len()
	}
	return n
}

// Contains reports whether every slot of k lies within the window.
func (w Window) Contains(k Key) bool {
	for i, r := range w {
		if !r.Contains(k[i]) {
			return false
		}
	}
	return true
}

// Quantizer maps features to levels for one immutable Config.
type Quantizer struct {
	cfg    Config
	layout Layout

	gcMult, hhMult, cagaMult float64
	maxLevel                 [Depth2 + 1]int32
}

// NewQuantizer validates cfg and builds a Quantizer.
// cfg.KeyType must be concrete; resolve KeyAuto with Config.Resolve first.
func NewQuantizer(cfg Config) (*Quantizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	kt, err := ParseKeyType(string(cfg.KeyType))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	layout, ok := kt.Layout()
	if !ok {
		return nil, fmt.Errorf("%w: key type %q must be resolved before use", ErrInvalidConfig, cfg.KeyType)
	}
	cfg.KeyType = kt

	q := &Quantizer{
		cfg:      cfg,
		layout:   layout,
		gcMult:   1 / cfg.GCWidth,
		hhMult:   1 / cfg.HHWidth,
		cagaMult: 1 / cfg.CAGAWidth,
	}
	q.maxLevel[GC] = linearLevel(1, q.gcMult)
	q.maxLevel[HH] = linearLevel(1, q.hhMult)
	q.maxLevel[CAGA] = linearLevel(1, q.cagaMult)
	depthMax := q.DepthLevel(cfg.MaxDepth)
	q.maxLevel[Depth0] = depthMax
	q.maxLevel[Depth1] = depthMax
	q.maxLevel[Depth2] = depthMax
	return q, nil
}

// Config returns the (resolved) configuration.
func (q *Quantizer) Config() Config { return q.cfg }

// Layout returns the slot assignment of the configured key type.
func (q *Quantizer) Layout() Layout { return q.layout }

// KeyType returns the configured variant.
func (q *Quantizer) KeyType() KeyType { return q.cfg.KeyType }

// MaxLevel returns the highest level a dimension can take.
func (q *Quantizer) MaxLevel(d Dim) int32 {
	if d == Unused || int(d) >= len(q.maxLevel) {
		return 0
	}
	return q.maxLevel[d]
}

// GCLevels returns the number of distinct GC levels, ceil(1/GCWidth)+1.
func (q *Quantizer) GCLevels() int {
	return int(math.Ceil(q.gcMult-1e-9)) + 1
}

func linearLevel(v, mult float64) int32 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		v = 1
	}
	return int32(math.Floor(v * mult))
}

// GCLevel quantizes a GC fraction.
func (q *Quantizer) GCLevel(v float64) int32 { return linearLevel(v, q.gcMult) }

// HHLevel quantizes an HH ratio.
func (q *Quantizer) HHLevel(v float64) int32 { return linearLevel(v, q.hhMult) }

// CAGALevel quantizes a CAGA ratio.
func (q *Quantizer) CAGALevel(v float64) int32 { return linearLevel(v, q.cagaMult) }

// DepthLevel quantizes a coverage depth on a log2 scale.
func (q *Quantizer) DepthLevel(d float64) int32 {
	if !(d > 0) {
		d = 0
	}
	d = math.Min(d, q.cfg.MaxDepth)
	lvl := math.Floor((math.Log2(d+depthOffset) + depthShift) * q.cfg.DepthLevelMult)
	if lvl < 0 {
		return 0
	}
	return int32(lvl)
}

// Level quantizes the feature of f selected by d.
func (q *Quantizer) Level(d Dim, f Features) int32 {
	switch d {
	case GC:
		return q.GCLevel(f.GC())
	case HH:
		return q.HHLevel(f.HH())
	case CAGA:
		return q.CAGALevel(f.CAGA())
	case Depth0, Depth1, Depth2:
		return q.DepthLevel(DepthAt(f, d.Sample()))
	default:
		return 0
	}
}

// Key quantizes f into a Key according to the configured layout.
func (q *Quantizer) Key(f Features) Key {
	var k Key
	for i, d := range q.layout {
		k[i] = q.Level(d, f)
	}
	return k
}

// Bounds returns the tolerance-derived level range of one dimension,
// clamped to [0, MaxLevel(d)].
func (q *Quantizer) Bounds(d Dim, f Features, tol Tolerance) Range {
	var r Range
	switch d {
	case GC:
		v, t := f.GC(), nonNegative(tol.GCDif)
		r = Range{Lo: q.GCLevel(v - t), Hi: q.GCLevel(v + t)}
	case HH:
		v, t := f.HH(), nonNegative(tol.GCDif*q.cfg.HHDifMult)
		r = Range{Lo: q.HHLevel(v - t), Hi: q.HHLevel(v + t)}
	case CAGA:
		v, t := f.CAGA(), nonNegative(tol.GCDif*q.cfg.CAGADifMult)
		r = Range{Lo: q.CAGALevel(v - t), Hi: q.CAGALevel(v + t)}
	case Depth0, Depth1, Depth2:
		v, ratio := DepthAt(f, d.Sample()), tol.DepthRatio
		if !(ratio >= 1) {
			ratio = 1
		}
		r = Range{Lo: q.DepthLevel(v / ratio), Hi: q.DepthLevel(v * ratio)}
	default:
		return Range{}
	}
	return r.Intersect(Range{Lo: 0, Hi: q.MaxLevel(d)})
}

// Window computes the search window for f: per slot, the tolerance bounds
// intersected with [level-radius, level+radius]. Unused slots are [0,0].
// The result always contains q.Key(f).
func (q *Quantizer) Window(f Features, tol Tolerance, radius int) Window {
	return q.WindowAt(f, q.Key(f), tol, radius)
}

// WindowAt is Window with the radius centered on a precomputed key.
func (q *Quantizer) WindowAt(f Features, center Key, tol Tolerance, radius int) Window {
	radius = min(max(radius, 0), maxRadius)
	var w Window
	for i, d := range q.layout {
		if d == Unused {
			continue
		}
		near := Range{Lo: center[i] - int32(radius), Hi: center[i] + int32(radius)}
		w[i] = q.Bounds(d, f, tol).Intersect(near)
	}
	return w
}

func nonNegative(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	return v
}
