package quantbin

import (
	"math"

	"github.com/hupe1980/quantbin/grid"
)

// Bin is a unit of sequence data carrying composition and coverage features.
//
// Feature values must not change while the bin takes part in an index
// operation. IDs must be unique within one index.
type Bin interface {
	grid.Features
	ID() uint32
	// Size returns the number of bases.
	Size() int64
}

// Contig is a plain Bin: one assembled sequence with precomputed features.
type Contig struct {
	ContigID  uint32
	GCContent float64
	HHRatio   float64
	CAGARatio float64
	Coverage  []float64
	Length    int64
}

var _ Bin = (*Contig)(nil)

func (c *Contig) ID() uint32          { return c.ContigID }
func (c *Contig) GC() float64         { return c.GCContent }
func (c *Contig) HH() float64         { return c.HHRatio }
func (c *Contig) CAGA() float64       { return c.CAGARatio }
func (c *Contig) Depth(i int) float64 { return c.Coverage[i] }
func (c *Contig) NumDepths() int      { return len(c.Coverage) }
func (c *Contig) Size() int64         { return c.Length }

// ValidateBin rejects bins with non-finite or negative features.
func ValidateBin(b Bin) error {
	check := func(name string, v float64) error {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return &ErrInvalidFeature{ID: b.ID(), Feature: name, Value: v}
		}
		return nil
	}

	if err := check("gc", b.GC()); err != nil {
		return err
	}
	if err := check("hh", b.HH()); err != nil {
		return err
	}
	if err := check("caga", b.CAGA()); err != nil {
		return err
	}
	for i := range b.NumDepths() {
		if err := check("depth", b.Depth(i)); err != nil {
			return err
		}
	}
	if s := b.Size(); s < 0 {
		return &ErrInvalidFeature{ID: b.ID(), Feature: "size", Value: float64(s)}
	}
	return nil
}
