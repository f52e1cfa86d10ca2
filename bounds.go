package quantbin

import (
	"math"
	"sync/atomic"

	"github.com/hupe1980/quantbin/grid"
)

// gridBounds tracks the observed min/max level per Key slot.
//
// Updates are lock-free. A reader racing an insert may see a bound that is
// one insert stale; that only narrows a search window and never admits a
// level outside the grid.
type gridBounds struct {
	lo, hi [grid.NumSlots]atomic.Int32
}

func newGridBounds() *gridBounds {
	g := &gridBounds{}
	g.reset()
	return g
}

func (g *gridBounds) reset() {
	for i := range grid.NumSlots {
		g.lo[i].Store(math.MaxInt32)
		g.hi[i].Store(math.MinInt32)
	}
}

func (g *gridBounds) observe(k grid.Key) {
	for i, v := range k {
		for {
			cur := g.lo[i].Load()
			if v >= cur || g.lo[i].CompareAndSwap(cur, v) {
				break
			}
		}
		for {
			cur := g.hi[i].Load()
			if v <= cur || g.hi[i].CompareAndSwap(cur, v) {
				break
			}
		}
	}
}

func (g *gridBounds) slot(i int) grid.Range {
	return grid.Range{Lo: g.lo[i].Load(), Hi: g.hi[i].Load()}
}

// clamp intersects every slot of w with the observed bounds.
// Before the first insert every slot is empty.
func (g *gridBounds) clamp(w grid.Window) grid.Window {
	for i := range w {
		w[i] = w[i].Intersect(g.slot(i))
	}
	return w
}

func (g *gridBounds) window() grid.Window {
	var w grid.Window
	for i := range w {
		w[i] = g.slot(i)
	}
	return w
}
