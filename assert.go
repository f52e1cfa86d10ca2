package quantbin

import (
	"fmt"

	"github.com/hupe1980/quantbin/grid"
)

// assertKey panics on an out-of-range key level when built with the
// quantbin_debug tag and compiles to nothing otherwise.
func assertKey(q *grid.Quantizer, k grid.Key) {
	if !debugAssertions {
		return
	}
	for i, d := range q.Layout() {
		if k[i] < 0 || k[i] > q.MaxLevel(d) {
			panic(fmt.Sprintf("quantbin: key %v slot %d (%s) outside [0, %d]", k, i, d, q.MaxLevel(d)))
		}
	}
}
