package quantbin

import (
	"slices"
	"sync"
)

// residualList holds bins too small to be indexed.
type residualList struct {
	mu   sync.Mutex
	bins []Bin
}

func (r *residualList) add(b ...Bin) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bins = append(r.bins, b...)
}

func (r *residualList) snapshot() []Bin {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.bins)
}

func (r *residualList) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bins)
}

func (r *residualList) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bins = nil
}
