package quantbin

import (
	"slices"
	"sort"
	"sync"

	"github.com/hupe1980/quantbin/grid"
)

// bucket holds the clusters sharing one Key, in descending size order
// (ties by ascending ID). Every mutation keeps that order, which the
// early exit in scan depends on.
type bucket struct {
	key grid.Key

	mu       sync.RWMutex
	clusters []*Cluster
}

func newBucket(key grid.Key) *bucket {
	return &bucket{key: key}
}

// add inserts c at its ordered position and makes the bucket its home.
// It reports false, leaving the bucket unchanged, if c already has a home.
func (b *bucket) add(c *Cluster) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !c.home.CompareAndSwap(nil, b) {
		return false
	}
	i := sort.Search(len(b.clusters), func(i int) bool {
		return before(c, b.clusters[i])
	})
	b.clusters = slices.Insert(b.clusters, i, c)
	return true
}

// merge grows c by bin and moves c forward to restore the order.
func (b *bucket) merge(c *Cluster, bin Bin) {
	b.mu.Lock()
	defer b.mu.Unlock()

	c.Absorb(bin)

	i := slices.Index(b.clusters, c)
	for ; i > 0 && before(c, b.clusters[i-1]); i-- {
		b.clusters[i], b.clusters[i-1] = b.clusters[i-1], b.clusters[i]
	}
}

// scan visits clusters in order until fn returns false.
func (b *bucket) scan(fn func(*Cluster) bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, c := range b.clusters {
		if !fn(c) {
			return
		}
	}
}

func (b *bucket) snapshot() []*Cluster {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.clusters)
}

func (b *bucket) len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clusters)
}
