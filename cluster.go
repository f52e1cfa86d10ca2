package quantbin

import (
	"slices"
	"sync"
	"sync/atomic"
)

// Cluster is a group of bins believed to come from the same organism.
//
// A Cluster is itself a Bin: its features are the size-weighted means of its
// members and its ID is the ID of the bin it was created from. Clusters are
// shared between the index and callers and are never copied by the index.
// All methods are safe for concurrent use.
type Cluster struct {
	id   uint32
	size atomic.Int64

	mu       sync.RWMutex
	members  []Bin
	weight   float64
	gcSum    float64
	hhSum    float64
	cagaSum  float64
	depthSum []float64
	// depthW[i] is the weight of the members that have sample i.
	depthW []float64

	// home is the bucket holding the cluster, set once when it is indexed.
	home atomic.Pointer[bucket]
}

var _ Bin = (*Cluster)(nil)

// NewCluster wraps b in a singleton Cluster. A *Cluster is returned as is.
func NewCluster(b Bin) *Cluster {
	if c, ok := b.(*Cluster); ok {
		return c
	}
	c := &Cluster{id: b.ID()}
	c.add(b)
	return c
}

// weightOf keeps zero-length bins from vanishing in the weighted means.
func weightOf(b Bin) float64 {
	return float64(max(b.Size(), 1))
}

// add must be called with mu held (or before the cluster is shared).
func (c *Cluster) add(b Bin) {
	w := weightOf(b)
	c.members = append(c.members, b)
	c.weight += w
	c.gcSum += b.GC() * w
	c.hhSum += b.HH() * w
	c.cagaSum += b.CAGA() * w
	if n := b.NumDepths(); n > len(c.depthSum) {
		c.depthSum = append(c.depthSum, make([]float64, n-len(c.depthSum))...)
		c.depthW = append(c.depthW, make([]float64, n-len(c.depthW))...)
	}
	for i := range b.NumDepths() {
		c.depthSum[i] += b.Depth(i) * w
		c.depthW[i] += w
	}
	c.size.Add(b.Size())
}

// Absorb merges b into c. If b is a Cluster its members are moved over
// one by one; b itself is left unchanged.
//
// Absorbing changes Size. Clusters that live in an index must be grown
// through the index (AddOrMerge) so bucket ordering is maintained.
func (c *Cluster) Absorb(b Bin) {
	if b == Bin(c) {
		return
	}
	var add []Bin
	if o, ok := b.(*Cluster); ok {
		add = o.Members()
	} else {
		add = []Bin{b}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range add {
		c.add(m)
	}
}

// ID returns the ID of the seed bin.
func (c *Cluster) ID() uint32 { return c.id }

// Size returns the total number of bases of all members.
func (c *Cluster) Size() int64 { return c.size.Load() }

// Len returns the number of member bins.
func (c *Cluster) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.members)
}

// Members returns a copy of the member list.
func (c *Cluster) Members() []Bin {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.members)
}

// GC returns the size-weighted mean GC content.
func (c *Cluster) GC() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gcSum / c.weight
}

// HH returns the size-weighted mean HH ratio.
func (c *Cluster) HH() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hhSum / c.weight
}

// CAGA returns the size-weighted mean CAGA ratio.
func (c *Cluster) CAGA() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cagaSum / c.weight
}

// Depth returns the size-weighted mean coverage of sample i over the
// members that report that sample.
func (c *Cluster) Depth(i int) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.depthSum[i] / c.depthW[i]
}

// NumDepths returns the largest sample count among the members.
func (c *Cluster) NumDepths() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.depthSum)
}

// Indexed reports whether the cluster has been placed in an index bucket.
func (c *Cluster) Indexed() bool { return c.home.Load() != nil }

// before is the bucket order: descending size, then ascending ID.
func before(a, b *Cluster) bool {
	as, bs := a.Size(), b.Size()
	if as != bs {
		return as > bs
	}
	return a.id < b.id
}
