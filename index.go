package quantbin

import (
	"cmp"
	"context"
	"fmt"
	"iter"
	"slices"
	"sync/atomic"
	"time"

	"github.com/hupe1980/quantbin/grid"
	"github.com/hupe1980/quantbin/internal/resource"
)

// Layout selects the physical organisation of an index.
type Layout string

const (
	// LayoutHash stores every bucket in one sharded hash map.
	LayoutHash Layout = "hash"
	// LayoutSliced stores buckets in per-GC-level strata of a fixed array.
	LayoutSliced Layout = "sliced"
)

// Placement is the outcome of AddOrMerge.
type Placement uint8

const (
	// Merged means the bin joined an existing cluster.
	Merged Placement = iota + 1
	// Added means the bin became a new cluster in its own bucket.
	Added
	// Residual means the bin was too small and bypassed the index.
	Residual
)

func (p Placement) String() string {
	switch p {
	case Merged:
		return "merged"
	case Added:
		return "added"
	case Residual:
		return "residual"
	default:
		return "unknown"
	}
}

// Thresholds are the size limits combined by AddOrMerge.
type Thresholds struct {
	// MinSizeToCompare is the smallest bin that is compared against the
	// index at all.
	MinSizeToCompare int64
	// MinSizeToMerge is the smallest cluster a bin may be merged into.
	MinSizeToMerge int64
	// MinSizeToAdd is the smallest bin that may found a new cluster.
	MinSizeToAdd int64
}

// Index is a quantized spatial index of clusters.
//
// An index has two phases: a load phase (Insert, InsertAll, AddOrMerge)
// and a query phase (Query, QueryAll). All operations of both phases are
// safe for concurrent use. Clear must not run concurrently with anything.
type Index interface {
	// Insert wraps b in a Cluster (a *Cluster is used as is) and stores it
	// under its Key.
	Insert(b Bin) (*Cluster, error)
	// InsertAll inserts bins of at least minSize in parallel and routes the
	// rest to the residual list.
	InsertAll(ctx context.Context, bins []Bin, minSize int64) error
	// Query returns the best scoring cluster within radius grid levels of
	// key, ignoring clusters smaller than minSizeToCompare.
	Query(q Bin, key grid.Key, minSizeToCompare int64, radius int, oracle Oracle) (Match, error)
	// QueryAll runs Query for every bin in parallel, one Oracle per worker.
	QueryAll(ctx context.Context, queries []Bin, minSizeToCompare int64, radius int, newOracle func() Oracle) ([]Match, error)
	// AddOrMerge merges b into its best match, adds it as a new cluster,
	// or routes it to the residual list.
	AddOrMerge(b Bin, th Thresholds, oracle Oracle, radius int) (Placement, *Cluster, error)
	// Materialize returns all indexed clusters in descending size order,
	// plus one singleton per residual bin when includeResidual is set.
	Materialize(includeResidual bool) []*Cluster
	// Buckets iterates over the buckets in ascending Key order.
	Buckets() iter.Seq2[grid.Key, []*Cluster]
	// Clear drops all buckets and, if clearResidual is set, the residual list.
	Clear(clearResidual bool)
	// Validate checks the structural invariants of the index.
	Validate() error
	ClusterCount() int
	BucketCount() int
	ResidualCount() int
	Stats() Stats
	Quantizer() *grid.Quantizer
	Close() error
}

var (
	_ Index = (*HashIndex)(nil)
	_ Index = (*SlicedIndex)(nil)
)

// HashIndex keeps every bucket in a 64-way sharded hash map keyed by the
// full Key.
type HashIndex struct {
	*base
}

// SlicedIndex keeps one bucket map per GC level in a fixed array, so a
// search skips empty GC strata without hashing.
type SlicedIndex struct {
	*base
}

// New creates an index with the given layout.
func New(layout Layout, cfg grid.Config, optFns ...Option) (Index, error) {
	switch layout {
	case LayoutHash:
		return NewHashIndex(cfg, optFns...)
	case LayoutSliced:
		return NewSlicedIndex(cfg, optFns...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownLayout, layout)
	}
}

// NewHashIndex creates a hash-bucketed index.
// cfg.KeyType must be concrete unless WithDataScale is given.
func NewHashIndex(cfg grid.Config, optFns ...Option) (*HashIndex, error) {
	b, err := newBase(LayoutHash, cfg, optFns, func(*grid.Quantizer) store {
		return newHashStore()
	})
	if err != nil {
		return nil, err
	}
	return &HashIndex{base: b}, nil
}

// NewSlicedIndex creates an array-sliced index.
// cfg.KeyType must be concrete unless WithDataScale is given.
func NewSlicedIndex(cfg grid.Config, optFns ...Option) (*SlicedIndex, error) {
	b, err := newBase(LayoutSliced, cfg, optFns, func(q *grid.Quantizer) store {
		return newSliceStore(q.GCLevels())
	})
	if err != nil {
		return nil, err
	}
	return &SlicedIndex{base: b}, nil
}

// base implements Index on top of a store.
type base struct {
	layout Layout
	q      *grid.Quantizer
	st     store
	opts   options
	logger *Logger
	rc     *resource.Controller

	bounds   *gridBounds
	residual residualList

	clusters atomic.Int64
	probes   atomic.Int64
	hits     atomic.Int64
	queries  atomic.Int64
}

func newBase(layout Layout, cfg grid.Config, optFns []Option, mk func(*grid.Quantizer) store) (*base, error) {
	opts := applyOptions(optFns)
	if opts.scaleKnown {
		cfg = cfg.Resolve(opts.samples, opts.contigs)
	}
	q, err := grid.NewQuantizer(cfg)
	if err != nil {
		return nil, err
	}
	return &base{
		layout: layout,
		q:      q,
		st:     mk(q),
		opts:   opts,
		logger: opts.logger.WithLayout(layout).WithKeyType(q.KeyType()),
		rc: resource.NewController(resource.Config{
			MemoryLimitBytes: opts.memoryLimit,
			MaxWorkers:       int64(opts.workers),
		}),
		bounds: newGridBounds(),
	}, nil
}

// Layout returns the physical layout of the index.
func (x *base) Layout() Layout { return x.layout }

// Quantizer returns the quantizer (and through it the Config) of the index.
func (x *base) Quantizer() *grid.Quantizer { return x.q }

const clusterOverheadBytes = 192

func clusterCost(b Bin) int64 {
	return clusterOverheadBytes + 8*int64(b.NumDepths())
}

// Insert implements Index.
func (x *base) Insert(b Bin) (*Cluster, error) {
	start := time.Now()
	c, key, err := x.insert(b)
	x.opts.metricsCollector.RecordInsert(time.Since(start), err)
	x.logger.LogInsert(context.Background(), b.ID(), key, err)
	return c, err
}

func (x *base) insert(b Bin) (*Cluster, grid.Key, error) {
	if err := ValidateBin(b); err != nil {
		return nil, grid.Key{}, err
	}
	if c, ok := b.(*Cluster); ok && c.Indexed() {
		return nil, grid.Key{}, fmt.Errorf("%w: cluster %d", ErrAlreadyIndexed, c.ID())
	}

	key := x.q.Key(b)
	assertKey(x.q, key)

	if err := x.rc.AcquireMemory(clusterCost(b)); err != nil {
		return nil, key, translateError(err)
	}

	c := NewCluster(b)
	if !x.st.getOrCreate(key).add(c) {
		x.rc.ReleaseMemory(clusterCost(b))
		return nil, key, fmt.Errorf("%w: cluster %d", ErrAlreadyIndexed, c.ID())
	}
	x.bounds.observe(key)
	x.clusters.Add(1)
	return c, key, nil
}

// Query implements Index.
//
// The search window is the per-slot intersection of the oracle tolerance
// (scaled by the size multiplier of q), radius levels around key, and the
// observed grid bounds. Buckets are scanned largest cluster first and the
// scan of a bucket stops at the first cluster below minSizeToCompare. The
// query bin itself (same ID) is never returned.
func (x *base) Query(q Bin, key grid.Key, minSizeToCompare int64, radius int, oracle Oracle) (Match, error) {
	start := time.Now()
	m, err := x.query(q, key, minSizeToCompare, radius, oracle)
	x.opts.metricsCollector.RecordQuery(m.Probes, m.Hits, m.Found(), time.Since(start), err)
	x.logger.LogQuery(context.Background(), q.ID(), m, err)
	return m, err
}

func (x *base) query(q Bin, key grid.Key, minSizeToCompare int64, radius int, oracle Oracle) (Match, error) {
	if oracle == nil {
		return Match{}, ErrNilOracle
	}
	if err := ValidateBin(q); err != nil {
		return Match{}, err
	}

	oracle.Clear()
	mult := x.opts.sizeMultiplier(q.Size())
	tol := oracle.Tolerances().Scale(mult)
	w := x.bounds.clamp(x.q.WindowAt(q, key, tol, radius))

	var m Match
	if !w.Empty() {
		qid := q.ID()
		m.Probes, m.Hits = x.st.search(w, func(b *bucket) {
			b.scan(func(c *Cluster) bool {
				if c.Size() < minSizeToCompare {
					return false
				}
				if c.ID() == qid {
					return true
				}
				if s := oracle.Similarity(q, c, mult); s > m.Score {
					m.Score, m.Cluster = s, c
				}
				return true
			})
		})
	}

	x.queries.Add(1)
	x.probes.Add(int64(m.Probes))
	x.hits.Add(int64(m.Hits))
	return m, nil
}

// AddOrMerge implements Index. It is the only place the three thresholds
// are combined:
//
//  1. size >= MinSizeToCompare and a match among clusters of at least
//     MinSizeToMerge: b is merged into the match.
//  2. size >= MinSizeToAdd: b is inserted as a new cluster.
//  3. otherwise b goes to the residual list.
func (x *base) AddOrMerge(b Bin, th Thresholds, oracle Oracle, radius int) (Placement, *Cluster, error) {
	p, c, err := x.addOrMerge(b, th, oracle, radius)
	if err == nil {
		x.opts.metricsCollector.RecordPlacement(p)
	}
	x.logger.LogPlacement(context.Background(), b.ID(), p, err)
	return p, c, err
}

func (x *base) addOrMerge(b Bin, th Thresholds, oracle Oracle, radius int) (Placement, *Cluster, error) {
	if err := ValidateBin(b); err != nil {
		return 0, nil, err
	}
	if c, ok := b.(*Cluster); ok && c.Indexed() {
		return 0, nil, fmt.Errorf("%w: cluster %d", ErrAlreadyIndexed, c.ID())
	}

	size := b.Size()
	if size >= th.MinSizeToCompare {
		m, err := x.Query(b, x.q.Key(b), th.MinSizeToMerge, radius, oracle)
		if err != nil {
			return 0, nil, err
		}
		if m.Found() {
			x.merge(m.Cluster, b)
			return Merged, m.Cluster, nil
		}
	}

	if size >= th.MinSizeToAdd {
		c, _, err := x.insert(b)
		if err != nil {
			return 0, nil, err
		}
		return Added, c, nil
	}

	x.residual.add(b)
	return Residual, nil, nil
}

func (x *base) merge(into *Cluster, b Bin) {
	if home := into.home.Load(); home != nil {
		home.merge(into, b)
		return
	}
	into.Absorb(b)
}

// Materialize implements Index.
func (x *base) Materialize(includeResidual bool) []*Cluster {
	out := make([]*Cluster, 0, x.ClusterCount())
	x.st.each(func(b *bucket) bool {
		out = append(out, b.snapshot()...)
		return true
	})
	if includeResidual {
		for _, r := range x.residual.snapshot() {
			out = append(out, NewCluster(r))
		}
	}
	slices.SortStableFunc(out, func(a, b *Cluster) int {
		if before(a, b) {
			return -1
		}
		if before(b, a) {
			return 1
		}
		return 0
	})
	return out
}

// Buckets implements Index.
func (x *base) Buckets() iter.Seq2[grid.Key, []*Cluster] {
	return func(yield func(grid.Key, []*Cluster) bool) {
		var list []*bucket
		x.st.each(func(b *bucket) bool {
			list = append(list, b)
			return true
		})
		slices.SortFunc(list, func(a, b *bucket) int {
			return compareKeys(a.key, b.key)
		})
		for _, b := range list {
			if !yield(b.key, b.snapshot()) {
				return
			}
		}
	}
}

func compareKeys(a, b grid.Key) int {
	for i := range a {
		if c := cmp.Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return 0
}

// Residual returns a copy of the residual list.
func (x *base) Residual() []Bin {
	return x.residual.snapshot()
}

// Clear implements Index.
func (x *base) Clear(clearResidual bool) {
	n := x.ClusterCount()
	x.st.reset()
	x.bounds.reset()
	x.clusters.Store(0)
	x.probes.Store(0)
	x.hits.Store(0)
	x.queries.Store(0)
	x.rc.ReleaseAllMemory()
	if clearResidual {
		x.residual.reset()
	}
	x.logger.LogClear(context.Background(), n, clearResidual)
}

// ClusterCount returns the number of indexed clusters (residual excluded).
func (x *base) ClusterCount() int { return int(x.clusters.Load()) }

// BucketCount returns the number of distinct keys.
func (x *base) BucketCount() int { return x.st.len() }

// ResidualCount returns the number of residual bins.
func (x *base) ResidualCount() int { return x.residual.len() }

// Close releases the memory reservations of the index. The index remains
// readable.
func (x *base) Close() error {
	x.rc.ReleaseAllMemory()
	return nil
}
