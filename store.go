package quantbin

import (
	"hash/maphash"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/quantbin/grid"
)

// store is the physical bucket layout behind an index.
// getOrCreate is the only mutation path into a store.
type store interface {
	// getOrCreate returns the bucket for k, creating it atomically if absent.
	getOrCreate(k grid.Key) *bucket
	// search calls visit for every existing bucket inside w and returns the
	// number of lookups and the number of lookups that found a non-empty bucket.
	search(w grid.Window, visit func(*bucket)) (probes, hits int)
	// each calls fn for every bucket until fn returns false.
	each(fn func(*bucket) bool)
	// strata returns the number of distinct GC levels holding buckets.
	strata() int
	len() int
	reset()
}

// enumerate calls fn for every key of w: slot 4 outermost, GC innermost.
func enumerate(w grid.Window, fn func(grid.Key)) {
	var k grid.Key
	for k[4] = w[4].Lo; k[4] <= w[4].Hi; k[4]++ {
		for k[3] = w[3].Lo; k[3] <= w[3].Hi; k[3]++ {
			for k[2] = w[2].Lo; k[2] <= w[2].Hi; k[2]++ {
				for k[1] = w[1].Lo; k[1] <= w[1].Hi; k[1]++ {
					for k[0] = w[0].Lo; k[0] <= w[0].Hi; k[0]++ {
						fn(k)
					}
				}
			}
		}
	}
}

// bucketMap is a lock-guarded Key -> bucket map with insert-if-absent.
type bucketMap struct {
	mu sync.RWMutex
	m  map[grid.Key]*bucket
}

func (bm *bucketMap) lookup(k grid.Key) *bucket {
	bm.mu.RLock()
	defer bm.mu.RUnlock()
	return bm.m[k]
}

// getOrCreate reports whether the bucket was created by this call.
func (bm *bucketMap) getOrCreate(k grid.Key) (*bucket, bool) {
	if b := bm.lookup(k); b != nil {
		return b, false
	}

	bm.mu.Lock()
	defer bm.mu.Unlock()
	if b, ok := bm.m[k]; ok {
		return b, false
	}
	if bm.m == nil {
		bm.m = make(map[grid.Key]*bucket)
	}
	b := newBucket(k)
	bm.m[k] = b
	return b, true
}

func (bm *bucketMap) each(fn func(*bucket) bool) bool {
	bm.mu.RLock()
	list := make([]*bucket, 0, len(bm.m))
	for _, b := range bm.m {
		list = append(list, b)
	}
	bm.mu.RUnlock()

	for _, b := range list {
		if !fn(b) {
			return false
		}
	}
	return true
}

func (bm *bucketMap) reset() {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	bm.m = nil
}

func probe(bm *bucketMap, k grid.Key, visit func(*bucket)) (hit bool) {
	b := bm.lookup(k)
	if b == nil || b.len() == 0 {
		return false
	}
	visit(b)
	return true
}

const numShards = 64

// hashStore spreads buckets over 64 independently locked shards.
type hashStore struct {
	shards [numShards]bucketMap
	seed   maphash.Seed
	count  atomic.Int64
}

func newHashStore() *hashStore {
	return &hashStore{seed: maphash.MakeSeed()}
}

func (s *hashStore) shard(k grid.Key) *bucketMap {
	return &s.shards[maphash.Comparable(s.seed, k)%numShards]
}

func (s *hashStore) getOrCreate(k grid.Key) *bucket {
	b, created := s.shard(k).getOrCreate(k)
	if created {
		s.count.Add(1)
	}
	return b
}

func (s *hashStore) search(w grid.Window, visit func(*bucket)) (probes, hits int) {
	enumerate(w, func(k grid.Key) {
		probes++
		if probe(s.shard(k), k, visit) {
			hits++
		}
	})
	return probes, hits
}

func (s *hashStore) each(fn func(*bucket) bool) {
	for i := range s.shards {
		if !s.shards[i].each(fn) {
			return
		}
	}
}

func (s *hashStore) strata() int {
	seen := make(map[int32]struct{})
	s.each(func(b *bucket) bool {
		seen[b.key[0]] = struct{}{}
		return true
	})
	return len(seen)
}

func (s *hashStore) len() int { return int(s.count.Load()) }

func (s *hashStore) reset() {
	for i := range s.shards {
		s.shards[i].reset()
	}
	s.count.Store(0)
}

// sliceStore indexes buckets by GC level in a fixed array of strata; each
// stratum owns a bucket map keyed by the full Key.
//
// A stratum pointer goes from nil to non-nil exactly once (CompareAndSwap,
// first writer wins) and is only cleared by reset, so searches can skip
// empty GC levels with a single atomic load.
type sliceStore struct {
	strataArr []atomic.Pointer[bucketMap]
	count     atomic.Int64
}

func newSliceStore(gcLevels int) *sliceStore {
	return &sliceStore{strataArr: make([]atomic.Pointer[bucketMap], gcLevels)}
}

func (s *sliceStore) stratum(gc int32, create bool) *bucketMap {
	if gc < 0 || int(gc) >= len(s.strataArr) {
		return nil
	}
	p := &s.strataArr[gc]
	if st := p.Load(); st != nil || !create {
		return st
	}
	fresh := &bucketMap{m: make(map[grid.Key]*bucket)}
	if p.CompareAndSwap(nil, fresh) {
		return fresh
	}
	return p.Load()
}

func (s *sliceStore) getOrCreate(k grid.Key) *bucket {
	st := s.stratum(k[0], true)
	if st == nil {
		panic("quantbin: gc level outside stratum array")
	}
	b, created := st.getOrCreate(k)
	if created {
		s.count.Add(1)
	}
	return b
}

func (s *sliceStore) search(w grid.Window, visit func(*bucket)) (probes, hits int) {
	// Window edges may lie outside the array.
	lo := max(w[0].Lo, 0)
	hi := min(w[0].Hi, int32(len(s.strataArr)-1))

	for gc := lo; gc <= hi; gc++ {
		st := s.stratum(gc, false)
		if st == nil {
			continue
		}
		inner := w
		inner[0] = grid.Range{Lo: gc, Hi: gc}
		enumerate(inner, func(k grid.Key) {
			probes++
			if probe(st, k, visit) {
				hits++
			}
		})
	}
	return probes, hits
}

func (s *sliceStore) each(fn func(*bucket) bool) {
	for i := range s.strataArr {
		st := s.strataArr[i].Load()
		if st != nil && !st.each(fn) {
			return
		}
	}
}

func (s *sliceStore) strata() int {
	n := 0
	for i := range s.strataArr {
		if s.strataArr[i].Load() != nil {
			n++
		}
	}
	return n
}

func (s *sliceStore) len() int { return int(s.count.Load()) }

func (s *sliceStore) reset() {
	for i := range s.strataArr {
		s.strataArr[i].Store(nil)
	}
	s.count.Store(0)
}
