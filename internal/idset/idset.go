// Package idset provides compressed sets of bin IDs.
package idset

import (
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
)

// Set is a 32-bit Roaring Bitmap of bin IDs.
// It is not safe for concurrent mutation.
type Set struct {
	rb *roaring.Bitmap
}

var setPool = sync.Pool{
	New: func() any {
		return &Set{rb: roaring.New()}
	},
}

// Get takes a cleared set from the pool. Call Put when done.
func Get() *Set {
	s := setPool.Get().(*Set)
	s.rb.Clear()
	return s
}

// Put returns a set to the pool.
func Put(s *Set) {
	if s == nil {
		return
	}
	// Clear before returning to pool to release container memory
	s.rb.Clear()
	setPool.Put(s)
}

// AddNew inserts id and reports whether it was absent.
func (s *Set) AddNew(id uint32) bool {
	return s.rb.CheckedAdd(id)
}

// Contains reports whether id is in the set.
func (s *Set) Contains(id uint32) bool {
	return s.rb.Contains(id)
}

// Intersects reports whether s and o share an id.
func (s *Set) Intersects(o *Set) bool {
	return s.rb.Intersects(o.rb)
}

// ForEach iterates over the ids in ascending order.
func (s *Set) ForEach(fn func(id uint32) bool) {
	it := s.rb.Iterator()
	for it.HasNext() {
		if !fn(it.Next()) {
			break
		}
	}
}
