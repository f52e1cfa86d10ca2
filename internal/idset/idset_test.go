package idset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	s := Get()
	defer Put(s)

	assert.True(t, s.AddNew(7))
	assert.False(t, s.AddNew(7))
	assert.True(t, s.AddNew(3))
	assert.True(t, s.AddNew(1<<30))

	assert.True(t, s.Contains(3))
	assert.False(t, s.Contains(4))

	var seen []uint32
	s.ForEach(func(id uint32) bool {
		seen = append(seen, id)
		return true
	})
	assert.Equal(t, []uint32{3, 7, 1 << 30}, seen)

	seen = seen[:0]
	s.ForEach(func(id uint32) bool {
		seen = append(seen, id)
		return len(seen) < 2
	})
	assert.Equal(t, []uint32{3, 7}, seen)
}

func TestIntersects(t *testing.T) {
	a, b, c := Get(), Get(), Get()
	defer func() { Put(a); Put(b); Put(c) }()

	for _, id := range []uint32{1, 2, 3} {
		a.AddNew(id)
	}
	b.AddNew(3)
	b.AddNew(4)
	c.AddNew(5)

	assert.True(t, a.Intersects(b))
	assert.False(t, a.Intersects(c))
}

func TestPool(t *testing.T) {
	s := Get()
	s.AddNew(42)
	Put(s)

	s = Get()
	assert.False(t, s.Contains(42))
	Put(s)
	Put(nil)
}
