package grid

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKeyType is returned when a key type name is not recognized.
var ErrUnknownKeyType = errors.New("unknown key type")

// KeyType names a dimensionality variant.
type KeyType string

const (
	// KeyAuto defers the choice to SelectKeyType.
	KeyAuto          KeyType = "auto"
	KeyNone          KeyType = "none"
	KeyGC            KeyType = "gc"
	KeyGCHH          KeyType = "gchh"
	KeyGCCAGA        KeyType = "gccaga"
	KeyGCHHCAGA      KeyType = "gchhcaga"
	KeyGCDepth       KeyType = "gcdepth"
	KeyGCHHDepth     KeyType = "gchhdepth"
	KeyGCHHCAGADepth KeyType = "gchhcagadepth"
	KeyGCDepth2      KeyType = "gcdepth2"
	KeyGCHHDepth2    KeyType = "gchhdepth2"
	KeyGCDepth3      KeyType = "gcdepth3"
	KeyGCHHDepth3    KeyType = "gchhdepth3"
)

var layouts = map[KeyType]Layout{
	KeyNone:          {},
	KeyGC:            {GC},
	KeyGCHH:          {GC, HH},
	KeyGCCAGA:        {GC, CAGA},
	KeyGCHHCAGA:      {GC, HH, CAGA},
	KeyGCDepth:       {GC, Depth0},
	KeyGCHHDepth:     {GC, HH, Depth0},
	KeyGCHHCAGADepth: {GC, HH, CAGA, Depth0},
	KeyGCDepth2:      {GC, Depth0, Depth1},
	KeyGCHHDepth2:    {GC, HH, Depth0, Depth1},
	KeyGCDepth3:      {GC, Depth0, Depth1, Depth2},
	KeyGCHHDepth3:    {GC, HH, Depth0, Depth1, Depth2},
}

// KeyTypes returns every concrete variant, ordered by populated dimensions.
func KeyTypes() []KeyType {
	return []KeyType{
		KeyNone, KeyGC, KeyGCHH, KeyGCCAGA, KeyGCHHCAGA,
		KeyGCDepth, KeyGCHHDepth, KeyGCHHCAGADepth,
		KeyGCDepth2, KeyGCHHDepth2, KeyGCDepth3, KeyGCHHDepth3,
	}
}

// ParseKeyType resolves a variant name. Matching is case-insensitive.
func ParseKeyType(s string) (KeyType, error) {
	kt := KeyType(strings.ToLower(strings.TrimSpace(s)))
	if kt == KeyAuto {
		return kt, nil
	}
	if _, ok := layouts[kt]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKeyType, s)
	}
	return kt, nil
}

// Layout returns the slot assignment of a concrete variant.
// KeyAuto and unknown names report false.
func (k KeyType) Layout() (Layout, bool) {
	l, ok := layouts[k]
	return l, ok
}

func (k KeyType) String() string { return string(k) }

const (
	fewContigs  = 20_000
	manyContigs = 200_000
)

// SelectKeyType chooses a variant from the data scale. Depth dimensions are
// added as the sample and contig counts grow.
func SelectKeyType(samples, contigs int) KeyType {
	switch {
	case samples <= 0:
		return KeyGCHHCAGA
	case samples == 1 || contigs < fewContigs:
		return KeyGCHHDepth
	case samples == 2 || contigs < manyContigs:
		return KeyGCHHDepth2
	default:
		return KeyGCHHDepth3
	}
}
