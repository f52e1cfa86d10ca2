package grid

// Dim identifies the feature quantized into a Key slot.
type Dim uint8

const (
	// Unused marks an empty slot. Its level is always 0.
	Unused Dim = iota
	GC
	HH
	CAGA
	Depth0
	Depth1
	Depth2
)

// NumSlots is the fixed width of a Key.
const NumSlots = 5

func (d Dim) String() string {
	switch d {
	case Unused:
		return "unused"
	case GC:
		return "gc"
	case HH:
		return "hh"
	case CAGA:
		return "caga"
	case Depth0:
		return "depth0"
	case Depth1:
		return "depth1"
	case Depth2:
		return "depth2"
	default:
		return "unknown"
	}
}

// IsDepth reports whether d is one of the logarithmic coverage dimensions.
func (d Dim) IsDepth() bool {
	return d >= Depth0 && d <= Depth2
}

// Sample returns the coverage sample index of a depth dimension, or -1.
func (d Dim) Sample() int {
	if !d.IsDepth() {
		return -1
	}
	return int(d - Depth0)
}

// Layout assigns a Dim to each Key slot.
type Layout [NumSlots]Dim

// Populated returns the number of slots that carry a feature.
func (l Layout) Populated() int {
	n := 0
	for _, d := range l {
		if d != Unused {
			n++
		}
	}
	return n
}

// DepthsRequired returns how many coverage samples the layout reads.
func (l Layout) DepthsRequired() int {
	n := 0
	for _, d := range l {
		if s := d.Sample(); s+1 > n {
			n = s + 1
		}
	}
	return n
}

// Key is a quantized coordinate: (gcLevel, dim2, dim3, dim4, dim5).
// Keys are comparable values and can be used directly as map keys.
type Key [NumSlots]int32
