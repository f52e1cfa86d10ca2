// Package grid implements the quantization layer of the bin index.
//
// Continuous bin features are mapped to integer levels on a fixed grid:
//
//   - GC, HH and CAGA are linear: level = floor(clamp(v, 0, 1) / width).
//   - Depth is logarithmic: level = floor((log2(min(d, MaxDepth) + 0.0625) + 4) * DepthLevelMult).
//
// A Key is a fixed five-slot coordinate. Which slots are populated, and with
// which feature, is decided by a KeyType. All twelve variants share the same
// Key representation and differ only in their Layout (one Dim tag per slot).
//
// # Search windows
//
// Quantizer.Window turns a feature vector, a Tolerance and a search radius
// into one inclusive level Range per slot. Linear dimensions widen the window
// additively; depth dimensions widen it by a ratio before re-quantizing. A
// window always contains the level of the feature it was computed for.
//
// # Dimensionality selection
//
// SelectKeyType picks a variant from the number of coverage samples and
// contigs: composition-only without coverage, then one, two or three depth
// dimensions as the data grows.
package grid
