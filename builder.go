package quantbin

import (
	"github.com/hupe1980/quantbin/grid"
)

// Hash creates a builder for a HashIndex.
//
// The builder is immutable - each method returns a new builder with the updated configuration.
//
// Example:
//
//	idx, err := quantbin.Hash().
//	    KeyType(grid.KeyGCHHDepth).
//	    GCWidth(0.01).
//	    Workers(8).
//	    Build()
func Hash() Builder {
	return Builder{layout: LayoutHash, cfg: grid.DefaultConfig()}
}

// Sliced creates a builder for a SlicedIndex.
func Sliced() Builder {
	return Builder{layout: LayoutSliced, cfg: grid.DefaultConfig()}
}

// FromConfig creates a builder with the given layout and grid configuration,
// typically one loaded with grid.LoadConfigFile or grid.LoadConfigFromEnv.
func FromConfig(layout Layout, cfg grid.Config) Builder {
	return Builder{layout: layout, cfg: cfg}
}

// Builder is an immutable fluent builder for indexes.
type Builder struct {
	layout Layout
	cfg    grid.Config
	opts   []Option
}

func (b Builder) with(o Option) Builder {
	b.opts = append(b.opts[:len(b.opts):len(b.opts)], o)
	return b
}

// KeyType sets the dimensionality variant. grid.KeyAuto requires DataScale.
func (b Builder) KeyType(kt grid.KeyType) Builder {
	b.cfg.KeyType = kt
	return b
}

// GCWidth sets the width of one GC level.
// Default: 0.02.
func (b Builder) GCWidth(w float64) Builder {
	b.cfg.GCWidth = w
	return b
}

// HHWidth sets the width of one HH level.
// Default: 0.02.
func (b Builder) HHWidth(w float64) Builder {
	b.cfg.HHWidth = w
	return b
}

// CAGAWidth sets the width of one CAGA level.
// Default: 0.02.
func (b Builder) CAGAWidth(w float64) Builder {
	b.cfg.CAGAWidth = w
	return b
}

// DepthLevelMult sets the number of depth levels per doubling of coverage.
// Default: 1.
func (b Builder) DepthLevelMult(m float64) Builder {
	b.cfg.DepthLevelMult = m
	return b
}

// MaxDepth caps coverage before quantization.
// Default: 1e6.
func (b Builder) MaxDepth(d float64) Builder {
	b.cfg.MaxDepth = d
	return b
}

// DifMults sets the factors turning the GC tolerance into HH and CAGA
// tolerances.
func (b Builder) DifMults(hh, caga float64) Builder {
	b.cfg.HHDifMult = hh
	b.cfg.CAGADifMult = caga
	return b
}

// DataScale supplies the sample and contig counts used to resolve grid.KeyAuto.
func (b Builder) DataScale(samples, contigs int) Builder {
	return b.with(WithDataScale(samples, contigs))
}

// Workers sets the parallelism of InsertAll and QueryAll.
func (b Builder) Workers(n int) Builder {
	return b.with(WithWorkers(n))
}

// MemoryLimit caps the estimated memory of indexed clusters.
func (b Builder) MemoryLimit(bytes int64) Builder {
	return b.with(WithMemoryLimit(bytes))
}

// SizeMultiplier replaces DefaultSizeMultiplier.
func (b Builder) SizeMultiplier(fn SizeMultiplier) Builder {
	return b.with(WithSizeMultiplier(fn))
}

// Logger sets the structured logger.
func (b Builder) Logger(l *Logger) Builder {
	return b.with(WithLogger(l))
}

// Metrics sets the metrics collector.
func (b Builder) Metrics(mc MetricsCollector) Builder {
	return b.with(WithMetricsCollector(mc))
}

// Config returns the grid configuration the builder will use.
func (b Builder) Config() grid.Config { return b.cfg }

// Build creates the index.
func (b Builder) Build() (Index, error) {
	return New(b.layout, b.cfg, b.opts...)
}
