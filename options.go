package quantbin

import (
	"log/slog"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	sizeMultiplier   SizeMultiplier
	workers          int
	memoryLimit      int64
	samples          int
	contigs          int
	scaleKnown       bool
}

// Option configures index construction.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &quantbin.BasicMetricsCollector{}
//	idx, _ := quantbin.NewSlicedIndex(cfg, quantbin.WithMetricsCollector(metrics))
//	// ... load and query ...
//	stats := metrics.GetStats()
//	fmt.Printf("Queries: %d, Avg latency: %dns\n", stats.QueryCount, stats.QueryAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := quantbin.NewJSONLogger(slog.LevelInfo)
//	idx, _ := quantbin.NewHashIndex(cfg, quantbin.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithSizeMultiplier replaces the size-to-tolerance policy applied once
// per query. Pass nil to restore DefaultSizeMultiplier.
func WithSizeMultiplier(fn SizeMultiplier) Option {
	return func(o *options) {
		if fn == nil {
			fn = DefaultSizeMultiplier
		}
		o.sizeMultiplier = fn
	}
}

// WithWorkers sets the number of goroutines used by InsertAll and QueryAll.
// Values <= 0 select runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithMemoryLimit caps the estimated memory held by indexed clusters.
// Inserts beyond the budget fail with ErrMemoryLimitExceeded.
// 0 disables the limit.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithDataScale supplies the number of coverage samples and contigs used to
// resolve grid.KeyAuto through grid.SelectKeyType.
func WithDataScale(samples, contigs int) Option {
	return func(o *options) {
		o.samples = samples
		o.contigs = contigs
		o.scaleKnown = true
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		sizeMultiplier:   DefaultSizeMultiplier,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
