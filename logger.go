package quantbin

import (
	"context"
	"log/slog"
	"os"

	"github.com/hupe1980/quantbin/grid"
)

// Logger wraps slog.Logger with index-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithLayout adds the physical index layout to the logger.
func (l *Logger) WithLayout(layout Layout) *Logger {
	return &Logger{
		Logger: l.Logger.With("layout", string(layout)),
	}
}

// WithKeyType adds the dimensionality variant to the logger.
func (l *Logger) WithKeyType(kt grid.KeyType) *Logger {
	return &Logger{
		Logger: l.Logger.With("key_type", string(kt)),
	}
}

// LogInsert logs an insert operation.
func (l *Logger) LogInsert(ctx context.Context, id uint32, key grid.Key, err error) {
	if err != nil {
		l.ErrorContext(ctx, "insert failed",
			"id", id,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "insert completed",
			"id", id,
			"key", key,
		)
	}
}

// LogBatchInsert logs a batch insert operation.
func (l *Logger) LogBatchInsert(ctx context.Context, count, residual int, err error) {
	if err != nil {
		l.WarnContext(ctx, "batch insert aborted",
			"total", count,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "batch insert completed",
			"count", count,
			"residual", residual,
		)
	}
}

// LogProgress logs the progress of a running batch.
func (l *Logger) LogProgress(ctx context.Context, op string, done, total int64) {
	l.InfoContext(ctx, "batch progress",
		"op", op,
		"done", done,
		"total", total,
	)
}

// LogQuery logs a query operation.
func (l *Logger) LogQuery(ctx context.Context, id uint32, m Match, err error) {
	if err != nil {
		l.ErrorContext(ctx, "query failed",
			"id", id,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "query completed",
			"id", id,
			"found", m.Found(),
			"score", m.Score,
			"probes", m.Probes,
			"hits", m.Hits,
		)
	}
}

// LogPlacement logs the outcome of AddOrMerge.
func (l *Logger) LogPlacement(ctx context.Context, id uint32, p Placement, err error) {
	if err != nil {
		l.ErrorContext(ctx, "add or merge failed",
			"id", id,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "bin placed",
			"id", id,
			"placement", p.String(),
		)
	}
}

// LogClear logs a clear operation.
func (l *Logger) LogClear(ctx context.Context, clusters int, clearResidual bool) {
	l.InfoContext(ctx, "index cleared",
		"clusters", clusters,
		"residual_cleared", clearResidual,
	)
}

// LogValidate logs the result of a consistency check.
func (l *Logger) LogValidate(ctx context.Context, err error) {
	if err != nil {
		l.ErrorContext(ctx, "index validation failed",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "index validation passed")
	}
}
