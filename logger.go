package kdtree

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with kdtree-specific helpers so that every
// message uses consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses a text handler to stderr at info level.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all output.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler)}
}

// LogBuild logs the outcome of a tree construction or restore.
func (l *Logger) LogBuild(count, dims, slots int, err error) {
	if err != nil {
		l.Error("kd-tree build failed",
			"count", count,
			"dimensions", dims,
			"error", err,
		)
		return
	}
	l.Debug("kd-tree built",
		"count", count,
		"dimensions", dims,
		"slots", slots,
	)
}

// LogSearch logs the outcome of a query. kind is "knn" or "radial".
func (l *Logger) LogSearch(kind string, limit, found int, err error) {
	if err != nil {
		l.Warn("kd-tree query rejected",
			"kind", kind,
			"limit", limit,
			"error", err,
		)
		return
	}
	// Queries are the hot path; skip argument boxing when debug is off.
	if !l.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	l.Debug("kd-tree query completed",
		"kind", kind,
		"limit", limit,
		"results", found,
	)
}
