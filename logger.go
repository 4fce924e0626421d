package kmeansviz

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/kmeansviz/kmeans"
)

// Logger wraps slog.Logger with kmeansviz-specific context.
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
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithRunID adds a run_id field to the logger.
func (l *Logger) WithRunID(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("run_id", id),
	}
}

// WithK adds a k (cluster count) field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("k", k),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogSynthesize logs data synthesis.
func (l *Logger) LogSynthesize(ctx context.Context, clusters, points int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "synthesize failed",
			"clusters", clusters,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "synthesized points",
			"clusters", clusters,
			"points", points,
		)
	}
}

// LogIteration logs one k-means iteration.
func (l *Logger) LogIteration(ctx context.Context, it kmeans.Iteration) {
	l.DebugContext(ctx, "iteration completed",
		"iteration", it.Index,
		"changed", it.Changed,
		"inertia", it.Inertia,
		"duration", it.Duration,
	)
}

// LogEmptyCluster logs a cluster that had no points at update time.
func (l *Logger) LogEmptyCluster(ctx context.Context, iteration, cluster int, policy kmeans.EmptyPolicy) {
	l.WarnContext(ctx, "empty cluster",
		"iteration", iteration,
		"cluster", cluster,
		"policy", policy.String(),
	)
}

// LogRun logs the outcome of a pipeline run.
func (l *Logger) LogRun(ctx context.Context, points, iterations int, inertia float64, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "run failed",
			"points", points,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "run completed",
			"points", points,
			"iterations", iterations,
			"inertia", inertia,
			"duration", duration,
		)
	}
}

// LogExport logs an artifact write.
func (l *Logger) LogExport(ctx context.Context, name string, size int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "export failed",
			"artifact", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "artifact written",
			"artifact", name,
			"bytes", size,
		)
	}
}
