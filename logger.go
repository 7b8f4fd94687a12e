package descgo

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with descgo-specific context.
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
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithKey adds a descriptor key field to the logger.
func (l *Logger) WithKey(key Key) *Logger {
	return &Logger{
		Logger: l.Logger.With("key", string(key)),
	}
}

// WithType adds a descriptor type label field to the logger.
func (l *Logger) WithType(typeLabel string) *Logger {
	return &Logger{
		Logger: l.Logger.With("type", typeLabel),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogAdd logs a descriptor insert operation.
func (l *Logger) LogAdd(ctx context.Context, count int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "add failed",
			"count", count,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "add completed",
			"count", count,
		)
	}
}

// LogRemove logs a descriptor removal operation.
func (l *Logger) LogRemove(ctx context.Context, count int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "remove failed",
			"count", count,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "remove completed",
			"count", count,
		)
	}
}

// LogBulkFetch logs a batched vector retrieval.
func (l *Logger) LogBulkFetch(ctx context.Context, requested, resolved int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "bulk vector fetch failed",
			"requested", requested,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "bulk vector fetch completed",
			"requested", requested,
			"resolved", resolved,
		)
	}
}

// LogCacheSync logs a write-through cache synchronization.
func (l *Logger) LogCacheSync(ctx context.Context, bytes int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "cache sync failed",
			"bytes", bytes,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "cache sync completed",
			"bytes", bytes,
		)
	}
}

// LogCacheLoad logs a table load from the cache store at construction.
func (l *Logger) LogCacheLoad(ctx context.Context, count int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "cache load failed",
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "cache load completed",
			"count", count,
		)
	}
}
