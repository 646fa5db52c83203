package annidx

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with domain-specific helpers, so every log line
// carrying an operation's outcome uses consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler. A nil handler falls
// back to a text handler writing to stderr at info level.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that writes JSON-formatted logs to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))}
}

// NewTextLogger creates a Logger that writes human-readable logs to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))}
}

// NoopLogger discards all log output.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.Level(1000)})
	return &Logger{Logger: slog.New(handler)}
}

// LogAdd logs a single-vector insertion.
func (l *Logger) LogAdd(ctx context.Context, label uint64, ok bool) {
	if !ok {
		l.WarnContext(ctx, "add rejected", "label", label)
		return
	}
	l.DebugContext(ctx, "add completed", "label", label)
}

// LogAddBatch logs a batch insertion.
func (l *Logger) LogAddBatch(ctx context.Context, count, failed int) {
	if failed > 0 {
		l.WarnContext(ctx, "batch add completed with rejections",
			"total", count,
			"failed", failed,
		)
		return
	}
	l.InfoContext(ctx, "batch add completed", "count", count)
}

// LogSearch logs a query.
func (l *Logger) LogSearch(ctx context.Context, k, resultsFound int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "search failed", "k", k, "error", err)
		return
	}
	l.DebugContext(ctx, "search completed", "k", k, "results", resultsFound)
}

// LogReorder logs a Gorder or RCM relabel pass.
func (l *Logger) LogReorder(ctx context.Context, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "reorder failed", "reorder", name, "error", err)
		return
	}
	l.InfoContext(ctx, "reorder completed", "reorder", name)
}

// LogSave logs a persistence write.
func (l *Logger) LogSave(ctx context.Context, path string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "save failed", "path", path, "error", err)
		return
	}
	l.InfoContext(ctx, "save completed", "path", path)
}

// LogLoad logs a persistence read.
func (l *Logger) LogLoad(ctx context.Context, path string, nodeCount uint32, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed", "path", path, "error", err)
		return
	}
	l.InfoContext(ctx, "load completed", "path", path, "node_count", nodeCount)
}
