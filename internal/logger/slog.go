package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"disorder.dev/shandler"
)

// DefaultLogger is the default logger for the interview server. It wraps
// slog with a JSON handler under the hood.
var DefaultLogger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

// DiscardLogger drops everything; used by tests
var DiscardLogger = slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

// New creates a text logger at the given minimum level
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Trace logs below debug level, for request-path noise that is only wanted
// when chasing a specific problem
func Trace(ctx context.Context, logger *slog.Logger, msg string, args ...any) {
	logger.Log(ctx, shandler.LevelTrace, msg, args...)
}

// Fatal logs at fatal level and terminates the process
func Fatal(ctx context.Context, logger *slog.Logger, msg string, args ...any) {
	logger.Log(ctx, shandler.LevelFatal, msg, args...)
	os.Exit(1)
}
