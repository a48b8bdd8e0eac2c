// Package logging is the structured logger used by the store and tools.
// Levels are slog levels; SlogLogger is the only implementation and
// TraceLogger feeds pgx query traces into it.
package logging

import (
	"context"
	"log/slog"
)

// Logger logs key-value pairs against a context:
//
//	log.Info(ctx, "persons deleted", "count", n)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// Log writes at an arbitrary level, for adapters that map foreign levels.
	Log(ctx context.Context, level slog.Level, msg string, args ...any)

	// Enabled reports whether a record at level would be written. Callers
	// use it to skip building expensive output such as SQL traces.
	Enabled(ctx context.Context, level slog.Level) bool

	// With returns a child logger that adds args to every record.
	With(args ...any) Logger
}
