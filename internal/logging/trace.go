package logging

import (
	"context"
	"log/slog"
	"sort"

	"github.com/jackc/pgx/v5/tracelog"
)

// TraceLogger forwards pgx trace output to a Logger.
type TraceLogger struct {
	log Logger
}

var _ tracelog.Logger = (*TraceLogger)(nil)

func NewTraceLogger(l Logger) *TraceLogger {
	return &TraceLogger{log: l}
}

// Log implements tracelog.Logger. Trace and debug output both go to Debug;
// records the logger would drop are not flattened at all.
func (t *TraceLogger) Log(ctx context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
	lvl, ok := slogLevel(level)
	if !ok || !t.log.Enabled(ctx, lvl) {
		return
	}
	t.log.Log(ctx, lvl, msg, flatten(data)...)
}

func slogLevel(level tracelog.LogLevel) (slog.Level, bool) {
	switch level {
	case tracelog.LogLevelNone:
		return 0, false
	case tracelog.LogLevelError:
		return slog.LevelError, true
	case tracelog.LogLevelWarn:
		return slog.LevelWarn, true
	case tracelog.LogLevelInfo:
		return slog.LevelInfo, true
	default:
		return slog.LevelDebug, true
	}
}

// flatten turns the pgx data map into key-value args with a stable key order.
func flatten(data map[string]any) []any {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]any, 0, len(data)*2)
	for _, k := range keys {
		args = append(args, k, data[k])
	}
	return args
}
