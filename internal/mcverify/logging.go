// Package mcverify holds the logging and metrics plumbing for
// cmd/mcverify: the only place in this module with I/O, so it is also
// the only place that needs a logger or a metrics registry (spec.md §5,
// "the core is purely functional and stateless").
package mcverify

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger builds an slog.Logger the way the teacher's
// middleware.NewLogger does: JSON output for "json" format, text
// otherwise. Verify never logs raw CBOR bytes or record contents
// (spec.md §4.7's no-raw-bytes rule extends to the logs wrapping it).
func NewLogger(format, level string) *slog.Logger {
	return newLoggerWithWriter(format, level, os.Stdout)
}

func newLoggerWithWriter(format, level string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
