package config

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger from GO_ENV and LOG_LEVEL.
// Production emits JSON, everything else a text handler; every record
// carries a service attribute so mixed log streams stay attributable.
func NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(os.Getenv("LOG_LEVEL"))}
	var handler slog.Handler
	if os.Getenv("GO_ENV") == "production" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler).With(slog.String("service", "cercle-partages"))
}

// parseLogLevel maps debug/info/warn/error to slog levels, defaulting
// to info for anything unrecognized.
func parseLogLevel(s string) slog.Level {
	switch s {
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
