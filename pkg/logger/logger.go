package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/frahmantamala/expense-tracker/internal"
)

var defaultLogger *slog.Logger

// Init installs the process logger. Output goes to stderr; stdout belongs to
// command output.
func Init(cfg internal.LoggingConfig) {
	defaultLogger = New(os.Stderr, cfg)
	slog.SetDefault(defaultLogger)
}

func New(w io.Writer, cfg internal.LoggingConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Discard returns a logger that drops everything; handy in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func L() *slog.Logger {
	if defaultLogger == nil {
		// lazy initialize a development logger to avoid nil pointer panics
		Init(internal.LoggingConfig{Level: "debug", Format: "text"})
	}
	return defaultLogger
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
