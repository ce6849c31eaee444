package observability

import (
	"io"
	"log/slog"
	"os"

	"github.com/majindogo/farm-data-etl/internal/config"
)

// NewLogger builds the process logger for the configured verbosity and
// format. Level NONE discards all output; it must never change data
// outcomes, only diagnostics.
func NewLogger(level config.LogLevel, format string) *slog.Logger {
	if level == config.LevelNone {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if level == config.LevelDebug {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
