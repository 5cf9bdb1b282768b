package common

import (
	"log/slog"
	"os"
)

// SetupLogger installs the process-wide slog default. Format "json" selects
// the JSON handler; anything else falls back to text. Output goes to stderr
// so report tables on stdout stay machine-readable.
func SetupLogger(level slog.Level, format string) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{Level: level}

	switch format {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}
