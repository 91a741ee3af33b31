package canon

import (
	"io"
	"log/slog"
)

// Config carries runtime options shared across services. The zero value is
// the conservative default: errors only, human-readable output, no
// destructive recovery.
type Config struct {
	// Warnings surfaces per-file scan and cache diagnostics.
	Warnings bool

	// Structured switches diagnostics to JSON lines.
	Structured bool

	// Debug enables verbose internal logging. Implies Warnings.
	Debug bool

	// AutoRecover lets the content store delete corrupted entries when
	// it detects them.
	AutoRecover bool
}

// DefaultConfig returns the standard runtime configuration.
func DefaultConfig() Config {
	return Config{}
}

// NewLogger builds the process logger for cfg, writing to w.
func NewLogger(cfg Config, w io.Writer) *slog.Logger {
	level := slog.LevelError
	if cfg.Warnings {
		level = slog.LevelWarn
	}
	if cfg.Debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Structured {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}
