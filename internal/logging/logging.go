// Package logging builds the structured slog logger shared by kala commands.
//
// Diagnostics go to stderr so that dasha reports written to stdout stay
// machine-readable. Text output is the default; JSON is available for
// pipelines that collect logs.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config controls logger construction. The zero value yields a text logger
// at warn level writing to stderr.
type Config struct {
	Level  string    // debug, info, warn, or error; empty means warn
	JSON   bool      // emit JSON records instead of key=value text
	Writer io.Writer // destination; nil means os.Stderr
}

// ParseLevel converts a level name to a slog.Level. Matching is case-insensitive.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("unknown log level %q", name)
	}
}

// New returns a logger for cfg. An unknown level is reported as an error
// alongside a usable warn-level logger.
func New(cfg Config) (*slog.Logger, error) {
	level, err := ParseLevel(cfg.Level)

	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if cfg.JSON {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h).With("app", "kala"), err
}

// Discard returns a logger that drops every record. Useful as a default for
// components constructed without a logger.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
