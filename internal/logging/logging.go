// Package logging builds the diagnostic slog.Logger and carries it through
// context.Context. User-facing output goes through the output package; this
// logger is for debugging the runner itself and writes to stderr.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Default settings when neither flags nor environment choose otherwise.
const (
	DefaultLevel  = "warn"
	DefaultFormat = "text"
)

// key is an unexported type to prevent collisions with context keys from other packages.
type key struct{}

var loggerKey = key{}

// ParseLevel converts a level name into a slog.Level.
func ParseLevel(levelStr string) (slog.Level, error) {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelWarn, fmt.Errorf("invalid log level %q (valid: debug, info, warn, error)", levelStr)
}

// ValidateFormat checks a log format name.
func ValidateFormat(formatStr string) error {
	switch formatStr {
	case "", "text", "json":
		return nil
	}
	return fmt.Errorf("invalid log format %q (valid: text, json)", formatStr)
}

// New creates a logger writing to w. It does not set the global logger.
// Unknown level or format values fall back to the defaults.
func New(levelStr, formatStr string, w io.Writer) *slog.Logger {
	level, _ := ParseLevel(levelStr)
	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if formatStr == "json" {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	return slog.New(handler)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// WithLogger returns a new context with the provided logger embedded.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the logger from ctx, or a discarding logger if none
// was attached.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return Discard()
}
