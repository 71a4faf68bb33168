// Package logging builds the slog logger shared by the CLI and the HTTP
// service.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options mirrors the log section of the configuration file.
type Options struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// New constructs a logger writing to the configured output. Unknown levels
// fall back to info and unknown formats to text.
func New(opts Options) *slog.Logger {
	return NewWithWriter(opts, parseOutput(opts.Output))
}

// NewWithWriter is New with an explicit destination, used by tests and by
// callers that already own a writer.
func NewWithWriter(opts Options, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	handlerOpts := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}

	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "json":
		handler = slog.NewJSONHandler(w, handlerOpts)
	default:
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	return slog.New(handler)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// ParseLevel maps debug, info, warn/warning and error onto slog levels.
func ParseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseOutput(raw string) io.Writer {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "stdout":
		return os.Stdout
	default:
		return os.Stderr
	}
}
