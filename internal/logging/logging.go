// Package logging builds the *slog.Logger used by the reactor CLI.
//
// Records are formatted by charmbracelet/log, which implements slog.Handler,
// so library packages keep depending on log/slog only.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
)

// Options configures New.
type Options struct {
	// Level is one of debug, info, warn, error (default: info).
	Level string

	// Format is text or json (default: text).
	Format string

	// Output receives the records (default: os.Stderr).
	Output io.Writer

	// Prefix is printed before every text record.
	Prefix string

	// Timestamp adds a time to every record.
	Timestamp bool
}

// New returns a logger for opts.
func New(opts Options) (*slog.Logger, error) {
	h, err := NewHandler(opts)
	if err != nil {
		return nil, err
	}
	return slog.New(h), nil
}

// NewHandler returns the charmbracelet logger behind New.
func NewHandler(opts Options) (*log.Logger, error) {
	if opts.Level == "" {
		opts.Level = "info"
	}
	level, err := log.ParseLevel(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	var formatter log.Formatter
	switch opts.Format {
	case "", "text":
		formatter = log.TextFormatter
	case "json":
		formatter = log.JSONFormatter
	default:
		return nil, fmt.Errorf("logging: unknown format %q", opts.Format)
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	return log.NewWithOptions(out, log.Options{
		Level:           level,
		Formatter:       formatter,
		Prefix:          opts.Prefix,
		ReportTimestamp: opts.Timestamp,
	}), nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
