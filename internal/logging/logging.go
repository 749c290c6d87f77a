// Package logging builds the leveled, component-scoped loggers used across
// the service.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// New returns a logger writing to w at the given level name
// (debug, info, warn, error). Unknown levels fall back to info.
func New(w io.Writer, level string) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.000",
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// Component scopes a logger to a named subsystem. A nil logger yields the
// package default.
func Component(logger *log.Logger, name string) *log.Logger {
	if logger == nil {
		logger = log.Default()
	}
	return logger.With("component", name)
}

// Slog adapts the logger for libraries that take a *slog.Logger.
func Slog(logger *log.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return slog.New(logger)
}
