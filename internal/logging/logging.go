// Package logging provides a shared, structured logger for the cli-files application.
//
// It wraps the standard library's [log/slog] package and provides a single
// initialization point so all components share the same output handler and
// log level. The log level can be controlled at startup via the
// CLI_FILES_LOG_LEVEL environment variable (debug, info, warn, error).
// If unset, the default level is INFO.
//
// Usage:
//
//	log := logging.New("filetree")     // creates a logger tagged with component="filetree"
//	log.Info("loaded tree", "root", p)
//	log.Error("failed to delete", "error", err)
//
// Output goes to stderr unless redirected with SetOutput. Because the terminal
// UI owns the screen while it runs, the CLI redirects output to a file when
// --log-file is given. Loggers created before the redirect follow it, since
// every component logger shares the same handler.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	// initLogger ensures the base logger is created exactly once across all
	// goroutines, even if multiple components call New concurrently.
	initLogger sync.Once

	// baseLogger is the singleton logger instance shared by all components.
	// Component-specific loggers are derived from this via With().
	baseLogger *slog.Logger

	level  = new(slog.LevelVar)
	output = &switchWriter{w: os.Stderr}
)

// switchWriter lets the destination change after loggers have been derived.
type switchWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *switchWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (s *switchWriter) set(w io.Writer) {
	s.mu.Lock()
	s.w = w
	s.mu.Unlock()
}

// New returns a structured logger scoped to the given component name.
//
// The component name is added as a "component" attribute to every log entry
// produced by the returned logger, making it easy to filter logs by subsystem
// (e.g. "app", "filetree", "vcs").
//
// If component is empty, the base logger is returned without any additional
// attributes.
func New(component string) *slog.Logger {
	initLogger.Do(func() {
		level.Set(parseLevel(os.Getenv("CLI_FILES_LOG_LEVEL")))
		baseLogger = slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{
			Level: level,
		}))
	})
	if component == "" {
		return baseLogger
	}
	return baseLogger.With("component", component)
}

// SetOutput redirects every logger to w. A nil writer discards output.
func SetOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	output.set(w)
}

// SetLevel changes the level of every logger. Unknown values map to INFO.
func SetLevel(value string) {
	New("")
	level.Set(parseLevel(value))
}

// parseLevel converts a human-readable log level string to a [slog.Level].
//
// Recognized values (case-insensitive, whitespace-trimmed):
//   - "debug"           → slog.LevelDebug
//   - "warn", "warning" → slog.LevelWarn
//   - "error"           → slog.LevelError
//   - anything else     → slog.LevelInfo (the default)
func parseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
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
