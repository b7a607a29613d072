// Package logger holds the process wide slog logger. Commands install it
// once at startup; libraries fetch it on every use.
package logger

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	mu           sync.RWMutex
	globalLogger *slog.Logger
	debugEnabled bool
)

// New returns a text logger writing to w at info level, or debug level when
// debug is set.
func New(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// SetGlobal sets the global logger and debug state
func SetGlobal(logger *slog.Logger, debug bool) {
	mu.Lock()
	defer mu.Unlock()
	globalLogger = logger
	debugEnabled = debug
}

// Get returns the global logger, or a stderr logger when none is set.
func Get() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()

	if globalLogger != nil {
		return globalLogger
	}
	return New(os.Stderr, debugEnabled)
}

// IsDebug reports whether debug logging is on. Callers use it to skip
// building expensive log attributes.
func IsDebug() bool {
	mu.RLock()
	defer mu.RUnlock()
	return debugEnabled
}
