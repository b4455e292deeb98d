// ABOUTME: Structured logging configuration using log/slog.
// ABOUTME: Init() configures the default logger; OpenFile() redirects it for the TUI.

package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// LogFileName is created under the config directory while the TUI runs
const LogFileName = "quizz.log"

// Init configures the default slog logger writing to w.
// level: debug, info, warn, error (default: info)
// format: text, json (default: text)
func Init(w io.Writer, level, format string) {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// OpenFile points the default logger at <configDir>/quizz.log so log lines
// never land on the alt-screen. The returned closer restores stderr logging.
// An empty configDir discards all output.
func OpenFile(configDir, level, format string) (func(), error) {
	if configDir == "" {
		Init(io.Discard, level, format)
		return func() {}, nil
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		Init(io.Discard, level, format)
		return func() {}, err
	}

	f, err := os.OpenFile(filepath.Join(configDir, LogFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		Init(io.Discard, level, format)
		return func() {}, err
	}

	Init(f, level, format)
	return func() {
		Init(os.Stderr, level, format)
		f.Close()
	}, nil
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
