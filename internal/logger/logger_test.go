// ABOUTME: Tests for logger level parsing and file redirection
// ABOUTME: Verifies the TUI log file receives records

package logger

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestOpenFile_WritesToConfigDir(t *testing.T) {
	dir := t.TempDir()

	closeLog, err := OpenFile(dir, "info", "text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	slog.Info("Hello from test", "key", "value")
	closeLog()

	data, err := os.ReadFile(filepath.Join(dir, LogFileName))
	if err != nil {
		t.Fatalf("expected log file: %v", err)
	}
	if !strings.Contains(string(data), "Hello from test") {
		t.Errorf("expected log line in file, got %q", string(data))
	}
}

func TestOpenFile_EmptyDirDiscards(t *testing.T) {
	closeLog, err := OpenFile("", "info", "text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer closeLog()
	slog.Info("dropped")
}
