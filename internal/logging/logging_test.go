package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "floatlock.log")

	logger, closer, err := New(Options{Level: "warn", File: path})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown", "handle", 7)
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered: %q", out)
	}
	if !strings.Contains(out, "msg=shown") || !strings.Contains(out, "handle=7") {
		t.Fatalf("missing warn line: %q", out)
	}
}

func TestRotatingFileRotates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "floatlock.log")
	r, err := OpenRotating(path, 1, 2)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()

	// Force rotation without writing a megabyte.
	r.maxBytes = 8
	for _, line := range []string{"first line\n", "second line\n", "third line\n"} {
		if _, err := r.Write([]byte(line)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	for _, p := range []string{path, path + ".1", path + ".2"} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("expected %s to exist: %v", p, err)
		}
	}
	data, _ := os.ReadFile(path)
	if string(data) != "third line\n" {
		t.Fatalf("unexpected current file %q", data)
	}
}

func TestWriteAfterClose(t *testing.T) {
	r, err := OpenRotating(filepath.Join(t.TempDir(), "x.log"), 0, 0)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	r.Close()
	if _, err := r.Write([]byte("x")); err == nil {
		t.Fatalf("expected error after close")
	}
}
