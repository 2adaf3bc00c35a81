package main

import (
	"bytes"
	"testing"

	"github.com/1broseidon/floatlock/internal/config"
	"github.com/1broseidon/floatlock/internal/ipc"
	"github.com/1broseidon/floatlock/internal/position"
)

func TestStylesFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Button.Width = 48
	cfg.Button.Color = 0x112233
	cfg.LockScreen.TrackWidth = 500
	cfg.LockScreen.CloseColor = 0xff0000

	b := buttonStyle(cfg)
	if b.Width != 48 || b.Color != 0x112233 {
		t.Fatalf("button style = %+v", b)
	}
	if b.Label != cfg.Button.Label || b.Opacity != cfg.Button.Opacity {
		t.Fatalf("button style lost label/opacity: %+v", b)
	}
	if b.LabelColor == 0 {
		t.Fatalf("button style should keep the default label color")
	}

	l := lockStyle(cfg)
	if l.TrackWidth != 500 || l.CloseColor != 0xff0000 {
		t.Fatalf("lock style = %+v", l)
	}
	if l.IndicatorWidth != cfg.LockScreen.IndicatorWidth {
		t.Fatalf("indicator width = %d, want %d", l.IndicatorWidth, cfg.LockScreen.IndicatorWidth)
	}
}

func TestOpenStore(t *testing.T) {
	cfg := config.DefaultConfig()

	store, err := openStore(cfg, true)
	if err != nil {
		t.Fatalf("openStore(ephemeral): %v", err)
	}
	if _, ok := store.(*position.MemoryStore); !ok {
		t.Fatalf("ephemeral store = %T, want *position.MemoryStore", store)
	}

	cfg.PositionFile = t.TempDir() + "/pos.json"
	store, err = openStore(cfg, false)
	if err != nil {
		t.Fatalf("openStore: %v", err)
	}
	fs, ok := store.(*position.FileStore)
	if !ok {
		t.Fatalf("store = %T, want *position.FileStore", store)
	}
	if fs.Path() != cfg.PositionFile {
		t.Fatalf("path = %q, want %q", fs.Path(), cfg.PositionFile)
	}
}

func TestFormatSource(t *testing.T) {
	tests := []struct {
		src  config.Source
		want string
	}{
		{config.Source{Kind: config.SourceDefault}, "default"},
		{config.Source{Kind: config.SourceDefault, Name: "builtin"}, "default:builtin"},
		{config.Source{Kind: config.SourceFile}, "file"},
		{config.Source{Kind: config.SourceFile, File: "/c.yaml"}, "file:/c.yaml"},
		{config.Source{Kind: config.SourceFile, File: "/c.yaml", Line: 3, Column: 5}, "file:/c.yaml:3:5"},
	}
	for _, tt := range tests {
		if got := formatSource(tt.src); got != tt.want {
			t.Errorf("formatSource(%+v) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestPrintStatus(t *testing.T) {
	var buf bytes.Buffer
	printStatus(&buf, &ipc.StatusData{DaemonRunning: true, LockActive: true, ButtonX: 30, ButtonY: 90})

	out := buf.String()
	for _, want := range []string{"daemon_running: true", "lock_active:    true", "button:         (30,90)"} {
		if !bytes.Contains([]byte(out), []byte(want)) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
