package position

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "position.json")
	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	if err := s.Save(Position{X: 42, Y: 17}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != (Position{X: 42, Y: 17}) {
		t.Fatalf("Load() = %v, want (42,17)", got)
	}
}

func TestFileStore_EmptyReturnsDefault(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "position.json"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != (Position{X: 0, Y: 100}) {
		t.Fatalf("Load() on empty store = %v, want (0,100)", got)
	}
}

func TestFileStore_CorruptFileReturnsDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "position.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	s, _ := NewFileStore(path)
	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != Default() {
		t.Fatalf("Load() = %v, want default", got)
	}
}

func TestFileStore_PartialFileKeepsDefaultForMissingKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "position.json")
	if err := os.WriteFile(path, []byte(`{"button_x": 12}`), 0o600); err != nil {
		t.Fatal(err)
	}
	s, _ := NewFileStore(path)
	got, _ := s.Load()
	if got != (Position{X: 12, Y: 100}) {
		t.Fatalf("Load() = %v, want (12,100)", got)
	}
}

func TestFileStore_Reset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "position.json")
	s, _ := NewFileStore(path)
	if err := s.Save(Position{X: 1, Y: 2}); err != nil {
		t.Fatal(err)
	}
	if err := s.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if err := s.Reset(); err != nil {
		t.Fatalf("second Reset: %v", err)
	}
	got, _ := s.Load()
	if got != Default() {
		t.Fatalf("Load() after Reset = %v, want default", got)
	}
}

func TestFileStore_DefaultPathUsesStateHome(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_STATE_HOME", td)

	s, err := NewFileStore("")
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	want := filepath.Join(td, "floatlock", "position.json")
	if s.Path() != want {
		t.Fatalf("Path() = %q, want %q", s.Path(), want)
	}
}

func TestMemoryStore(t *testing.T) {
	var m MemoryStore
	if got, _ := m.Load(); got != Default() {
		t.Fatalf("empty Load() = %v, want default", got)
	}
	_ = m.Save(Position{X: 30, Y: 90})
	if got, _ := m.Load(); got != (Position{X: 30, Y: 90}) {
		t.Fatalf("Load() = %v, want (30,90)", got)
	}
	if m.Saves() != 1 {
		t.Fatalf("Saves() = %d, want 1", m.Saves())
	}
}
