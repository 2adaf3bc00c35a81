package position

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/1broseidon/floatlock/internal/runtimepath"
)

// FileStore keeps the position in a small JSON file.
type FileStore struct {
	mu   sync.Mutex
	path string
}

var _ Store = (*FileStore)(nil)

// NewFileStore returns a store backed by path. An empty path resolves to the
// default state file location.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		p, err := runtimepath.PositionFilePath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return &FileStore{path: path}, nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the persisted position. A missing or unreadable file yields the
// default position; only I/O errors other than "not exist" are reported.
func (s *FileStore) Load() (Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("failed to read position file: %w", err)
	}

	var raw struct {
		X *int `json:"button_x"`
		Y *int `json:"button_y"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		// Corrupt state is treated like an empty store.
		return Default(), nil
	}

	p := Default()
	if raw.X != nil {
		p.X = *raw.X
	}
	if raw.Y != nil {
		p.Y = *raw.Y
	}
	return p, nil
}

// Save writes the position, creating parent directories as needed.
func (s *FileStore) Save(p Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode position: %w", err)
	}

	// Write-then-rename so a crash mid-write never leaves a truncated file.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("failed to write position file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace position file: %w", err)
	}
	return nil
}

// Reset removes the persisted position so the next Load returns the default.
func (s *FileStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove position file: %w", err)
	}
	return nil
}

// MemoryStore is an in-process Store. The zero value is empty.
type MemoryStore struct {
	mu    sync.Mutex
	pos   Position
	set   bool
	saves int
}

var _ Store = (*MemoryStore)(nil)

// Load returns the saved position or the default.
func (m *MemoryStore) Load() (Position, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set {
		return Default(), nil
	}
	return m.pos, nil
}

// Save records p.
func (m *MemoryStore) Save(p Position) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pos = p
	m.set = true
	m.saves++
	return nil
}

// Saves reports how many times Save was called.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Reset clears the stored position.
func (m *MemoryStore) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pos = Position{}
	m.set = false
	return nil
}
