// Package overlaytest provides an in-memory overlay.Manager for tests.
package overlaytest

import (
	"fmt"
	"sync"

	"github.com/1broseidon/floatlock/internal/overlay"
)

// Surface is the recorded state of one fake surface.
type Surface struct {
	Handle overlay.Handle
	Spec   overlay.Spec
}

// Manager records every call and keeps surfaces in memory.
type Manager struct {
	mu       sync.Mutex
	next     overlay.Handle
	surfaces map[overlay.Handle]*Surface
	screen   overlay.Geometry

	Creates int
	Removes int
	Moves   int
}

var _ overlay.Manager = (*Manager)(nil)

// New returns a fake manager with a 1920x1080 screen.
func New() *Manager {
	return &Manager{
		surfaces: make(map[overlay.Handle]*Surface),
		screen:   overlay.Geometry{Width: 1920, Height: 1080},
	}
}

// SetScreen overrides the reported screen geometry.
func (m *Manager) SetScreen(g overlay.Geometry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.screen = g
}

// Screen implements overlay.Manager.
func (m *Manager) Screen() overlay.Geometry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.screen
}

// Create implements overlay.Manager.
func (m *Manager) Create(spec overlay.Spec) (overlay.Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if spec.Parent != 0 {
		if _, ok := m.surfaces[spec.Parent]; !ok {
			return 0, fmt.Errorf("parent %d: %w", spec.Parent, overlay.ErrNotAttached)
		}
	}
	if spec.Flags.Has(overlay.FullScreen) {
		spec.Geometry = overlay.Geometry{Width: m.screen.Width, Height: m.screen.Height}
	}

	m.next++
	h := m.next
	m.surfaces[h] = &Surface{Handle: h, Spec: spec}
	m.Creates++
	return h, nil
}

// Move implements overlay.Manager.
func (m *Manager) Move(h overlay.Handle, x, y int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.surfaces[h]
	if !ok {
		return fmt.Errorf("move %d: %w", h, overlay.ErrNotAttached)
	}
	s.Spec.Geometry.X = x
	s.Spec.Geometry.Y = y
	m.Moves++
	return nil
}

// Remove implements overlay.Manager.
func (m *Manager) Remove(h overlay.Handle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.surfaces[h]; !ok {
		return fmt.Errorf("remove %d: %w", h, overlay.ErrNotAttached)
	}
	m.removeLocked(h)
	m.Removes++
	return nil
}

// Attached implements overlay.Manager.
func (m *Manager) Attached(h overlay.Handle) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.surfaces[h]
	return ok
}

// Destroy simulates the host tearing a surface down behind its owner's back.
func (m *Manager) Destroy(h overlay.Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeLocked(h)
}

func (m *Manager) removeLocked(h overlay.Handle) {
	delete(m.surfaces, h)
	for child, s := range m.surfaces {
		if s.Spec.Parent == h {
			m.removeLocked(child)
		}
	}
}

// Get returns a copy of the surface recorded for h.
func (m *Manager) Get(h overlay.Handle) (Surface, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.surfaces[h]
	if !ok {
		return Surface{}, false
	}
	return *s, true
}

// Find returns the first live surface with the given name.
func (m *Manager) Find(name string) (Surface, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.surfaces {
		if s.Spec.Name == name {
			return *s, true
		}
	}
	return Surface{}, false
}

// TopLevel returns the number of live surfaces without a parent.
func (m *Manager) TopLevel() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.surfaces {
		if s.Spec.Parent == 0 {
			n++
		}
	}
	return n
}

// Send delivers ev to the surface's input handler, as the event thread would.
func (m *Manager) Send(h overlay.Handle, ev overlay.Event) {
	m.mu.Lock()
	s, ok := m.surfaces[h]
	var input overlay.InputFunc
	if ok {
		input = s.Spec.OnInput
	}
	m.mu.Unlock()

	if input != nil {
		input(ev)
	}
}
