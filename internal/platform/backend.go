package platform

import "github.com/1broseidon/floatlock/internal/overlay"

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Geometry converts r to an overlay geometry.
func (r Rect) Geometry() overlay.Geometry {
	return overlay.Geometry{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// Contains reports whether (x, y) lies within r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Display describes a physical display.
type Display struct {
	ID     int
	Name   string
	Bounds Rect
}

// Backend abstracts the display queries the overlays need.
type Backend interface {
	Displays() ([]Display, error)
	ActiveDisplay() (Display, error)
}

// StaticBackend reports a fixed set of displays; the first one is active.
type StaticBackend struct {
	List []Display
}

var _ Backend = StaticBackend{}

// Displays implements Backend.
func (s StaticBackend) Displays() ([]Display, error) {
	return append([]Display(nil), s.List...), nil
}

// ActiveDisplay implements Backend.
func (s StaticBackend) ActiveDisplay() (Display, error) {
	if len(s.List) == 0 {
		return Display{}, ErrNoDisplays
	}
	return s.List[0], nil
}

// ActiveGeometry returns the active display's bounds, or fallback when the
// backend cannot answer.
func ActiveGeometry(b Backend, fallback overlay.Geometry) overlay.Geometry {
	if b == nil {
		return fallback
	}
	d, err := b.ActiveDisplay()
	if err != nil || d.Bounds.Width <= 0 || d.Bounds.Height <= 0 {
		return fallback
	}
	return d.Bounds.Geometry()
}
