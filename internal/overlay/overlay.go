// Package overlay abstracts borderless, always-on-top surfaces drawn above
// every other window.
package overlay

import "errors"

// ErrNotAttached is returned when a handle no longer refers to a live surface,
// typically because the host destroyed it first.
var ErrNotAttached = errors.New("overlay: surface not attached")

// Handle identifies one attached surface. The zero Handle means "not shown".
type Handle uint32

// Flags describe how a surface behaves inside the window system.
type Flags uint

const (
	NotFocusable Flags = 1 << iota
	Translucent
	AlwaysOnTop
	FullScreen
	PassThroughOutside
	KeepOn
)

// Has reports whether all bits in other are set.
func (f Flags) Has(other Flags) bool {
	return f&other == other
}

// Geometry is a rectangle in the parent's coordinate space.
type Geometry struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Right returns the x coordinate just past the right edge.
func (g Geometry) Right() int {
	return g.X + g.Width
}

// EventKind classifies pointer input delivered to a surface.
type EventKind int

const (
	EventPress EventKind = iota
	EventMove
	EventRelease
	EventCancel
)

// String returns the string representation of the event kind
func (k EventKind) String() string {
	switch k {
	case EventPress:
		return "press"
	case EventMove:
		return "move"
	case EventRelease:
		return "release"
	case EventCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// Event is a pointer event. X/Y are relative to the surface, RootX/RootY to the screen.
type Event struct {
	Kind  EventKind
	X     float64
	Y     float64
	RootX float64
	RootY float64
}

// InputFunc receives pointer events for a surface on the event thread.
type InputFunc func(Event)

// Spec describes a surface to create.
type Spec struct {
	Name       string
	Geometry   Geometry
	Flags      Flags
	Background uint32
	Foreground uint32
	Label      string

	// Opacity is used with Translucent, in (0,1].
	Opacity float64

	// Parent makes this a child surface positioned relative to the parent.
	// Removing the parent removes its children.
	Parent Handle

	OnInput InputFunc
}

// Manager creates, moves and removes surfaces. A caller may only operate on
// handles it created.
type Manager interface {
	Create(spec Spec) (Handle, error)
	Move(h Handle, x, y int) error
	Remove(h Handle) error
	Attached(h Handle) bool
	Screen() Geometry
}
