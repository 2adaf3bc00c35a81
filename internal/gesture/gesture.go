// Package gesture tells a tap from a drag for one press-to-release cycle.
package gesture

import (
	"math"

	"github.com/1broseidon/floatlock/internal/position"
)

// DragThreshold is the per-axis movement, in pixels, past which a press is a drag.
const DragThreshold = 5

// Outcome is the result of a finished gesture session.
type Outcome int

const (
	// Abort means the session was cancelled; the caller must not act.
	Abort Outcome = iota
	// Tap means the pointer never moved past DragThreshold.
	Tap
	// Drag means the pointer moved past DragThreshold at least once.
	Drag
)

// String returns the string representation of the outcome
func (o Outcome) String() string {
	switch o {
	case Abort:
		return "abort"
	case Tap:
		return "tap"
	case Drag:
		return "drag"
	default:
		return "unknown"
	}
}

// Point is a pointer location in screen coordinates.
type Point struct {
	X float64
	Y float64
}

// Session tracks one press-to-release cycle.
type Session struct {
	Origin      position.Position
	OriginTouch Point
	Moved       bool

	last  position.Position
	ended bool
}

// Press starts a session for a surface anchored at origin.
func Press(origin position.Position, touch Point) *Session {
	return &Session{
		Origin:      origin,
		OriginTouch: touch,
		last:        origin,
	}
}

// Move records a pointer move and returns the surface position the caller
// should show right now. Once Moved latches it stays set until the session ends.
func (s *Session) Move(touch Point) position.Position {
	if s.ended {
		return s.last
	}

	rawX := touch.X - s.OriginTouch.X
	rawY := touch.Y - s.OriginTouch.Y
	if math.Abs(rawX) > DragThreshold || math.Abs(rawY) > DragThreshold {
		s.Moved = true
	}

	// Only the position is truncated; the latch sees the raw delta.
	s.last = s.Origin.Add(int(math.Trunc(rawX)), int(math.Trunc(rawY)))
	return s.last
}

// Current returns the most recent intermediate position.
func (s *Session) Current() position.Position {
	return s.last
}

// Release ends the session and classifies it.
func (s *Session) Release() Outcome {
	if s.ended {
		return Abort
	}
	s.ended = true
	if s.Moved {
		return Drag
	}
	return Tap
}

// Cancel ends the session without an actionable outcome.
func (s *Session) Cancel() Outcome {
	s.ended = true
	return Abort
}

// Ended reports whether Release or Cancel has been called.
func (s *Session) Ended() bool {
	return s.ended
}
