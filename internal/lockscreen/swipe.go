package lockscreen

import "github.com/1broseidon/floatlock/internal/overlay"

// UnlockThreshold is the horizontal pointer travel, in pixels, that unlocks.
// It is measured on the raw pointer delta, before clamping the indicator.
const UnlockThreshold = 500

// SwipeSession tracks one press on the indicator.
type SwipeSession struct {
	StartTouchX      float64
	IndicatorOriginX float64
	Dragging         bool
}

// StartSwipe begins a session at pointer x with the indicator at originX.
func StartSwipe(x, originX float64) *SwipeSession {
	return &SwipeSession{
		StartTouchX:      x,
		IndicatorOriginX: originX,
		Dragging:         true,
	}
}

// Move returns where the indicator should be drawn for pointer x and whether
// the swipe has passed UnlockThreshold. Once unlocked the session stops
// dragging and later calls return the origin with unlock unset.
func (s *SwipeSession) Move(x float64, track overlay.Geometry, indicatorWidth int) (float64, bool) {
	if !s.Dragging {
		return s.IndicatorOriginX, false
	}
	delta := x - s.StartTouchX
	newX := ClampIndicator(s.IndicatorOriginX+delta, track, indicatorWidth)
	if delta > UnlockThreshold {
		s.Dragging = false
		return newX, true
	}
	return newX, false
}

// End stops the session and returns the x the indicator snaps back to.
func (s *SwipeSession) End() float64 {
	s.Dragging = false
	return s.IndicatorOriginX
}

// ClampIndicator keeps the indicator's left edge within the track so its
// right edge never passes the track's right edge.
func ClampIndicator(newX float64, track overlay.Geometry, indicatorWidth int) float64 {
	lo := float64(track.X)
	hi := float64(track.Right() - indicatorWidth)
	if hi < lo {
		hi = lo
	}
	if newX < lo {
		return lo
	}
	if newX > hi {
		return hi
	}
	return newX
}
