package lockscreen

import "github.com/1broseidon/floatlock/internal/overlay"

const closeMargin = 16

// Style controls the lock screen's look and track geometry.
type Style struct {
	Background     uint32
	TrackWidth     int
	TrackHeight    int
	TrackColor     uint32
	IndicatorWidth int
	IndicatorColor uint32
	CloseSize      int
	CloseColor     uint32
}

// DefaultStyle returns the built-in look.
func DefaultStyle() Style {
	return Style{
		Background:     0x1f2933,
		TrackWidth:     700,
		TrackHeight:    80,
		TrackColor:     0x7f8c8d,
		IndicatorWidth: 80,
		IndicatorColor: 0x27ae60,
		CloseSize:      48,
		CloseColor:     0xc0392b,
	}
}

// Layout places the lock screen's controls, in full-screen surface coordinates.
type Layout struct {
	Track          overlay.Geometry
	Indicator      overlay.Geometry
	Close          overlay.Geometry
	IndicatorWidth int
}

// ComputeLayout centers the track horizontally on display, three quarters of
// the way down, and puts the close control in display's top-right corner.
// Sizes larger than the display are shrunk to fit.
func ComputeLayout(display overlay.Geometry, style Style) Layout {
	trackW := min(style.TrackWidth, display.Width)
	trackH := min(style.TrackHeight, display.Height)
	indicatorW := min(style.IndicatorWidth, trackW)
	closeSize := min(style.CloseSize, display.Width, display.Height)

	track := overlay.Geometry{
		X:      display.X + (display.Width-trackW)/2,
		Y:      display.Y + display.Height*3/4 - trackH/2,
		Width:  trackW,
		Height: trackH,
	}
	return Layout{
		Track: track,
		Indicator: overlay.Geometry{
			X:      track.X,
			Y:      track.Y,
			Width:  indicatorW,
			Height: trackH,
		},
		Close: overlay.Geometry{
			X:      max(display.X, display.Right()-closeSize-closeMargin),
			Y:      display.Y + closeMargin,
			Width:  closeSize,
			Height: closeSize,
		},
		IndicatorWidth: indicatorW,
	}
}
