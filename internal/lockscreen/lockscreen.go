// Package lockscreen owns the full-screen overlay dismissed by swiping its
// indicator along a track.
package lockscreen

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/1broseidon/floatlock/internal/coord"
	"github.com/1broseidon/floatlock/internal/overlay"
)

// Surface names, as seen by the window system.
const (
	SurfaceName   = "floatlock-lock"
	TrackName     = "floatlock-track"
	IndicatorName = "floatlock-indicator"
	CloseName     = "floatlock-close"
)

// ErrNotActive is returned by Unlock when no lock screen is shown.
var ErrNotActive = errors.New("lock screen not active")

// Launcher restores the button after unlock and stops the session on close.
type Launcher interface {
	StartButton()
	Terminate()
}

// Options wires a Controller to its collaborators.
type Options struct {
	Overlays  overlay.Manager
	Publisher coord.Publisher
	Launcher  Launcher
	Logger    *slog.Logger
	Style     Style

	// Display returns the area the controls are centered on. Defaults to
	// the overlay manager's screen.
	Display func() overlay.Geometry
}

// Controller shows at most one lock screen.
type Controller struct {
	mu        sync.Mutex
	overlays  overlay.Manager
	publisher coord.Publisher
	launcher  Launcher
	logger    *slog.Logger
	style     Style
	display   func() overlay.Geometry

	handle     overlay.Handle
	indicator  overlay.Handle
	layout     Layout
	indicatorX float64
	swipe      *SwipeSession
}

// New creates an inactive controller.
func New(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	style := opts.Style
	if style.TrackWidth <= 0 || style.IndicatorWidth <= 0 {
		style = DefaultStyle()
	}
	display := opts.Display
	if display == nil {
		display = opts.Overlays.Screen
	}
	return &Controller{
		overlays:  opts.Overlays,
		publisher: opts.Publisher,
		launcher:  opts.Launcher,
		logger:    logger,
		style:     style,
		display:   display,
	}
}

// SetStyle replaces the style used by the next Activate.
func (c *Controller) SetStyle(style Style) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.style = style
}

// Active reports whether the lock screen is shown.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handle != 0
}

// IndicatorX returns the indicator's current left edge.
func (c *Controller) IndicatorX() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.indicatorX
}

// Layout returns the geometry of the current (or last) lock screen.
func (c *Controller) Layout() Layout {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.layout
}

// Activate shows the lock screen and asks the button to hide. A lock screen
// that is already shown is torn down first without signalling.
func (c *Controller) Activate() error {
	c.mu.Lock()
	if c.handle != 0 {
		c.teardownLocked()
	}

	layout := ComputeLayout(c.display(), c.style)
	if err := c.createLocked(layout); err != nil {
		c.mu.Unlock()
		return err
	}
	c.mu.Unlock()

	c.logger.Info("lockscreen: shown", "track_x", layout.Track.X, "track_width", layout.Track.Width)
	c.publish(coord.HideButton)
	return nil
}

func (c *Controller) createLocked(layout Layout) error {
	root, err := c.overlays.Create(overlay.Spec{
		Name:       SurfaceName,
		Flags:      overlay.FullScreen | overlay.NotFocusable | overlay.PassThroughOutside | overlay.KeepOn | overlay.AlwaysOnTop,
		Background: c.style.Background,
	})
	if err != nil {
		return fmt.Errorf("failed to create lock screen surface: %w", err)
	}

	children := []overlay.Spec{
		{Name: TrackName, Geometry: layout.Track, Background: c.style.TrackColor, Parent: root, OnInput: c.handleSwipe},
		{Name: IndicatorName, Geometry: layout.Indicator, Background: c.style.IndicatorColor, Parent: root, OnInput: c.handleSwipe},
		{Name: CloseName, Geometry: layout.Close, Background: c.style.CloseColor, Foreground: 0xffffff, Label: "X", Parent: root, OnInput: c.handleClose},
	}
	var indicator overlay.Handle
	for _, spec := range children {
		h, err := c.overlays.Create(spec)
		if err != nil {
			if rmErr := c.overlays.Remove(root); rmErr != nil {
				c.logSurfaceError("remove", rmErr)
			}
			return fmt.Errorf("failed to create %s: %w", spec.Name, err)
		}
		if spec.Name == IndicatorName {
			indicator = h
		}
	}

	c.handle = root
	c.indicator = indicator
	c.layout = layout
	c.indicatorX = float64(layout.Indicator.X)
	c.swipe = nil
	return nil
}

// Deactivate removes the lock screen if shown and always emits ShowButton.
func (c *Controller) Deactivate() {
	c.mu.Lock()
	if c.handle != 0 {
		c.teardownLocked()
		c.logger.Info("lockscreen: hidden")
	}
	c.mu.Unlock()

	c.publish(coord.ShowButton)
}

// Unlock dismisses the lock screen and restores the button, as a completed
// swipe does.
func (c *Controller) Unlock() error {
	if !c.Active() {
		return ErrNotActive
	}
	c.unlock()
	return nil
}

func (c *Controller) unlock() {
	c.logger.Info("lockscreen: unlocked")
	c.Deactivate()
	if c.launcher != nil {
		c.launcher.StartButton()
	}
}

// Close is the explicit dismiss control: it removes the lock screen, emits
// ShowButton and stops the whole session.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.handle != 0 {
		c.teardownLocked()
	}
	c.mu.Unlock()

	c.logger.Info("lockscreen: closed, terminating session")
	c.publish(coord.ShowButton)
	if c.launcher != nil {
		c.launcher.Terminate()
	}
}

// Shutdown removes the lock screen without signalling anyone.
func (c *Controller) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle != 0 {
		c.teardownLocked()
	}
}

// Attached reports whether the held surface still exists in the window system.
func (c *Controller) Attached() bool {
	c.mu.Lock()
	h := c.handle
	c.mu.Unlock()
	return h != 0 && c.overlays.Attached(h)
}

// Forget drops a handle the host already destroyed without removing it.
func (c *Controller) Forget() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle == 0 {
		return
	}
	c.logger.Debug("lockscreen: forgetting detached surface", "handle", c.handle)
	c.handle = 0
	c.indicator = 0
	c.swipe = nil
}

func (c *Controller) teardownLocked() {
	h := c.handle
	c.handle = 0
	c.indicator = 0
	c.swipe = nil
	if err := c.overlays.Remove(h); err != nil {
		c.logSurfaceError("remove", err)
	}
}

func (c *Controller) handleSwipe(ev overlay.Event) {
	c.mu.Lock()
	if c.handle == 0 {
		c.mu.Unlock()
		return
	}

	switch ev.Kind {
	case overlay.EventPress:
		c.swipe = StartSwipe(ev.RootX, c.indicatorX)

	case overlay.EventMove:
		if c.swipe == nil || !c.swipe.Dragging {
			break
		}
		newX, unlocked := c.swipe.Move(ev.RootX, c.layout.Track, c.layout.IndicatorWidth)
		if unlocked {
			c.swipe = nil
			c.mu.Unlock()
			c.unlock()
			return
		}
		c.moveIndicatorLocked(newX)

	case overlay.EventRelease, overlay.EventCancel:
		if c.swipe == nil {
			break
		}
		origin := c.swipe.End()
		c.swipe = nil
		c.moveIndicatorLocked(origin)
	}
	c.mu.Unlock()
}

func (c *Controller) moveIndicatorLocked(x float64) {
	c.indicatorX = x
	if err := c.overlays.Move(c.indicator, int(x), c.layout.Indicator.Y); err != nil {
		c.logSurfaceError("move", err)
	}
}

// handleClose acts on a release that is still over the control. The pointer
// grab delivers releases that happen elsewhere too.
func (c *Controller) handleClose(ev overlay.Event) {
	if ev.Kind != overlay.EventRelease {
		return
	}
	c.mu.Lock()
	active := c.handle != 0
	size := c.layout.Close
	c.mu.Unlock()
	if !active {
		return
	}
	if ev.X < 0 || ev.Y < 0 || ev.X >= float64(size.Width) || ev.Y >= float64(size.Height) {
		c.logger.Debug("lockscreen: close released outside control")
		return
	}
	c.Close()
}

func (c *Controller) publish(sig coord.Signal) {
	if c.publisher == nil {
		return
	}
	c.publisher.Publish(sig)
}

func (c *Controller) logSurfaceError(op string, err error) {
	if errors.Is(err, overlay.ErrNotAttached) {
		c.logger.Debug("lockscreen: surface already gone", "op", op, "error", err)
		return
	}
	c.logger.Warn("lockscreen: surface operation failed", "op", op, "error", err)
}
