// Package button owns the small draggable surface that starts the lock screen.
package button

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/1broseidon/floatlock/internal/coord"
	"github.com/1broseidon/floatlock/internal/gesture"
	"github.com/1broseidon/floatlock/internal/notify"
	"github.com/1broseidon/floatlock/internal/overlay"
	"github.com/1broseidon/floatlock/internal/position"
)

// SurfaceName identifies the button surface in the window system.
const SurfaceName = "floatlock-button"

// Launcher starts the lock screen when the button is tapped.
type Launcher interface {
	StartLockScreen()
}

// Style controls how the button surface looks.
type Style struct {
	Width      int
	Height     int
	Color      uint32
	LabelColor uint32
	Label      string
	Opacity    float64
}

// DefaultStyle returns the built-in look.
func DefaultStyle() Style {
	return Style{
		Width:      64,
		Height:     64,
		Color:      0x3498db,
		LabelColor: 0xffffff,
		Label:      "Lock",
		Opacity:    0.85,
	}
}

// Options wires a Controller to its collaborators.
type Options struct {
	Overlays overlay.Manager
	Store    position.Store
	Launcher Launcher
	Notifier notify.Notifier
	Logger   *slog.Logger
	Style    Style
}

// Controller shows at most one button surface, turns drags into persisted
// positions and taps into a lock screen launch.
type Controller struct {
	mu       sync.Mutex
	overlays overlay.Manager
	store    position.Store
	launcher Launcher
	notifier notify.Notifier
	logger   *slog.Logger
	style    Style

	handle  overlay.Handle
	pos     position.Position
	session *gesture.Session

	unsubscribe func()
	saves       sync.WaitGroup

	saveMu    sync.Mutex
	saveSeq   uint64
	lastSaved uint64
}

// New creates an inactive controller.
func New(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.Nop{}
	}
	style := opts.Style
	if style.Width <= 0 || style.Height <= 0 {
		style = DefaultStyle()
	}
	return &Controller{
		overlays: opts.Overlays,
		store:    opts.Store,
		launcher: opts.Launcher,
		notifier: notifier,
		logger:   logger,
		style:    style,
		pos:      position.Default(),
	}
}

// SetStyle replaces the style used by the next Activate.
func (c *Controller) SetStyle(style Style) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.style = style
}

// Active reports whether a surface is currently held.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handle != 0
}

// Position returns the position of the current (or last) surface.
func (c *Controller) Position() position.Position {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pos
}

// Activate shows the button at the persisted position. A surface that is
// already shown is removed first.
func (c *Controller) Activate() error {
	_, err := c.activate(true)
	return err
}

// activate creates the surface. With replace unset an existing surface is
// left alone and false is returned.
func (c *Controller) activate(replace bool) (bool, error) {
	c.mu.Lock()
	if c.handle != 0 {
		if !replace {
			c.mu.Unlock()
			return false, nil
		}
		c.removeLocked()
	}

	pos, err := c.store.Load()
	if err != nil {
		c.logger.Warn("button: failed to load position, using default", "error", err)
		pos = position.Default()
	}

	h, err := c.overlays.Create(overlay.Spec{
		Name: SurfaceName,
		Geometry: overlay.Geometry{
			X:      pos.X,
			Y:      pos.Y,
			Width:  c.style.Width,
			Height: c.style.Height,
		},
		Flags:      overlay.NotFocusable | overlay.Translucent | overlay.AlwaysOnTop,
		Background: c.style.Color,
		Foreground: c.style.LabelColor,
		Label:      c.style.Label,
		Opacity:    c.style.Opacity,
		OnInput:    c.handleInput,
	})
	if err != nil {
		c.mu.Unlock()
		return false, fmt.Errorf("failed to create button surface: %w", err)
	}
	c.handle = h
	c.pos = pos
	c.session = nil
	c.mu.Unlock()

	c.logger.Info("button: shown", "position", pos.String())
	c.notify("Lock button added")
	return true, nil
}

// Deactivate removes the surface if one is shown. Safe to call repeatedly.
func (c *Controller) Deactivate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle == 0 {
		return
	}
	c.removeLocked()
	c.logger.Info("button: hidden")
}

func (c *Controller) removeLocked() {
	h := c.handle
	c.handle = 0
	c.session = nil
	if err := c.overlays.Remove(h); err != nil {
		c.logSurfaceError("remove", err)
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
	c.logger.Debug("button: forgetting detached surface", "handle", c.handle)
	c.handle = 0
	c.session = nil
}

// Subscribe listens for coordination signals. ShowButton activates only when
// nothing is shown; HideButton deactivates.
func (c *Controller) Subscribe(sub coord.Subscriber) func() {
	unsub := sub.Subscribe(c.handleSignal)
	c.mu.Lock()
	c.unsubscribe = unsub
	c.mu.Unlock()
	return unsub
}

func (c *Controller) handleSignal(sig coord.Signal) {
	switch sig {
	case coord.ShowButton:
		shown, err := c.activate(false)
		if err != nil {
			c.logger.Warn("button: failed to show on signal", "error", err)
			return
		}
		if !shown {
			c.logger.Debug("button: already shown, ignoring signal", "signal", sig)
		}
	case coord.HideButton:
		c.Deactivate()
	}
}

// Shutdown removes the surface, stops listening and waits for pending
// position writes.
func (c *Controller) Shutdown() {
	c.Deactivate()

	c.mu.Lock()
	unsub := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()
	if unsub != nil {
		unsub()
	}

	c.saves.Wait()
	c.notify("Lock button removed")
}

// WaitSaves blocks until every position write started so far has finished.
func (c *Controller) WaitSaves() {
	c.saves.Wait()
}

func (c *Controller) handleInput(ev overlay.Event) {
	touch := gesture.Point{X: ev.RootX, Y: ev.RootY}

	c.mu.Lock()
	if c.handle == 0 {
		c.mu.Unlock()
		return
	}

	switch ev.Kind {
	case overlay.EventPress:
		c.session = gesture.Press(c.pos, touch)
		c.mu.Unlock()

	case overlay.EventMove:
		if c.session == nil {
			c.mu.Unlock()
			return
		}
		next := c.session.Move(touch)
		c.moveLocked(next)
		c.mu.Unlock()

	case overlay.EventRelease:
		s := c.session
		c.session = nil
		if s == nil {
			c.mu.Unlock()
			return
		}
		outcome := s.Release()
		var final position.Position
		if outcome == gesture.Drag {
			final = s.Current()
			c.moveLocked(final)
			c.persist(final)
		}
		c.mu.Unlock()

		if outcome == gesture.Tap {
			c.logger.Info("button: tapped, starting lock screen")
			if c.launcher != nil {
				c.launcher.StartLockScreen()
			}
			c.Deactivate()
		} else {
			c.logger.Debug("button: dragged", "position", final.String())
		}

	case overlay.EventCancel:
		s := c.session
		c.session = nil
		if s != nil {
			s.Cancel()
			c.moveLocked(s.Origin)
		}
		c.mu.Unlock()

	default:
		c.mu.Unlock()
	}
}

func (c *Controller) moveLocked(p position.Position) {
	c.pos = p
	if err := c.overlays.Move(c.handle, p.X, p.Y); err != nil {
		c.logSurfaceError("move", err)
	}
}

// persist writes p off the event thread. Called with c.mu held, so sequence
// numbers follow release order; a write older than the last one stored is
// dropped.
func (c *Controller) persist(p position.Position) {
	c.saveSeq++
	seq := c.saveSeq
	c.saves.Add(1)
	go func() {
		defer c.saves.Done()
		c.saveMu.Lock()
		defer c.saveMu.Unlock()
		if seq < c.lastSaved {
			c.logger.Debug("button: dropping stale position write", "position", p.String())
			return
		}
		c.lastSaved = seq
		if err := c.store.Save(p); err != nil {
			c.logger.Warn("button: failed to save position", "position", p.String(), "error", err)
		}
	}()
}

func (c *Controller) logSurfaceError(op string, err error) {
	if errors.Is(err, overlay.ErrNotAttached) {
		c.logger.Debug("button: surface already gone", "op", op, "error", err)
		return
	}
	c.logger.Warn("button: surface operation failed", "op", op, "error", err)
}

func (c *Controller) notify(summary string) {
	if err := c.notifier.Notify(summary, ""); err != nil {
		c.logger.Debug("button: notification failed", "error", err)
	}
}
