// Package session ties the button, the lock screen and the coordination bus
// together for one daemon run.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/floatlock/internal/button"
	"github.com/1broseidon/floatlock/internal/coord"
	"github.com/1broseidon/floatlock/internal/lockscreen"
	"github.com/1broseidon/floatlock/internal/notify"
	"github.com/1broseidon/floatlock/internal/overlay"
	"github.com/1broseidon/floatlock/internal/position"
)

// Launcher starts and stops the overlays on behalf of the controllers.
type Launcher interface {
	StartLockScreen()
	StartButton()
	Terminate()
}

// Status is a point-in-time view of the session.
type Status struct {
	ButtonActive  bool              `json:"button_active"`
	LockActive    bool              `json:"lock_active"`
	Position      position.Position `json:"position"`
	UptimeSeconds int64             `json:"uptime_seconds"`
}

// Options configure a Session.
type Options struct {
	Overlays overlay.Manager
	Store    position.Store
	Notifier notify.Notifier
	Logger   *slog.Logger

	ButtonStyle button.Style
	LockStyle   lockscreen.Style

	// Display returns the area the lock screen's controls are centered on.
	Display func() overlay.Geometry
}

// Session owns both controllers and the bus between them.
type Session struct {
	bus    *coord.Bus
	button *button.Controller
	lock   *lockscreen.Controller
	store  position.Store
	logger *slog.Logger

	started time.Time
	ctx     context.Context
	cancel  context.CancelFunc

	mu       sync.Mutex
	shutdown bool
	hidden   bool
	unwatch  func()
}

var _ Launcher = (*Session)(nil)

// New creates a session whose lifetime is bounded by ctx. Terminate cancels
// it early.
func New(ctx context.Context, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(ctx)

	s := &Session{
		bus:     coord.NewBus(logger),
		store:   opts.Store,
		logger:  logger,
		started: time.Now(),
		ctx:     ctx,
		cancel:  cancel,
	}
	s.button = button.New(button.Options{
		Overlays: opts.Overlays,
		Store:    opts.Store,
		Launcher: s,
		Notifier: opts.Notifier,
		Logger:   logger,
		Style:    opts.ButtonStyle,
	})
	s.lock = lockscreen.New(lockscreen.Options{
		Overlays:  opts.Overlays,
		Publisher: s.bus,
		Launcher:  s,
		Logger:    logger,
		Style:     opts.LockStyle,
		Display:   opts.Display,
	})
	return s
}

// Bus returns the session's coordination bus.
func (s *Session) Bus() *coord.Bus { return s.bus }

// Button returns the button controller.
func (s *Session) Button() *button.Controller { return s.button }

// LockScreen returns the lock screen controller.
func (s *Session) LockScreen() *lockscreen.Controller { return s.lock }

// Done is closed once the session has been terminated or its parent
// context cancelled.
func (s *Session) Done() <-chan struct{} { return s.ctx.Done() }

// Start subscribes the button to the bus and shows it.
func (s *Session) Start() error {
	unwatch := s.bus.Subscribe(s.trackVisibility)
	s.mu.Lock()
	s.unwatch = unwatch
	s.mu.Unlock()

	s.button.Subscribe(s.bus)
	return s.button.Activate()
}

// trackVisibility remembers an explicit hide. HideButton sent by the lock
// screen as it comes up does not count.
func (s *Session) trackVisibility(sig coord.Signal) {
	locked := s.lock.Active()
	s.mu.Lock()
	defer s.mu.Unlock()
	switch sig {
	case coord.HideButton:
		s.hidden = !locked
	case coord.ShowButton:
		s.hidden = false
	}
}

// ButtonHidden reports whether the button was hidden on request rather than
// by the lock screen.
func (s *Session) ButtonHidden() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hidden
}

// Run delivers coordination signals until the session ends.
func (s *Session) Run() {
	s.bus.Run(s.ctx)
}

// StartLockScreen implements Launcher.
func (s *Session) StartLockScreen() {
	if err := s.lock.Activate(); err != nil {
		s.logger.Error("session: failed to start lock screen", "error", err)
	}
}

// StartButton implements Launcher.
func (s *Session) StartButton() {
	if err := s.button.Activate(); err != nil {
		s.logger.Error("session: failed to start button", "error", err)
	}
}

// Terminate implements Launcher. It ends the session; the owner observes
// Done and runs Shutdown.
func (s *Session) Terminate() {
	s.logger.Info("session: terminate requested")
	s.cancel()
}

// Lock shows the lock screen as a tap on the button would.
func (s *Session) Lock() error {
	if err := s.lock.Activate(); err != nil {
		return err
	}
	s.button.Deactivate()
	return nil
}

// Unlock dismisses the lock screen as a completed swipe would.
func (s *Session) Unlock() error {
	return s.lock.Unlock()
}

// Publish forwards sig to the bus.
func (s *Session) Publish(sig coord.Signal) {
	s.bus.Publish(sig)
}

// Subscribe registers fn for every signal the session bus delivers.
func (s *Session) Subscribe(fn func(coord.Signal)) func() {
	return s.bus.Subscribe(fn)
}

// ToggleButton hides a shown button or shows a hidden one. It does nothing
// while the lock screen is up.
func (s *Session) ToggleButton() {
	if s.lock.Active() {
		return
	}
	if s.button.Active() {
		s.bus.Publish(coord.HideButton)
		return
	}
	s.bus.Publish(coord.ShowButton)
}

// ApplyStyles replaces the look used for the next activation of each overlay.
func (s *Session) ApplyStyles(b button.Style, l lockscreen.Style) {
	s.button.SetStyle(b)
	s.lock.SetStyle(l)
}

type resetter interface {
	Reset() error
}

// ResetPosition forgets the persisted position and moves a shown button back
// to the default.
func (s *Session) ResetPosition() error {
	s.button.WaitSaves()
	if r, ok := s.store.(resetter); ok {
		if err := r.Reset(); err != nil {
			return err
		}
	} else if err := s.store.Save(position.Default()); err != nil {
		return err
	}
	if s.button.Active() {
		return s.button.Activate()
	}
	return nil
}

// Status reports the current state.
func (s *Session) Status() Status {
	return Status{
		ButtonActive:  s.button.Active(),
		LockActive:    s.lock.Active(),
		Position:      s.button.Position(),
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
	}
}

// Shutdown removes both overlays and waits for pending writes. Safe to call
// more than once.
func (s *Session) Shutdown() {
	s.mu.Lock()
	if s.shutdown {
		s.mu.Unlock()
		return
	}
	s.shutdown = true
	unwatch := s.unwatch
	s.unwatch = nil
	s.mu.Unlock()

	if unwatch != nil {
		unwatch()
	}

	s.cancel()
	s.lock.Shutdown()
	s.button.Shutdown()
	s.logger.Info("session: shut down")
}
