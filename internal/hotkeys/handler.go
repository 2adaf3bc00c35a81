package hotkeys

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/1broseidon/floatlock/internal/config"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Actions are what the global hotkeys trigger.
type Actions interface {
	Lock() error
	ToggleButton()
}

// x11Accessor is implemented by backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Handler manages global keyboard shortcuts
type Handler struct {
	mu      sync.Mutex
	xu      *xgbutil.XUtil
	root    xproto.Window
	actions Actions
	logger  *slog.Logger
	bound   []string
}

var ignoreModsOnce sync.Once

// NewHandler creates a new hotkey handler on the backend's X connection.
func NewHandler(backend x11Accessor, actions Actions, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	xu := backend.XUtil()

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	return &Handler{
		xu:      xu,
		root:    backend.RootWindow(),
		actions: actions,
		logger:  logger,
	}
}

type binding struct {
	name     string
	sequence string
}

func bindings(cfg config.HotkeyConfig) []binding {
	var out []binding
	if cfg.Lock != "" {
		out = append(out, binding{name: "lock", sequence: cfg.Lock})
	}
	if cfg.ToggleButton != "" {
		out = append(out, binding{name: "toggle_button", sequence: cfg.ToggleButton})
	}
	return out
}

// Register grabs every configured sequence, replacing earlier grabs.
func (h *Handler) Register(cfg config.HotkeyConfig) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.bound) > 0 {
		keybind.Detach(h.xu, h.root)
		h.bound = nil
	}

	for _, b := range bindings(cfg) {
		cb := h.callback(b.name)
		if err := h.registerFunc(b.sequence, cb); err != nil {
			return fmt.Errorf("failed to register %s hotkey %q: %w", b.name, b.sequence, err)
		}
		h.bound = append(h.bound, b.sequence)
		h.logger.Info("hotkey registered", "action", b.name, "sequence", b.sequence)
	}
	return nil
}

// Bound returns the sequences currently grabbed.
func (h *Handler) Bound() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.bound...)
}

func (h *Handler) callback(name string) func() {
	switch name {
	case "lock":
		return func() {
			h.logger.Debug("lock hotkey triggered")
			if err := h.actions.Lock(); err != nil {
				h.logger.Warn("lock hotkey failed", "error", err)
			}
		}
	default:
		return func() {
			h.logger.Debug("toggle button hotkey triggered")
			h.actions.ToggleButton()
		}
	}
}

func (h *Handler) registerFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	xevent.IgnoreMods = ignoreMasks(base)
}

// ignoreMasks returns every combination of the given modifier masks,
// including the empty one.
func ignoreMasks(base []uint16) []uint16 {
	unique := map[uint16]struct{}{0: {}}
	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		unique[mask] = struct{}{}
	}

	out := make([]uint16, 0, len(unique))
	for mask := range unique {
		out = append(out, mask)
	}
	return out
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
