package overlay

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
)

const (
	labelPaddingX   = 8
	labelLineHeight = 16
)

var fontNames = []string{"fixed", "9x15", "8x13", "6x13"}

type x11Surface struct {
	win      xproto.Window
	parent   Handle
	children []Handle
	spec     Spec
	gc       xproto.Gcontext
	font     xproto.Font
	pressed  bool
}

// X11Manager draws surfaces as override-redirect windows so they bypass the
// window manager.
type X11Manager struct {
	mu       sync.Mutex
	xu       *xgbutil.XUtil
	root     xproto.Window
	surfaces map[Handle]*x11Surface
	logger   *slog.Logger
}

var _ Manager = (*X11Manager)(nil)

// NewX11Manager creates a manager on an existing connection.
func NewX11Manager(xu *xgbutil.XUtil, root xproto.Window, logger *slog.Logger) *X11Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &X11Manager{
		xu:       xu,
		root:     root,
		surfaces: make(map[Handle]*x11Surface),
		logger:   logger,
	}
}

// Screen returns the root window geometry.
func (m *X11Manager) Screen() Geometry {
	screen := m.xu.Screen()
	return Geometry{
		Width:  int(screen.WidthInPixels),
		Height: int(screen.HeightInPixels),
	}
}

// Create maps a new surface.
func (m *X11Manager) Create(spec Spec) (Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	conn := m.xu.Conn()
	screen := m.xu.Screen()

	parentWin := m.root
	if spec.Parent != 0 {
		parent, ok := m.surfaces[spec.Parent]
		if !ok {
			return 0, fmt.Errorf("parent surface %d: %w", spec.Parent, ErrNotAttached)
		}
		parentWin = parent.win
	}

	geom := spec.Geometry
	if spec.Flags.Has(FullScreen) {
		geom = Geometry{Width: int(screen.WidthInPixels), Height: int(screen.HeightInPixels)}
		spec.Geometry = geom
	}
	if geom.Width < 1 {
		geom.Width = 1
	}
	if geom.Height < 1 {
		geom.Height = 1
	}

	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate window id: %w", err)
	}

	eventMask := uint32(xproto.EventMaskButtonPress |
		xproto.EventMaskButtonRelease |
		xproto.EventMaskButton1Motion |
		xproto.EventMaskExposure |
		xproto.EventMaskStructureNotify)

	err = xproto.CreateWindowChecked(
		conn,
		screen.RootDepth,
		wid,
		parentWin,
		int16(geom.X), int16(geom.Y),
		uint16(geom.Width), uint16(geom.Height),
		0,
		xproto.WindowClassInputOutput,
		screen.RootVisual,
		xproto.CwBackPixel|xproto.CwOverrideRedirect|xproto.CwEventMask,
		// Value list order follows the bit positions of the mask (low to high).
		[]uint32{spec.Background, 1, eventMask},
	).Check()
	if err != nil {
		return 0, fmt.Errorf("failed to create overlay window: %w", err)
	}

	h := Handle(wid)
	s := &x11Surface{win: wid, parent: spec.Parent, spec: spec}
	m.surfaces[h] = s
	if spec.Parent != 0 {
		parent := m.surfaces[spec.Parent]
		parent.children = append(parent.children, h)
	}

	if spec.Name != "" && spec.Parent == 0 {
		if err := ewmh.WmNameSet(m.xu, wid, spec.Name); err != nil {
			m.logger.Debug("overlay: failed to set window name", "name", spec.Name, "error", err)
		}
	}
	if spec.Flags.Has(Translucent) && spec.Parent == 0 {
		m.setOpacity(wid, spec.Opacity)
	}
	if spec.Flags.Has(KeepOn) {
		xproto.ForceScreenSaver(conn, xproto.ScreenSaverReset)
	}
	// PassThroughOutside needs no work here: override-redirect windows never
	// receive events outside their own bounds.

	m.attachHandlers(h, s)

	xproto.MapWindow(conn, wid)
	if spec.Flags.Has(AlwaysOnTop) {
		xproto.ConfigureWindow(conn, wid, xproto.ConfigWindowStackMode, []uint32{xproto.StackModeAbove})
	}
	if spec.Label != "" {
		m.ensureFont(s)
	}

	return h, nil
}

// Move repositions a surface, keeping always-on-top surfaces above siblings.
func (m *X11Manager) Move(h Handle, x, y int) error {
	m.mu.Lock()
	s, ok := m.surfaces[h]
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("move surface %d: %w", h, ErrNotAttached)
	}

	mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY)
	values := []uint32{uint32(int32(x)), uint32(int32(y))}
	if s.spec.Flags.Has(AlwaysOnTop) {
		mask |= xproto.ConfigWindowStackMode
		values = append(values, xproto.StackModeAbove)
	}
	if err := xproto.ConfigureWindowChecked(m.xu.Conn(), s.win, mask, values).Check(); err != nil {
		m.forget(h)
		return fmt.Errorf("%w: %v", ErrNotAttached, err)
	}

	m.mu.Lock()
	s.spec.Geometry.X = x
	s.spec.Geometry.Y = y
	m.mu.Unlock()
	return nil
}

// Remove destroys a surface and its children.
func (m *X11Manager) Remove(h Handle) error {
	m.mu.Lock()
	s, ok := m.surfaces[h]
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("remove surface %d: %w", h, ErrNotAttached)
	}

	m.forget(h)
	if err := xproto.DestroyWindowChecked(m.xu.Conn(), s.win).Check(); err != nil {
		return fmt.Errorf("%w: %v", ErrNotAttached, err)
	}
	return nil
}

// Attached reports whether h still refers to a live window.
func (m *X11Manager) Attached(h Handle) bool {
	m.mu.Lock()
	s, ok := m.surfaces[h]
	m.mu.Unlock()
	if !ok {
		return false
	}
	if _, err := xproto.GetWindowAttributes(m.xu.Conn(), s.win).Reply(); err != nil {
		m.forget(h)
		return false
	}
	return true
}

// forget drops bookkeeping for h and its children and frees X resources
// other than the window itself.
func (m *X11Manager) forget(h Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.forgetLocked(h)
}

func (m *X11Manager) forgetLocked(h Handle) {
	s, ok := m.surfaces[h]
	if !ok {
		return
	}
	for _, child := range s.children {
		m.forgetLocked(child)
	}
	if s.parent != 0 {
		if parent, ok := m.surfaces[s.parent]; ok {
			for i, c := range parent.children {
				if c == h {
					parent.children = append(parent.children[:i], parent.children[i+1:]...)
					break
				}
			}
		}
	}

	conn := m.xu.Conn()
	if s.gc != 0 {
		xproto.FreeGC(conn, s.gc)
	}
	if s.font != 0 {
		xproto.CloseFont(conn, s.font)
	}
	xevent.Detach(m.xu, s.win)
	delete(m.surfaces, h)
}

func (m *X11Manager) attachHandlers(h Handle, s *x11Surface) {
	xevent.ButtonPressFun(func(xu *xgbutil.XUtil, ev xevent.ButtonPressEvent) {
		if ev.Detail != xproto.ButtonIndex1 {
			return
		}
		m.dispatch(h, EventPress, ev.EventX, ev.EventY, ev.RootX, ev.RootY)
	}).Connect(m.xu, s.win)

	xevent.MotionNotifyFun(func(xu *xgbutil.XUtil, ev xevent.MotionNotifyEvent) {
		m.dispatch(h, EventMove, ev.EventX, ev.EventY, ev.RootX, ev.RootY)
	}).Connect(m.xu, s.win)

	xevent.ButtonReleaseFun(func(xu *xgbutil.XUtil, ev xevent.ButtonReleaseEvent) {
		if ev.Detail != xproto.ButtonIndex1 {
			return
		}
		m.dispatch(h, EventRelease, ev.EventX, ev.EventY, ev.RootX, ev.RootY)
	}).Connect(m.xu, s.win)

	xevent.ExposeFun(func(xu *xgbutil.XUtil, ev xevent.ExposeEvent) {
		if ev.Count == 0 {
			m.drawLabel(h)
		}
	}).Connect(m.xu, s.win)

	xevent.DestroyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.DestroyNotifyEvent) {
		if ev.Window != s.win {
			return
		}
		m.mu.Lock()
		cur, ok := m.surfaces[h]
		pressed := ok && cur.pressed
		var input InputFunc
		if ok {
			input = cur.spec.OnInput
		}
		m.mu.Unlock()

		// Destroyed by someone else while a press was in flight.
		if pressed && input != nil {
			input(Event{Kind: EventCancel})
		}
		m.forget(h)
	}).Connect(m.xu, s.win)
}

func (m *X11Manager) dispatch(h Handle, kind EventKind, x, y, rootX, rootY int16) {
	m.mu.Lock()
	s, ok := m.surfaces[h]
	if !ok {
		m.mu.Unlock()
		return
	}
	switch kind {
	case EventPress:
		s.pressed = true
	case EventRelease:
		if !s.pressed {
			m.mu.Unlock()
			return
		}
		s.pressed = false
	case EventMove:
		if !s.pressed {
			m.mu.Unlock()
			return
		}
	}
	input := s.spec.OnInput
	m.mu.Unlock()

	if input == nil {
		return
	}
	input(Event{
		Kind:  kind,
		X:     float64(x),
		Y:     float64(y),
		RootX: float64(rootX),
		RootY: float64(rootY),
	})
}

func (m *X11Manager) setOpacity(win xproto.Window, opacity float64) {
	if opacity <= 0 || opacity > 1 {
		opacity = 1
	}
	value := uint(opacity * float64(0xffffffff))
	if err := xprop.ChangeProp32(m.xu, win, "_NET_WM_WINDOW_OPACITY", "CARDINAL", value); err != nil {
		m.logger.Debug("overlay: failed to set opacity", "error", err)
	}
}

// ensureFont opens a core font and graphics context for label drawing.
// Failure leaves the surface unlabeled.
func (m *X11Manager) ensureFont(s *x11Surface) bool {
	if s.gc != 0 {
		return true
	}
	conn := m.xu.Conn()

	font, err := xproto.NewFontId(conn)
	if err != nil {
		return false
	}
	opened := false
	for _, name := range fontNames {
		if err := xproto.OpenFontChecked(conn, font, uint16(len(name)), name).Check(); err == nil {
			opened = true
			break
		}
	}
	if !opened {
		return false
	}

	gc, err := xproto.NewGcontextId(conn)
	if err != nil {
		xproto.CloseFont(conn, font)
		return false
	}
	err = xproto.CreateGCChecked(
		conn,
		gc,
		xproto.Drawable(s.win),
		xproto.GcForeground|xproto.GcBackground|xproto.GcFont|xproto.GcGraphicsExposures,
		[]uint32{s.spec.Foreground, s.spec.Background, uint32(font), 0},
	).Check()
	if err != nil {
		xproto.FreeGC(conn, gc)
		xproto.CloseFont(conn, font)
		return false
	}

	s.font = font
	s.gc = gc
	return true
}

func (m *X11Manager) drawLabel(h Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.surfaces[h]
	if !ok || s.spec.Label == "" || !m.ensureFont(s) {
		return
	}

	label := s.spec.Label
	if len(label) > 255 {
		label = label[:255]
	}
	y := (s.spec.Geometry.Height + labelLineHeight) / 2
	if y < labelLineHeight {
		y = labelLineHeight
	}
	xproto.ImageText8(
		m.xu.Conn(),
		byte(len(label)),
		xproto.Drawable(s.win),
		s.gc,
		int16(labelPaddingX),
		int16(y-4),
		label,
	)
}
