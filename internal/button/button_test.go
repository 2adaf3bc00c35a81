package button

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/floatlock/internal/coord"
	"github.com/1broseidon/floatlock/internal/notify"
	"github.com/1broseidon/floatlock/internal/overlay"
	"github.com/1broseidon/floatlock/internal/overlay/overlaytest"
	"github.com/1broseidon/floatlock/internal/position"
)

type fakeLauncher struct {
	mu    sync.Mutex
	locks int
	onRun func()
}

func (l *fakeLauncher) StartLockScreen() {
	l.mu.Lock()
	l.locks++
	fn := l.onRun
	l.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (l *fakeLauncher) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.locks
}

type fixture struct {
	ctrl     *Controller
	overlays *overlaytest.Manager
	store    *position.MemoryStore
	launcher *fakeLauncher
	notes    *notify.Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		overlays: overlaytest.New(),
		store:    &position.MemoryStore{},
		launcher: &fakeLauncher{},
		notes:    &notify.Recorder{},
	}
	f.ctrl = New(Options{
		Overlays: f.overlays,
		Store:    f.store,
		Launcher: f.launcher,
		Notifier: f.notes,
	})
	return f
}

func (f *fixture) surface(t *testing.T) overlaytest.Surface {
	t.Helper()
	s, ok := f.overlays.Find(SurfaceName)
	require.True(t, ok, "button surface not found")
	return s
}

func press(x, y float64) overlay.Event {
	return overlay.Event{Kind: overlay.EventPress, RootX: x, RootY: y}
}

func move(x, y float64) overlay.Event {
	return overlay.Event{Kind: overlay.EventMove, RootX: x, RootY: y}
}

func release(x, y float64) overlay.Event {
	return overlay.Event{Kind: overlay.EventRelease, RootX: x, RootY: y}
}

func TestActivateUsesDefaultPosition(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ctrl.Activate())

	s := f.surface(t)
	assert.Equal(t, 0, s.Spec.Geometry.X)
	assert.Equal(t, 100, s.Spec.Geometry.Y)
	assert.True(t, s.Spec.Flags.Has(overlay.NotFocusable|overlay.Translucent|overlay.AlwaysOnTop))
	assert.False(t, s.Spec.Flags.Has(overlay.FullScreen))
	assert.Equal(t, []string{"Lock button added"}, f.notes.Messages())
}

func TestActivateUsesPersistedPosition(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Save(position.Position{X: 250, Y: 40}))

	require.NoError(t, f.ctrl.Activate())
	s := f.surface(t)
	assert.Equal(t, 250, s.Spec.Geometry.X)
	assert.Equal(t, 40, s.Spec.Geometry.Y)
}

func TestDragPersistsFinalPosition(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ctrl.Activate())
	h := f.surface(t).Handle

	f.overlays.Send(h, press(10, 110))
	f.overlays.Send(h, move(25, 105))
	f.overlays.Send(h, move(40, 100))
	f.overlays.Send(h, release(40, 100))
	f.ctrl.WaitSaves()

	s := f.surface(t)
	assert.Equal(t, 30, s.Spec.Geometry.X)
	assert.Equal(t, 90, s.Spec.Geometry.Y)

	saved, err := f.store.Load()
	require.NoError(t, err)
	assert.Equal(t, position.Position{X: 30, Y: 90}, saved)
	assert.Equal(t, 1, f.store.Saves())
	assert.Zero(t, f.launcher.count())
	assert.True(t, f.ctrl.Active())
}

// slowStore delays saves of one x coordinate.
type slowStore struct {
	*position.MemoryStore
	slowX int
	delay time.Duration
}

func (s *slowStore) Save(p position.Position) error {
	if p.X == s.slowX {
		time.Sleep(s.delay)
	}
	return s.MemoryStore.Save(p)
}

func TestBackToBackDragsKeepLastPosition(t *testing.T) {
	f := newFixture(t)
	store := &slowStore{MemoryStore: f.store, slowX: 30, delay: 50 * time.Millisecond}
	f.ctrl = New(Options{Overlays: f.overlays, Store: store, Launcher: f.launcher})
	require.NoError(t, f.ctrl.Activate())
	h := f.surface(t).Handle

	f.overlays.Send(h, press(0, 100))
	f.overlays.Send(h, move(30, 100))
	f.overlays.Send(h, release(30, 100))

	f.overlays.Send(h, press(30, 100))
	f.overlays.Send(h, move(130, 100))
	f.overlays.Send(h, release(130, 100))
	f.ctrl.WaitSaves()

	assert.Equal(t, 130, f.surface(t).Spec.Geometry.X)
	saved, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, position.Position{X: 130, Y: 100}, saved)
}

func TestTapStartsLockScreenAndHides(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ctrl.Activate())
	h := f.surface(t).Handle

	f.overlays.Send(h, press(10, 110))
	f.overlays.Send(h, move(13, 112))
	f.overlays.Send(h, release(13, 112))
	f.ctrl.WaitSaves()

	assert.Equal(t, 1, f.launcher.count())
	assert.False(t, f.ctrl.Active())
	assert.False(t, f.overlays.Attached(h))
	assert.Zero(t, f.store.Saves())
}

func TestSmallMovesAfterLatchStillDrag(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ctrl.Activate())
	h := f.surface(t).Handle

	f.overlays.Send(h, press(0, 0))
	f.overlays.Send(h, move(10, 0))
	f.overlays.Send(h, move(1, 0))
	f.overlays.Send(h, release(1, 0))
	f.ctrl.WaitSaves()

	assert.Zero(t, f.launcher.count())
	assert.Equal(t, 1, f.store.Saves())
	saved, _ := f.store.Load()
	assert.Equal(t, position.Position{X: 1, Y: 100}, saved)
}

func TestCancelRevertsWithoutSaving(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ctrl.Activate())
	h := f.surface(t).Handle

	f.overlays.Send(h, press(0, 0))
	f.overlays.Send(h, move(50, 50))
	f.overlays.Send(h, overlay.Event{Kind: overlay.EventCancel})
	f.ctrl.WaitSaves()

	s := f.surface(t)
	assert.Equal(t, 0, s.Spec.Geometry.X)
	assert.Equal(t, 100, s.Spec.Geometry.Y)
	assert.Zero(t, f.store.Saves())
	assert.Zero(t, f.launcher.count())
}

func TestDuplicateActivateKeepsSingleSurface(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ctrl.Activate())
	first := f.surface(t).Handle
	require.NoError(t, f.ctrl.Activate())

	assert.Equal(t, 1, f.overlays.TopLevel())
	assert.False(t, f.overlays.Attached(first))
}

func TestDeactivateIsIdempotent(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ctrl.Activate())

	f.ctrl.Deactivate()
	f.ctrl.Deactivate()
	assert.Equal(t, 1, f.overlays.Removes)
	assert.False(t, f.ctrl.Active())
}

func TestDeactivateAfterHostDestroyed(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ctrl.Activate())
	f.overlays.Destroy(f.surface(t).Handle)

	assert.NotPanics(t, f.ctrl.Deactivate)
	assert.False(t, f.ctrl.Active())
}

func TestSignals(t *testing.T) {
	f := newFixture(t)
	bus := coord.NewBus(nil)
	f.ctrl.Subscribe(bus)

	bus.Publish(coord.ShowButton)
	bus.Flush()
	require.True(t, f.ctrl.Active())
	first := f.surface(t).Handle

	bus.Publish(coord.ShowButton)
	bus.Flush()
	assert.Equal(t, 1, f.overlays.Creates)
	assert.True(t, f.overlays.Attached(first))

	bus.Publish(coord.HideButton)
	bus.Publish(coord.HideButton)
	bus.Flush()
	assert.False(t, f.ctrl.Active())
	assert.Zero(t, f.overlays.TopLevel())
}

func TestTapWhileLockPublishesHide(t *testing.T) {
	f := newFixture(t)
	bus := coord.NewBus(nil)
	f.ctrl.Subscribe(bus)
	f.launcher.onRun = func() { bus.Publish(coord.HideButton) }

	require.NoError(t, f.ctrl.Activate())
	h := f.surface(t).Handle
	f.overlays.Send(h, press(5, 105))
	f.overlays.Send(h, release(5, 105))
	bus.Flush()

	assert.False(t, f.ctrl.Active())
	assert.Zero(t, f.overlays.TopLevel())
}

func TestShutdownUnsubscribesAndNotifies(t *testing.T) {
	f := newFixture(t)
	bus := coord.NewBus(nil)
	f.ctrl.Subscribe(bus)
	require.NoError(t, f.ctrl.Activate())

	f.ctrl.Shutdown()
	bus.Publish(coord.ShowButton)
	bus.Flush()

	assert.False(t, f.ctrl.Active())
	assert.Equal(t, []string{"Lock button added", "Lock button removed"}, f.notes.Messages())
}
