package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/floatlock/internal/button"
	"github.com/1broseidon/floatlock/internal/coord"
	"github.com/1broseidon/floatlock/internal/lockscreen"
	"github.com/1broseidon/floatlock/internal/notify"
	"github.com/1broseidon/floatlock/internal/overlay"
	"github.com/1broseidon/floatlock/internal/overlay/overlaytest"
	"github.com/1broseidon/floatlock/internal/position"
)

type fixture struct {
	s        *Session
	overlays *overlaytest.Manager
	store    *position.MemoryStore
	notes    *notify.Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		overlays: overlaytest.New(),
		store:    &position.MemoryStore{},
		notes:    &notify.Recorder{},
	}
	f.s = New(context.Background(), Options{
		Overlays: f.overlays,
		Store:    f.store,
		Notifier: f.notes,
	})
	t.Cleanup(f.s.Shutdown)
	return f
}

func (f *fixture) find(t *testing.T, name string) overlaytest.Surface {
	t.Helper()
	s, ok := f.overlays.Find(name)
	require.True(t, ok, "surface %s not found", name)
	return s
}

func (f *fixture) drag(t *testing.T, from, to overlay.Event) {
	t.Helper()
	h := f.find(t, button.SurfaceName).Handle
	from.Kind = overlay.EventPress
	f.overlays.Send(h, from)
	to.Kind = overlay.EventMove
	f.overlays.Send(h, to)
	to.Kind = overlay.EventRelease
	f.overlays.Send(h, to)
	f.s.Button().WaitSaves()
}

func (f *fixture) tap(t *testing.T) {
	t.Helper()
	h := f.find(t, button.SurfaceName).Handle
	f.overlays.Send(h, overlay.Event{Kind: overlay.EventPress, RootX: 5, RootY: 105})
	f.overlays.Send(h, overlay.Event{Kind: overlay.EventRelease, RootX: 5, RootY: 105})
}

func (f *fixture) swipe(t *testing.T, distance float64) {
	t.Helper()
	h := f.find(t, lockscreen.IndicatorName).Handle
	f.overlays.Send(h, overlay.Event{Kind: overlay.EventPress, RootX: 650, RootY: 800})
	f.overlays.Send(h, overlay.Event{Kind: overlay.EventMove, RootX: 650 + distance, RootY: 800})
	f.overlays.Send(h, overlay.Event{Kind: overlay.EventRelease, RootX: 650 + distance, RootY: 800})
}

func TestStartShowsButtonAtDefault(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.s.Start())

	st := f.s.Status()
	assert.True(t, st.ButtonActive)
	assert.False(t, st.LockActive)
	assert.Equal(t, position.Default(), st.Position)
}

func TestTapLockSwipeRestoresButtonAtPersistedPosition(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.s.Start())

	f.drag(t, overlay.Event{RootX: 10, RootY: 110}, overlay.Event{RootX: 40, RootY: 100})
	require.Equal(t, position.Position{X: 30, Y: 90}, f.s.Status().Position)

	f.tap(t)
	f.s.Bus().Flush()
	st := f.s.Status()
	assert.False(t, st.ButtonActive)
	assert.True(t, st.LockActive)
	assert.Equal(t, 1, f.overlays.TopLevel())

	f.swipe(t, 520)
	f.s.Bus().Flush()

	st = f.s.Status()
	assert.True(t, st.ButtonActive)
	assert.False(t, st.LockActive)
	b := f.find(t, button.SurfaceName)
	assert.Equal(t, 30, b.Spec.Geometry.X)
	assert.Equal(t, 90, b.Spec.Geometry.Y)
	assert.Equal(t, 1, f.overlays.TopLevel())
}

func TestShortSwipeStaysLocked(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.s.Start())
	f.tap(t)
	f.s.Bus().Flush()

	f.swipe(t, 300)
	f.s.Bus().Flush()

	assert.True(t, f.s.Status().LockActive)
	assert.False(t, f.s.Status().ButtonActive)
	assert.Equal(t, float64(610), f.s.LockScreen().IndicatorX())
}

func TestCloseTerminatesSession(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.s.Start())
	require.NoError(t, f.s.Lock())

	f.overlays.Send(f.find(t, lockscreen.CloseName).Handle, overlay.Event{Kind: overlay.EventRelease})

	select {
	case <-f.s.Done():
	default:
		t.Fatal("session not terminated by close")
	}
	assert.False(t, f.s.Status().LockActive)

	f.s.Shutdown()
	assert.Zero(t, f.overlays.TopLevel())
	assert.Contains(t, f.notes.Messages(), "Lock button removed")
}

func TestShowHideSignals(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.s.Start())

	f.s.Publish(coord.HideButton)
	f.s.Bus().Flush()
	assert.False(t, f.s.Status().ButtonActive)

	f.s.Publish(coord.ShowButton)
	f.s.Publish(coord.ShowButton)
	f.s.Bus().Flush()
	assert.True(t, f.s.Status().ButtonActive)
	assert.Equal(t, 1, f.overlays.TopLevel())
}

func TestUnlockWhenNotLocked(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.s.Start())
	assert.ErrorIs(t, f.s.Unlock(), lockscreen.ErrNotActive)
}

func TestResetPosition(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.s.Start())
	f.drag(t, overlay.Event{RootX: 0, RootY: 0}, overlay.Event{RootX: 200, RootY: 200})
	require.Equal(t, position.Position{X: 200, Y: 300}, f.s.Status().Position)

	require.NoError(t, f.s.ResetPosition())
	b := f.find(t, button.SurfaceName)
	assert.Equal(t, 0, b.Spec.Geometry.X)
	assert.Equal(t, 100, b.Spec.Geometry.Y)
}

func TestReconcilerRestoresDestroyedButton(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.s.Start())
	f.overlays.Destroy(f.find(t, button.SurfaceName).Handle)

	r := NewReconciler(f.s, 0, nil)
	r.ReconcileNow()

	assert.True(t, f.s.Status().ButtonActive)
	assert.True(t, f.s.Button().Attached())
	assert.Equal(t, 1, f.overlays.TopLevel())
}

func TestReconcilerForgetsDestroyedLockScreen(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.s.Start())
	require.NoError(t, f.s.Lock())
	f.overlays.Destroy(f.find(t, lockscreen.SurfaceName).Handle)

	NewReconciler(f.s, 0, nil).ReconcileNow()

	st := f.s.Status()
	assert.False(t, st.LockActive)
	assert.True(t, st.ButtonActive)
}

func TestReconcilerLeavesHealthyStateAlone(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.s.Start())
	require.NoError(t, f.s.Lock())
	creates := f.overlays.Creates

	NewReconciler(f.s, 0, nil).ReconcileNow()

	assert.Equal(t, creates, f.overlays.Creates)
	assert.True(t, f.s.Status().LockActive)
	assert.False(t, f.s.Status().ButtonActive)
}

func TestReconcilerIdleAfterTerminate(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.s.Start())
	f.overlays.Destroy(f.find(t, button.SurfaceName).Handle)
	f.s.Terminate()

	r := NewReconciler(f.s, time.Millisecond, nil)
	done := make(chan struct{})
	go func() {
		r.Run(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reconciler kept running after terminate")
	}

	r.ReconcileNow()
	_, ok := f.overlays.Find(button.SurfaceName)
	assert.False(t, ok)
}

func TestReconcilerRespectsExplicitHide(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.s.Start())

	f.s.Publish(coord.HideButton)
	f.s.Bus().Flush()
	require.True(t, f.s.ButtonHidden())

	NewReconciler(f.s, 0, nil).ReconcileNow()
	assert.False(t, f.s.Status().ButtonActive)

	f.s.Publish(coord.ShowButton)
	f.s.Bus().Flush()
	assert.False(t, f.s.ButtonHidden())
	assert.True(t, f.s.Status().ButtonActive)
}

func TestLockIsNotAnExplicitHide(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.s.Start())
	require.NoError(t, f.s.Lock())
	f.s.Bus().Flush()

	assert.False(t, f.s.ButtonHidden())
}

func TestToggleButton(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.s.Start())

	f.s.ToggleButton()
	f.s.Bus().Flush()
	assert.False(t, f.s.Status().ButtonActive)

	f.s.ToggleButton()
	f.s.Bus().Flush()
	assert.True(t, f.s.Status().ButtonActive)

	require.NoError(t, f.s.Lock())
	f.s.Bus().Flush()
	f.s.ToggleButton()
	f.s.Bus().Flush()
	assert.False(t, f.s.Status().ButtonActive)
	assert.True(t, f.s.Status().LockActive)
}
