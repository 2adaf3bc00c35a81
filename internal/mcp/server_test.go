package mcp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/floatlock/internal/coord"
	"github.com/1broseidon/floatlock/internal/ipc"
)

type fakeDaemon struct {
	status    ipc.StatusData
	err       error
	locks     int
	unlocks   int
	resets    int
	published []coord.Signal
}

func (f *fakeDaemon) GetStatus() (*ipc.StatusData, error) {
	if f.err != nil {
		return nil, f.err
	}
	st := f.status
	return &st, nil
}

func (f *fakeDaemon) Lock() error {
	f.locks++
	return f.err
}

func (f *fakeDaemon) Unlock() error {
	f.unlocks++
	return f.err
}

func (f *fakeDaemon) Publish(sig coord.Signal) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, sig)
	return nil
}

func (f *fakeDaemon) ResetPosition() error {
	f.resets++
	return f.err
}

func newTestServer(d *fakeDaemon) *Server {
	return NewServer(d, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func resultText(t *testing.T, res *mcpsdk.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestHandleStatus(t *testing.T) {
	d := &fakeDaemon{status: ipc.StatusData{ButtonActive: true, ButtonX: 30, ButtonY: 90, UptimeSeconds: 12}}
	s := newTestServer(d)

	res, out, err := s.handleStatus(context.Background(), nil, StatusInput{})
	require.NoError(t, err)
	assert.Equal(t, "button shown, button at (30,90)", resultText(t, res))
	assert.True(t, out.ButtonActive)
	assert.False(t, out.LockActive)
	assert.Equal(t, 30, out.ButtonX)
	assert.Equal(t, int64(12), out.UptimeSeconds)
}

func TestHandleStatusLocked(t *testing.T) {
	d := &fakeDaemon{status: ipc.StatusData{LockActive: true, ButtonY: 100}}
	s := newTestServer(d)

	res, _, err := s.handleStatus(context.Background(), nil, StatusInput{})
	require.NoError(t, err)
	assert.Equal(t, "locked, button at (0,100)", resultText(t, res))
}

func TestHandleLockUnlock(t *testing.T) {
	d := &fakeDaemon{}
	s := newTestServer(d)

	_, out, err := s.handleLock(context.Background(), nil, LockInput{})
	require.NoError(t, err)
	assert.Equal(t, ActionOutput{OK: true, Action: "lock"}, out)

	_, out, err = s.handleUnlock(context.Background(), nil, UnlockInput{})
	require.NoError(t, err)
	assert.Equal(t, "unlock", out.Action)

	assert.Equal(t, 1, d.locks)
	assert.Equal(t, 1, d.unlocks)
}

func TestSignalHandlers(t *testing.T) {
	d := &fakeDaemon{}
	s := newTestServer(d)

	res, out, err := s.signalHandler(coord.HideButton)(context.Background(), nil, SignalInput{})
	require.NoError(t, err)
	assert.Equal(t, "Published hide_button", resultText(t, res))
	assert.Equal(t, "hide_button", out.Action)

	_, _, err = s.signalHandler(coord.ShowButton)(context.Background(), nil, SignalInput{})
	require.NoError(t, err)

	assert.Equal(t, []coord.Signal{coord.HideButton, coord.ShowButton}, d.published)
}

func TestHandleResetPosition(t *testing.T) {
	d := &fakeDaemon{}
	s := newTestServer(d)

	_, out, err := s.handleResetPosition(context.Background(), nil, ResetPositionInput{})
	require.NoError(t, err)
	assert.True(t, out.OK)
	assert.Equal(t, 1, d.resets)
}

func TestErrorsAreWrapped(t *testing.T) {
	daemonErr := errors.New("failed to connect to daemon")
	d := &fakeDaemon{err: daemonErr}
	s := newTestServer(d)

	_, _, err := s.handleStatus(context.Background(), nil, StatusInput{})
	assert.ErrorIs(t, err, daemonErr)

	_, _, err = s.handleLock(context.Background(), nil, LockInput{})
	assert.ErrorIs(t, err, daemonErr)
	assert.Contains(t, err.Error(), "failed to lock")

	_, _, err = s.signalHandler(coord.ShowButton)(context.Background(), nil, SignalInput{})
	assert.ErrorIs(t, err, daemonErr)
	assert.Empty(t, d.published)
}
