package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSelectsBackend(t *testing.T) {
	n, err := New("none", nil)
	require.NoError(t, err)
	assert.IsType(t, Nop{}, n)

	n, err = New("LOG", nil)
	require.NoError(t, err)
	assert.IsType(t, &Log{}, n)

	_, err = New("pigeon", nil)
	assert.Error(t, err)
}

func TestAutoFallsBackWithoutSessionBus(t *testing.T) {
	t.Setenv("DBUS_SESSION_BUS_ADDRESS", "unix:path=/nonexistent/floatlock-test-bus")

	n, err := New("auto", nil)
	require.NoError(t, err)
	assert.NotNil(t, n)
	assert.NoError(t, n.Notify("Lock button added", ""))
}

func TestRecorder(t *testing.T) {
	var r Recorder
	require.NoError(t, r.Notify("Lock button added", ""))
	require.NoError(t, r.Notify("Lock button removed", "daemon stopped"))
	assert.Equal(t, []string{"Lock button added", "Lock button removed: daemon stopped"}, r.Messages())
}
