package notify

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	notificationsService   = "org.freedesktop.Notifications"
	notificationsPath      = "/org/freedesktop/Notifications"
	notificationsInterface = "org.freedesktop.Notifications"

	appName = "floatlock"

	// expireTimeout is in milliseconds; short-lived like a toast.
	expireTimeout int32 = 2000
)

// DBus sends desktop notifications through the freedesktop notification
// service on the session bus.
type DBus struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// NewDBus connects to the session bus.
func NewDBus() (*DBus, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return &DBus{
		conn: conn,
		obj:  conn.Object(notificationsService, dbus.ObjectPath(notificationsPath)),
	}, nil
}

// Notify implements Notifier. Each message replaces nothing (replaces_id 0).
func (d *DBus) Notify(summary, body string) error {
	call := d.obj.Call(notificationsInterface+".Notify", 0,
		appName,
		uint32(0),
		"",
		summary,
		body,
		[]string{},
		map[string]dbus.Variant{
			"transient": dbus.MakeVariant(true),
		},
		expireTimeout,
	)
	if call.Err != nil {
		return fmt.Errorf("failed to send notification: %w", call.Err)
	}
	return nil
}
