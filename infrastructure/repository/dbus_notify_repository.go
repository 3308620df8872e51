//go:build linux
// +build linux

package repository

import (
	"github.com/godbus/dbus/v5"

	"github.com/ca-srg/xbmon/domain"
	"github.com/ca-srg/xbmon/domain/repository"
)

const (
	notifyService   = "org.freedesktop.Notifications"
	notifyPath      = "/org/freedesktop/Notifications"
	notifyMethod    = "org.freedesktop.Notifications.Notify"
	notifyAppName   = "xbmon"
	notifyTimeoutMs = int32(-1)
)

// DBusNotifyRepository shows desktop notifications through the freedesktop
// notification service on the session bus.
type DBusNotifyRepository struct{}

// NewDesktopNotifyRepository creates the desktop notification repository for
// this platform
func NewDesktopNotifyRepository() repository.DesktopNotifyRepository {
	return &DBusNotifyRepository{}
}

// IsAvailable reports whether a session bus can be reached. Headless hosts
// and system services have none; callers fall back to log-only output.
func (r *DBusNotifyRepository) IsAvailable() bool {
	conn, err := dbus.SessionBus()
	return err == nil && conn != nil
}

// Notify shows a desktop notification. The session bus connection is shared
// process-wide and must not be closed here.
func (r *DBusNotifyRepository) Notify(summary string, body string) error {
	conn, err := dbus.SessionBus()
	if err != nil {
		return domain.ErrNotificationWithCause("desktop", err)
	}

	// Notify(app_name, replaces_id, app_icon, summary, body, actions,
	// hints, expire_timeout)
	obj := conn.Object(notifyService, dbus.ObjectPath(notifyPath))
	call := obj.Call(notifyMethod, 0, notifyAppName, uint32(0), "", summary, body,
		[]string{}, map[string]dbus.Variant{}, notifyTimeoutMs)
	if call.Err != nil {
		return domain.ErrNotificationWithCause("desktop", call.Err)
	}

	return nil
}
