package usecase

import (
	"time"

	"github.com/ca-srg/xbmon/infrastructure/config"
)

// RuntimeSettings holds the monitor knobs that can change while the daemon
// runs, via signals, the tray menu, or a config file reload. All methods are
// safe for concurrent use.
type RuntimeSettings interface {
	// CheckInterval returns the poll interval used while the identity is
	// offline or unknown.
	CheckInterval() time.Duration

	// ActiveCheckInterval returns the poll interval used while the identity
	// is online or away.
	ActiveCheckInterval() time.Duration

	// AdjustActiveCheckInterval changes the active poll interval by delta,
	// clamped to the configured floor, and returns the new value.
	AdjustActiveCheckInterval(delta time.Duration) time.Duration

	// OfflineInterrupt returns the longest offline gap that still counts as
	// an interruption of the same online session.
	OfflineInterrupt() time.Duration

	// ActiveInactiveNotify reports whether online/offline boundary emails
	// are enabled.
	ActiveInactiveNotify() bool

	// ToggleActiveInactiveNotify flips the boundary email toggle and
	// returns the new value.
	ToggleActiveInactiveNotify() bool

	// GameChangeNotify reports whether activity change emails are enabled.
	GameChangeNotify() bool

	// ToggleGameChangeNotify flips the activity email toggle and returns
	// the new value.
	ToggleGameChangeNotify() bool

	// StatusNotify reports whether every status change sends an email.
	StatusNotify() bool

	// ToggleStatusNotify flips the all-status email toggle and returns the
	// new value.
	ToggleStatusNotify() bool

	// ErrorNotify reports whether polling error emails are enabled.
	ErrorNotify() bool

	// DesktopNotify reports whether desktop notifications are enabled.
	DesktopNotify() bool

	// ActivityWatchlist returns the glob patterns that restrict activity
	// notifications. Empty means notify for every activity.
	ActivityWatchlist() []string

	// Apply replaces the runtime values with the given snapshot. Used by
	// the config file watcher.
	Apply(snapshot RuntimeSnapshot)

	// Snapshot returns a copy of the current values.
	Snapshot() RuntimeSnapshot
}

// RuntimeSnapshot is a point-in-time copy of the runtime settings
type RuntimeSnapshot struct {
	CheckInterval        time.Duration
	ActiveCheckInterval  time.Duration
	OfflineInterrupt     time.Duration
	ActiveInactiveNotify bool
	GameChangeNotify     bool
	StatusNotify         bool
	ErrorNotify          bool
	DesktopNotify        bool
	ActivityWatchlist    []string
}

// SnapshotFromConfig builds a runtime snapshot from the loaded configuration.
// Used to seed the settings at startup and to apply a config file reload.
func SnapshotFromConfig(cfg *config.AppConfig) RuntimeSnapshot {
	snapshot := RuntimeSnapshot{}
	if cfg.Monitor != nil {
		snapshot.CheckInterval = time.Duration(cfg.Monitor.CheckIntervalSec) * time.Second
		snapshot.ActiveCheckInterval = time.Duration(cfg.Monitor.ActiveCheckIntervalSec) * time.Second
		snapshot.OfflineInterrupt = time.Duration(cfg.Monitor.OfflineInterruptSec) * time.Second
		snapshot.ActivityWatchlist = append([]string(nil), cfg.Monitor.ActivityWatchlist...)
	}
	if cfg.Notification != nil {
		snapshot.ActiveInactiveNotify = cfg.Notification.ActiveInactiveNotify
		snapshot.GameChangeNotify = cfg.Notification.GameChangeNotify
		snapshot.StatusNotify = cfg.Notification.StatusNotify
		snapshot.ErrorNotify = cfg.Notification.ErrorNotify
		snapshot.DesktopNotify = cfg.Notification.DesktopNotify
	}
	return snapshot
}
