package impl

import (
	"sync"
	"time"

	usecase "github.com/ca-srg/xbmon/usecase/interface"
)

// minActiveCheckInterval is the floor for signal-driven interval changes so
// repeated decrements cannot drive the poller into a hot loop.
const minActiveCheckInterval = 30 * time.Second

// RuntimeSettingsImpl implements RuntimeSettings with a mutex-guarded
// snapshot. Signal handlers, the tray menu, and the config watcher all write
// here while the poll loop reads.
type RuntimeSettingsImpl struct {
	mu       sync.RWMutex
	snapshot usecase.RuntimeSnapshot
}

// NewRuntimeSettings creates runtime settings seeded from the initial
// configuration snapshot.
func NewRuntimeSettings(initial usecase.RuntimeSnapshot) usecase.RuntimeSettings {
	return &RuntimeSettingsImpl{snapshot: initial}
}

// CheckInterval returns the poll interval used while offline or unknown
func (r *RuntimeSettingsImpl) CheckInterval() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot.CheckInterval
}

// ActiveCheckInterval returns the poll interval used while online or away
func (r *RuntimeSettingsImpl) ActiveCheckInterval() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot.ActiveCheckInterval
}

// AdjustActiveCheckInterval changes the active poll interval by delta,
// clamped to the floor, and returns the new value
func (r *RuntimeSettingsImpl) AdjustActiveCheckInterval(delta time.Duration) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := r.snapshot.ActiveCheckInterval + delta
	if next < minActiveCheckInterval {
		next = minActiveCheckInterval
	}
	r.snapshot.ActiveCheckInterval = next
	return next
}

// OfflineInterrupt returns the session resume threshold
func (r *RuntimeSettingsImpl) OfflineInterrupt() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot.OfflineInterrupt
}

// ActiveInactiveNotify reports whether boundary emails are enabled
func (r *RuntimeSettingsImpl) ActiveInactiveNotify() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot.ActiveInactiveNotify
}

// ToggleActiveInactiveNotify flips the boundary email toggle
func (r *RuntimeSettingsImpl) ToggleActiveInactiveNotify() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshot.ActiveInactiveNotify = !r.snapshot.ActiveInactiveNotify
	return r.snapshot.ActiveInactiveNotify
}

// GameChangeNotify reports whether activity emails are enabled
func (r *RuntimeSettingsImpl) GameChangeNotify() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot.GameChangeNotify
}

// ToggleGameChangeNotify flips the activity email toggle
func (r *RuntimeSettingsImpl) ToggleGameChangeNotify() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshot.GameChangeNotify = !r.snapshot.GameChangeNotify
	return r.snapshot.GameChangeNotify
}

// StatusNotify reports whether every status change sends an email
func (r *RuntimeSettingsImpl) StatusNotify() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot.StatusNotify
}

// ToggleStatusNotify flips the all-status email toggle
func (r *RuntimeSettingsImpl) ToggleStatusNotify() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshot.StatusNotify = !r.snapshot.StatusNotify
	return r.snapshot.StatusNotify
}

// ErrorNotify reports whether polling error emails are enabled
func (r *RuntimeSettingsImpl) ErrorNotify() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot.ErrorNotify
}

// DesktopNotify reports whether desktop notifications are enabled
func (r *RuntimeSettingsImpl) DesktopNotify() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot.DesktopNotify
}

// ActivityWatchlist returns the activity glob patterns
func (r *RuntimeSettingsImpl) ActivityWatchlist() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.snapshot.ActivityWatchlist))
	copy(out, r.snapshot.ActivityWatchlist)
	return out
}

// Apply replaces the runtime values with the given snapshot
func (r *RuntimeSettingsImpl) Apply(snapshot usecase.RuntimeSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if snapshot.ActiveCheckInterval < minActiveCheckInterval {
		snapshot.ActiveCheckInterval = minActiveCheckInterval
	}
	r.snapshot = snapshot
}

// Snapshot returns a copy of the current values
func (r *RuntimeSettingsImpl) Snapshot() usecase.RuntimeSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := r.snapshot
	out.ActivityWatchlist = make([]string, len(r.snapshot.ActivityWatchlist))
	copy(out.ActivityWatchlist, r.snapshot.ActivityWatchlist)
	return out
}
