package usecase

import (
	"github.com/ca-srg/xbmon/domain/entity"
	"github.com/ca-srg/xbmon/domain/valueobject"
)

// PollOutcome summarizes one completed poll cycle for the loop driver
type PollOutcome struct {
	// Status is the presence status after this poll. The driver selects the
	// next sleep interval from it.
	Status valueobject.PresenceStatus

	// Activity is the foreground activity after this poll, empty when none.
	Activity string

	// Changed reports whether this poll produced any transition. The driver
	// resets its heartbeat counter on change.
	Changed bool
}

// PresenceMonitorService drives the monitoring of a single identity: fetch
// presence, detect transitions, route notifications, persist the checkpoint
type PresenceMonitorService interface {
	// Initialize performs the startup sequence: connectivity probe and
	// identity resolution. Any error is fatal; the caller must not enter
	// the poll loop.
	Initialize() error

	// Poll performs one fetch-detect-notify cycle. A transient fetch or
	// normalization failure is returned without mutating the session state;
	// the caller retries on its next tick.
	Poll() (*PollOutcome, error)

	// Profile returns the resolved identity. Valid after Initialize.
	Profile() *entity.XboxProfile

	// SessionSnapshot returns a copy of the current session accounting.
	SessionSnapshot() *entity.SessionState

	// CurrentStatus returns the last known presence status, StatusUnknown
	// before the first successful poll.
	CurrentStatus() valueobject.PresenceStatus

	// PollCounts returns the cumulative poll and poll-error counters.
	PollCounts() (polls int64, pollErrors int64)
}
