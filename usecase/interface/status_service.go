package usecase

import (
	"time"

	"github.com/ca-srg/xbmon/domain/valueobject"
)

// StatusInfo represents the current status of the application
type StatusInfo struct {
	// IsRunning indicates whether the daemon is currently running
	IsRunning bool

	// Gamertag is the monitored identity
	Gamertag string

	// PresenceStatus is the last observed presence status
	PresenceStatus valueobject.PresenceStatus

	// Activity is the last observed foreground activity (empty when none)
	Activity string

	// StatusSince is when the current presence status began
	StatusSince *time.Time

	// OnlineSince is when the current online session started (nil when offline)
	OnlineSince *time.Time

	// LastPollAt is the timestamp of the last completed poll
	LastPollAt *time.Time

	// NextPollAt is the timestamp when the next poll is scheduled
	NextPollAt *time.Time

	// PollCount is the total number of polls attempted
	PollCount int64

	// PollErrorCount is the total number of failed polls
	PollErrorCount int64

	// LastError is the last error that occurred (if any)
	LastError error

	// LastErrorAt is the timestamp of the last error
	LastErrorAt *time.Time

	// DaemonStartedAt is the timestamp when the daemon was started
	DaemonStartedAt *time.Time
}

// StatusService provides status information about the application
type StatusService interface {
	// GetStatus returns the current status information
	GetStatus() (*StatusInfo, error)

	// UpdateLastPoll updates the last and next poll timestamps
	UpdateLastPoll(polledAt time.Time, nextAt time.Time) error

	// UpdatePresence updates the observed presence fields
	UpdatePresence(status valueobject.PresenceStatus, activity string, statusSince time.Time, onlineSince time.Time) error

	// UpdatePollCounts updates the cumulative poll counters
	UpdatePollCounts(polls int64, pollErrors int64) error

	// RecordError records an error that occurred
	RecordError(err error) error

	// ClearError clears the last error
	ClearError() error

	// SetDaemonStarted sets the daemon started timestamp and identity
	SetDaemonStarted(startedAt time.Time, gamertag string) error

	// SetDaemonStopped clears the daemon runtime information
	SetDaemonStopped() error
}
