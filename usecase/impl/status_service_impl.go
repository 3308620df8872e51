package impl

import (
	"sync"
	"time"

	"github.com/ca-srg/xbmon/domain/valueobject"
	usecase "github.com/ca-srg/xbmon/usecase/interface"
)

// StatusServiceImpl implements StatusService
type StatusServiceImpl struct {
	mu     sync.RWMutex
	status *usecase.StatusInfo
}

// NewStatusService creates a new instance of StatusService
func NewStatusService() usecase.StatusService {
	return &StatusServiceImpl{
		status: &usecase.StatusInfo{
			IsRunning:      false,
			PresenceStatus: valueobject.StatusUnknown,
		},
	}
}

// GetStatus returns the current status information
func (s *StatusServiceImpl) GetStatus() (*usecase.StatusInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Create a copy to avoid concurrent modification
	statusCopy := &usecase.StatusInfo{
		IsRunning:       s.status.IsRunning,
		Gamertag:        s.status.Gamertag,
		PresenceStatus:  s.status.PresenceStatus,
		Activity:        s.status.Activity,
		StatusSince:     s.status.StatusSince,
		OnlineSince:     s.status.OnlineSince,
		LastPollAt:      s.status.LastPollAt,
		NextPollAt:      s.status.NextPollAt,
		PollCount:       s.status.PollCount,
		PollErrorCount:  s.status.PollErrorCount,
		LastError:       s.status.LastError,
		LastErrorAt:     s.status.LastErrorAt,
		DaemonStartedAt: s.status.DaemonStartedAt,
	}

	return statusCopy, nil
}

// UpdateLastPoll updates the last and next poll timestamps
func (s *StatusServiceImpl) UpdateLastPoll(polledAt time.Time, nextAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status.LastPollAt = &polledAt
	s.status.NextPollAt = &nextAt
	return nil
}

// UpdatePresence updates the observed presence fields
func (s *StatusServiceImpl) UpdatePresence(status valueobject.PresenceStatus, activity string, statusSince time.Time, onlineSince time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status.PresenceStatus = status
	s.status.Activity = activity
	if statusSince.IsZero() {
		s.status.StatusSince = nil
	} else {
		s.status.StatusSince = &statusSince
	}
	if onlineSince.IsZero() {
		s.status.OnlineSince = nil
	} else {
		s.status.OnlineSince = &onlineSince
	}
	return nil
}

// UpdatePollCounts updates the cumulative poll counters
func (s *StatusServiceImpl) UpdatePollCounts(polls int64, pollErrors int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status.PollCount = polls
	s.status.PollErrorCount = pollErrors
	return nil
}

// RecordError records an error that occurred
func (s *StatusServiceImpl) RecordError(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.status.LastError = err
	s.status.LastErrorAt = &now
	return nil
}

// ClearError clears the last error
func (s *StatusServiceImpl) ClearError() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status.LastError = nil
	s.status.LastErrorAt = nil
	return nil
}

// SetDaemonStarted sets the daemon started timestamp and identity
func (s *StatusServiceImpl) SetDaemonStarted(startedAt time.Time, gamertag string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status.IsRunning = true
	s.status.DaemonStartedAt = &startedAt
	s.status.Gamertag = gamertag
	return nil
}

// SetDaemonStopped clears the daemon runtime information
func (s *StatusServiceImpl) SetDaemonStopped() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status.IsRunning = false
	s.status.DaemonStartedAt = nil
	s.status.NextPollAt = nil
	return nil
}
