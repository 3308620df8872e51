package entity

import (
	"time"

	"github.com/ca-srg/xbmon/domain/valueobject"
)

// SessionState holds the in-memory accounting for one monitored identity.
// It is created once at monitor start, mutated on every poll by the
// transition tracker (its only writer), and discarded on exit; only the
// StatusRecord survives restarts.
type SessionState struct {
	CurrentStatus  valueobject.PresenceStatus
	PreviousStatus valueobject.PresenceStatus

	// StatusSince is when the current status started.
	StatusSince time.Time

	// OnlineSessionStartedAt is the start of the current continuous online
	// session. Zero iff the current status is offline.
	OnlineSessionStartedAt time.Time

	// PreviousOnlineSessionStartedAt is retained across an offline gap so a
	// short interruption can resume the prior session.
	PreviousOnlineSessionStartedAt time.Time

	CurrentActivity  string
	PreviousActivity string

	// ActivitySince is when the current activity started.
	ActivitySince time.Time

	// SessionActivityTotal accumulates foreground-activity time for the
	// current online session. Monotonically non-decreasing within a session;
	// reset to zero only when a fresh (non-resumed) session starts.
	SessionActivityTotal time.Duration

	// SessionActivityCount is the number of distinct activities started in
	// the current online session.
	SessionActivityCount int

	// ActivityTotalAlreadyCounted guards against double-counting activity
	// time when an activity stop and an offline transition land in the same
	// poll.
	ActivityTotalAlreadyCounted bool
}

// NewSessionState creates an empty SessionState
func NewSessionState() *SessionState {
	return &SessionState{}
}

// Clone returns a copy of the state. SessionState has no reference fields,
// so a shallow copy is a full copy.
func (s *SessionState) Clone() *SessionState {
	if s == nil {
		return nil
	}
	clone := *s
	return &clone
}

// InOnlineSession checks whether an online session is currently open
func (s *SessionState) InOnlineSession() bool {
	return !s.OnlineSessionStartedAt.IsZero()
}

// HasActivity checks whether an activity is currently in progress
func (s *SessionState) HasActivity() bool {
	return s.CurrentActivity != ""
}
