package impl

import (
	"time"

	"github.com/ca-srg/xbmon/domain/entity"
	"github.com/ca-srg/xbmon/domain/valueobject"
)

// presenceTracker is the session accounting state machine. It consumes one
// normalized snapshot per poll and produces transition events plus the
// checkpoint record that must be persisted. It never performs I/O; the
// monitor service owns fetching, notification routing, and persistence.
//
// A failed poll must simply not call Process, which leaves the state
// untouched until the next successful fetch.
type presenceTracker struct {
	gamertag         string
	offlineInterrupt time.Duration

	state        *entity.SessionState
	record       *entity.StatusRecord
	bootstrapped bool
}

// newPresenceTracker creates a tracker seeded with the persisted checkpoint
// record, or nil when no checkpoint exists yet.
func newPresenceTracker(gamertag string, offlineInterrupt time.Duration, persisted *entity.StatusRecord) *presenceTracker {
	return &presenceTracker{
		gamertag:         gamertag,
		offlineInterrupt: offlineInterrupt,
		state:            entity.NewSessionState(),
		record:           persisted,
	}
}

// SetOfflineInterrupt updates the resume threshold. Applied on config reload.
func (t *presenceTracker) SetOfflineInterrupt(d time.Duration) {
	t.offlineInterrupt = d
}

// State returns the live session state. Callers that need an isolated copy
// must Clone it.
func (t *presenceTracker) State() *entity.SessionState {
	return t.state
}

// Record returns the current checkpoint record.
func (t *presenceTracker) Record() *entity.StatusRecord {
	return t.record
}

// Process applies one snapshot observed at now. It returns the transition
// events in emission order and whether the checkpoint record changed and
// must be written out.
func (t *presenceTracker) Process(snapshot *entity.PresenceSnapshot, now time.Time) ([]*entity.PresenceEvent, bool) {
	if !t.bootstrapped {
		t.bootstrapped = true
		return nil, t.bootstrap(snapshot, now)
	}

	s := t.state
	s.ActivityTotalAlreadyCounted = false

	var events []*entity.PresenceEvent
	recordChanged := false

	newStatus := snapshot.Status()
	newActivity := snapshot.ActivityName()

	if newStatus != s.PreviousStatus {
		ev := entity.NewPresenceEvent(entity.EventStatusChanged, t.gamertag, now)
		ev.OldStatus = s.PreviousStatus
		ev.NewStatus = newStatus
		ev.DurationInPrevious = now.Sub(s.StatusSince)
		ev.Platform = snapshot.Platform()
		if snapshot.HasLastOnline() {
			ev.LastOnlineAt = snapshot.LastOnlineAt()
		}

		switch {
		case s.PreviousStatus.IsOffline() && newStatus.IsActive():
			// Coming back within the interrupt window continues the
			// previous online session instead of opening a new one.
			if ev.DurationInPrevious <= t.offlineInterrupt && !s.PreviousOnlineSessionStartedAt.IsZero() {
				s.OnlineSessionStartedAt = s.PreviousOnlineSessionStartedAt
			} else {
				s.OnlineSessionStartedAt = now
				s.SessionActivityTotal = 0
				s.SessionActivityCount = 0
			}
			s.PreviousOnlineSessionStartedAt = time.Time{}
			ev.OnlineSince = s.OnlineSessionStartedAt

		case s.PreviousStatus.IsActive() && newStatus.IsOffline():
			if s.PreviousActivity != "" {
				s.SessionActivityTotal += now.Sub(s.ActivitySince)
				s.ActivityTotalAlreadyCounted = true
			}
			ev.OnlineSince = s.OnlineSessionStartedAt
			if !s.OnlineSessionStartedAt.IsZero() {
				ev.OnlineDuration = now.Sub(s.OnlineSessionStartedAt)
			}
			ev.SessionActivityTotal = s.SessionActivityTotal
			ev.SessionActivityCount = s.SessionActivityCount
			s.PreviousOnlineSessionStartedAt = s.OnlineSessionStartedAt
			s.OnlineSessionStartedAt = time.Time{}

		default:
			// online <-> away: the session continues
			ev.OnlineSince = s.OnlineSessionStartedAt
		}

		t.record = entity.NewStatusRecord(now, newStatus)
		recordChanged = true
		s.StatusSince = now
		events = append(events, ev)
	}

	// Activity transitions are evaluated independently of the status
	// branch so that a single poll can report both.
	if newActivity != s.PreviousActivity {
		elapsed := now.Sub(s.ActivitySince)

		switch {
		case s.PreviousActivity == "":
			s.SessionActivityCount++
			ev := entity.NewPresenceEvent(entity.EventActivityStarted, t.gamertag, now)
			ev.Activity = newActivity
			ev.NewStatus = newStatus
			ev.Platform = snapshot.Platform()
			ev.SessionActivityCount = s.SessionActivityCount
			events = append(events, ev)

		case newActivity != "":
			if !s.ActivityTotalAlreadyCounted {
				s.SessionActivityTotal += elapsed
			}
			s.SessionActivityCount++
			ev := entity.NewPresenceEvent(entity.EventActivityChanged, t.gamertag, now)
			ev.PreviousActivity = s.PreviousActivity
			ev.Activity = newActivity
			ev.NewStatus = newStatus
			ev.Platform = snapshot.Platform()
			ev.ActivityDuration = elapsed
			ev.SessionActivityTotal = s.SessionActivityTotal
			ev.SessionActivityCount = s.SessionActivityCount
			events = append(events, ev)

		default:
			if !s.ActivityTotalAlreadyCounted {
				s.SessionActivityTotal += elapsed
			}
			ev := entity.NewPresenceEvent(entity.EventActivityEnded, t.gamertag, now)
			ev.PreviousActivity = s.PreviousActivity
			ev.NewStatus = newStatus
			ev.ActivityDuration = elapsed
			ev.SessionActivityTotal = s.SessionActivityTotal
			ev.SessionActivityCount = s.SessionActivityCount
			events = append(events, ev)
		}

		s.ActivitySince = now
		s.PreviousActivity = newActivity
	}

	s.PreviousStatus = newStatus
	s.CurrentStatus = newStatus
	s.CurrentActivity = newActivity

	return events, recordChanged
}

// bootstrap reconciles the first live snapshot against the persisted
// checkpoint so that restarts do not reset how long the identity has been
// in its current status.
func (t *presenceTracker) bootstrap(snapshot *entity.PresenceSnapshot, now time.Time) bool {
	s := t.state
	status := snapshot.Status()

	statusSince := now
	if t.record != nil && t.record.Status == status {
		statusSince = t.record.LastChangeAt
	}
	if status.IsOffline() && snapshot.HasLastOnline() {
		// The service's own last-seen timestamp is usually fresher than
		// our checkpoint; the more recent of the two wins.
		statusSince = snapshot.LastOnlineAt()
		if t.record != nil && t.record.LastChangeAt.After(statusSince) {
			statusSince = t.record.LastChangeAt
		}
	}

	s.CurrentStatus = status
	s.PreviousStatus = status
	s.StatusSince = statusSince

	if status.IsActive() {
		s.OnlineSessionStartedAt = statusSince
	}

	activity := snapshot.ActivityName()
	s.CurrentActivity = activity
	s.PreviousActivity = activity
	s.ActivitySince = now
	if activity != "" {
		s.SessionActivityCount = 1
	}

	recordChanged := t.record == nil || t.record.Status != status
	if recordChanged {
		t.record = entity.NewStatusRecord(statusSince, status)
	}
	return recordChanged
}

// statusForInterval maps the tracker state to the status the poll loop uses
// for interval selection before the first successful poll.
func (t *presenceTracker) statusForInterval() valueobject.PresenceStatus {
	if !t.bootstrapped {
		return valueobject.StatusUnknown
	}
	return t.state.CurrentStatus
}
