package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/ca-srg/xbmon/domain/valueobject"
)

// PresenceEventKind identifies the transition an event describes
type PresenceEventKind string

const (
	// EventStatusChanged fires when the presence status changed between polls
	EventStatusChanged PresenceEventKind = "status_changed"

	// EventActivityStarted fires when an activity began with none before
	EventActivityStarted PresenceEventKind = "activity_started"

	// EventActivityChanged fires when one activity replaced another
	EventActivityChanged PresenceEventKind = "activity_changed"

	// EventActivityEnded fires when an activity stopped with none after
	EventActivityEnded PresenceEventKind = "activity_ended"
)

// PresenceEvent is a single transition emitted by the tracker and routed to
// the notification sinks. Fields beyond Kind/Gamertag/OccurredAt are
// populated per kind: status events carry the old/new status pair and, when
// leaving online, the closed session's figures; activity events carry the
// activity names and the elapsed duration of the activity that ended.
type PresenceEvent struct {
	ID         string
	Kind       PresenceEventKind
	Gamertag   string
	OccurredAt time.Time

	OldStatus valueobject.PresenceStatus
	NewStatus valueobject.PresenceStatus

	// DurationInPrevious is how long the previous status lasted.
	DurationInPrevious time.Duration

	// OnlineSince and OnlineDuration describe the online session being
	// closed; set only when leaving online.
	OnlineSince    time.Time
	OnlineDuration time.Duration

	// SessionActivityTotal and SessionActivityCount summarize the closed
	// session's foreground-activity accounting; set only when leaving online.
	SessionActivityTotal time.Duration
	SessionActivityCount int

	Activity         string
	PreviousActivity string

	// ActivityDuration is the elapsed time of the activity that ended or was
	// replaced.
	ActivityDuration time.Duration

	Platform string

	// LastOnlineAt carries the API-reported last-seen time when the new
	// status is offline and one was available.
	LastOnlineAt time.Time
}

// NewPresenceEvent creates an event with a fresh unique ID
func NewPresenceEvent(kind PresenceEventKind, gamertag string, occurredAt time.Time) *PresenceEvent {
	return &PresenceEvent{
		ID:         uuid.NewString(),
		Kind:       kind,
		Gamertag:   gamertag,
		OccurredAt: occurredAt,
	}
}

// IsStatusChange checks whether the event describes a status transition
func (e *PresenceEvent) IsStatusChange() bool {
	return e.Kind == EventStatusChanged
}

// IsActivityChange checks whether the event describes an activity transition
func (e *PresenceEvent) IsActivityChange() bool {
	switch e.Kind {
	case EventActivityStarted, EventActivityChanged, EventActivityEnded:
		return true
	default:
		return false
	}
}

// LeftOnline checks whether the event closes an online session
func (e *PresenceEvent) LeftOnline() bool {
	return e.Kind == EventStatusChanged && e.OldStatus.IsActive() && e.NewStatus.IsOffline()
}

// WentOnline checks whether the event opens an online session
func (e *PresenceEvent) WentOnline() bool {
	return e.Kind == EventStatusChanged && e.OldStatus.IsOffline() && e.NewStatus.IsActive()
}
