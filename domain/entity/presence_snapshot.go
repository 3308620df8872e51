package entity

import (
	"fmt"
	"time"

	"github.com/ca-srg/xbmon/domain/valueobject"
)

// PresenceSnapshot represents the canonical presence of the monitored
// identity at a single poll. It is the only shape downstream logic sees;
// the raw API payload never leaves the repository that produced it.
type PresenceSnapshot struct {
	status       valueobject.PresenceStatus
	activityName string
	platform     string
	lastOnlineAt time.Time
}

// NewPresenceSnapshot creates a new PresenceSnapshot with validation
func NewPresenceSnapshot(
	status valueobject.PresenceStatus,
	activityName string,
	platform string,
) (*PresenceSnapshot, error) {
	if status == "" {
		return nil, fmt.Errorf("presence status cannot be empty")
	}

	return &PresenceSnapshot{
		status:       status,
		activityName: activityName,
		platform:     platform,
	}, nil
}

// NewPresenceSnapshotWithLastOnline creates a PresenceSnapshot carrying the
// API's last-seen time. Only meaningful for offline snapshots; a zero
// lastOnlineAt is the degraded sentinel for an unparseable timestamp and
// callers must not treat it as a real time.
func NewPresenceSnapshotWithLastOnline(
	status valueobject.PresenceStatus,
	activityName string,
	platform string,
	lastOnlineAt time.Time,
) (*PresenceSnapshot, error) {
	snapshot, err := NewPresenceSnapshot(status, activityName, platform)
	if err != nil {
		return nil, err
	}
	snapshot.lastOnlineAt = lastOnlineAt
	return snapshot, nil
}

// Status returns the canonical presence status
func (p *PresenceSnapshot) Status() valueobject.PresenceStatus {
	return p.status
}

// ActivityName returns the foreground activity, empty when none qualifies
func (p *PresenceSnapshot) ActivityName() string {
	return p.activityName
}

// Platform returns the normalized device label, empty when unknown
func (p *PresenceSnapshot) Platform() string {
	return p.platform
}

// LastOnlineAt returns the last-seen time reported by the API, zero when absent
func (p *PresenceSnapshot) LastOnlineAt() time.Time {
	return p.lastOnlineAt
}

// HasActivity checks whether a foreground activity was detected
func (p *PresenceSnapshot) HasActivity() bool {
	return p.activityName != ""
}

// HasLastOnline checks whether a usable last-seen time is present
func (p *PresenceSnapshot) HasLastOnline() bool {
	return !p.lastOnlineAt.IsZero()
}
