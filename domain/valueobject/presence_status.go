package valueobject

import (
	"fmt"
	"strings"
)

// PresenceStatus represents the canonical presence state of a monitored identity
type PresenceStatus string

const (
	// StatusOnline indicates the user is online and active
	StatusOnline PresenceStatus = "online"

	// StatusAway indicates the user is online but idle
	StatusAway PresenceStatus = "away"

	// StatusOffline indicates the user is not connected
	StatusOffline PresenceStatus = "offline"

	// StatusUnknown indicates a status value the API returned that is not recognized
	StatusUnknown PresenceStatus = "unknown"
)

// ParsePresenceStatus converts a raw status string from the presence API into
// a PresenceStatus. An absent or empty status is a soft failure reported to
// the caller; any recognized value maps to its enum constant and any other
// non-empty value maps to StatusUnknown.
func ParsePresenceStatus(raw string) (PresenceStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return StatusUnknown, fmt.Errorf("empty presence status")
	}

	switch normalized {
	case "online":
		return StatusOnline, nil
	case "away":
		return StatusAway, nil
	case "offline":
		return StatusOffline, nil
	default:
		return StatusUnknown, nil
	}
}

// String returns the lower-cased status label
func (s PresenceStatus) String() string {
	return string(s)
}

// Display returns the upper-cased status label used in notifications
func (s PresenceStatus) Display() string {
	return strings.ToUpper(string(s))
}

// IsOffline checks whether the status is offline
func (s PresenceStatus) IsOffline() bool {
	return s == StatusOffline
}

// IsActive checks whether the status counts as an active (non-offline) state.
// Active statuses drive the shorter polling cadence and keep an online
// session open.
func (s PresenceStatus) IsActive() bool {
	return s != StatusOffline && s != ""
}

// GaugeValue maps the status onto the numeric scale published as a metric:
// offline=0, away=1, online=2, unknown=-1.
func (s PresenceStatus) GaugeValue() float64 {
	switch s {
	case StatusOffline:
		return 0
	case StatusAway:
		return 1
	case StatusOnline:
		return 2
	default:
		return -1
	}
}
