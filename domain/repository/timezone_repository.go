package repository

import (
	"time"
)

// TimezoneService defines the interface for timezone-related operations.
// The monitor renders every timestamp in the operator's local zone; the API
// reports times in UTC.
type TimezoneService interface {
	// GetUserTimezone returns the user's local timezone
	GetUserTimezone() (*time.Location, error)

	// GetConfiguredTimezone returns the configured timezone, falling back to
	// the user's local timezone when none is configured
	GetConfiguredTimezone() (*time.Location, error)

	// ConvertToUserTime converts a UTC time to the user's local time
	ConvertToUserTime(utcTime time.Time) time.Time

	// FormatTimeForUser formats a time in the user's timezone
	FormatTimeForUser(t time.Time, layout string) string

	// GetTimezoneInfo returns timezone information for logging
	GetTimezoneInfo() TimezoneInfo
}

// TimezoneInfo contains timezone information for logging and diagnostics
type TimezoneInfo struct {
	// Name is the timezone name (e.g., "Europe/Warsaw", "America/New_York")
	Name string

	// Offset is the UTC offset in the format "+02:00" or "-05:00"
	Offset string

	// OffsetSeconds is the offset from UTC in seconds
	OffsetSeconds int

	// IsDST indicates whether daylight saving time is currently active
	IsDST bool

	// DetectionMethod indicates how the timezone was determined
	// Values: "system", "config", "fallback"
	DetectionMethod string
}
