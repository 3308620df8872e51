package valueobject

import (
	"fmt"
	"strings"
	"time"
)

// durationUnit pairs a unit name with its length in seconds. Years and months
// use the same calendar approximations as the notification texts of the
// original monitor scripts this tool descends from.
type durationUnit struct {
	name    string
	seconds int64
}

var durationUnits = []durationUnit{
	{"years", 31556952},
	{"months", 2629746},
	{"weeks", 604800},
	{"days", 86400},
	{"hours", 3600},
	{"minutes", 60},
	{"seconds", 1},
}

// FormatDuration converts a duration into a human readable string such as
// "2 hours, 5 minutes", keeping at most granularity units. Non-positive
// durations render as "0 seconds".
func FormatDuration(d time.Duration, granularity int) string {
	seconds := int64(d.Seconds())
	if seconds <= 0 {
		return "0 seconds"
	}
	if granularity <= 0 {
		granularity = 1
	}

	var parts []string
	for _, unit := range durationUnits {
		value := seconds / unit.seconds
		if value == 0 {
			continue
		}
		seconds -= value * unit.seconds
		name := unit.name
		if value == 1 {
			name = strings.TrimSuffix(name, "s")
		}
		parts = append(parts, fmt.Sprintf("%d %s", value, name))
	}
	if len(parts) > granularity {
		parts = parts[:granularity]
	}
	return strings.Join(parts, ", ")
}

// Timespan represents the interval between two instants. The constructor
// orders the endpoints, so Duration is always non-negative.
type Timespan struct {
	start time.Time
	end   time.Time
}

// NewTimespan creates a Timespan from two instants in either order
func NewTimespan(a time.Time, b time.Time) Timespan {
	if a.After(b) {
		a, b = b, a
	}
	return Timespan{start: a, end: b}
}

// Start returns the earlier endpoint
func (t Timespan) Start() time.Time {
	return t.start
}

// End returns the later endpoint
func (t Timespan) End() time.Time {
	return t.end
}

// Duration returns the span length
func (t Timespan) Duration() time.Duration {
	return t.end.Sub(t.start)
}

// Format renders the span as a human readable string with calendar-aware
// years and months (e.g. "1 month, 2 days, 3 hours"), keeping at most
// granularity units. Zero spans render as "0 seconds".
func (t Timespan) Format(granularity int) string {
	if granularity <= 0 {
		granularity = 1
	}
	if !t.end.After(t.start) {
		return "0 seconds"
	}

	// Walk whole calendar years and months from the start, then split the
	// remainder into fixed-length units.
	cursor := t.start
	years := 0
	for {
		next := cursor.AddDate(1, 0, 0)
		if next.After(t.end) {
			break
		}
		cursor = next
		years++
	}
	months := 0
	for {
		next := cursor.AddDate(0, 1, 0)
		if next.After(t.end) {
			break
		}
		cursor = next
		months++
	}

	remaining := int64(t.end.Sub(cursor).Seconds())
	weeks := remaining / 604800
	remaining -= weeks * 604800
	days := remaining / 86400
	remaining -= days * 86400
	hours := remaining / 3600
	remaining -= hours * 3600
	minutes := remaining / 60
	seconds := remaining - minutes*60

	values := []int64{int64(years), int64(months), weeks, days, hours, minutes, seconds}
	names := []string{"years", "months", "weeks", "days", "hours", "minutes", "seconds"}

	var parts []string
	for i, value := range values {
		if value == 0 {
			continue
		}
		name := names[i]
		if value == 1 {
			name = strings.TrimSuffix(name, "s")
		}
		parts = append(parts, fmt.Sprintf("%d %s", value, name))
	}
	if len(parts) == 0 {
		return "0 seconds"
	}
	if len(parts) > granularity {
		parts = parts[:granularity]
	}
	return strings.Join(parts, ", ")
}

// FormatDateRange renders the span as a date range such as
// "Sun 21 Apr 2024, 14:09:12 - 14:15:34". When both endpoints fall on the
// same local day the second endpoint is shortened to its time of day; the
// short form drops the year and seconds.
func (t Timespan) FormatDateRange(short bool) string {
	const sep = " - "
	sameDay := t.start.Format("20060102") == t.end.Format("20060102")

	if sameDay {
		if short {
			return FormatShortDate(t.start) + sep + FormatHourMin(t.end, false)
		}
		return FormatDate(t.start) + sep + FormatHourMin(t.end, true)
	}
	if short {
		return FormatShortDate(t.start) + sep + FormatShortDate(t.end)
	}
	return FormatDate(t.start) + sep + FormatDate(t.end)
}

// FormatDate returns the long human readable form, e.g. "Sun 21 Apr 2024, 15:08:45"
func FormatDate(t time.Time) string {
	return t.Format("Mon 02 Jan 2006, 15:04:05")
}

// FormatShortDate returns the short form without year and seconds, e.g. "Sun 21 Apr 15:08"
func FormatShortDate(t time.Time) string {
	return t.Format("Mon 02 Jan 15:04")
}

// FormatHourMin returns the time of day, e.g. "15:08" or "15:08:45"
func FormatHourMin(t time.Time, showSeconds bool) string {
	if showSeconds {
		return t.Format("15:04:05")
	}
	return t.Format("15:04")
}
