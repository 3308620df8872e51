package repository

import (
	"github.com/ca-srg/xbmon/domain/entity"
)

// CSVReportRepository defines the interface for the transition report file.
// Every status and activity transition appends one row with the columns
// Date / Status / Activity.
type CSVReportRepository interface {
	// Append writes one row for the event. The header is written when the
	// file is first created.
	Append(event *entity.PresenceEvent) error

	// IsEnabled reports whether a report file is configured.
	IsEnabled() bool
}
