package repository

import (
	"time"

	"github.com/ca-srg/xbmon/domain/valueobject"
)

// PresenceMetricsRepository defines the interface for publishing presence
// metrics to external systems
type PresenceMetricsRepository interface {
	// SendPresenceStatus publishes the current status as a gauge
	// (offline=0, away=1, online=2, unknown=-1).
	SendPresenceStatus(gamertag string, status valueobject.PresenceStatus) error

	// SendPollCounters publishes the cumulative poll and poll-error counters.
	SendPollCounters(gamertag string, polls int64, pollErrors int64) error

	// SendSessionActivity publishes the current session's accumulated
	// foreground-activity time and activity count.
	SendSessionActivity(gamertag string, total time.Duration, count int) error

	// Close cleans up any resources used by the metrics repository
	Close() error
}

// MetricsRepositoryError represents errors from the metrics repository
type MetricsRepositoryError struct {
	Operation string
	Err       error
}

func (e *MetricsRepositoryError) Error() string {
	if e.Err != nil {
		return "metrics repository error in " + e.Operation + ": " + e.Err.Error()
	}
	return "metrics repository error in " + e.Operation
}

func (e *MetricsRepositoryError) Unwrap() error {
	return e.Err
}

// NewMetricsRepositoryError creates a new metrics repository error
func NewMetricsRepositoryError(operation string, err error) error {
	return &MetricsRepositoryError{
		Operation: operation,
		Err:       err,
	}
}
