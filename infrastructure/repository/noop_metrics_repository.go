package repository

import (
	"time"

	"github.com/ca-srg/xbmon/domain/repository"
	"github.com/ca-srg/xbmon/domain/valueobject"
)

// NoOpMetricsRepository is a no-op implementation of PresenceMetricsRepository
// Used when Prometheus is not configured
type NoOpMetricsRepository struct{}

// NewNoOpMetricsRepository creates a new no-op metrics repository
func NewNoOpMetricsRepository() repository.PresenceMetricsRepository {
	return &NoOpMetricsRepository{}
}

// SendPresenceStatus does nothing
func (r *NoOpMetricsRepository) SendPresenceStatus(gamertag string, status valueobject.PresenceStatus) error {
	return nil
}

// SendPollCounters does nothing
func (r *NoOpMetricsRepository) SendPollCounters(gamertag string, polls int64, pollErrors int64) error {
	return nil
}

// SendSessionActivity does nothing
func (r *NoOpMetricsRepository) SendSessionActivity(gamertag string, total time.Duration, count int) error {
	return nil
}

// Close does nothing
func (r *NoOpMetricsRepository) Close() error {
	return nil
}
