package impl

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ca-srg/xbmon/domain"
	"github.com/ca-srg/xbmon/domain/repository"
	"github.com/ca-srg/xbmon/infrastructure/config"
	usecase "github.com/ca-srg/xbmon/usecase/interface"
)

// MetricsServiceImpl implements the MetricsService interface. It pushes the
// presence gauge, the poll counters, and the session activity figures on a
// fixed cadence, independent of the poll loop.
type MetricsServiceImpl struct {
	monitorService usecase.PresenceMonitorService
	metricsRepo    repository.PresenceMetricsRepository
	config         *config.PrometheusConfig
	ticker         *time.Ticker
	stopChan       chan struct{}
	wg             sync.WaitGroup
	mu             sync.Mutex
	isRunning      bool
	logger         domain.Logger
}

// NewMetricsServiceImpl creates a new metrics service implementation
func NewMetricsServiceImpl(
	monitorService usecase.PresenceMonitorService,
	metricsRepo repository.PresenceMetricsRepository,
	config *config.PrometheusConfig,
	logger domain.Logger,
) usecase.MetricsService {
	return &MetricsServiceImpl{
		monitorService: monitorService,
		metricsRepo:    metricsRepo,
		config:         config,
		stopChan:       make(chan struct{}),
		isRunning:      false,
		logger:         logger,
	}
}

// StartPeriodicMetrics starts the periodic metrics push
func (s *MetricsServiceImpl) StartPeriodicMetrics() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return usecase.NewMetricsServiceError(usecase.MetricsErrAlreadyRunning, "metrics service is already running")
	}
	if s.config == nil {
		return usecase.NewMetricsServiceError(usecase.MetricsErrNotInitialized, "prometheus config is nil")
	}

	// Send initial metrics
	if err := s.sendMetrics(); err != nil {
		ctx := context.Background()
		s.logger.Warn(ctx, "Failed to send initial metrics", domain.NewField("error", err.Error()))
		// Don't fail startup due to metrics error
	}

	s.ticker = time.NewTicker(time.Duration(s.config.IntervalSec) * time.Second)
	s.isRunning = true

	s.wg.Add(1)
	go s.runPeriodicMetrics()

	return nil
}

// StopPeriodicMetrics stops the periodic metrics push
func (s *MetricsServiceImpl) StopPeriodicMetrics() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	if s.ticker != nil {
		s.ticker.Stop()
	}

	close(s.stopChan)
	s.wg.Wait()

	// Send final metrics before stopping
	if err := s.sendMetrics(); err != nil {
		ctx := context.Background()
		s.logger.Warn(ctx, "Failed to send final metrics", domain.NewField("error", err.Error()))
		// Don't fail shutdown due to metrics error
	}

	s.isRunning = false
	s.stopChan = make(chan struct{}) // Reset for potential restart

	return nil
}

// SendCurrentMetrics pushes the current metrics immediately
func (s *MetricsServiceImpl) SendCurrentMetrics() error {
	return s.sendMetrics()
}

// runPeriodicMetrics runs the periodic push loop
func (s *MetricsServiceImpl) runPeriodicMetrics() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ticker.C:
			if err := s.sendMetrics(); err != nil {
				ctx := context.Background()
				s.logger.Warn(ctx, "Failed to send periodic metrics", domain.NewField("error", err.Error()))
				// Continue running even if metrics fail
			}
		case <-s.stopChan:
			return
		}
	}
}

// sendMetrics collects the current presence figures and pushes them
func (s *MetricsServiceImpl) sendMetrics() error {
	ctx := context.Background()

	if s.monitorService == nil || s.metricsRepo == nil {
		return usecase.NewMetricsServiceError(usecase.MetricsErrNotInitialized, "metrics service is missing its collaborators")
	}

	profile := s.monitorService.Profile()
	if profile == nil {
		// Nothing to report before the monitor resolved its identity.
		return nil
	}
	gamertag := profile.Gamertag()

	status := s.monitorService.CurrentStatus()
	if err := s.metricsRepo.SendPresenceStatus(gamertag, status); err != nil {
		return fmt.Errorf("failed to send presence status metric: %w", err)
	}

	polls, pollErrors := s.monitorService.PollCounts()
	if err := s.metricsRepo.SendPollCounters(gamertag, polls, pollErrors); err != nil {
		// Log error but don't fail the entire metrics operation
		s.logger.Warn(ctx, "Failed to send poll counters", domain.NewField("error", err.Error()))
	}

	if state := s.monitorService.SessionSnapshot(); state != nil {
		if err := s.metricsRepo.SendSessionActivity(gamertag, state.SessionActivityTotal, state.SessionActivityCount); err != nil {
			s.logger.Warn(ctx, "Failed to send session activity metrics", domain.NewField("error", err.Error()))
		}
	}

	s.logger.Debug(ctx, "Sent presence metrics",
		domain.NewField("gamertag", gamertag),
		domain.NewField("status", string(status)),
		domain.NewField("polls", polls),
	)

	return nil
}
