package repository

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ca-srg/xbmon/domain/repository"
	"github.com/ca-srg/xbmon/domain/valueobject"
	"github.com/ca-srg/xbmon/infrastructure/config"
)

// Metric names published via remote write
const (
	metricPresenceStatus       = "xbmon_presence_status"
	metricPollsTotal           = "xbmon_polls_total"
	metricPollErrorsTotal      = "xbmon_poll_errors_total"
	metricSessionActivitySecs  = "xbmon_session_activity_seconds"
	metricSessionActivityCount = "xbmon_session_activity_count"
)

// PrometheusMetricsRepository implements PresenceMetricsRepository using
// Prometheus Remote Write
type PrometheusMetricsRepository struct {
	config    *config.PrometheusConfig
	rwClient  *RemoteWriteClient
	hostLabel string
}

// NewPrometheusMetricsRepository creates a new Prometheus metrics repository
func NewPrometheusMetricsRepository(cfg *config.PrometheusConfig) (repository.PresenceMetricsRepository, error) {
	if cfg == nil {
		return nil, repository.NewMetricsRepositoryError("initialize", fmt.Errorf("prometheus config is nil"))
	}

	// Use hostname if HostLabel is not specified
	hostLabel := cfg.HostLabel
	if hostLabel == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostLabel = "unknown"
		} else {
			hostLabel = hostname
		}
	}

	var authConfig *AuthConfig
	if cfg.RemoteWriteUsername != "" && cfg.RemoteWritePassword != "" {
		authConfig = &AuthConfig{
			Username: cfg.RemoteWriteUsername,
			Password: cfg.RemoteWritePassword,
		}
	}

	url := cfg.RemoteWriteURL
	if url == "" {
		return nil, repository.NewMetricsRepositoryError("initialize", fmt.Errorf("remote write url is empty"))
	}

	rwClient, err := NewRemoteWriteClient(
		url,
		time.Duration(cfg.TimeoutSec)*time.Second,
		authConfig,
	)
	if err != nil {
		return nil, repository.NewMetricsRepositoryError("initialize", err)
	}

	return &PrometheusMetricsRepository{
		config:    cfg,
		rwClient:  rwClient,
		hostLabel: hostLabel,
	}, nil
}

// SendPresenceStatus publishes the current status on the numeric scale
// offline=0, away=1, online=2, unknown=-1
func (r *PrometheusMetricsRepository) SendPresenceStatus(gamertag string, status valueobject.PresenceStatus) error {
	return r.sendGauge(metricPresenceStatus, status.GaugeValue(), gamertag)
}

// SendPollCounters publishes the cumulative poll and poll-error counters in
// one write request. Remote write carries them as gauges; the counters only
// grow within a run and the run_id log label keeps restarts distinguishable.
func (r *PrometheusMetricsRepository) SendPollCounters(gamertag string, polls int64, pollErrors int64) error {
	labels := r.labels(gamertag)
	return r.send([]GaugeSample{
		{Name: metricPollsTotal, Value: float64(polls), Labels: labels},
		{Name: metricPollErrorsTotal, Value: float64(pollErrors), Labels: labels},
	})
}

// SendSessionActivity publishes the current session's accumulated
// foreground-activity time and activity count
func (r *PrometheusMetricsRepository) SendSessionActivity(gamertag string, total time.Duration, count int) error {
	labels := r.labels(gamertag)
	return r.send([]GaugeSample{
		{Name: metricSessionActivitySecs, Value: total.Seconds(), Labels: labels},
		{Name: metricSessionActivityCount, Value: float64(count), Labels: labels},
	})
}

// sendGauge pushes one sample with the shared label set
func (r *PrometheusMetricsRepository) sendGauge(name string, value float64, gamertag string) error {
	return r.send([]GaugeSample{
		{Name: name, Value: value, Labels: r.labels(gamertag)},
	})
}

func (r *PrometheusMetricsRepository) labels(gamertag string) map[string]string {
	return map[string]string{
		"host":     r.hostLabel,
		"gamertag": gamertag,
	}
}

func (r *PrometheusMetricsRepository) send(samples []GaugeSample) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.config.TimeoutSec)*time.Second)
	defer cancel()

	err := r.rwClient.SendGaugeMetrics(ctx, samples)
	if err != nil {
		if ctx.Err() != nil {
			return repository.NewMetricsRepositoryError("send", fmt.Errorf("timeout: %w", err))
		}
		return repository.NewMetricsRepositoryError("send", err)
	}

	return nil
}

// Close cleans up resources
func (r *PrometheusMetricsRepository) Close() error {
	// Remote Write client doesn't require explicit cleanup
	return nil
}
