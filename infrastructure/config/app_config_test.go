package config

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_MonitorIntervals(t *testing.T) {
	config := DefaultConfig()
	require.NotNil(t, config.Monitor)

	assert.Equal(t, 150, config.Monitor.CheckIntervalSec)
	assert.Equal(t, 60, config.Monitor.ActiveCheckIntervalSec)
	assert.Equal(t, 420, config.Monitor.OfflineInterruptSec)
	assert.Equal(t, 21600, config.Monitor.AliveIntervalSec)
	assert.Equal(t, 30, config.Monitor.IntervalStepSec)
	assert.Equal(t, "http://www.google.com/", config.Monitor.ConnectivityProbeURL)
}

func TestDefaultConfig_NotificationToggles(t *testing.T) {
	config := DefaultConfig()
	require.NotNil(t, config.Notification)

	assert.False(t, config.Notification.ActiveInactiveNotify)
	assert.False(t, config.Notification.GameChangeNotify)
	assert.False(t, config.Notification.StatusNotify)
	assert.True(t, config.Notification.ErrorNotify)
	assert.False(t, config.Notification.DesktopNotify)
}

func TestMonitorConfig_EnvironmentTracking(t *testing.T) {
	// Save original env vars
	originalVars := map[string]string{
		"XBMON_XBOX_GAMERTAG":                os.Getenv("XBMON_XBOX_GAMERTAG"),
		"XBMON_CHECK_INTERVAL_SECONDS":       os.Getenv("XBMON_CHECK_INTERVAL_SECONDS"),
		"XBMON_ACTIVE_CHECK_INTERVAL_SECONDS": os.Getenv("XBMON_ACTIVE_CHECK_INTERVAL_SECONDS"),
		"XBMON_OFFLINE_INTERRUPT_SECONDS":    os.Getenv("XBMON_OFFLINE_INTERRUPT_SECONDS"),
	}
	defer func() {
		for k, v := range originalVars {
			_ = os.Setenv(k, v)
		}
	}()

	_ = os.Setenv("XBMON_XBOX_GAMERTAG", "NinjaBear730")
	_ = os.Setenv("XBMON_CHECK_INTERVAL_SECONDS", "300")
	_ = os.Setenv("XBMON_ACTIVE_CHECK_INTERVAL_SECONDS", "90")
	_ = os.Setenv("XBMON_OFFLINE_INTERRUPT_SECONDS", "600")

	config := DefaultConfig()
	err := config.LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "NinjaBear730", config.Xbox.Gamertag)
	assert.Equal(t, 300, config.Monitor.CheckIntervalSec)
	assert.Equal(t, 90, config.Monitor.ActiveCheckIntervalSec)
	assert.Equal(t, 600, config.Monitor.OfflineInterruptSec)

	assert.Equal(t, SourceEnvironment, config.ConfigSources["Xbox.Gamertag"])
	assert.Equal(t, SourceEnvironment, config.ConfigSources["Monitor.CheckIntervalSec"])
	assert.Equal(t, SourceEnvironment, config.ConfigSources["Monitor.ActiveCheckIntervalSec"])
	assert.Equal(t, SourceEnvironment, config.ConfigSources["Monitor.OfflineInterruptSec"])
}

func TestMonitorConfig_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*MonitorConfig)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "defaults are valid",
			mutate:  func(m *MonitorConfig) {},
			wantErr: false,
		},
		{
			name:    "check interval below floor",
			mutate:  func(m *MonitorConfig) { m.CheckIntervalSec = 10 },
			wantErr: true,
			errMsg:  "check interval must be at least 30 seconds",
		},
		{
			name:    "active interval below floor",
			mutate:  func(m *MonitorConfig) { m.ActiveCheckIntervalSec = 5 },
			wantErr: true,
			errMsg:  "active check interval must be at least 30 seconds",
		},
		{
			name:    "negative offline interrupt",
			mutate:  func(m *MonitorConfig) { m.OfflineInterruptSec = -1 },
			wantErr: true,
			errMsg:  "offline interrupt cannot be negative",
		},
		{
			name:    "zero offline interrupt disables resume",
			mutate:  func(m *MonitorConfig) { m.OfflineInterruptSec = 0 },
			wantErr: false,
		},
		{
			name:    "alive interval shorter than a poll",
			mutate:  func(m *MonitorConfig) { m.AliveIntervalSec = 60 },
			wantErr: true,
			errMsg:  "alive interval must be at least one check interval",
		},
		{
			name:    "invalid timezone",
			mutate:  func(m *MonitorConfig) { m.Timezone = "Mars/Olympus_Mons" },
			wantErr: true,
			errMsg:  "monitor timezone is invalid",
		},
		{
			name:    "auto timezone",
			mutate:  func(m *MonitorConfig) { m.Timezone = "Auto" },
			wantErr: false,
		},
		{
			name:    "explicit timezone",
			mutate:  func(m *MonitorConfig) { m.Timezone = "Europe/Warsaw" },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config.Monitor)

			err := config.validateMonitor()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSMTPConfig_Validation(t *testing.T) {
	tests := []struct {
		name    string
		smtp    *SMTPConfig
		wantErr bool
		errMsg  string
	}{
		{
			name:    "empty host skips validation",
			smtp:    &SMTPConfig{Host: "", Port: 0},
			wantErr: false,
		},
		{
			name: "host set without sender",
			smtp: &SMTPConfig{
				Host: "smtp.example.com",
				Port: 587,
				To:   []string{"alerts@example.com"},
			},
			wantErr: true,
			errMsg:  "smtp sender address is required",
		},
		{
			name: "host set without recipients",
			smtp: &SMTPConfig{
				Host: "smtp.example.com",
				Port: 587,
				From: "xbmon@example.com",
				To:   []string{},
			},
			wantErr: true,
			errMsg:  "smtp recipient list cannot be empty",
		},
		{
			name: "port out of range",
			smtp: &SMTPConfig{
				Host: "smtp.example.com",
				Port: 70000,
				From: "xbmon@example.com",
				To:   []string{"alerts@example.com"},
			},
			wantErr: true,
			errMsg:  "smtp port must be between 1 and 65535",
		},
		{
			name: "complete smtp config",
			smtp: &SMTPConfig{
				Host:     "smtp.example.com",
				Port:     587,
				Username: "xbmon",
				Password: "secret",
				From:     "xbmon@example.com",
				To:       []string{"alerts@example.com", "backup@example.com"},
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &AppConfig{SMTP: tt.smtp}

			err := config.validateSMTP()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPrometheusConfig_Validation(t *testing.T) {
	tests := []struct {
		name    string
		prom    *PrometheusConfig
		wantErr bool
		errMsg  string
	}{
		{
			name:    "empty URL skips validation",
			prom:    &PrometheusConfig{RemoteWriteURL: ""},
			wantErr: false,
		},
		{
			name: "missing credentials",
			prom: &PrometheusConfig{
				RemoteWriteURL: "https://prometheus.example.com/write",
				IntervalSec:    600,
				TimeoutSec:     30,
			},
			wantErr: true,
			errMsg:  "remote write username and password are required",
		},
		{
			name: "interval below floor",
			prom: &PrometheusConfig{
				RemoteWriteURL:      "https://prometheus.example.com/write",
				RemoteWriteUsername: "user",
				RemoteWritePassword: "pass",
				IntervalSec:         30,
				TimeoutSec:          10,
			},
			wantErr: true,
			errMsg:  "prometheus interval must be at least 60 seconds",
		},
		{
			name: "timeout not below interval",
			prom: &PrometheusConfig{
				RemoteWriteURL:      "https://prometheus.example.com/write",
				RemoteWriteUsername: "user",
				RemoteWritePassword: "pass",
				IntervalSec:         600,
				TimeoutSec:          600,
			},
			wantErr: true,
			errMsg:  "prometheus timeout must be less than interval",
		},
		{
			name: "complete remote write config",
			prom: &PrometheusConfig{
				RemoteWriteURL:      "https://prometheus.example.com/write",
				RemoteWriteUsername: "user",
				RemoteWritePassword: "pass",
				IntervalSec:         600,
				TimeoutSec:          30,
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &AppConfig{Prometheus: tt.prom}

			err := config.validatePrometheus()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMergeJSONConfig_MonitorSection(t *testing.T) {
	baseConfig := DefaultConfig()
	baseConfig.MarkDefaults()

	jsonConfig := &AppConfig{
		Monitor: &MonitorConfig{
			CheckIntervalSec:  300,
			ActivityWatchlist: []string{"halo*", "forza*"},
			Timezone:          "Europe/Warsaw",
		},
	}

	baseConfig.MergeJSONConfig(jsonConfig)

	// Merged values override defaults
	assert.Equal(t, 300, baseConfig.Monitor.CheckIntervalSec)
	assert.Equal(t, []string{"halo*", "forza*"}, baseConfig.Monitor.ActivityWatchlist)
	assert.Equal(t, "Europe/Warsaw", baseConfig.Monitor.Timezone)

	// Untouched values keep defaults
	assert.Equal(t, 60, baseConfig.Monitor.ActiveCheckIntervalSec)
	assert.Equal(t, 420, baseConfig.Monitor.OfflineInterruptSec)

	assert.Equal(t, SourceJSONFile, baseConfig.ConfigSources["Monitor.CheckIntervalSec"])
	assert.Equal(t, SourceJSONFile, baseConfig.ConfigSources["Monitor.ActivityWatchlist"])
	assert.Equal(t, SourceDefault, baseConfig.ConfigSources["Monitor.ActiveCheckIntervalSec"])
}

func TestMergeJSONConfig_NotificationBools(t *testing.T) {
	baseConfig := DefaultConfig()
	baseConfig.MarkDefaults()

	// ErrorNotify defaults to true; a JSON section carrying false must win
	jsonConfig := &AppConfig{
		Notification: &NotificationConfig{
			ActiveInactiveNotify: true,
			ErrorNotify:          false,
		},
	}

	baseConfig.MergeJSONConfig(jsonConfig)

	assert.True(t, baseConfig.Notification.ActiveInactiveNotify)
	assert.False(t, baseConfig.Notification.ErrorNotify)
	assert.Equal(t, SourceJSONFile, baseConfig.ConfigSources["Notification.ErrorNotify"])
}

func TestAppConfig_LegacyJSONWithoutNewSections(t *testing.T) {
	// Old configs carrying only the xbox section still parse
	oldConfigJSON := `{
		"version": 1,
		"xbox": {
			"gamertag": "NinjaBear730",
			"client_id": "00000000-0000-0000-0000-000000000000"
		}
	}`

	var config AppConfig
	err := json.Unmarshal([]byte(oldConfigJSON), &config)
	require.NoError(t, err)

	assert.Equal(t, "NinjaBear730", config.Xbox.Gamertag)
	assert.Nil(t, config.Monitor)
	assert.Nil(t, config.SMTP)
}

func TestAppConfig_CompleteValidation(t *testing.T) {
	config := DefaultConfig()
	config.Xbox.Gamertag = "NinjaBear730"
	config.SMTP = &SMTPConfig{
		Host: "smtp.example.com",
		Port: 587,
		From: "xbmon@example.com",
		To:   []string{"alerts@example.com"},
	}
	config.Prometheus = &PrometheusConfig{
		RemoteWriteURL:      "https://prometheus.example.com/write",
		RemoteWriteUsername: "user",
		RemoteWritePassword: "pass",
		IntervalSec:         600,
		TimeoutSec:          30,
	}

	err := config.Validate()
	assert.NoError(t, err)
}
