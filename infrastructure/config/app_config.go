package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Netflix/go-env"
)

// XboxConfig holds Xbox Live API access configuration
type XboxConfig struct {
	// Gamertag is the identity to monitor
	Gamertag string `json:"gamertag" env:"XBMON_XBOX_GAMERTAG"`

	// ClientID is the Azure application client ID used for OAuth2
	ClientID string `json:"client_id" env:"XBMON_XBOX_CLIENT_ID"`

	// ClientSecret is the Azure application client secret (optional for
	// public clients)
	ClientSecret string `json:"client_secret,omitempty" env:"XBMON_XBOX_CLIENT_SECRET"`

	// TokensPath is where the OAuth2 token file is stored
	TokensPath string `json:"tokens_path,omitempty" env:"XBMON_XBOX_TOKENS_PATH"`

	// RequestTimeoutSec is the timeout in seconds for Xbox API requests
	RequestTimeoutSec int `json:"request_timeout_seconds,omitempty" env:"XBMON_XBOX_REQUEST_TIMEOUT_SECONDS,default=15"`
}

// MonitorConfig holds the polling and session accounting configuration
type MonitorConfig struct {
	// CheckIntervalSec is the poll interval in seconds while the identity
	// is offline or unknown
	CheckIntervalSec int `json:"check_interval_seconds,omitempty" env:"XBMON_CHECK_INTERVAL_SECONDS,default=150"`

	// ActiveCheckIntervalSec is the poll interval in seconds while the
	// identity is online or away
	ActiveCheckIntervalSec int `json:"active_check_interval_seconds,omitempty" env:"XBMON_ACTIVE_CHECK_INTERVAL_SECONDS,default=60"`

	// OfflineInterruptSec is the longest offline gap in seconds that still
	// counts as an interruption of the same online session
	OfflineInterruptSec int `json:"offline_interrupt_seconds,omitempty" env:"XBMON_OFFLINE_INTERRUPT_SECONDS,default=420"`

	// AliveIntervalSec is how often in seconds the daemon logs a liveness
	// line while nothing changes
	AliveIntervalSec int `json:"alive_interval_seconds,omitempty" env:"XBMON_ALIVE_INTERVAL_SECONDS,default=21600"`

	// IntervalStepSec is the step in seconds applied per interval
	// adjustment signal
	IntervalStepSec int `json:"interval_step_seconds,omitempty" env:"XBMON_INTERVAL_STEP_SECONDS,default=30"`

	// ConnectivityProbeURL is fetched once at startup to verify network
	// connectivity before entering the poll loop
	ConnectivityProbeURL string `json:"connectivity_probe_url,omitempty" env:"XBMON_CONNECTIVITY_PROBE_URL,default=http://www.google.com/"`

	// StateDir is the directory for the persisted status record. Empty
	// means the current working directory.
	StateDir string `json:"state_dir,omitempty" env:"XBMON_STATE_DIR"`

	// ActivityWatchlist restricts activity notifications to the games
	// matching any of these glob patterns. Empty notifies for everything.
	// Environment variable: XBMON_ACTIVITY_WATCHLIST (comma-separated)
	ActivityWatchlist []string `json:"activity_watchlist,omitempty" env:"XBMON_ACTIVITY_WATCHLIST"`

	// Timezone is the IANA timezone used for displayed timestamps. Empty
	// or "Auto" detects the system timezone.
	Timezone string `json:"timezone,omitempty" env:"XBMON_TIMEZONE"`
}

// NotificationConfig holds the notification toggles
type NotificationConfig struct {
	// ActiveInactiveNotify enables emails when the identity crosses the
	// online/offline boundary
	ActiveInactiveNotify bool `json:"active_inactive_notify,omitempty" env:"XBMON_ACTIVE_INACTIVE_NOTIFY,default=false"`

	// GameChangeNotify enables emails when the played game starts, changes
	// or ends
	GameChangeNotify bool `json:"game_change_notify,omitempty" env:"XBMON_GAME_CHANGE_NOTIFY,default=false"`

	// StatusNotify enables emails for every status change
	StatusNotify bool `json:"status_notify,omitempty" env:"XBMON_STATUS_NOTIFY,default=false"`

	// ErrorNotify enables the one-shot email when polling fails in a way
	// that looks like expired credentials
	ErrorNotify bool `json:"error_notify,omitempty" env:"XBMON_ERROR_NOTIFY,default=true"`

	// DesktopNotify enables desktop notifications on supported platforms
	DesktopNotify bool `json:"desktop_notify,omitempty" env:"XBMON_DESKTOP_NOTIFY,default=false"`
}

// SMTPConfig holds email delivery configuration
type SMTPConfig struct {
	// Host is the SMTP server host. Empty disables email notifications.
	Host string `json:"host,omitempty" env:"XBMON_SMTP_HOST"`

	// Port is the SMTP server port
	Port int `json:"port,omitempty" env:"XBMON_SMTP_PORT,default=587"`

	// Username is the SMTP authentication user. Empty sends without auth.
	Username string `json:"username,omitempty" env:"XBMON_SMTP_USER"`

	// Password is the SMTP authentication password
	Password string `json:"password,omitempty" env:"XBMON_SMTP_PASSWORD"`

	// From is the sender address
	From string `json:"from,omitempty" env:"XBMON_SMTP_FROM"`

	// To is the recipient address list
	// Environment variable: XBMON_SMTP_TO (comma-separated)
	To []string `json:"to,omitempty" env:"XBMON_SMTP_TO"`

	// UseTLS enables implicit TLS instead of STARTTLS
	UseTLS bool `json:"use_tls,omitempty" env:"XBMON_SMTP_USE_TLS,default=false"`
}

// CSVConfig holds the CSV report configuration
type CSVConfig struct {
	// FilePath is the report file. Empty disables the CSV report.
	FilePath string `json:"file_path,omitempty" env:"XBMON_CSV_FILE"`
}

// PrometheusConfig holds Prometheus remote write configuration
type PrometheusConfig struct {
	// RemoteWriteURL is the Prometheus Remote Write endpoint URL. Empty
	// disables metrics.
	RemoteWriteURL string `json:"remote_write_url" env:"XBMON_PROMETHEUS_REMOTE_WRITE_URL"`

	// RemoteWriteUsername is the username for Remote Write authentication
	RemoteWriteUsername string `json:"remote_write_username" env:"XBMON_PROMETHEUS_REMOTE_WRITE_USERNAME"`

	// RemoteWritePassword is the password for Remote Write authentication
	RemoteWritePassword string `json:"remote_write_password" env:"XBMON_PROMETHEUS_REMOTE_WRITE_PASSWORD"`

	// HostLabel is the host label value for metrics
	HostLabel string `json:"host_label,omitempty" env:"XBMON_PROMETHEUS_HOST_LABEL"`

	// IntervalSec is the interval in seconds between metric pushes
	IntervalSec int `json:"interval_seconds,omitempty" env:"XBMON_PROMETHEUS_INTERVAL_SECONDS,default=600"`

	// TimeoutSec is the timeout in seconds for metric pushes
	TimeoutSec int `json:"timeout_seconds,omitempty" env:"XBMON_PROMETHEUS_TIMEOUT_SECONDS,default=30"`
}

// DaemonConfig holds daemon mode configuration
type DaemonConfig struct {
	// Enabled indicates whether daemon mode is enabled
	Enabled bool `json:"enabled,omitempty" env:"XBMON_DAEMON_ENABLED"`

	// StartAtLogin indicates whether to start at system login
	StartAtLogin bool `json:"start_at_login,omitempty" env:"XBMON_DAEMON_START_AT_LOGIN"`

	// HideFromDock indicates whether to hide the app from the Dock (macOS only)
	HideFromDock bool `json:"hide_from_dock,omitempty" env:"XBMON_DAEMON_HIDE_FROM_DOCK,default=true"`

	// PidFile is the path for the daemon PID file
	PidFile string `json:"pid_file,omitempty" env:"XBMON_DAEMON_PID_FILE"`
}

// PromtailConfig holds Promtail logging configuration
type PromtailConfig struct {
	// URL is the Promtail push endpoint URL. Empty disables Loki shipping.
	URL string `json:"url" env:"XBMON_LOKI_URL"`

	// Username is the username for basic authentication
	Username string `json:"username" env:"XBMON_LOKI_USERNAME"`

	// Password is the password for basic authentication
	Password string `json:"password" env:"XBMON_LOKI_PASSWORD"`

	// BatchWaitSeconds is the time to wait before sending a batch
	BatchWaitSeconds int `json:"batch_wait_seconds,omitempty" env:"XBMON_LOKI_BATCH_WAIT_SECONDS,default=1"`

	// BatchCapacity is the maximum number of log entries in a batch
	BatchCapacity int `json:"batch_capacity,omitempty" env:"XBMON_LOKI_BATCH_CAPACITY,default=100"`

	// TimeoutSeconds is the timeout for sending logs
	TimeoutSeconds int `json:"timeout_seconds,omitempty" env:"XBMON_LOKI_TIMEOUT_SECONDS,default=5"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error)
	Level string `json:"level,omitempty" env:"XBMON_LOG_LEVEL,default=info"`

	// Debug enables debug mode with stdout logging
	Debug bool `json:"debug,omitempty" env:"XBMON_LOG_DEBUG,default=false"`

	// FilePath is the rotating log file. Empty disables file logging.
	FilePath string `json:"file_path,omitempty" env:"XBMON_LOG_FILE"`

	// FileMaxSizeMB is the size in megabytes at which the log file rotates
	FileMaxSizeMB int `json:"file_max_size_mb,omitempty" env:"XBMON_LOG_FILE_MAX_SIZE_MB,default=10"`

	// FileMaxBackups is how many rotated files to keep
	FileMaxBackups int `json:"file_max_backups,omitempty" env:"XBMON_LOG_FILE_MAX_BACKUPS,default=3"`

	// FileMaxAgeDays is how many days to keep rotated files
	FileMaxAgeDays int `json:"file_max_age_days,omitempty" env:"XBMON_LOG_FILE_MAX_AGE_DAYS,default=28"`

	// Promtail holds Promtail configuration
	Promtail *PromtailConfig `json:"promtail,omitempty"`
}

// ConfigSource represents the source of a configuration value
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceJSONFile    ConfigSource = "json"
	SourceEnvironment ConfigSource = "env"
)

// ConfigSourceMap tracks the source of each configuration field
type ConfigSourceMap map[string]ConfigSource

// AppConfig holds application configuration
type AppConfig struct {
	// Version is the configuration schema version
	Version int `json:"version,omitempty"`

	// Xbox holds Xbox Live API access configuration
	Xbox *XboxConfig `json:"xbox,omitempty"`

	// Monitor holds the polling configuration
	Monitor *MonitorConfig `json:"monitor,omitempty"`

	// Notification holds the notification toggles
	Notification *NotificationConfig `json:"notification,omitempty"`

	// SMTP holds email delivery configuration
	SMTP *SMTPConfig `json:"smtp,omitempty"`

	// CSV holds the CSV report configuration
	CSV *CSVConfig `json:"csv,omitempty"`

	// Prometheus holds Prometheus remote write configuration
	Prometheus *PrometheusConfig `json:"prometheus,omitempty"`

	// Daemon holds daemon mode configuration
	Daemon *DaemonConfig `json:"daemon,omitempty"`

	// Logging holds logging configuration
	Logging *LoggingConfig `json:"logging,omitempty"`

	// ConfigSources tracks the source of each configuration field
	ConfigSources ConfigSourceMap `json:"-"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Version: 1, // Current configuration version
		Xbox: &XboxConfig{
			Gamertag:          "",
			ClientID:          "",
			ClientSecret:      "",
			TokensPath:        defaultTokensPath(),
			RequestTimeoutSec: 15,
		},
		Monitor: &MonitorConfig{
			CheckIntervalSec:       150,
			ActiveCheckIntervalSec: 60,
			OfflineInterruptSec:    420, // 7 minutes
			AliveIntervalSec:       21600,
			IntervalStepSec:        30,
			ConnectivityProbeURL:   "http://www.google.com/",
			StateDir:               "",
			ActivityWatchlist:      []string{},
			Timezone:               "Auto",
		},
		Notification: &NotificationConfig{
			ActiveInactiveNotify: false,
			GameChangeNotify:     false,
			StatusNotify:         false,
			ErrorNotify:          true,
			DesktopNotify:        false,
		},
		SMTP: &SMTPConfig{
			Host:     "",
			Port:     587,
			Username: "",
			Password: "",
			From:     "",
			To:       []string{},
			UseTLS:   false,
		},
		CSV: &CSVConfig{
			FilePath: "",
		},
		Prometheus: &PrometheusConfig{
			RemoteWriteURL:      "", // Empty by default, must be set via environment variable or config.json
			RemoteWriteUsername: "",
			RemoteWritePassword: "",
			HostLabel:           "",
			IntervalSec:         600, // 10 minutes
			TimeoutSec:          30,
		},
		Daemon: &DaemonConfig{
			Enabled:      false,
			StartAtLogin: false,
			HideFromDock: false,
			PidFile:      "/tmp/xbmon.pid",
		},
		Logging: &LoggingConfig{
			Level:          "info",
			Debug:          false,
			FilePath:       "",
			FileMaxSizeMB:  10,
			FileMaxBackups: 3,
			FileMaxAgeDays: 28,
			Promtail: &PromtailConfig{
				URL:              "",
				BatchWaitSeconds: 1,
				BatchCapacity:    100,
				TimeoutSeconds:   5,
			},
		},
		ConfigSources: make(ConfigSourceMap),
	}
}

// MinimalDefaultConfig returns the minimal configuration template for initial setup
func MinimalDefaultConfig() *AppConfig {
	return &AppConfig{
		Version: 1, // Current configuration version
		Xbox: &XboxConfig{
			Gamertag:          "",
			ClientID:          "",
			TokensPath:        defaultTokensPath(),
			RequestTimeoutSec: 15,
		},
		Monitor: &MonitorConfig{
			CheckIntervalSec:       150,
			ActiveCheckIntervalSec: 60,
			OfflineInterruptSec:    420,
			AliveIntervalSec:       21600,
			IntervalStepSec:        30,
			ConnectivityProbeURL:   "http://www.google.com/",
			Timezone:               "Auto",
		},
		Notification: &NotificationConfig{
			ErrorNotify: true,
		},
		Logging: &LoggingConfig{
			Level: "info",
			Debug: false,
		},
		ConfigSources: make(ConfigSourceMap),
	}
}

// defaultTokensPath returns the default location of the OAuth2 token file
func defaultTokensPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "xbmon_tokens.json"
	}
	return filepath.Join(home, ".xbmon", "tokens.json")
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*AppConfig, error) {
	config := DefaultConfig()

	// Load environment variables using Netflix/go-env
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// LoadFromEnv loads configuration from environment variables using Netflix/go-env
func (c *AppConfig) LoadFromEnv() error {
	// Use Netflix/go-env to unmarshal environment variables into the config struct
	_, err := env.UnmarshalFromEnviron(c)
	if err != nil {
		return fmt.Errorf("failed to unmarshal environment variables: %w", err)
	}

	// Special handling for Xbox nested struct
	if c.Xbox != nil {
		original := *c.Xbox
		if _, err := env.UnmarshalFromEnviron(c.Xbox); err != nil {
			return fmt.Errorf("failed to unmarshal Xbox environment variables: %w", err)
		}
		c.trackEnvOverride("Xbox.Gamertag", "XBMON_XBOX_GAMERTAG", c.Xbox.Gamertag != original.Gamertag)
		c.trackEnvOverride("Xbox.ClientID", "XBMON_XBOX_CLIENT_ID", c.Xbox.ClientID != original.ClientID)
		c.trackEnvOverride("Xbox.ClientSecret", "XBMON_XBOX_CLIENT_SECRET", c.Xbox.ClientSecret != original.ClientSecret)
		c.trackEnvOverride("Xbox.TokensPath", "XBMON_XBOX_TOKENS_PATH", c.Xbox.TokensPath != original.TokensPath)
		c.trackEnvOverride("Xbox.RequestTimeoutSec", "XBMON_XBOX_REQUEST_TIMEOUT_SECONDS", c.Xbox.RequestTimeoutSec != original.RequestTimeoutSec)
	}

	// Special handling for Monitor nested struct
	if c.Monitor != nil {
		original := *c.Monitor
		if _, err := env.UnmarshalFromEnviron(c.Monitor); err != nil {
			return fmt.Errorf("failed to unmarshal Monitor environment variables: %w", err)
		}
		// Custom handling for the watchlist slice
		if watchlistEnv := os.Getenv("XBMON_ACTIVITY_WATCHLIST"); watchlistEnv != "" {
			c.Monitor.ActivityWatchlist = splitCommaSeparated(watchlistEnv)
			c.ConfigSources["Monitor.ActivityWatchlist"] = SourceEnvironment
		}
		c.trackEnvOverride("Monitor.CheckIntervalSec", "XBMON_CHECK_INTERVAL_SECONDS", c.Monitor.CheckIntervalSec != original.CheckIntervalSec)
		c.trackEnvOverride("Monitor.ActiveCheckIntervalSec", "XBMON_ACTIVE_CHECK_INTERVAL_SECONDS", c.Monitor.ActiveCheckIntervalSec != original.ActiveCheckIntervalSec)
		c.trackEnvOverride("Monitor.OfflineInterruptSec", "XBMON_OFFLINE_INTERRUPT_SECONDS", c.Monitor.OfflineInterruptSec != original.OfflineInterruptSec)
		c.trackEnvOverride("Monitor.AliveIntervalSec", "XBMON_ALIVE_INTERVAL_SECONDS", c.Monitor.AliveIntervalSec != original.AliveIntervalSec)
		c.trackEnvOverride("Monitor.IntervalStepSec", "XBMON_INTERVAL_STEP_SECONDS", c.Monitor.IntervalStepSec != original.IntervalStepSec)
		c.trackEnvOverride("Monitor.ConnectivityProbeURL", "XBMON_CONNECTIVITY_PROBE_URL", c.Monitor.ConnectivityProbeURL != original.ConnectivityProbeURL)
		c.trackEnvOverride("Monitor.StateDir", "XBMON_STATE_DIR", c.Monitor.StateDir != original.StateDir)
		c.trackEnvOverride("Monitor.Timezone", "XBMON_TIMEZONE", c.Monitor.Timezone != original.Timezone)
	}

	// Special handling for Notification nested struct
	if c.Notification != nil {
		original := *c.Notification
		if _, err := env.UnmarshalFromEnviron(c.Notification); err != nil {
			return fmt.Errorf("failed to unmarshal Notification environment variables: %w", err)
		}
		c.trackEnvOverride("Notification.ActiveInactiveNotify", "XBMON_ACTIVE_INACTIVE_NOTIFY", c.Notification.ActiveInactiveNotify != original.ActiveInactiveNotify)
		c.trackEnvOverride("Notification.GameChangeNotify", "XBMON_GAME_CHANGE_NOTIFY", c.Notification.GameChangeNotify != original.GameChangeNotify)
		c.trackEnvOverride("Notification.StatusNotify", "XBMON_STATUS_NOTIFY", c.Notification.StatusNotify != original.StatusNotify)
		c.trackEnvOverride("Notification.ErrorNotify", "XBMON_ERROR_NOTIFY", c.Notification.ErrorNotify != original.ErrorNotify)
		c.trackEnvOverride("Notification.DesktopNotify", "XBMON_DESKTOP_NOTIFY", c.Notification.DesktopNotify != original.DesktopNotify)
	}

	// Special handling for SMTP nested struct
	if c.SMTP != nil {
		original := *c.SMTP
		if _, err := env.UnmarshalFromEnviron(c.SMTP); err != nil {
			return fmt.Errorf("failed to unmarshal SMTP environment variables: %w", err)
		}
		// Custom handling for the recipients slice
		if toEnv := os.Getenv("XBMON_SMTP_TO"); toEnv != "" {
			c.SMTP.To = splitCommaSeparated(toEnv)
			c.ConfigSources["SMTP.To"] = SourceEnvironment
		}
		c.trackEnvOverride("SMTP.Host", "XBMON_SMTP_HOST", c.SMTP.Host != original.Host)
		c.trackEnvOverride("SMTP.Port", "XBMON_SMTP_PORT", c.SMTP.Port != original.Port)
		c.trackEnvOverride("SMTP.Username", "XBMON_SMTP_USER", c.SMTP.Username != original.Username)
		c.trackEnvOverride("SMTP.Password", "XBMON_SMTP_PASSWORD", c.SMTP.Password != original.Password)
		c.trackEnvOverride("SMTP.From", "XBMON_SMTP_FROM", c.SMTP.From != original.From)
		c.trackEnvOverride("SMTP.UseTLS", "XBMON_SMTP_USE_TLS", c.SMTP.UseTLS != original.UseTLS)
	}

	// Special handling for CSV nested struct
	if c.CSV != nil {
		original := *c.CSV
		if _, err := env.UnmarshalFromEnviron(c.CSV); err != nil {
			return fmt.Errorf("failed to unmarshal CSV environment variables: %w", err)
		}
		c.trackEnvOverride("CSV.FilePath", "XBMON_CSV_FILE", c.CSV.FilePath != original.FilePath)
	}

	// Special handling for Prometheus nested struct
	if c.Prometheus != nil {
		original := *c.Prometheus
		if _, err := env.UnmarshalFromEnviron(c.Prometheus); err != nil {
			return fmt.Errorf("failed to unmarshal Prometheus environment variables: %w", err)
		}
		c.trackEnvOverride("Prometheus.RemoteWriteURL", "XBMON_PROMETHEUS_REMOTE_WRITE_URL", c.Prometheus.RemoteWriteURL != original.RemoteWriteURL)
		c.trackEnvOverride("Prometheus.RemoteWriteUsername", "XBMON_PROMETHEUS_REMOTE_WRITE_USERNAME", c.Prometheus.RemoteWriteUsername != original.RemoteWriteUsername)
		c.trackEnvOverride("Prometheus.RemoteWritePassword", "XBMON_PROMETHEUS_REMOTE_WRITE_PASSWORD", c.Prometheus.RemoteWritePassword != original.RemoteWritePassword)
		c.trackEnvOverride("Prometheus.HostLabel", "XBMON_PROMETHEUS_HOST_LABEL", c.Prometheus.HostLabel != original.HostLabel)
		c.trackEnvOverride("Prometheus.IntervalSec", "XBMON_PROMETHEUS_INTERVAL_SECONDS", c.Prometheus.IntervalSec != original.IntervalSec)
		c.trackEnvOverride("Prometheus.TimeoutSec", "XBMON_PROMETHEUS_TIMEOUT_SECONDS", c.Prometheus.TimeoutSec != original.TimeoutSec)
	}

	// Special handling for Daemon nested struct
	if c.Daemon != nil {
		original := *c.Daemon
		if _, err := env.UnmarshalFromEnviron(c.Daemon); err != nil {
			return fmt.Errorf("failed to unmarshal Daemon environment variables: %w", err)
		}
		c.trackEnvOverride("Daemon.Enabled", "XBMON_DAEMON_ENABLED", c.Daemon.Enabled != original.Enabled)
		c.trackEnvOverride("Daemon.StartAtLogin", "XBMON_DAEMON_START_AT_LOGIN", c.Daemon.StartAtLogin != original.StartAtLogin)
		c.trackEnvOverride("Daemon.HideFromDock", "XBMON_DAEMON_HIDE_FROM_DOCK", c.Daemon.HideFromDock != original.HideFromDock)
		c.trackEnvOverride("Daemon.PidFile", "XBMON_DAEMON_PID_FILE", c.Daemon.PidFile != original.PidFile)
	}

	// Special handling for Logging nested struct
	if c.Logging != nil {
		original := *c.Logging
		if _, err := env.UnmarshalFromEnviron(c.Logging); err != nil {
			return fmt.Errorf("failed to unmarshal Logging environment variables: %w", err)
		}
		c.trackEnvOverride("Logging.Level", "XBMON_LOG_LEVEL", c.Logging.Level != original.Level)
		c.trackEnvOverride("Logging.Debug", "XBMON_LOG_DEBUG", c.Logging.Debug != original.Debug)
		c.trackEnvOverride("Logging.FilePath", "XBMON_LOG_FILE", c.Logging.FilePath != original.FilePath)
		c.trackEnvOverride("Logging.FileMaxSizeMB", "XBMON_LOG_FILE_MAX_SIZE_MB", c.Logging.FileMaxSizeMB != original.FileMaxSizeMB)
		c.trackEnvOverride("Logging.FileMaxBackups", "XBMON_LOG_FILE_MAX_BACKUPS", c.Logging.FileMaxBackups != original.FileMaxBackups)
		c.trackEnvOverride("Logging.FileMaxAgeDays", "XBMON_LOG_FILE_MAX_AGE_DAYS", c.Logging.FileMaxAgeDays != original.FileMaxAgeDays)

		// Handle Promtail nested struct
		if c.Logging.Promtail != nil {
			originalPromtail := *c.Logging.Promtail
			if _, err := env.UnmarshalFromEnviron(c.Logging.Promtail); err != nil {
				return fmt.Errorf("failed to unmarshal Promtail environment variables: %w", err)
			}
			c.trackEnvOverride("Promtail.URL", "XBMON_LOKI_URL", c.Logging.Promtail.URL != originalPromtail.URL)
			c.trackEnvOverride("Promtail.Username", "XBMON_LOKI_USERNAME", c.Logging.Promtail.Username != originalPromtail.Username)
			c.trackEnvOverride("Promtail.Password", "XBMON_LOKI_PASSWORD", c.Logging.Promtail.Password != originalPromtail.Password)
			c.trackEnvOverride("Promtail.BatchWaitSeconds", "XBMON_LOKI_BATCH_WAIT_SECONDS", c.Logging.Promtail.BatchWaitSeconds != originalPromtail.BatchWaitSeconds)
			c.trackEnvOverride("Promtail.BatchCapacity", "XBMON_LOKI_BATCH_CAPACITY", c.Logging.Promtail.BatchCapacity != originalPromtail.BatchCapacity)
			c.trackEnvOverride("Promtail.TimeoutSeconds", "XBMON_LOKI_TIMEOUT_SECONDS", c.Logging.Promtail.TimeoutSeconds != originalPromtail.TimeoutSeconds)
		}
	}

	return nil
}

// trackEnvOverride records that a field came from the environment when the
// variable is set and the value actually changed
func (c *AppConfig) trackEnvOverride(field string, envVar string, changed bool) {
	if changed && os.Getenv(envVar) != "" {
		c.ConfigSources[field] = SourceEnvironment
	}
}

// Validate validates the configuration
func (c *AppConfig) Validate() error {
	if c.Xbox != nil {
		if err := c.validateXbox(); err != nil {
			return err
		}
	}
	if c.Monitor != nil {
		if err := c.validateMonitor(); err != nil {
			return err
		}
	}
	if c.SMTP != nil {
		if err := c.validateSMTP(); err != nil {
			return err
		}
	}
	if c.Prometheus != nil {
		if err := c.validatePrometheus(); err != nil {
			return err
		}
	}
	if c.Daemon != nil {
		if err := c.validateDaemon(); err != nil {
			return err
		}
	}
	if c.Logging != nil {
		if err := c.validateLogging(); err != nil {
			return err
		}
	}
	return nil
}

// validateXbox validates Xbox configuration
func (c *AppConfig) validateXbox() error {
	if c.Xbox == nil {
		return nil
	}

	if c.Xbox.RequestTimeoutSec < 1 {
		return fmt.Errorf("xbox request timeout must be at least 1 second")
	}

	return nil
}

// validateMonitor validates Monitor configuration
func (c *AppConfig) validateMonitor() error {
	if c.Monitor == nil {
		return nil
	}

	if c.Monitor.CheckIntervalSec < 30 {
		return fmt.Errorf("check interval must be at least 30 seconds")
	}
	if c.Monitor.ActiveCheckIntervalSec < 30 {
		return fmt.Errorf("active check interval must be at least 30 seconds")
	}
	if c.Monitor.OfflineInterruptSec < 0 {
		return fmt.Errorf("offline interrupt cannot be negative")
	}
	if c.Monitor.AliveIntervalSec < c.Monitor.CheckIntervalSec {
		return fmt.Errorf("alive interval must be at least one check interval")
	}
	if c.Monitor.IntervalStepSec < 1 {
		return fmt.Errorf("interval step must be at least 1 second")
	}

	// Validate timezone when pinned
	if c.Monitor.Timezone != "" && !strings.EqualFold(c.Monitor.Timezone, "auto") {
		if _, err := time.LoadLocation(c.Monitor.Timezone); err != nil {
			return fmt.Errorf("monitor timezone is invalid: %w", err)
		}
	}

	return nil
}

// validateSMTP validates SMTP configuration
func (c *AppConfig) validateSMTP() error {
	if c.SMTP == nil {
		return nil
	}

	// Skip validation if Host is empty (email disabled)
	if c.SMTP.Host == "" {
		return nil
	}

	if c.SMTP.Port < 1 || c.SMTP.Port > 65535 {
		return fmt.Errorf("smtp port must be between 1 and 65535")
	}
	if c.SMTP.From == "" {
		return fmt.Errorf("smtp sender address is required when smtp host is set")
	}
	if len(c.SMTP.To) == 0 {
		return fmt.Errorf("smtp recipient list cannot be empty when smtp host is set")
	}

	return nil
}

// validatePrometheus validates Prometheus configuration
func (c *AppConfig) validatePrometheus() error {
	if c.Prometheus == nil {
		return nil
	}

	// Skip validation if RemoteWriteURL is empty (metrics disabled)
	if c.Prometheus.RemoteWriteURL == "" {
		return nil
	}

	if c.Prometheus.IntervalSec < 60 {
		return fmt.Errorf("prometheus interval must be at least 60 seconds")
	}
	if c.Prometheus.TimeoutSec < 1 {
		return fmt.Errorf("prometheus timeout must be at least 1 second")
	}
	if c.Prometheus.TimeoutSec >= c.Prometheus.IntervalSec {
		return fmt.Errorf("prometheus timeout must be less than interval")
	}
	if c.Prometheus.RemoteWriteUsername == "" || c.Prometheus.RemoteWritePassword == "" {
		return fmt.Errorf("remote write username and password are required when remote write URL is set")
	}

	return nil
}

// validateDaemon validates Daemon configuration
func (c *AppConfig) validateDaemon() error {
	if c.Daemon == nil {
		return nil
	}

	if c.Daemon.Enabled && c.Daemon.PidFile == "" {
		return fmt.Errorf("daemon PID file path cannot be empty when daemon is enabled")
	}

	return nil
}

// validateLogging validates Logging configuration
func (c *AppConfig) validateLogging() error {
	if c.Logging == nil {
		return nil
	}

	// Validate log level only if specified
	if c.Logging.Level != "" {
		validLevels := map[string]bool{
			"debug": true,
			"info":  true,
			"warn":  true,
			"error": true,
		}
		if !validLevels[c.Logging.Level] {
			return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logging.Level)
		}
	}

	if c.Logging.FilePath != "" {
		if c.Logging.FileMaxSizeMB < 1 {
			return fmt.Errorf("log file max size must be at least 1 MB")
		}
		if c.Logging.FileMaxBackups < 0 {
			return fmt.Errorf("log file max backups cannot be negative")
		}
		if c.Logging.FileMaxAgeDays < 0 {
			return fmt.Errorf("log file max age cannot be negative")
		}
	}

	// Validate Promtail configuration
	if c.Logging.Promtail != nil {
		// Skip validation if Promtail URL is empty (shipping disabled)
		if c.Logging.Promtail.URL == "" {
			return nil
		}

		if c.Logging.Promtail.BatchWaitSeconds < 1 {
			return fmt.Errorf("promtail batch wait must be at least 1 second")
		}
		if c.Logging.Promtail.BatchCapacity < 1 {
			return fmt.Errorf("promtail batch capacity must be at least 1")
		}
		if c.Logging.Promtail.TimeoutSeconds < 1 {
			return fmt.Errorf("promtail timeout must be at least 1 second")
		}
	}

	return nil
}

// MarkDefaults marks all configuration fields as coming from defaults
func (c *AppConfig) MarkDefaults() {
	c.ConfigSources["Version"] = SourceDefault
	c.ConfigSources["Xbox.Gamertag"] = SourceDefault
	c.ConfigSources["Xbox.ClientID"] = SourceDefault
	c.ConfigSources["Xbox.ClientSecret"] = SourceDefault
	c.ConfigSources["Xbox.TokensPath"] = SourceDefault
	c.ConfigSources["Xbox.RequestTimeoutSec"] = SourceDefault
	c.ConfigSources["Monitor.CheckIntervalSec"] = SourceDefault
	c.ConfigSources["Monitor.ActiveCheckIntervalSec"] = SourceDefault
	c.ConfigSources["Monitor.OfflineInterruptSec"] = SourceDefault
	c.ConfigSources["Monitor.AliveIntervalSec"] = SourceDefault
	c.ConfigSources["Monitor.IntervalStepSec"] = SourceDefault
	c.ConfigSources["Monitor.ConnectivityProbeURL"] = SourceDefault
	c.ConfigSources["Monitor.StateDir"] = SourceDefault
	c.ConfigSources["Monitor.ActivityWatchlist"] = SourceDefault
	c.ConfigSources["Monitor.Timezone"] = SourceDefault
	c.ConfigSources["Notification.ActiveInactiveNotify"] = SourceDefault
	c.ConfigSources["Notification.GameChangeNotify"] = SourceDefault
	c.ConfigSources["Notification.StatusNotify"] = SourceDefault
	c.ConfigSources["Notification.ErrorNotify"] = SourceDefault
	c.ConfigSources["Notification.DesktopNotify"] = SourceDefault
	c.ConfigSources["SMTP.Host"] = SourceDefault
	c.ConfigSources["SMTP.Port"] = SourceDefault
	c.ConfigSources["SMTP.Username"] = SourceDefault
	c.ConfigSources["SMTP.Password"] = SourceDefault
	c.ConfigSources["SMTP.From"] = SourceDefault
	c.ConfigSources["SMTP.To"] = SourceDefault
	c.ConfigSources["SMTP.UseTLS"] = SourceDefault
	c.ConfigSources["CSV.FilePath"] = SourceDefault
	c.ConfigSources["Prometheus.RemoteWriteURL"] = SourceDefault
	c.ConfigSources["Prometheus.RemoteWriteUsername"] = SourceDefault
	c.ConfigSources["Prometheus.RemoteWritePassword"] = SourceDefault
	c.ConfigSources["Prometheus.HostLabel"] = SourceDefault
	c.ConfigSources["Prometheus.IntervalSec"] = SourceDefault
	c.ConfigSources["Prometheus.TimeoutSec"] = SourceDefault
	c.ConfigSources["Daemon.Enabled"] = SourceDefault
	c.ConfigSources["Daemon.StartAtLogin"] = SourceDefault
	c.ConfigSources["Daemon.HideFromDock"] = SourceDefault
	c.ConfigSources["Daemon.PidFile"] = SourceDefault
	c.ConfigSources["Logging.Level"] = SourceDefault
	c.ConfigSources["Logging.Debug"] = SourceDefault
	c.ConfigSources["Logging.FilePath"] = SourceDefault
	c.ConfigSources["Logging.FileMaxSizeMB"] = SourceDefault
	c.ConfigSources["Logging.FileMaxBackups"] = SourceDefault
	c.ConfigSources["Logging.FileMaxAgeDays"] = SourceDefault
	c.ConfigSources["Promtail.URL"] = SourceDefault
	c.ConfigSources["Promtail.Username"] = SourceDefault
	c.ConfigSources["Promtail.Password"] = SourceDefault
	c.ConfigSources["Promtail.BatchWaitSeconds"] = SourceDefault
	c.ConfigSources["Promtail.BatchCapacity"] = SourceDefault
	c.ConfigSources["Promtail.TimeoutSeconds"] = SourceDefault
}

// MergeJSONConfig merges JSON configuration into the current configuration
func (c *AppConfig) MergeJSONConfig(jsonConfig *AppConfig) {
	// Always merge version from JSON, even if it's 0 (legacy config)
	c.Version = jsonConfig.Version
	c.ConfigSources["Version"] = SourceJSONFile

	if jsonConfig.Xbox != nil {
		if c.Xbox == nil {
			c.Xbox = &XboxConfig{}
		}
		c.mergeXboxConfig(jsonConfig.Xbox)
	}
	if jsonConfig.Monitor != nil {
		if c.Monitor == nil {
			c.Monitor = &MonitorConfig{}
		}
		c.mergeMonitorConfig(jsonConfig.Monitor)
	}
	if jsonConfig.Notification != nil {
		if c.Notification == nil {
			c.Notification = &NotificationConfig{}
		}
		c.mergeNotificationConfig(jsonConfig.Notification)
	}
	if jsonConfig.SMTP != nil {
		if c.SMTP == nil {
			c.SMTP = &SMTPConfig{}
		}
		c.mergeSMTPConfig(jsonConfig.SMTP)
	}
	if jsonConfig.CSV != nil {
		if c.CSV == nil {
			c.CSV = &CSVConfig{}
		}
		if jsonConfig.CSV.FilePath != "" {
			c.CSV.FilePath = jsonConfig.CSV.FilePath
			c.ConfigSources["CSV.FilePath"] = SourceJSONFile
		}
	}
	if jsonConfig.Prometheus != nil {
		if c.Prometheus == nil {
			c.Prometheus = &PrometheusConfig{}
		}
		c.mergePrometheusConfig(jsonConfig.Prometheus)
	}
	if jsonConfig.Daemon != nil {
		if c.Daemon == nil {
			c.Daemon = &DaemonConfig{}
		}
		c.mergeDaemonConfig(jsonConfig.Daemon)
	}
	if jsonConfig.Logging != nil {
		if c.Logging == nil {
			c.Logging = &LoggingConfig{}
		}
		c.mergeLoggingConfig(jsonConfig.Logging)
	}
}

// mergeXboxConfig merges Xbox configuration from JSON
func (c *AppConfig) mergeXboxConfig(jsonConfig *XboxConfig) {
	if jsonConfig.Gamertag != "" {
		c.Xbox.Gamertag = jsonConfig.Gamertag
		c.ConfigSources["Xbox.Gamertag"] = SourceJSONFile
	}
	if jsonConfig.ClientID != "" {
		c.Xbox.ClientID = jsonConfig.ClientID
		c.ConfigSources["Xbox.ClientID"] = SourceJSONFile
	}
	if jsonConfig.ClientSecret != "" {
		c.Xbox.ClientSecret = jsonConfig.ClientSecret
		c.ConfigSources["Xbox.ClientSecret"] = SourceJSONFile
	}
	if jsonConfig.TokensPath != "" {
		c.Xbox.TokensPath = jsonConfig.TokensPath
		c.ConfigSources["Xbox.TokensPath"] = SourceJSONFile
	}
	if jsonConfig.RequestTimeoutSec != 0 {
		c.Xbox.RequestTimeoutSec = jsonConfig.RequestTimeoutSec
		c.ConfigSources["Xbox.RequestTimeoutSec"] = SourceJSONFile
	}
}

// mergeMonitorConfig merges Monitor configuration from JSON
func (c *AppConfig) mergeMonitorConfig(jsonConfig *MonitorConfig) {
	if jsonConfig.CheckIntervalSec != 0 {
		c.Monitor.CheckIntervalSec = jsonConfig.CheckIntervalSec
		c.ConfigSources["Monitor.CheckIntervalSec"] = SourceJSONFile
	}
	if jsonConfig.ActiveCheckIntervalSec != 0 {
		c.Monitor.ActiveCheckIntervalSec = jsonConfig.ActiveCheckIntervalSec
		c.ConfigSources["Monitor.ActiveCheckIntervalSec"] = SourceJSONFile
	}
	if jsonConfig.OfflineInterruptSec != 0 {
		c.Monitor.OfflineInterruptSec = jsonConfig.OfflineInterruptSec
		c.ConfigSources["Monitor.OfflineInterruptSec"] = SourceJSONFile
	}
	if jsonConfig.AliveIntervalSec != 0 {
		c.Monitor.AliveIntervalSec = jsonConfig.AliveIntervalSec
		c.ConfigSources["Monitor.AliveIntervalSec"] = SourceJSONFile
	}
	if jsonConfig.IntervalStepSec != 0 {
		c.Monitor.IntervalStepSec = jsonConfig.IntervalStepSec
		c.ConfigSources["Monitor.IntervalStepSec"] = SourceJSONFile
	}
	if jsonConfig.ConnectivityProbeURL != "" {
		c.Monitor.ConnectivityProbeURL = jsonConfig.ConnectivityProbeURL
		c.ConfigSources["Monitor.ConnectivityProbeURL"] = SourceJSONFile
	}
	if jsonConfig.StateDir != "" {
		c.Monitor.StateDir = jsonConfig.StateDir
		c.ConfigSources["Monitor.StateDir"] = SourceJSONFile
	}
	if len(jsonConfig.ActivityWatchlist) > 0 {
		c.Monitor.ActivityWatchlist = jsonConfig.ActivityWatchlist
		c.ConfigSources["Monitor.ActivityWatchlist"] = SourceJSONFile
	}
	if jsonConfig.Timezone != "" {
		c.Monitor.Timezone = jsonConfig.Timezone
		c.ConfigSources["Monitor.Timezone"] = SourceJSONFile
	}
}

// mergeNotificationConfig merges Notification configuration from JSON
func (c *AppConfig) mergeNotificationConfig(jsonConfig *NotificationConfig) {
	// Note: bool fields need special handling because zero value is false
	c.Notification.ActiveInactiveNotify = jsonConfig.ActiveInactiveNotify
	c.ConfigSources["Notification.ActiveInactiveNotify"] = SourceJSONFile

	c.Notification.GameChangeNotify = jsonConfig.GameChangeNotify
	c.ConfigSources["Notification.GameChangeNotify"] = SourceJSONFile

	c.Notification.StatusNotify = jsonConfig.StatusNotify
	c.ConfigSources["Notification.StatusNotify"] = SourceJSONFile

	c.Notification.ErrorNotify = jsonConfig.ErrorNotify
	c.ConfigSources["Notification.ErrorNotify"] = SourceJSONFile

	c.Notification.DesktopNotify = jsonConfig.DesktopNotify
	c.ConfigSources["Notification.DesktopNotify"] = SourceJSONFile
}

// mergeSMTPConfig merges SMTP configuration from JSON
func (c *AppConfig) mergeSMTPConfig(jsonConfig *SMTPConfig) {
	if jsonConfig.Host != "" {
		c.SMTP.Host = jsonConfig.Host
		c.ConfigSources["SMTP.Host"] = SourceJSONFile
	}
	if jsonConfig.Port != 0 {
		c.SMTP.Port = jsonConfig.Port
		c.ConfigSources["SMTP.Port"] = SourceJSONFile
	}
	if jsonConfig.Username != "" {
		c.SMTP.Username = jsonConfig.Username
		c.ConfigSources["SMTP.Username"] = SourceJSONFile
	}
	if jsonConfig.Password != "" {
		c.SMTP.Password = jsonConfig.Password
		c.ConfigSources["SMTP.Password"] = SourceJSONFile
	}
	if jsonConfig.From != "" {
		c.SMTP.From = jsonConfig.From
		c.ConfigSources["SMTP.From"] = SourceJSONFile
	}
	if len(jsonConfig.To) > 0 {
		c.SMTP.To = jsonConfig.To
		c.ConfigSources["SMTP.To"] = SourceJSONFile
	}

	// Note: bool field
	c.SMTP.UseTLS = jsonConfig.UseTLS
	c.ConfigSources["SMTP.UseTLS"] = SourceJSONFile
}

// mergePrometheusConfig merges Prometheus configuration from JSON
func (c *AppConfig) mergePrometheusConfig(jsonConfig *PrometheusConfig) {
	if jsonConfig.RemoteWriteURL != "" {
		c.Prometheus.RemoteWriteURL = jsonConfig.RemoteWriteURL
		c.ConfigSources["Prometheus.RemoteWriteURL"] = SourceJSONFile
	}
	if jsonConfig.RemoteWriteUsername != "" {
		c.Prometheus.RemoteWriteUsername = jsonConfig.RemoteWriteUsername
		c.ConfigSources["Prometheus.RemoteWriteUsername"] = SourceJSONFile
	}
	if jsonConfig.RemoteWritePassword != "" {
		c.Prometheus.RemoteWritePassword = jsonConfig.RemoteWritePassword
		c.ConfigSources["Prometheus.RemoteWritePassword"] = SourceJSONFile
	}
	if jsonConfig.HostLabel != "" {
		c.Prometheus.HostLabel = jsonConfig.HostLabel
		c.ConfigSources["Prometheus.HostLabel"] = SourceJSONFile
	}
	if jsonConfig.IntervalSec != 0 {
		c.Prometheus.IntervalSec = jsonConfig.IntervalSec
		c.ConfigSources["Prometheus.IntervalSec"] = SourceJSONFile
	}
	if jsonConfig.TimeoutSec != 0 {
		c.Prometheus.TimeoutSec = jsonConfig.TimeoutSec
		c.ConfigSources["Prometheus.TimeoutSec"] = SourceJSONFile
	}
}

// mergeDaemonConfig merges Daemon configuration from JSON
func (c *AppConfig) mergeDaemonConfig(jsonConfig *DaemonConfig) {
	// Note: bool fields need special handling because zero value is false
	c.Daemon.Enabled = jsonConfig.Enabled
	c.ConfigSources["Daemon.Enabled"] = SourceJSONFile

	c.Daemon.StartAtLogin = jsonConfig.StartAtLogin
	c.ConfigSources["Daemon.StartAtLogin"] = SourceJSONFile

	c.Daemon.HideFromDock = jsonConfig.HideFromDock
	c.ConfigSources["Daemon.HideFromDock"] = SourceJSONFile

	if jsonConfig.PidFile != "" {
		c.Daemon.PidFile = jsonConfig.PidFile
		c.ConfigSources["Daemon.PidFile"] = SourceJSONFile
	}
}

// mergeLoggingConfig merges Logging configuration from JSON
func (c *AppConfig) mergeLoggingConfig(jsonConfig *LoggingConfig) {
	if jsonConfig.Level != "" {
		c.Logging.Level = jsonConfig.Level
		c.ConfigSources["Logging.Level"] = SourceJSONFile
	}

	// Note: bool field
	c.Logging.Debug = jsonConfig.Debug
	c.ConfigSources["Logging.Debug"] = SourceJSONFile

	if jsonConfig.FilePath != "" {
		c.Logging.FilePath = jsonConfig.FilePath
		c.ConfigSources["Logging.FilePath"] = SourceJSONFile
	}
	if jsonConfig.FileMaxSizeMB != 0 {
		c.Logging.FileMaxSizeMB = jsonConfig.FileMaxSizeMB
		c.ConfigSources["Logging.FileMaxSizeMB"] = SourceJSONFile
	}
	if jsonConfig.FileMaxBackups != 0 {
		c.Logging.FileMaxBackups = jsonConfig.FileMaxBackups
		c.ConfigSources["Logging.FileMaxBackups"] = SourceJSONFile
	}
	if jsonConfig.FileMaxAgeDays != 0 {
		c.Logging.FileMaxAgeDays = jsonConfig.FileMaxAgeDays
		c.ConfigSources["Logging.FileMaxAgeDays"] = SourceJSONFile
	}

	// Merge Promtail configuration
	if jsonConfig.Promtail != nil {
		if c.Logging.Promtail == nil {
			c.Logging.Promtail = &PromtailConfig{}
		}
		c.mergePromtailConfig(jsonConfig.Promtail)
	}
}

// mergePromtailConfig merges Promtail configuration from JSON
func (c *AppConfig) mergePromtailConfig(jsonConfig *PromtailConfig) {
	if jsonConfig.URL != "" {
		c.Logging.Promtail.URL = jsonConfig.URL
		c.ConfigSources["Promtail.URL"] = SourceJSONFile
	}
	if jsonConfig.Username != "" {
		c.Logging.Promtail.Username = jsonConfig.Username
		c.ConfigSources["Promtail.Username"] = SourceJSONFile
	}
	if jsonConfig.Password != "" {
		c.Logging.Promtail.Password = jsonConfig.Password
		c.ConfigSources["Promtail.Password"] = SourceJSONFile
	}
	if jsonConfig.BatchWaitSeconds != 0 {
		c.Logging.Promtail.BatchWaitSeconds = jsonConfig.BatchWaitSeconds
		c.ConfigSources["Promtail.BatchWaitSeconds"] = SourceJSONFile
	}
	if jsonConfig.BatchCapacity != 0 {
		c.Logging.Promtail.BatchCapacity = jsonConfig.BatchCapacity
		c.ConfigSources["Promtail.BatchCapacity"] = SourceJSONFile
	}
	if jsonConfig.TimeoutSeconds != 0 {
		c.Logging.Promtail.TimeoutSeconds = jsonConfig.TimeoutSeconds
		c.ConfigSources["Promtail.TimeoutSeconds"] = SourceJSONFile
	}
}

// splitCommaSeparated splits a comma-separated string into a slice of strings
// It also trims whitespace from each element
func splitCommaSeparated(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// slicesEqual compares two string slices for equality
func slicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
