package impl

import (
	"context"
	"fmt"
	"sync"

	"github.com/ca-srg/xbmon/domain"
	"github.com/ca-srg/xbmon/domain/repository"
	"github.com/ca-srg/xbmon/infrastructure/config"
	usecase "github.com/ca-srg/xbmon/usecase/interface"
)

// ConfigServiceImpl implements ConfigService
type ConfigServiceImpl struct {
	configRepo repository.ConfigRepository
	config     *config.AppConfig
	logger     domain.Logger
	mu         sync.RWMutex
}

// NewConfigService creates a new ConfigService
func NewConfigService(configRepo repository.ConfigRepository, logger domain.Logger) (usecase.ConfigService, error) {
	cfg, err := loadConfigWithFallback(configRepo, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &ConfigServiceImpl{
		configRepo: configRepo,
		config:     cfg,
		logger:     logger,
	}, nil
}

// loadConfigWithFallback loads configuration with fallback to defaults on errors
func loadConfigWithFallback(configRepo repository.ConfigRepository, logger domain.Logger) (*config.AppConfig, error) {
	ctx := context.Background()

	// Start with default configuration
	cfg := config.DefaultConfig()
	logger.Debug(ctx, "Loading configuration", domain.NewField("config_path", configRepo.GetConfigPath()))

	// Mark all defaults
	cfg.MarkDefaults()

	// Load from JSON file if it exists
	jsonConfig, err := configRepo.Load()
	if err != nil {
		// A broken config file must not stop the monitor
		logger.Warn(ctx, "Failed to load JSON configuration, using defaults",
			domain.NewField("error", err.Error()),
			domain.NewField("config_path", configRepo.GetConfigPath()))
	} else if jsonConfig != nil {
		// Merge JSON configuration
		cfg.MergeJSONConfig(jsonConfig)
		logger.Debug(ctx, "Loaded JSON configuration",
			domain.NewField("config_path", configRepo.GetConfigPath()))
	} else {
		logger.Debug(ctx, "No JSON configuration file found, using defaults",
			domain.NewField("config_path", configRepo.GetConfigPath()))
	}

	// Load environment variables (they override JSON values)
	if err := cfg.LoadFromEnv(); err != nil {
		logger.Warn(ctx, "Failed to load environment variables, using fallback values",
			domain.NewField("error", err.Error()))
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		logger.Warn(ctx, "Configuration validation failed, using default values",
			domain.NewField("error", err.Error()))
	}

	return cfg, nil
}

// GetConfig returns the current configuration
func (s *ConfigServiceImpl) GetConfig() *config.AppConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.config
}

// UpdateConfig validates and applies a new configuration
func (s *ConfigServiceImpl) UpdateConfig(newConfig *config.AppConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := newConfig.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := s.configRepo.Save(newConfig); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	s.config = newConfig

	return nil
}

// GetConfigWithSources returns the configuration together with the source of each value
func (s *ConfigServiceImpl) GetConfigWithSources() (*config.AppConfig, config.ConfigSourceMap) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.config, s.config.ConfigSources
}

// SaveConfig writes the current configuration to the config file
func (s *ConfigServiceImpl) SaveConfig() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.configRepo.Save(s.config)
}

// ReloadConfig re-reads the configuration from disk and environment
func (s *ConfigServiceImpl) ReloadConfig() error {
	ctx := context.Background()
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Info(ctx, "Reloading configuration")

	newConfig, err := loadConfigWithFallback(s.configRepo, s.logger)
	if err != nil {
		s.logger.Error(ctx, "Failed to reload configuration",
			domain.NewField("error", err.Error()))
		return fmt.Errorf("failed to reload config: %w", err)
	}

	s.config = newConfig
	s.logger.Info(ctx, "Configuration reloaded successfully")
	return nil
}

// GetConfigPath returns the path of the config file
func (s *ConfigServiceImpl) GetConfigPath() string {
	return s.configRepo.GetConfigPath()
}

// CreateDefaultConfig creates a config file with default values
func (s *ConfigServiceImpl) CreateDefaultConfig() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.configRepo.Exists()
	if err != nil {
		return fmt.Errorf("failed to check config existence: %w", err)
	}
	if exists {
		return fmt.Errorf("config file already exists at %s", s.configRepo.GetConfigPath())
	}

	defaultConfig := config.MinimalDefaultConfig()

	if err := s.configRepo.Save(defaultConfig); err != nil {
		return fmt.Errorf("failed to save default config: %w", err)
	}

	s.config = defaultConfig

	return nil
}

// ExportConfig returns the configuration shaped for display, with secrets masked
func (s *ConfigServiceImpl) ExportConfig() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	exportMap := make(map[string]interface{})

	if s.config.Xbox != nil {
		xboxMap := make(map[string]interface{})
		xboxMap["gamertag"] = s.config.Xbox.Gamertag
		xboxMap["client_id"] = s.config.Xbox.ClientID
		if s.config.Xbox.ClientSecret != "" {
			xboxMap["client_secret"] = "****"
		}
		xboxMap["tokens_path"] = s.config.Xbox.TokensPath
		xboxMap["request_timeout_seconds"] = s.config.Xbox.RequestTimeoutSec
		exportMap["xbox"] = xboxMap
	}

	if s.config.Monitor != nil {
		monitorMap := make(map[string]interface{})
		monitorMap["check_interval_seconds"] = s.config.Monitor.CheckIntervalSec
		monitorMap["active_check_interval_seconds"] = s.config.Monitor.ActiveCheckIntervalSec
		monitorMap["offline_interrupt_seconds"] = s.config.Monitor.OfflineInterruptSec
		monitorMap["alive_interval_seconds"] = s.config.Monitor.AliveIntervalSec
		monitorMap["interval_step_seconds"] = s.config.Monitor.IntervalStepSec
		monitorMap["connectivity_probe_url"] = s.config.Monitor.ConnectivityProbeURL
		monitorMap["state_dir"] = s.config.Monitor.StateDir
		monitorMap["activity_watchlist"] = s.config.Monitor.ActivityWatchlist
		monitorMap["timezone"] = s.config.Monitor.Timezone
		exportMap["monitor"] = monitorMap
	}

	if s.config.Notification != nil {
		notifyMap := make(map[string]interface{})
		notifyMap["active_inactive_notify"] = s.config.Notification.ActiveInactiveNotify
		notifyMap["game_change_notify"] = s.config.Notification.GameChangeNotify
		notifyMap["status_notify"] = s.config.Notification.StatusNotify
		notifyMap["error_notify"] = s.config.Notification.ErrorNotify
		notifyMap["desktop_notify"] = s.config.Notification.DesktopNotify
		exportMap["notification"] = notifyMap
	}

	if s.config.SMTP != nil {
		smtpMap := make(map[string]interface{})
		smtpMap["host"] = s.config.SMTP.Host
		smtpMap["port"] = s.config.SMTP.Port
		smtpMap["username"] = s.config.SMTP.Username
		// Password is masked
		if s.config.SMTP.Password != "" {
			smtpMap["password"] = "****"
		}
		smtpMap["from"] = s.config.SMTP.From
		smtpMap["to"] = s.config.SMTP.To
		smtpMap["use_tls"] = s.config.SMTP.UseTLS
		exportMap["smtp"] = smtpMap
	}

	if s.config.CSV != nil {
		csvMap := make(map[string]interface{})
		csvMap["file_path"] = s.config.CSV.FilePath
		exportMap["csv"] = csvMap
	}

	if s.config.Prometheus != nil {
		prometheusMap := make(map[string]interface{})
		prometheusMap["remote_write_url"] = s.config.Prometheus.RemoteWriteURL
		prometheusMap["host_label"] = s.config.Prometheus.HostLabel
		prometheusMap["interval_seconds"] = s.config.Prometheus.IntervalSec
		prometheusMap["timeout_seconds"] = s.config.Prometheus.TimeoutSec
		prometheusMap["remote_write_username"] = s.config.Prometheus.RemoteWriteUsername
		// Password is masked
		if s.config.Prometheus.RemoteWritePassword != "" {
			prometheusMap["remote_write_password"] = "****"
		}
		exportMap["prometheus"] = prometheusMap
	}

	if s.config.Daemon != nil {
		daemonMap := make(map[string]interface{})
		daemonMap["enabled"] = s.config.Daemon.Enabled
		daemonMap["start_at_login"] = s.config.Daemon.StartAtLogin
		daemonMap["pid_file"] = s.config.Daemon.PidFile
		exportMap["daemon"] = daemonMap
	}

	if s.config.Logging != nil {
		loggingMap := make(map[string]interface{})
		loggingMap["level"] = s.config.Logging.Level
		loggingMap["debug"] = s.config.Logging.Debug
		loggingMap["file_path"] = s.config.Logging.FilePath

		if s.config.Logging.Promtail != nil {
			promtailMap := make(map[string]interface{})
			promtailMap["url"] = s.config.Logging.Promtail.URL
			promtailMap["username"] = s.config.Logging.Promtail.Username
			// Password is masked
			if s.config.Logging.Promtail.Password != "" {
				promtailMap["password"] = "****"
			}
			promtailMap["batch_wait_seconds"] = s.config.Logging.Promtail.BatchWaitSeconds
			promtailMap["batch_capacity"] = s.config.Logging.Promtail.BatchCapacity
			promtailMap["timeout_seconds"] = s.config.Logging.Promtail.TimeoutSeconds
			loggingMap["promtail"] = promtailMap
		}
		exportMap["logging"] = loggingMap
	}

	// Attach source information
	sourcesMap := make(map[string]string)
	for key, source := range s.config.ConfigSources {
		sourcesMap[key] = string(source)
	}
	exportMap["_sources"] = sourcesMap

	return exportMap
}

// EnsureConfigExists checks that a config file exists and creates a template when it does not
func (s *ConfigServiceImpl) EnsureConfigExists() error {
	ctx := context.Background()
	s.mu.Lock()
	defer s.mu.Unlock()

	configPath := s.configRepo.GetConfigPath()
	s.logger.Debug(ctx, "Checking if configuration file exists",
		domain.NewField("config_path", configPath))

	exists, err := s.configRepo.Exists()
	if err != nil {
		s.logger.Error(ctx, "Failed to check config existence",
			domain.NewField("error", err.Error()),
			domain.NewField("config_path", configPath))
		return fmt.Errorf("failed to check config existence: %w", err)
	}

	if exists {
		s.logger.Debug(ctx, "Configuration file already exists",
			domain.NewField("config_path", configPath))
		return nil
	}

	s.logger.Info(ctx, "Configuration file not found, creating template",
		domain.NewField("config_path", configPath))

	defaultConfig := config.MinimalDefaultConfig()
	if err := s.configRepo.Save(defaultConfig); err != nil {
		s.logger.Error(ctx, "Failed to create template configuration",
			domain.NewField("error", err.Error()),
			domain.NewField("config_path", configPath))
		return fmt.Errorf("failed to create template config: %w", err)
	}

	s.config = defaultConfig
	s.logger.Info(ctx, "Template configuration created successfully",
		domain.NewField("config_path", configPath))

	return nil
}

// CreateTemplateConfig creates a template config file
func (s *ConfigServiceImpl) CreateTemplateConfig() error {
	ctx := context.Background()
	s.mu.Lock()
	defer s.mu.Unlock()

	configPath := s.configRepo.GetConfigPath()
	s.logger.Info(ctx, "Creating template configuration file",
		domain.NewField("config_path", configPath))

	defaultConfig := config.MinimalDefaultConfig()

	if err := s.configRepo.Save(defaultConfig); err != nil {
		s.logger.Error(ctx, "Failed to save template configuration",
			domain.NewField("error", err.Error()),
			domain.NewField("config_path", configPath))
		return fmt.Errorf("failed to save template config: %w", err)
	}

	s.logger.Info(ctx, "Template configuration file created successfully",
		domain.NewField("config_path", configPath))
	return nil
}

// LoadConfigWithFallback loads the configuration, falling back to defaults when the file is broken
func (s *ConfigServiceImpl) LoadConfigWithFallback() (*config.AppConfig, error) {
	return loadConfigWithFallback(s.configRepo, s.logger)
}
