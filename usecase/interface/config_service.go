package usecase

import (
	"github.com/ca-srg/xbmon/infrastructure/config"
)

// ConfigService manages application configuration
type ConfigService interface {
	// GetConfig returns the current configuration
	GetConfig() *config.AppConfig

	// UpdateConfig validates and applies a new configuration
	UpdateConfig(newConfig *config.AppConfig) error

	// GetConfigWithSources returns the configuration together with the
	// source of each value
	GetConfigWithSources() (*config.AppConfig, config.ConfigSourceMap)

	// SaveConfig writes the current configuration to the config file
	SaveConfig() error

	// ReloadConfig re-reads the configuration from disk and environment
	ReloadConfig() error

	// GetConfigPath returns the path of the config file
	GetConfigPath() string

	// CreateDefaultConfig creates a config file with default values
	CreateDefaultConfig() error

	// ExportConfig returns the configuration shaped for display, with
	// secrets masked
	ExportConfig() map[string]interface{}

	// EnsureConfigExists checks that a config file exists and creates a
	// template when it does not
	EnsureConfigExists() error

	// CreateTemplateConfig creates a template config file
	CreateTemplateConfig() error

	// LoadConfigWithFallback loads the configuration, falling back to
	// defaults when the file is broken
	LoadConfigWithFallback() (*config.AppConfig, error)
}
