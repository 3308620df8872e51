package repository

import (
	"github.com/ca-srg/xbmon/infrastructure/config"
)

// ConfigRepository manages reading and writing the JSON config file
type ConfigRepository interface {
	// Exists checks whether the config file is present
	Exists() (bool, error)

	// Load reads the configuration from the config file
	Load() (*config.AppConfig, error)

	// Save writes the configuration to the config file
	Save(config *config.AppConfig) error

	// GetConfigPath returns the path of the config file
	GetConfigPath() string

	// EnsureConfigDir makes sure the config directory exists
	EnsureConfigDir() error

	// Validate checks the configuration for consistency
	Validate(config *config.AppConfig) error
}
