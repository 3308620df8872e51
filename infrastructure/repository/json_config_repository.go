package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ca-srg/xbmon/domain/repository"
	"github.com/ca-srg/xbmon/infrastructure/config"
)

// JSONConfigRepository manages configuration stored as a JSON file
type JSONConfigRepository struct {
	configDir  string
	configFile string
}

// NewJSONConfigRepository creates a new JSONConfigRepository
func NewJSONConfigRepository() repository.ConfigRepository {
	homeDir, _ := os.UserHomeDir()
	configDir := filepath.Join(homeDir, ".config", "xbmon")
	return &JSONConfigRepository{
		configDir:  configDir,
		configFile: filepath.Join(configDir, "config.json"),
	}
}

// SetConfigDir overrides the config directory for tests
func (r *JSONConfigRepository) SetConfigDir(dir string) {
	r.configDir = dir
}

// SetConfigFile overrides the config file path for tests
func (r *JSONConfigRepository) SetConfigFile(file string) {
	r.configFile = file
}

// Exists checks whether the config file is present
func (r *JSONConfigRepository) Exists() (bool, error) {
	_, err := os.Stat(r.configFile)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check config file existence: %w", err)
}

// Load reads the configuration from the config file
func (r *JSONConfigRepository) Load() (*config.AppConfig, error) {
	exists, err := r.Exists()
	if err != nil {
		return nil, err
	}
	if !exists {
		// A missing file is not an error
		return nil, nil
	}

	if err := r.ensureSecurePermissions(r.configFile, false); err != nil {
		return nil, fmt.Errorf("config file security check failed: %w", err)
	}

	data, err := os.ReadFile(r.configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg config.AppConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Save writes the configuration to the config file
func (r *JSONConfigRepository) Save(cfg *config.AppConfig) error {
	if err := r.EnsureConfigDir(); err != nil {
		return err
	}

	if err := r.Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	// Keep a backup of the previous file
	exists, err := r.Exists()
	if err != nil {
		return err
	}
	if exists {
		if err := r.Backup(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to create backup: %v\n", err)
		}
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write to a temp file, then replace atomically
	tmpFile := r.configFile + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write temp config file: %w", err)
	}

	if err := os.Rename(tmpFile, r.configFile); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to save config file: %w", err)
	}

	if err := r.ensureSecurePermissions(r.configFile, false); err != nil {
		return fmt.Errorf("failed to secure config file: %w", err)
	}

	if err := r.validateConfigIntegrity(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: config integrity check failed: %v\n", err)
	}

	return nil
}

// GetConfigPath returns the path of the config file
func (r *JSONConfigRepository) GetConfigPath() string {
	return r.configFile
}

// EnsureConfigDir makes sure the config directory exists
func (r *JSONConfigRepository) EnsureConfigDir() error {
	if err := os.MkdirAll(r.configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := r.ensureSecurePermissions(r.configDir, true); err != nil {
		return fmt.Errorf("failed to secure config directory: %w", err)
	}

	return nil
}

// Backup copies the current config file aside before it is overwritten
func (r *JSONConfigRepository) Backup() error {
	exists, err := r.Exists()
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	timestamp := time.Now().Format("20060102-150405")
	backupFile := fmt.Sprintf("%s.backup.%s", r.configFile, timestamp)

	data, err := os.ReadFile(r.configFile)
	if err != nil {
		return fmt.Errorf("failed to read config file for backup: %w", err)
	}

	if err := os.WriteFile(backupFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}

	// Keep the newest five backups
	if err := r.cleanupOldBackups(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to cleanup old backups: %v\n", err)
	}

	return nil
}

// Validate checks the configuration for consistency
func (r *JSONConfigRepository) Validate(cfg *config.AppConfig) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	return cfg.Validate()
}

// cleanupOldBackups removes backup files beyond the retention count
func (r *JSONConfigRepository) cleanupOldBackups() error {
	pattern := r.configFile + ".backup.*"
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return err
	}

	if len(matches) <= 5 {
		return nil
	}

	// Timestamped names sort oldest first
	for i := 0; i < len(matches)-5; i++ {
		if err := os.Remove(matches[i]); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to remove old backup %s: %v\n", matches[i], err)
		}
	}

	return nil
}

// ensureSecurePermissions enforces owner-only access on the path
func (r *JSONConfigRepository) ensureSecurePermissions(path string, isDir bool) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}

	currentMode := info.Mode().Perm()
	var expectedMode os.FileMode
	if isDir {
		expectedMode = 0700 // rwx------
	} else {
		expectedMode = 0600 // rw-------
	}

	if currentMode != expectedMode {
		if err := os.Chmod(path, expectedMode); err != nil {
			return fmt.Errorf("failed to set permissions: %w", err)
		}
	}

	if err := r.checkOwnership(path); err != nil {
		return fmt.Errorf("ownership check failed: %w", err)
	}

	return nil
}

// checkOwnership verifies the file belongs to the current user
func (r *JSONConfigRepository) checkOwnership(path string) error {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return err
	}

	stat, ok := fileInfo.Sys().(*syscall.Stat_t)
	if !ok {
		// Non-Unix platforms skip the check
		return nil
	}

	currentUID := uint32(os.Getuid())

	if stat.Uid != currentUID {
		return fmt.Errorf("file is not owned by current user (uid: %d, expected: %d)", stat.Uid, currentUID)
	}

	return nil
}

// validateConfigIntegrity warns about suspicious credential values
func (r *JSONConfigRepository) validateConfigIntegrity(cfg *config.AppConfig) error {
	if cfg.SMTP != nil {
		if cfg.SMTP.Password != "" && len(cfg.SMTP.Password) < 8 {
			fmt.Fprintf(os.Stderr, "Warning: SMTP password appears to be weak\n")
		}
	}

	if cfg.Logging != nil && cfg.Logging.Promtail != nil {
		if cfg.Logging.Promtail.Password != "" && len(cfg.Logging.Promtail.Password) < 8 {
			fmt.Fprintf(os.Stderr, "Warning: Promtail password appears to be weak\n")
		}
	}

	return nil
}
