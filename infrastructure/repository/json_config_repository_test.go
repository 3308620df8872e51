package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ca-srg/xbmon/infrastructure/config"
)

func validTestConfig() *config.AppConfig {
	return &config.AppConfig{
		Xbox: &config.XboxConfig{
			Gamertag:          "NinjaBear730",
			ClientID:          "11111111-2222-3333-4444-555555555555",
			RequestTimeoutSec: 15,
		},
		Monitor: &config.MonitorConfig{
			CheckIntervalSec:       150,
			ActiveCheckIntervalSec: 60,
			OfflineInterruptSec:    420,
			AliveIntervalSec:       21600,
			IntervalStepSec:        30,
		},
		Prometheus: &config.PrometheusConfig{
			RemoteWriteURL:      "http://test-prometheus:9090/api/v1/write",
			RemoteWriteUsername: "testuser",
			RemoteWritePassword: "testpass",
			IntervalSec:         600,
			TimeoutSec:          30,
		},
		Logging: &config.LoggingConfig{
			Level: "info",
			Debug: false,
		},
	}
}

func TestJSONConfigRepository_SaveAndLoad(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "xbmon-config-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer func() {
		_ = os.RemoveAll(tempDir)
	}()

	repo := &JSONConfigRepository{
		configDir:  tempDir,
		configFile: filepath.Join(tempDir, "config.json"),
	}

	testConfig := validTestConfig()

	// The file must not exist before the first save
	exists, err := repo.Exists()
	if err != nil {
		t.Fatalf("Failed to check existence: %v", err)
	}
	if exists {
		t.Error("Config file should not exist initially")
	}

	if err := repo.Save(testConfig); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	exists, err = repo.Exists()
	if err != nil {
		t.Fatalf("Failed to check existence: %v", err)
	}
	if !exists {
		t.Error("Config file should exist after save")
	}

	loadedConfig, err := repo.Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if loadedConfig.Xbox.Gamertag != testConfig.Xbox.Gamertag {
		t.Errorf("Xbox.Gamertag mismatch: got %s, want %s",
			loadedConfig.Xbox.Gamertag, testConfig.Xbox.Gamertag)
	}
	if loadedConfig.Monitor.CheckIntervalSec != testConfig.Monitor.CheckIntervalSec {
		t.Errorf("Monitor.CheckIntervalSec mismatch: got %d, want %d",
			loadedConfig.Monitor.CheckIntervalSec, testConfig.Monitor.CheckIntervalSec)
	}
	if loadedConfig.Prometheus.RemoteWriteURL != testConfig.Prometheus.RemoteWriteURL {
		t.Errorf("Prometheus.RemoteWriteURL mismatch: got %s, want %s",
			loadedConfig.Prometheus.RemoteWriteURL, testConfig.Prometheus.RemoteWriteURL)
	}
}

func TestJSONConfigRepository_SavedFilePermissions(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "xbmon-config-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer func() {
		_ = os.RemoveAll(tempDir)
	}()

	repo := &JSONConfigRepository{
		configDir:  tempDir,
		configFile: filepath.Join(tempDir, "config.json"),
	}

	if err := repo.Save(validTestConfig()); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	// The file holds credentials, so it must be owner-only
	info, err := os.Stat(repo.configFile)
	if err != nil {
		t.Fatalf("Failed to stat config file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("Config file permissions: got %o, want 0600", perm)
	}
}

func TestJSONConfigRepository_Backup(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "xbmon-config-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer func() {
		_ = os.RemoveAll(tempDir)
	}()

	repo := &JSONConfigRepository{
		configDir:  tempDir,
		configFile: filepath.Join(tempDir, "config.json"),
	}

	initialConfig := validTestConfig()
	if err := repo.Save(initialConfig); err != nil {
		t.Fatalf("Failed to save initial config: %v", err)
	}

	// The second save must back up the first file
	updatedConfig := validTestConfig()
	updatedConfig.Xbox.Gamertag = "SilentWolf442"
	updatedConfig.Monitor.CheckIntervalSec = 300
	if err := repo.Save(updatedConfig); err != nil {
		t.Fatalf("Failed to save updated config: %v", err)
	}

	pattern := repo.configFile + ".backup.*"
	matches, err := filepath.Glob(pattern)
	if err != nil {
		t.Fatalf("Failed to find backup files: %v", err)
	}
	if len(matches) == 0 {
		t.Error("No backup files found")
	}
}

func TestJSONConfigRepository_LoadNonExistent(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "xbmon-config-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer func() {
		_ = os.RemoveAll(tempDir)
	}()

	repo := &JSONConfigRepository{
		configDir:  tempDir,
		configFile: filepath.Join(tempDir, "config.json"),
	}

	// A missing file is not an error
	cfg, err := repo.Load()
	if err != nil {
		t.Fatalf("Load should not error for non-existent file: %v", err)
	}
	if cfg != nil {
		t.Error("Load should return nil for non-existent file")
	}
}

func TestJSONConfigRepository_Validate(t *testing.T) {
	repo := NewJSONConfigRepository()

	err := repo.Validate(nil)
	if err == nil {
		t.Error("Validate should error for nil config")
	}

	validConfig := validTestConfig()
	err = repo.Validate(validConfig)
	if err != nil {
		t.Errorf("Validate should not error for valid config: %v", err)
	}

	// Remote write with a zero timeout must be rejected
	invalidConfig := validTestConfig()
	invalidConfig.Prometheus.TimeoutSec = 0
	err = repo.Validate(invalidConfig)
	if err == nil {
		t.Error("Validate should error for invalid config")
	}

	// A check interval below the floor must be rejected
	invalidInterval := validTestConfig()
	invalidInterval.Monitor.CheckIntervalSec = 10
	err = repo.Validate(invalidInterval)
	if err == nil {
		t.Error("Validate should error for too-short check interval")
	}
}
