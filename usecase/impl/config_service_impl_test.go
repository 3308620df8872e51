package impl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ca-srg/xbmon/infrastructure/config"
	"github.com/ca-srg/xbmon/infrastructure/repository"
)

func newTestConfigRepo(t *testing.T) *repository.JSONConfigRepository {
	t.Helper()

	tempDir := t.TempDir()
	configRepo := &repository.JSONConfigRepository{}
	configRepo.SetConfigDir(tempDir)
	configRepo.SetConfigFile(filepath.Join(tempDir, "config.json"))
	return configRepo
}

func TestConfigServiceImpl_GetConfig(t *testing.T) {
	configRepo := newTestConfigRepo(t)

	service, err := NewConfigService(configRepo, &mockLogger{})
	if err != nil {
		t.Fatalf("Failed to create config service: %v", err)
	}

	cfg := service.GetConfig()
	if cfg == nil {
		t.Fatal("GetConfig returned nil")
	}

	if cfg.Monitor.CheckIntervalSec != 150 {
		t.Errorf("Expected default check interval 150, got %d", cfg.Monitor.CheckIntervalSec)
	}
}

func TestConfigServiceImpl_UpdateConfig(t *testing.T) {
	configRepo := newTestConfigRepo(t)

	service, err := NewConfigService(configRepo, &mockLogger{})
	if err != nil {
		t.Fatalf("Failed to create config service: %v", err)
	}

	newConfig := config.DefaultConfig()
	newConfig.Xbox.Gamertag = "NinjaBear730"
	newConfig.Monitor.CheckIntervalSec = 300

	if err := service.UpdateConfig(newConfig); err != nil {
		t.Fatalf("Failed to update config: %v", err)
	}

	updatedConfig := service.GetConfig()
	if updatedConfig.Xbox.Gamertag != "NinjaBear730" {
		t.Errorf("Expected gamertag 'NinjaBear730', got '%s'", updatedConfig.Xbox.Gamertag)
	}

	// The update must reach the file as well
	savedConfig, err := configRepo.Load()
	if err != nil {
		t.Fatalf("Failed to load saved config: %v", err)
	}
	if savedConfig.Xbox.Gamertag != "NinjaBear730" {
		t.Errorf("Saved config has wrong gamertag: %s", savedConfig.Xbox.Gamertag)
	}
	if savedConfig.Monitor.CheckIntervalSec != 300 {
		t.Errorf("Saved config has wrong check interval: %d", savedConfig.Monitor.CheckIntervalSec)
	}
}

func TestConfigServiceImpl_UpdateConfigRejectsInvalid(t *testing.T) {
	configRepo := newTestConfigRepo(t)

	service, err := NewConfigService(configRepo, &mockLogger{})
	if err != nil {
		t.Fatalf("Failed to create config service: %v", err)
	}

	badConfig := config.DefaultConfig()
	badConfig.Monitor.CheckIntervalSec = 1

	if err := service.UpdateConfig(badConfig); err == nil {
		t.Error("UpdateConfig should reject a check interval below the floor")
	}

	// The in-memory config must stay untouched
	if service.GetConfig().Monitor.CheckIntervalSec != 150 {
		t.Error("Rejected update must not change the current config")
	}
}

func TestConfigServiceImpl_CreateDefaultConfig(t *testing.T) {
	configRepo := newTestConfigRepo(t)

	service, err := NewConfigService(configRepo, &mockLogger{})
	if err != nil {
		t.Fatalf("Failed to create config service: %v", err)
	}

	if err := service.CreateDefaultConfig(); err != nil {
		t.Errorf("CreateDefaultConfig failed: %v", err)
	}

	// A second call must fail because the file already exists
	if err := service.CreateDefaultConfig(); err == nil {
		t.Error("CreateDefaultConfig should fail when config already exists")
	}

	exists, err := configRepo.Exists()
	if err != nil {
		t.Fatalf("Failed to check config existence: %v", err)
	}
	if !exists {
		t.Error("Config file should exist after CreateDefaultConfig")
	}
}

func TestConfigServiceImpl_ExportConfig(t *testing.T) {
	configRepo := newTestConfigRepo(t)

	service, err := NewConfigService(configRepo, &mockLogger{})
	if err != nil {
		t.Fatalf("Failed to create config service: %v", err)
	}

	newConfig := config.DefaultConfig()
	newConfig.SMTP.Host = "smtp.example.com"
	newConfig.SMTP.From = "xbmon@example.com"
	newConfig.SMTP.To = []string{"alerts@example.com"}
	newConfig.SMTP.Password = "smtp-secret-password"
	newConfig.Prometheus.RemoteWriteURL = "https://prometheus.example.com/write"
	newConfig.Prometheus.RemoteWriteUsername = "testuser"
	newConfig.Prometheus.RemoteWritePassword = "secret-password"
	newConfig.Logging.Promtail.Password = "promtail-secret"

	if err := service.UpdateConfig(newConfig); err != nil {
		t.Fatalf("Failed to update config: %v", err)
	}

	exported := service.ExportConfig()

	smtpMap := exported["smtp"].(map[string]interface{})
	if smtpMap["password"] != "****" {
		t.Error("SMTP password should be masked")
	}

	prometheusMap := exported["prometheus"].(map[string]interface{})
	if prometheusMap["remote_write_password"] != "****" {
		t.Error("Prometheus remote write password should be masked")
	}

	loggingMap := exported["logging"].(map[string]interface{})
	promtailMap := loggingMap["promtail"].(map[string]interface{})
	if promtailMap["password"] != "****" {
		t.Error("Promtail password should be masked")
	}

	sources := exported["_sources"].(map[string]string)
	if sources == nil {
		t.Error("Export should include source information")
	}
}

func TestConfigServiceImpl_EnsureConfigExists(t *testing.T) {
	t.Run("create template when config does not exist", func(t *testing.T) {
		configRepo := newTestConfigRepo(t)

		service, err := NewConfigService(configRepo, &mockLogger{})
		if err != nil {
			t.Fatalf("Failed to create config service: %v", err)
		}

		exists, _ := configRepo.Exists()
		if exists {
			t.Fatal("Config file should not exist initially")
		}

		if err := service.EnsureConfigExists(); err != nil {
			t.Fatalf("EnsureConfigExists failed: %v", err)
		}

		exists, _ = configRepo.Exists()
		if !exists {
			t.Fatal("Config file should be created")
		}

		loadedConfig, err := configRepo.Load()
		if err != nil {
			t.Fatalf("Failed to load created config: %v", err)
		}
		if loadedConfig == nil {
			t.Fatal("Loaded config should not be nil")
		}
	})

	t.Run("do nothing when config already exists", func(t *testing.T) {
		configRepo := newTestConfigRepo(t)

		service, err := NewConfigService(configRepo, &mockLogger{})
		if err != nil {
			t.Fatalf("Failed to create config service: %v", err)
		}

		customConfig := config.DefaultConfig()
		customConfig.Xbox.Gamertag = "NinjaBear730"
		if err := configRepo.Save(customConfig); err != nil {
			t.Fatalf("Failed to save initial config: %v", err)
		}

		if err := service.EnsureConfigExists(); err != nil {
			t.Fatalf("EnsureConfigExists failed: %v", err)
		}

		loadedConfig, _ := configRepo.Load()
		if loadedConfig.Xbox.Gamertag != "NinjaBear730" {
			t.Error("Existing config should not be modified")
		}
	})
}

func TestConfigServiceImpl_CreateTemplateConfig(t *testing.T) {
	configRepo := newTestConfigRepo(t)

	service, err := NewConfigService(configRepo, &mockLogger{})
	if err != nil {
		t.Fatalf("Failed to create config service: %v", err)
	}

	if err := service.CreateTemplateConfig(); err != nil {
		t.Fatalf("CreateTemplateConfig failed: %v", err)
	}

	exists, _ := configRepo.Exists()
	if !exists {
		t.Fatal("Template config file should be created")
	}

	loadedConfig, err := configRepo.Load()
	if err != nil {
		t.Fatalf("Failed to load template config: %v", err)
	}

	// The minimal template carries the monitor essentials only
	if loadedConfig.Monitor == nil {
		t.Error("Monitor config should exist")
	} else if loadedConfig.Monitor.CheckIntervalSec != 150 {
		t.Errorf("Expected check interval 150, got %d", loadedConfig.Monitor.CheckIntervalSec)
	}
	if loadedConfig.Daemon != nil {
		t.Error("Daemon config should not exist in minimal template")
	}
	if loadedConfig.SMTP != nil {
		t.Error("SMTP config should not exist in minimal template")
	}
}

func TestConfigServiceImpl_LoadConfigWithFallback(t *testing.T) {
	t.Run("load with valid config file", func(t *testing.T) {
		configRepo := newTestConfigRepo(t)

		service, err := NewConfigService(configRepo, &mockLogger{})
		if err != nil {
			t.Fatalf("Failed to create config service: %v", err)
		}

		validConfig := config.DefaultConfig()
		validConfig.Xbox.Gamertag = "NinjaBear730"
		if err := configRepo.Save(validConfig); err != nil {
			t.Fatalf("Failed to save config: %v", err)
		}

		cfg, err := service.LoadConfigWithFallback()
		if err != nil {
			t.Fatalf("LoadConfigWithFallback failed: %v", err)
		}

		if cfg.Xbox.Gamertag != "NinjaBear730" {
			t.Errorf("Expected gamertag 'NinjaBear730', got '%s'", cfg.Xbox.Gamertag)
		}
	})

	t.Run("fallback to defaults when config file is missing", func(t *testing.T) {
		configRepo := newTestConfigRepo(t)

		service, err := NewConfigService(configRepo, &mockLogger{})
		if err != nil {
			t.Fatalf("Failed to create config service: %v", err)
		}

		cfg, err := service.LoadConfigWithFallback()
		if err != nil {
			t.Fatalf("LoadConfigWithFallback should not fail: %v", err)
		}

		if cfg.Monitor.CheckIntervalSec != 150 {
			t.Errorf("Expected default check interval 150, got %d", cfg.Monitor.CheckIntervalSec)
		}
	})

	t.Run("fallback to defaults when config file is malformed", func(t *testing.T) {
		tempDir := t.TempDir()
		configPath := filepath.Join(tempDir, "config.json")
		if err := os.WriteFile(configPath, []byte("{ invalid json"), 0600); err != nil {
			t.Fatalf("Failed to write invalid config: %v", err)
		}

		configRepo := &repository.JSONConfigRepository{}
		configRepo.SetConfigDir(tempDir)
		configRepo.SetConfigFile(configPath)

		service, _ := NewConfigService(configRepo, &mockLogger{})

		cfg, err := service.LoadConfigWithFallback()
		if err != nil {
			t.Fatalf("LoadConfigWithFallback should not fail with malformed JSON: %v", err)
		}

		if cfg.Monitor == nil || cfg.Monitor.CheckIntervalSec == 0 {
			t.Error("Expected monitor config to have default values")
		}
	})
}
