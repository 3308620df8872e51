package di

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ca-srg/xbmon/domain"
	"github.com/ca-srg/xbmon/domain/repository"
	"github.com/ca-srg/xbmon/infrastructure/auth"
	"github.com/ca-srg/xbmon/infrastructure/config"
	"github.com/ca-srg/xbmon/infrastructure/logging"
	infraRepo "github.com/ca-srg/xbmon/infrastructure/repository"
	"github.com/ca-srg/xbmon/infrastructure/service"
	"github.com/ca-srg/xbmon/interface/controller"
	"github.com/ca-srg/xbmon/interface/presenter"
	"github.com/ca-srg/xbmon/usecase/impl"
	usecase "github.com/ca-srg/xbmon/usecase/interface"
)

// Container is the dependency injection container
type Container struct {
	// Configuration
	config        *config.AppConfig
	configRepo    repository.ConfigRepository
	configService usecase.ConfigService

	// Repositories
	xboxRepo    repository.XboxAPIRepository
	recordRepo  repository.StatusRecordRepository
	csvRepo     repository.CSVReportRepository
	emailRepo   repository.EmailRepository
	desktopRepo repository.DesktopNotifyRepository
	metricsRepo repository.PresenceMetricsRepository

	// Services
	authenticator   auth.XboxAuthenticator
	timezoneService repository.TimezoneService

	// Use Cases
	settings       usecase.RuntimeSettings
	monitorService usecase.PresenceMonitorService
	metricsService usecase.MetricsService
	statusService  usecase.StatusService

	// Presenters
	consolePresenter presenter.ConsolePresenter
	jsonPresenter    presenter.JSONPresenter

	// Controllers
	cliController    *controller.CLIController
	daemonController *controller.DaemonController

	// Platform-specific components (tray on darwin)
	darwinContainer *DarwinContainer

	// Logging
	loggerFactory domain.LoggerFactory
	logger        domain.Logger

	// Options
	debugMode  bool
	daemonMode bool
	configPath string
	overrides  []func(*config.AppConfig)
}

// ContainerOption is a function that configures the container
type ContainerOption func(*Container)

// WithDebugMode sets the debug mode
func WithDebugMode(debug bool) ContainerOption {
	return func(c *Container) {
		c.debugMode = debug
	}
}

// WithDaemonMode forces daemon mode on regardless of the configured value
func WithDaemonMode(daemon bool) ContainerOption {
	return func(c *Container) {
		c.daemonMode = daemon
	}
}

// WithConfigPath overrides the config file location
func WithConfigPath(path string) ContainerOption {
	return func(c *Container) {
		c.configPath = path
	}
}

// WithConfigOverride registers a mutation applied to the loaded configuration
// before any component reads it. Command line flags that shadow config values
// come in through here.
func WithConfigOverride(fn func(*config.AppConfig)) ContainerOption {
	return func(c *Container) {
		c.overrides = append(c.overrides, fn)
	}
}

// NewContainer creates a new DI container
func NewContainer(opts ...ContainerOption) (*Container, error) {
	container := &Container{}

	// Apply options
	for _, opt := range opts {
		opt(container)
	}

	// Load configuration
	if err := container.initConfig(); err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}

	// Initialize logging
	if err := container.initLogging(); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	// Initialize repositories
	if err := container.initRepositories(); err != nil {
		return nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}

	// Initialize domain services
	if err := container.initDomainServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize domain services: %w", err)
	}

	// Initialize use cases
	if err := container.initUseCases(); err != nil {
		return nil, fmt.Errorf("failed to initialize use cases: %w", err)
	}

	// Initialize presenters
	if err := container.initPresenters(); err != nil {
		return nil, fmt.Errorf("failed to initialize presenters: %w", err)
	}

	// Initialize controllers
	if err := container.initControllers(); err != nil {
		return nil, fmt.Errorf("failed to initialize controllers: %w", err)
	}

	// Initialize Prometheus components if enabled
	if err := container.initPrometheus(); err != nil {
		return nil, fmt.Errorf("failed to initialize prometheus: %w", err)
	}

	// Initialize Daemon components if enabled
	if err := container.initDaemon(); err != nil {
		return nil, fmt.Errorf("failed to initialize daemon: %w", err)
	}

	return container, nil
}

// initConfig initializes configuration
func (c *Container) initConfig() error {
	// Create config repository
	configRepo := infraRepo.NewJSONConfigRepository()
	if c.configPath != "" {
		if jsonRepo, ok := configRepo.(*infraRepo.JSONConfigRepository); ok {
			jsonRepo.SetConfigDir(filepath.Dir(c.configPath))
			jsonRepo.SetConfigFile(c.configPath)
		}
	}
	c.configRepo = configRepo

	// Create temporary NoOpLogger for initial configuration loading
	tempLogger := &logging.NoOpLogger{}

	// Create config service with temporary logger
	configService, err := impl.NewConfigService(c.configRepo, tempLogger)
	if err != nil {
		c.config = config.DefaultConfig()
		return fmt.Errorf("failed to create config service: %w", err)
	}
	c.configService = configService

	// Ensure config file exists (create template if needed)
	if err := configService.EnsureConfigExists(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to create config file: %v\n", err)
		// Continue with defaults
	}

	// Get configuration from service (with fallback to defaults)
	cfg := configService.GetConfig()

	// Override debug mode if set via command line
	if c.debugMode {
		if cfg.Logging == nil {
			cfg.Logging = &config.LoggingConfig{
				Level: "info",
				Debug: true,
			}
		} else {
			cfg.Logging.Debug = true
		}
	}

	// Force daemon mode on when requested via command line
	if c.daemonMode {
		if cfg.Daemon == nil {
			cfg.Daemon = &config.DaemonConfig{
				PidFile: "/tmp/xbmon.pid",
			}
		}
		cfg.Daemon.Enabled = true
	}

	// Apply command line overrides last so flags win over file and env
	for _, override := range c.overrides {
		override(cfg)
	}

	c.config = cfg
	return nil
}

// initLogging initializes logging components
func (c *Container) initLogging() error {
	// Ensure logging configuration exists
	if c.config.Logging == nil {
		c.config.Logging = &config.LoggingConfig{
			Level:          "info",
			Debug:          false,
			FileMaxSizeMB:  10,
			FileMaxBackups: 3,
			FileMaxAgeDays: 28,
		}
	}

	// Create logger factory
	c.loggerFactory = logging.NewLoggerFactory(c.config.Logging)

	// Create main logger for the container
	c.logger = c.loggerFactory.CreateLogger("xbmon")

	return nil
}

// initRepositories initializes repository implementations
func (c *Container) initRepositories() error {
	// The authenticator comes first; the Xbox API repository asks it for a
	// fresh authorization header on every request.
	authenticator, err := auth.NewXboxAuthenticator(c.config.Xbox, c.CreateLogger("auth"))
	if err != nil {
		return fmt.Errorf("failed to create xbox authenticator: %w", err)
	}
	c.authenticator = authenticator

	timeout := 15 * time.Second
	if c.config.Xbox != nil && c.config.Xbox.RequestTimeoutSec > 0 {
		timeout = time.Duration(c.config.Xbox.RequestTimeoutSec) * time.Second
	}

	probeURL := ""
	stateDir := ""
	if c.config.Monitor != nil {
		probeURL = c.config.Monitor.ConnectivityProbeURL
		stateDir = c.config.Monitor.StateDir
	}

	c.xboxRepo = infraRepo.NewXboxAPIRepository(c.authenticator, timeout, probeURL)
	c.recordRepo = infraRepo.NewJSONStatusRecordRepository(stateDir)

	// Notification sinks report themselves disabled when their config is
	// absent, so they are constructed unconditionally.
	csvPath := ""
	if c.config.CSV != nil {
		csvPath = c.config.CSV.FilePath
	}
	c.csvRepo = infraRepo.NewCSVReportRepository(csvPath, c.CreateLogger("csv"))
	c.emailRepo = infraRepo.NewSMTPEmailRepository(c.config.SMTP)
	c.desktopRepo = infraRepo.NewDesktopNotifyRepository()

	return nil
}

// initDomainServices initializes domain services
func (c *Container) initDomainServices() error {
	// Initialize timezone service
	c.timezoneService = service.NewTimezoneServiceImpl(c.config, c.logger)
	return nil
}

// initUseCases initializes use case implementations
func (c *Container) initUseCases() error {
	// Initialize Status service
	c.statusService = impl.NewStatusService()

	// Runtime settings start from the configured values; signals and the
	// tray menu mutate them afterwards.
	c.settings = impl.NewRuntimeSettings(usecase.SnapshotFromConfig(c.config))

	gamertag := ""
	if c.config.Xbox != nil {
		gamertag = c.config.Xbox.Gamertag
	}

	// Initialize Presence monitor service
	c.monitorService = impl.NewPresenceMonitorService(
		gamertag,
		c.xboxRepo,
		c.recordRepo,
		c.statusService,
		c.settings,
		c.emailRepo,
		c.csvRepo,
		c.desktopRepo,
		c.timezoneService,
		c.CreateLogger("monitor"),
	)

	return nil
}

// initPresenters initializes presenter implementations
func (c *Container) initPresenters() error {
	c.consolePresenter = presenter.NewConsolePresenter()
	c.jsonPresenter = presenter.NewJSONPresenter()
	return nil
}

// initControllers initializes controller implementations
func (c *Container) initControllers() error {
	c.cliController = controller.NewCLIController(
		c.monitorService,
		c.consolePresenter,
		c.jsonPresenter,
		c.CreateLogger("cli"),
	)
	return nil
}

// initPrometheus initializes Prometheus components
func (c *Container) initPrometheus() error {
	// Remote write stays off unless a URL is configured; the no-op
	// repository keeps the metrics service wiring uniform.
	if c.config.Prometheus == nil || c.config.Prometheus.RemoteWriteURL == "" {
		c.metricsRepo = infraRepo.NewNoOpMetricsRepository()
	} else {
		metricsRepo, err := infraRepo.NewPrometheusMetricsRepository(c.config.Prometheus)
		if err != nil {
			return fmt.Errorf("failed to create metrics repository: %w", err)
		}
		c.metricsRepo = metricsRepo
	}

	// Initialize metrics service
	c.metricsService = impl.NewMetricsServiceImpl(
		c.monitorService,
		c.metricsRepo,
		c.config.Prometheus,
		c.CreateLogger("metrics"),
	)

	return nil
}

// initDaemon initializes daemon components
func (c *Container) initDaemon() error {
	// Only initialize if daemon mode is configured
	if c.config.Daemon == nil || !c.config.Daemon.Enabled {
		return nil
	}

	// Initialize daemon controller
	c.daemonController = controller.NewDaemonController(
		c.config,
		c.configService,
		c.monitorService,
		c.statusService,
		c.metricsService,
		c.settings,
		c.CreateLogger("daemon"),
	)

	// Initialize platform components (tray on darwin, nothing elsewhere)
	return c.initDaemonPlatform()
}

// GetConfig returns the application configuration
func (c *Container) GetConfig() *config.AppConfig {
	return c.config
}

// GetXboxAuthenticator returns the Xbox Live authenticator
func (c *Container) GetXboxAuthenticator() auth.XboxAuthenticator {
	return c.authenticator
}

// GetXboxAPIRepository returns the Xbox Live API repository
func (c *Container) GetXboxAPIRepository() repository.XboxAPIRepository {
	return c.xboxRepo
}

// GetStatusRecordRepository returns the status record repository
func (c *Container) GetStatusRecordRepository() repository.StatusRecordRepository {
	return c.recordRepo
}

// GetConsolePresenter returns the console presenter
func (c *Container) GetConsolePresenter() presenter.ConsolePresenter {
	return c.consolePresenter
}

// GetJSONPresenter returns the JSON presenter
func (c *Container) GetJSONPresenter() presenter.JSONPresenter {
	return c.jsonPresenter
}

// GetCLIController returns the CLI controller
func (c *Container) GetCLIController() *controller.CLIController {
	return c.cliController
}

// GetDaemonController returns the daemon controller
func (c *Container) GetDaemonController() *controller.DaemonController {
	return c.daemonController
}

// GetMetricsRepository returns the metrics repository
func (c *Container) GetMetricsRepository() repository.PresenceMetricsRepository {
	return c.metricsRepo
}

// GetMetricsService returns the metrics service
func (c *Container) GetMetricsService() usecase.MetricsService {
	return c.metricsService
}

// GetMonitorService returns the presence monitor service
func (c *Container) GetMonitorService() usecase.PresenceMonitorService {
	return c.monitorService
}

// GetRuntimeSettings returns the mutable runtime settings
func (c *Container) GetRuntimeSettings() usecase.RuntimeSettings {
	return c.settings
}

// GetStatusService returns the status service
func (c *Container) GetStatusService() usecase.StatusService {
	return c.statusService
}

// GetLoggerFactory returns the logger factory
func (c *Container) GetLoggerFactory() domain.LoggerFactory {
	return c.loggerFactory
}

// GetLogger returns the main logger
func (c *Container) GetLogger() domain.Logger {
	return c.logger
}

// CreateLogger creates a new logger for a specific component
func (c *Container) CreateLogger(component string) domain.Logger {
	if c.loggerFactory == nil {
		return &logging.NoOpLogger{}
	}
	return c.loggerFactory.CreateLogger(component)
}

// GetConfigRepository returns the config repository
func (c *Container) GetConfigRepository() repository.ConfigRepository {
	return c.configRepo
}

// GetConfigService returns the config service
func (c *Container) GetConfigService() usecase.ConfigService {
	return c.configService
}

// GetTimezoneService returns the timezone service
func (c *Container) GetTimezoneService() repository.TimezoneService {
	return c.timezoneService
}

// InitDaemonComponents initializes daemon components on demand
func (c *Container) InitDaemonComponents() error {
	return c.initDaemon()
}

// Builder pattern for custom container configuration

// ContainerBuilder builds a custom container
type ContainerBuilder struct {
	config      *config.AppConfig
	configRepo  repository.ConfigRepository
	xboxRepo    repository.XboxAPIRepository
	recordRepo  repository.StatusRecordRepository
	emailRepo   repository.EmailRepository
	csvRepo     repository.CSVReportRepository
	desktopRepo repository.DesktopNotifyRepository
	metricsRepo repository.PresenceMetricsRepository
	useCustom   bool
}

// NewContainerBuilder creates a new container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{}
}

// WithConfig sets a custom configuration
func (b *ContainerBuilder) WithConfig(cfg *config.AppConfig) *ContainerBuilder {
	b.config = cfg
	b.useCustom = true
	return b
}

// WithConfigRepository sets a custom config repository
func (b *ContainerBuilder) WithConfigRepository(repo repository.ConfigRepository) *ContainerBuilder {
	b.configRepo = repo
	b.useCustom = true
	return b
}

// WithXboxAPIRepository sets a custom Xbox Live API repository
func (b *ContainerBuilder) WithXboxAPIRepository(repo repository.XboxAPIRepository) *ContainerBuilder {
	b.xboxRepo = repo
	b.useCustom = true
	return b
}

// WithStatusRecordRepository sets a custom status record repository
func (b *ContainerBuilder) WithStatusRecordRepository(repo repository.StatusRecordRepository) *ContainerBuilder {
	b.recordRepo = repo
	b.useCustom = true
	return b
}

// WithEmailRepository sets a custom email repository
func (b *ContainerBuilder) WithEmailRepository(repo repository.EmailRepository) *ContainerBuilder {
	b.emailRepo = repo
	b.useCustom = true
	return b
}

// WithCSVReportRepository sets a custom CSV report repository
func (b *ContainerBuilder) WithCSVReportRepository(repo repository.CSVReportRepository) *ContainerBuilder {
	b.csvRepo = repo
	b.useCustom = true
	return b
}

// WithDesktopNotifyRepository sets a custom desktop notification repository
func (b *ContainerBuilder) WithDesktopNotifyRepository(repo repository.DesktopNotifyRepository) *ContainerBuilder {
	b.desktopRepo = repo
	b.useCustom = true
	return b
}

// WithMetricsRepository sets a custom metrics repository
func (b *ContainerBuilder) WithMetricsRepository(repo repository.PresenceMetricsRepository) *ContainerBuilder {
	b.metricsRepo = repo
	b.useCustom = true
	return b
}

// Build builds the container with custom components
func (b *ContainerBuilder) Build() (*Container, error) {
	container := &Container{}

	// Use custom config repository or create default
	if b.configRepo != nil {
		container.configRepo = b.configRepo
	} else {
		container.configRepo = infraRepo.NewJSONConfigRepository()
	}

	// Use custom config or load default
	if b.config != nil {
		container.config = b.config
		tempLogger := &logging.NoOpLogger{}
		configService, err := impl.NewConfigService(container.configRepo, tempLogger)
		if err != nil {
			return nil, fmt.Errorf("failed to create config service: %w", err)
		}
		container.configService = configService
	} else {
		if err := container.initConfig(); err != nil {
			return nil, fmt.Errorf("failed to initialize config: %w", err)
		}
	}

	if err := container.initLogging(); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	// Use custom Xbox repository or create default; only the default needs
	// working credentials.
	if b.xboxRepo != nil {
		container.xboxRepo = b.xboxRepo
	} else {
		authenticator, err := auth.NewXboxAuthenticator(container.config.Xbox, container.CreateLogger("auth"))
		if err != nil {
			return nil, fmt.Errorf("failed to create xbox authenticator: %w", err)
		}
		container.authenticator = authenticator

		timeout := 15 * time.Second
		if container.config.Xbox != nil && container.config.Xbox.RequestTimeoutSec > 0 {
			timeout = time.Duration(container.config.Xbox.RequestTimeoutSec) * time.Second
		}
		probeURL := ""
		if container.config.Monitor != nil {
			probeURL = container.config.Monitor.ConnectivityProbeURL
		}
		container.xboxRepo = infraRepo.NewXboxAPIRepository(authenticator, timeout, probeURL)
	}

	// Use custom local repositories or create defaults
	if b.recordRepo != nil {
		container.recordRepo = b.recordRepo
	} else {
		stateDir := ""
		if container.config.Monitor != nil {
			stateDir = container.config.Monitor.StateDir
		}
		container.recordRepo = infraRepo.NewJSONStatusRecordRepository(stateDir)
	}

	if b.emailRepo != nil {
		container.emailRepo = b.emailRepo
	} else {
		container.emailRepo = infraRepo.NewSMTPEmailRepository(container.config.SMTP)
	}

	if b.csvRepo != nil {
		container.csvRepo = b.csvRepo
	} else {
		csvPath := ""
		if container.config.CSV != nil {
			csvPath = container.config.CSV.FilePath
		}
		container.csvRepo = infraRepo.NewCSVReportRepository(csvPath, container.CreateLogger("csv"))
	}

	if b.desktopRepo != nil {
		container.desktopRepo = b.desktopRepo
	} else {
		container.desktopRepo = infraRepo.NewDesktopNotifyRepository()
	}

	// Initialize remaining components
	if err := container.initDomainServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize domain services: %w", err)
	}

	if err := container.initUseCases(); err != nil {
		return nil, fmt.Errorf("failed to initialize use cases: %w", err)
	}

	if err := container.initPresenters(); err != nil {
		return nil, fmt.Errorf("failed to initialize presenters: %w", err)
	}
	if err := container.initControllers(); err != nil {
		return nil, fmt.Errorf("failed to initialize controllers: %w", err)
	}

	if b.metricsRepo != nil {
		container.metricsRepo = b.metricsRepo
		container.metricsService = impl.NewMetricsServiceImpl(
			container.monitorService,
			container.metricsRepo,
			container.config.Prometheus,
			container.CreateLogger("metrics"),
		)
	} else {
		if err := container.initPrometheus(); err != nil {
			return nil, fmt.Errorf("failed to initialize prometheus: %w", err)
		}
	}

	// Initialize daemon components if configured
	if err := container.initDaemon(); err != nil {
		return nil, fmt.Errorf("failed to initialize daemon: %w", err)
	}

	return container, nil
}

// ServiceLocator provides a global access point to services (use with caution)
var defaultContainer *Container

// InitializeDefault initializes the default container
func InitializeDefault() error {
	container, err := NewContainer()
	if err != nil {
		return err
	}
	defaultContainer = container
	return nil
}

// GetDefaultContainer returns the default container
func GetDefaultContainer() (*Container, error) {
	if defaultContainer == nil {
		if err := InitializeDefault(); err != nil {
			return nil, err
		}
	}
	return defaultContainer, nil
}
