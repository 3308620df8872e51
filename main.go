package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ca-srg/xbmon/domain"
	"github.com/ca-srg/xbmon/infrastructure/config"
	"github.com/ca-srg/xbmon/infrastructure/di"
	"github.com/ca-srg/xbmon/interface/presenter"
)

func main() {
	// Parse command line flags
	var (
		cliMode     = flag.Bool("cli", false, "Run a single presence check and exit (default is daemon mode when configured)")
		daemonMode  = flag.Bool("daemon", false, "Run in daemon mode")
		authMode    = flag.Bool("auth", false, "Run the interactive Xbox Live sign-in and exit")
		jsonOutput  = flag.Bool("json", false, "Print the presence check as JSON (with -cli)")
		debugMode   = flag.Bool("debug", false, "Enable debug logging to stdout")
		showVersion = flag.Bool("version", false, "Print version and exit")

		configPath     = flag.String("config", "", "Path to the config file")
		gamertag       = flag.String("gamertag", "", "Gamertag to monitor (overrides config)")
		csvPath        = flag.String("csv", "", "CSV report file path (overrides config)")
		checkInterval  = flag.Int("check-interval", 0, "Poll interval in seconds while offline (overrides config)")
		activeInterval = flag.Int("active-interval", 0, "Poll interval in seconds while online (overrides config)")
		disableLogfile = flag.Bool("disable-logfile", false, "Disable logging to file")

		notifyActive = flag.Bool("notify-active", false, "Email when the user goes online or offline")
		notifyGame   = flag.Bool("notify-game", false, "Email when the played game changes")
		notifyStatus = flag.Bool("notify-status", false, "Email on every status change")
		notifyErrors = flag.Bool("notify-errors", false, "Email when polling hits an auth error")
	)
	flag.Parse()

	if *showVersion {
		presenter.NewConsolePresenter().PrintVersion()
		return
	}

	// The gamertag may also be passed as the sole positional argument, the
	// way earlier generations of this monitor were invoked.
	handle := *gamertag
	if handle == "" && flag.NArg() > 0 {
		handle = flag.Arg(0)
	}

	// Boolean notification flags only override the config when the user
	// actually passed them.
	setFlags := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })

	// Create DI container with options
	opts := []di.ContainerOption{}
	if *debugMode {
		opts = append(opts, di.WithDebugMode(true))
	}
	if *daemonMode {
		opts = append(opts, di.WithDaemonMode(true))
	}
	if *configPath != "" {
		opts = append(opts, di.WithConfigPath(*configPath))
	}
	opts = append(opts, di.WithConfigOverride(func(cfg *config.AppConfig) {
		if handle != "" {
			if cfg.Xbox == nil {
				cfg.Xbox = &config.XboxConfig{}
			}
			cfg.Xbox.Gamertag = handle
		}
		if *csvPath != "" {
			if cfg.CSV == nil {
				cfg.CSV = &config.CSVConfig{}
			}
			cfg.CSV.FilePath = *csvPath
		}
		if cfg.Monitor != nil {
			if *checkInterval > 0 {
				cfg.Monitor.CheckIntervalSec = *checkInterval
			}
			if *activeInterval > 0 {
				cfg.Monitor.ActiveCheckIntervalSec = *activeInterval
			}
		}
		if *disableLogfile && cfg.Logging != nil {
			cfg.Logging.FilePath = ""
		}
		if cfg.Notification == nil {
			cfg.Notification = &config.NotificationConfig{}
		}
		if setFlags["notify-active"] {
			cfg.Notification.ActiveInactiveNotify = *notifyActive
		}
		if setFlags["notify-game"] {
			cfg.Notification.GameChangeNotify = *notifyGame
		}
		if setFlags["notify-status"] {
			cfg.Notification.StatusNotify = *notifyStatus
		}
		if setFlags["notify-errors"] {
			cfg.Notification.ErrorNotify = *notifyErrors
		}
	}))

	container, err := di.NewContainer(opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	if *authMode {
		runAuthMode(container)
		return
	}

	// Get configuration
	cfg := container.GetConfig()

	// Determine mode based on flags and configuration
	runDaemon := false
	if *daemonMode {
		runDaemon = true
	} else if !*cliMode && cfg.Daemon != nil && cfg.Daemon.Enabled {
		runDaemon = true
	}

	// Run in appropriate mode
	if runDaemon {
		runDaemonMode(container)
	} else {
		runCLIMode(container, *jsonOutput)
	}
}

// runAuthMode runs the interactive Xbox Live sign-in
func runAuthMode(container *di.Container) {
	authenticator := container.GetXboxAuthenticator()
	if err := authenticator.InteractiveLogin(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Xbox Live sign-in failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Xbox Live sign-in complete. Tokens saved.")
}

// runCLIMode runs a single presence check and prints the result
func runCLIMode(container *di.Container, jsonOutput bool) {
	cliController := container.GetCLIController()
	if cliController == nil {
		fmt.Fprintf(os.Stderr, "CLI controller not available\n")
		os.Exit(1)
	}

	if err := cliController.Run(jsonOutput); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// runDaemonMode runs the application in daemon mode
func runDaemonMode(container *di.Container) {
	logger := container.CreateLogger("main")
	ctx := context.Background()

	if container.GetDaemonController() == nil {
		logger.Error(ctx, "Daemon mode is not available. Please check your configuration.")
		fmt.Fprintf(os.Stderr, "Daemon mode is not available. Please check your configuration.\n")
		os.Exit(1)
	}

	// RunDaemon blocks on the main thread; the macOS menu bar requires it
	if err := container.RunDaemon(); err != nil {
		logger.Error(ctx, "Daemon exited with error", domain.NewField("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Daemon exited with error: %v\n", err)
		os.Exit(1)
	}
}
