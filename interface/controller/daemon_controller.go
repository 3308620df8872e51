package controller

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/ca-srg/xbmon/domain"
	"github.com/ca-srg/xbmon/domain/valueobject"
	"github.com/ca-srg/xbmon/infrastructure/config"
	usecase "github.com/ca-srg/xbmon/usecase/interface"
)

// wakeSettleDelay is how long to wait after a system wake before the
// catch-up poll, so the network has a chance to come back first.
const wakeSettleDelay = 5 * time.Second

// DaemonController manages the daemon lifecycle: the poll loop, the PID
// file, signal handling, config hot-reload, and the periodic metrics push.
type DaemonController struct {
	config         *config.AppConfig
	configService  usecase.ConfigService
	monitorService usecase.PresenceMonitorService
	statusService  usecase.StatusService
	metricsService usecase.MetricsService
	settings       usecase.RuntimeSettings
	watcher        *config.ConfigWatcher

	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	logger   domain.Logger
	pidFile  string
	wakeChan chan struct{}

	pauseMu  sync.Mutex
	isPaused bool

	// quietPolls counts consecutive polls without a transition; owned by the
	// poll loop goroutine.
	quietPolls int
}

// NewDaemonController creates a new daemon controller
func NewDaemonController(
	cfg *config.AppConfig,
	configService usecase.ConfigService,
	monitorService usecase.PresenceMonitorService,
	statusService usecase.StatusService,
	metricsService usecase.MetricsService,
	settings usecase.RuntimeSettings,
	logger domain.Logger,
) *DaemonController {
	return &DaemonController{
		config:         cfg,
		configService:  configService,
		monitorService: monitorService,
		statusService:  statusService,
		metricsService: metricsService,
		settings:       settings,
		logger:         logger,
		wakeChan:       make(chan struct{}, 1),
	}
}

// Start initializes the daemon and launches the poll loop. Any returned
// error is fatal and the daemon must not be considered running.
func (d *DaemonController) Start() error {
	d.ctx, d.cancel = context.WithCancel(context.Background())
	d.logger.Info(d.ctx, "Starting xbmon daemon...")

	if err := d.writePIDFile(); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}

	gamertag := ""
	if d.config.Xbox != nil {
		gamertag = d.config.Xbox.Gamertag
	}
	if err := d.statusService.SetDaemonStarted(time.Now(), gamertag); err != nil {
		d.logger.Warn(d.ctx, "Failed to update daemon status", domain.NewField("error", err.Error()))
	}

	// Connectivity probe, identity resolution, and checkpoint load. A
	// failure here means the loop cannot do useful work.
	if err := d.monitorService.Initialize(); err != nil {
		_ = d.removePIDFile()
		_ = d.statusService.SetDaemonStopped()
		return err
	}

	if err := d.metricsService.StartPeriodicMetrics(); err != nil {
		d.logger.Warn(d.ctx, "Periodic metrics not started", domain.NewField("error", err.Error()))
	}

	d.startConfigWatcher()
	d.setupRuntimeSignals()
	d.setupTerminationSignals()

	if err := RegisterSystemEventHandler(d); err != nil {
		d.logger.Warn(d.ctx, "Failed to register for system events", domain.NewField("error", err.Error()))
	}

	d.wg.Add(1)
	go d.pollLoop()

	d.logger.Info(d.ctx, "Daemon started successfully")
	return nil
}

// Stop stops the daemon gracefully
func (d *DaemonController) Stop() error {
	d.logger.Info(d.ctx, "Stopping xbmon daemon...")

	if d.cancel != nil {
		d.cancel()
	}
	d.wg.Wait()

	if err := d.metricsService.StopPeriodicMetrics(); err != nil {
		d.logger.Warn(d.ctx, "Failed to stop metrics service", domain.NewField("error", err.Error()))
	}

	if d.watcher != nil {
		d.watcher.Stop()
	}

	UnregisterSystemEventHandler(d)

	if err := d.statusService.SetDaemonStopped(); err != nil {
		d.logger.Error(d.ctx, "Failed to update daemon status", domain.NewField("error", err.Error()))
	}
	if err := d.removePIDFile(); err != nil {
		d.logger.Error(d.ctx, "Failed to remove PID file", domain.NewField("error", err.Error()))
	}

	d.logger.Info(d.ctx, "Daemon stopped successfully")
	return nil
}

// Run starts the daemon and blocks until it is stopped by a signal or
// RequestStop. The returned error is non-nil only for a failed start.
func (d *DaemonController) Run() error {
	if err := d.Start(); err != nil {
		return err
	}
	<-d.ctx.Done()
	return d.Stop()
}

// RequestStop triggers a graceful shutdown from another goroutine, such as
// the tray menu quit handler.
func (d *DaemonController) RequestStop() {
	if d.cancel != nil {
		d.cancel()
	}
}

// Done exposes loop termination to callers that block elsewhere. Valid only
// after Start.
func (d *DaemonController) Done() <-chan struct{} {
	return d.ctx.Done()
}

// TriggerPoll schedules an immediate poll, skipping the remaining sleep. A
// poll already pending keeps the trigger a no-op.
func (d *DaemonController) TriggerPoll() {
	select {
	case d.wakeChan <- struct{}{}:
	default:
	}
}

// pollLoop is the main daemon loop: poll, pick the next interval from the
// observed status, sleep, repeat. A one-shot timer is re-armed after every
// cycle so interval changes apply on the next arm.
func (d *DaemonController) pollLoop() {
	defer d.wg.Done()

	// First poll fires immediately.
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-d.ctx.Done():
			return
		case <-timer.C:
		case <-d.wakeChan:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		}

		if d.paused() {
			timer.Reset(d.settings.CheckInterval())
			continue
		}

		interval := d.pollOnce()
		now := time.Now()
		if err := d.statusService.UpdateLastPoll(now, now.Add(interval)); err != nil {
			d.logger.Warn(d.ctx, "Failed to update poll timestamps", domain.NewField("error", err.Error()))
		}
		timer.Reset(interval)
	}
}

// pollOnce runs one monitoring cycle and returns the sleep interval before
// the next one
func (d *DaemonController) pollOnce() time.Duration {
	outcome, err := d.monitorService.Poll()
	if err != nil {
		// The monitor has already logged and routed the failure; back off at
		// the cadence of the last known status and retry.
		interval := d.intervalFor(d.monitorService.CurrentStatus())
		d.logger.Info(d.ctx, fmt.Sprintf("Retrying in %s", valueobject.FormatDuration(interval, 2)),
			domain.NewField("retry_in", interval.String()))
		return interval
	}

	if outcome.Changed {
		d.quietPolls = 0
		if err := d.metricsService.SendCurrentMetrics(); err != nil {
			d.logger.Warn(d.ctx, "Failed to push metrics after transition", domain.NewField("error", err.Error()))
		}
	} else {
		d.countQuietPoll(outcome)
	}

	return d.intervalFor(outcome.Status)
}

// intervalFor selects the poll interval for the given presence status
func (d *DaemonController) intervalFor(status valueobject.PresenceStatus) time.Duration {
	if status == valueobject.StatusOnline || status == valueobject.StatusAway {
		return d.settings.ActiveCheckInterval()
	}
	return d.settings.CheckInterval()
}

// countQuietPoll advances the liveness counter and logs a heartbeat line
// once enough uneventful polls have passed to cover the alive interval
func (d *DaemonController) countQuietPoll(outcome *usecase.PollOutcome) {
	d.quietPolls++
	if d.quietPolls < d.aliveEveryPolls() {
		return
	}
	d.quietPolls = 0

	polls, pollErrors := d.monitorService.PollCounts()
	d.logger.Info(d.ctx, "Alive check",
		domain.NewField("status", string(outcome.Status)),
		domain.NewField("polls", polls),
		domain.NewField("pollErrors", pollErrors),
	)
}

// aliveEveryPolls converts the alive interval into a number of quiet polls
// at the current offline cadence
func (d *DaemonController) aliveEveryPolls() int {
	check := d.settings.CheckInterval()
	if check <= 0 {
		return 1
	}
	alive := time.Duration(d.config.Monitor.AliveIntervalSec) * time.Second
	n := int(alive / check)
	if n < 1 {
		n = 1
	}
	return n
}

// startConfigWatcher begins watching the config file for hot reload. A
// watcher failure downgrades to restart-only reconfiguration.
func (d *DaemonController) startConfigWatcher() {
	path := d.configService.GetConfigPath()
	if path == "" {
		return
	}

	d.watcher = config.NewConfigWatcher(path, 0, d.handleConfigChange, d.logger)
	if err := d.watcher.Start(); err != nil {
		d.logger.Warn(d.ctx, "Config watcher could not start; changes apply on restart",
			domain.NewField("config_path", path),
			domain.NewField("error", err.Error()))
		d.watcher = nil
	}
}

// handleConfigChange re-reads the config file and applies the runtime
// adjustable values. A broken file keeps the previous settings.
func (d *DaemonController) handleConfigChange() {
	if err := d.configService.ReloadConfig(); err != nil {
		d.logger.Warn(d.ctx, "Config reload failed, keeping previous settings",
			domain.NewField("error", err.Error()))
		return
	}

	d.settings.Apply(usecase.SnapshotFromConfig(d.configService.GetConfig()))
	d.logger.Info(d.ctx, "Runtime settings updated from config file",
		domain.NewField("checkInterval", d.settings.CheckInterval().String()),
		domain.NewField("activeCheckInterval", d.settings.ActiveCheckInterval().String()),
	)
}

// setupTerminationSignals installs the SIGINT/SIGTERM handler for graceful
// shutdown
func (d *DaemonController) setupTerminationSignals() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			d.logger.Info(d.ctx, "Received signal, shutting down", domain.NewField("signal", sig.String()))
			d.cancel()
		case <-d.ctx.Done():
		}
		signal.Stop(sigChan)
	}()
}

// writePIDFile writes the process ID to a file
func (d *DaemonController) writePIDFile() error {
	if d.config.Daemon == nil || d.config.Daemon.PidFile == "" {
		return nil
	}

	pid := strconv.Itoa(os.Getpid())
	if err := os.WriteFile(d.config.Daemon.PidFile, []byte(pid), 0644); err != nil {
		return err
	}

	d.pidFile = d.config.Daemon.PidFile
	return nil
}

// removePIDFile removes the PID file
func (d *DaemonController) removePIDFile() error {
	if d.pidFile == "" {
		return nil
	}

	if err := os.Remove(d.pidFile); err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}

// paused reports whether polling is suspended for a system sleep
func (d *DaemonController) paused() bool {
	d.pauseMu.Lock()
	defer d.pauseMu.Unlock()
	return d.isPaused
}

// OnSystemSleep suspends polling while the machine sleeps; every request
// would fail anyway and the backlog would be misread as offline time.
func (d *DaemonController) OnSystemSleep() {
	d.pauseMu.Lock()
	d.isPaused = true
	d.pauseMu.Unlock()

	d.logger.Info(d.ctx, "System going to sleep, pausing presence polling")
}

// OnSystemWake resumes polling and schedules a catch-up poll once the
// network has settled
func (d *DaemonController) OnSystemWake() {
	d.pauseMu.Lock()
	d.isPaused = false
	d.pauseMu.Unlock()

	d.logger.Info(d.ctx, "System waking up, resuming presence polling")

	go func() {
		select {
		case <-time.After(wakeSettleDelay):
		case <-d.ctx.Done():
			return
		}
		d.TriggerPoll()
	}()
}
