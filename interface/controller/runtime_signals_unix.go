//go:build linux || darwin
// +build linux darwin

package controller

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ca-srg/xbmon/domain"
)

// setupRuntimeSignals installs the handlers that adjust the running daemon
// without a restart:
//
//	SIGUSR1  toggle online/offline boundary emails
//	SIGUSR2  toggle game change emails
//	SIGCONT  toggle emails for every status change
//	SIGTRAP  increase the active poll interval by one step
//	SIGABRT  decrease the active poll interval by one step
//	SIGHUP   reload the config file now
func (d *DaemonController) setupRuntimeSignals() {
	sigChan := make(chan os.Signal, 4)
	signal.Notify(sigChan,
		syscall.SIGUSR1,
		syscall.SIGUSR2,
		syscall.SIGCONT,
		syscall.SIGTRAP,
		syscall.SIGABRT,
		syscall.SIGHUP,
	)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for {
			select {
			case <-d.ctx.Done():
				signal.Stop(sigChan)
				return
			case sig := <-sigChan:
				d.handleRuntimeSignal(sig)
			}
		}
	}()
}

// handleRuntimeSignal applies one runtime adjustment and logs the new value
func (d *DaemonController) handleRuntimeSignal(sig os.Signal) {
	step := time.Duration(d.config.Monitor.IntervalStepSec) * time.Second

	switch sig {
	case syscall.SIGUSR1:
		enabled := d.settings.ToggleActiveInactiveNotify()
		d.logger.Info(d.ctx, "Toggled active/inactive email notifications",
			domain.NewField("signal", sig.String()),
			domain.NewField("enabled", enabled))

	case syscall.SIGUSR2:
		enabled := d.settings.ToggleGameChangeNotify()
		d.logger.Info(d.ctx, "Toggled game change email notifications",
			domain.NewField("signal", sig.String()),
			domain.NewField("enabled", enabled))

	case syscall.SIGCONT:
		enabled := d.settings.ToggleStatusNotify()
		d.logger.Info(d.ctx, "Toggled all-status email notifications",
			domain.NewField("signal", sig.String()),
			domain.NewField("enabled", enabled))

	case syscall.SIGTRAP:
		next := d.settings.AdjustActiveCheckInterval(step)
		d.logger.Info(d.ctx, "Increased active poll interval",
			domain.NewField("signal", sig.String()),
			domain.NewField("activeCheckInterval", next.String()))

	case syscall.SIGABRT:
		next := d.settings.AdjustActiveCheckInterval(-step)
		d.logger.Info(d.ctx, "Decreased active poll interval",
			domain.NewField("signal", sig.String()),
			domain.NewField("activeCheckInterval", next.String()))

	case syscall.SIGHUP:
		d.logger.Info(d.ctx, "Reloading config file", domain.NewField("signal", sig.String()))
		d.handleConfigChange()
	}
}
