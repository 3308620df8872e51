//go:build darwin
// +build darwin

package di

import (
	"github.com/getlantern/systray"

	"github.com/ca-srg/xbmon/interface/controller"
)

// DarwinContainer holds Darwin-specific components
type DarwinContainer struct {
	systrayController *controller.SystrayController
}

// initDaemonPlatform initializes the menu bar components for Darwin
func (c *Container) initDaemonPlatform() error {
	systrayController := controller.NewSystrayController(
		c.statusService,
		c.settings,
	)

	c.darwinContainer = &DarwinContainer{
		systrayController: systrayController,
	}

	return nil
}

// GetSystrayController returns the systray controller (Darwin only)
func (c *Container) GetSystrayController() *controller.SystrayController {
	if c.darwinContainer != nil {
		return c.darwinContainer.systrayController
	}
	return nil
}

// RunDaemon runs the daemon with its menu bar UI and blocks until quit.
// systray.Run must own the main thread on macOS, so the poll loop runs in
// the background and a bridge goroutine connects the two.
func (c *Container) RunDaemon() error {
	daemon := c.daemonController
	tray := c.darwinContainer.systrayController

	if c.config.Daemon != nil && c.config.Daemon.HideFromDock {
		controller.HideFromDock()
	}

	if err := daemon.Start(); err != nil {
		return err
	}

	go func() {
		for {
			select {
			case _, ok := <-tray.GetCheckNowChannel():
				if !ok {
					return
				}
				daemon.TriggerPoll()
			case _, ok := <-tray.GetQuitChannel():
				if !ok {
					return
				}
				daemon.RequestStop()
			case <-daemon.Done():
				// A signal or quit request ends the poll loop; take the
				// tray down with it.
				systray.Quit()
				return
			}
		}
	}()

	systray.Run(tray.OnReady, tray.OnExit)

	return daemon.Stop()
}
