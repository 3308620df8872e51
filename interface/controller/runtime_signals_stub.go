//go:build !linux && !darwin
// +build !linux,!darwin

package controller

// setupRuntimeSignals is a no-op on platforms without SIGUSR1/SIGUSR2;
// runtime adjustments go through the config file watcher instead.
func (d *DaemonController) setupRuntimeSignals() {
}
