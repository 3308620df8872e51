//go:build !darwin
// +build !darwin

package di

// DarwinContainer holds Darwin-specific components (stub for non-Darwin)
type DarwinContainer struct{}

// initDaemonPlatform initializes platform components (stub for non-Darwin)
func (c *Container) initDaemonPlatform() error {
	// No menu bar UI outside Darwin; the daemon runs headless
	return nil
}

// GetSystrayController returns nil on non-Darwin platforms
func (c *Container) GetSystrayController() interface{} {
	return nil
}

// RunDaemon runs the headless daemon and blocks until a termination signal
func (c *Container) RunDaemon() error {
	return c.daemonController.Run()
}
