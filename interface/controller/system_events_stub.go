//go:build !darwin
// +build !darwin

package controller

// SystemEventHandler receives system sleep and wake notifications
type SystemEventHandler interface {
	OnSystemSleep()
	OnSystemWake()
}

// RegisterSystemEventHandler is a no-op outside macOS; there is no portable
// sleep/wake notification source and a missed poll is retried anyway.
func RegisterSystemEventHandler(handler SystemEventHandler) error {
	return nil
}

// UnregisterSystemEventHandler is a no-op outside macOS
func UnregisterSystemEventHandler(handler SystemEventHandler) {
}
