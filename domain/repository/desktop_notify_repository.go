package repository

// DesktopNotifyRepository defines the interface for desktop notifications.
// Backed by the freedesktop notification service on Linux and a no-op
// elsewhere; best-effort like every other sink.
type DesktopNotifyRepository interface {
	// Notify shows a desktop notification with a summary line and body text.
	Notify(summary string, body string) error

	// IsAvailable reports whether a notification service can be reached.
	IsAvailable() bool
}
