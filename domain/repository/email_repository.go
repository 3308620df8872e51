package repository

// EmailRepository defines the interface for email notifications. Delivery is
// best-effort: failures are logged by the caller and never abort the
// monitoring loop.
type EmailRepository interface {
	// Send delivers a plain-text notification email.
	Send(subject string, body string) error

	// IsConfigured reports whether an SMTP transport is set up. Callers skip
	// email routing entirely when it is not.
	IsConfigured() bool
}
