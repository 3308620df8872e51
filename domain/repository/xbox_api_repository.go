package repository

import (
	"github.com/ca-srg/xbmon/domain/entity"
)

// XboxAPIRepository defines the interface for communicating with Xbox Live
type XboxAPIRepository interface {
	// CheckConnectivity probes general network reachability before the
	// monitor enters its loop. Failure is fatal at startup.
	CheckConnectivity() error

	// GetProfileByGamertag resolves the monitored gamertag into its XUID and
	// profile settings. Called once at startup; an unresolvable gamertag is
	// fatal, unlike steady-state presence failures.
	GetProfileByGamertag(gamertag string) (*entity.XboxProfile, error)

	// GetPresence fetches the current presence for a XUID and normalizes it
	// into a canonical snapshot. Transient failures are reported as domain
	// errors and must not be treated as a presence state.
	GetPresence(xuid string) (*entity.PresenceSnapshot, error)
}
