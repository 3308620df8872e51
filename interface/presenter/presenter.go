package presenter

import (
	"time"

	"github.com/ca-srg/xbmon/domain/valueobject"
)

// PresenceReport is the assembled result of a one-shot presence check
type PresenceReport struct {
	Gamertag string
	XUID     string
	RealName string
	Location string
	Bio      string

	Status   valueobject.PresenceStatus
	Activity string

	// StatusSince is when the current status started. For a cold check this
	// comes from the persisted record, so it survives restarts.
	StatusSince time.Time

	// OnlineSince is the start of the current online session, zero while the
	// identity is offline.
	OnlineSince time.Time

	CheckedAt time.Time
}

// ConsolePresenter handles console output formatting
type ConsolePresenter interface {
	PrintVersion()
	PrintError(err error)
	PrintPresence(report *PresenceReport) error
}

// JSONPresenter handles JSON output formatting
type JSONPresenter interface {
	PrintPresence(report *PresenceReport) error
	PrintError(err error) error
}
