package repository

import (
	"github.com/ca-srg/xbmon/domain/entity"
)

// StatusRecordRepository defines the interface for the persisted status
// checkpoint. One small JSON file per monitored gamertag, rewritten whole on
// every status change and read once at startup.
type StatusRecordRepository interface {
	// Load reads the record for a gamertag. A missing file yields
	// (nil, nil); a corrupt file yields a persistence error.
	Load(gamertag string) (*entity.StatusRecord, error)

	// Save rewrites the record for a gamertag atomically.
	Save(gamertag string, record *entity.StatusRecord) error

	// FilePath returns the deterministic file path used for a gamertag.
	FilePath(gamertag string) string
}
