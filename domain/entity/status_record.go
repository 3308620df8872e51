package entity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ca-srg/xbmon/domain/valueobject"
)

// StatusRecord is the minimal checkpoint persisted across restarts: the most
// recent status and when it started. Session counters are deliberately not
// part of the record. The wire form is the two-element JSON array
// [unix_timestamp, "status"] used by earlier generations of this monitor,
// kept so existing state files remain readable.
type StatusRecord struct {
	LastChangeAt time.Time
	Status       valueobject.PresenceStatus
}

// NewStatusRecord creates a new StatusRecord
func NewStatusRecord(lastChangeAt time.Time, status valueobject.PresenceStatus) *StatusRecord {
	return &StatusRecord{
		LastChangeAt: lastChangeAt,
		Status:       status,
	}
}

// Equal checks whether two records carry the same timestamp and status
func (r *StatusRecord) Equal(other *StatusRecord) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.LastChangeAt.Unix() == other.LastChangeAt.Unix() && r.Status == other.Status
}

// MarshalJSON encodes the record as [unix_timestamp, "status"]
func (r *StatusRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]interface{}{r.LastChangeAt.Unix(), string(r.Status)})
}

// UnmarshalJSON decodes the [unix_timestamp, "status"] form
func (r *StatusRecord) UnmarshalJSON(data []byte) error {
	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return fmt.Errorf("status record is not a JSON array: %w", err)
	}
	if len(elements) < 2 {
		return fmt.Errorf("status record array has %d elements, want 2", len(elements))
	}

	var unixSeconds int64
	if err := json.Unmarshal(elements[0], &unixSeconds); err != nil {
		return fmt.Errorf("status record timestamp: %w", err)
	}

	var rawStatus string
	if err := json.Unmarshal(elements[1], &rawStatus); err != nil {
		return fmt.Errorf("status record status: %w", err)
	}
	status, err := valueobject.ParsePresenceStatus(rawStatus)
	if err != nil {
		return fmt.Errorf("status record status: %w", err)
	}

	r.LastChangeAt = time.Unix(unixSeconds, 0)
	r.Status = status
	return nil
}
