package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/ca-srg/xbmon/domain/valueobject"
)

func TestStatusRecordMarshalJSON(t *testing.T) {
	record := NewStatusRecord(time.Unix(1713708525, 0), valueobject.StatusOnline)

	data, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if got := string(data); got != `[1713708525,"online"]` {
		t.Errorf("Marshal = %s, want [1713708525,\"online\"]", got)
	}
}

func TestStatusRecordUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantStatus valueobject.PresenceStatus
		wantUnix   int64
		wantErr    bool
	}{
		{
			name:       "compact array",
			input:      `[1713708525,"online"]`,
			wantStatus: valueobject.StatusOnline,
			wantUnix:   1713708525,
		},
		{
			name:       "indented array as written by earlier versions",
			input:      "[\n  1713708525,\n  \"offline\"\n]",
			wantStatus: valueobject.StatusOffline,
			wantUnix:   1713708525,
		},
		{name: "not an array", input: `{"ts": 1}`, wantErr: true},
		{name: "too few elements", input: `[1713708525]`, wantErr: true},
		{name: "non-numeric timestamp", input: `["x","online"]`, wantErr: true},
		{name: "empty status", input: `[1713708525,""]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var record StatusRecord
			err := json.Unmarshal([]byte(tt.input), &record)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if record.Status != tt.wantStatus {
				t.Errorf("Status = %v, want %v", record.Status, tt.wantStatus)
			}
			if record.LastChangeAt.Unix() != tt.wantUnix {
				t.Errorf("LastChangeAt = %d, want %d", record.LastChangeAt.Unix(), tt.wantUnix)
			}
		})
	}
}

func TestStatusRecordRoundTrip(t *testing.T) {
	original := NewStatusRecord(time.Unix(1713708525, 0), valueobject.StatusAway)

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded StatusRecord
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !decoded.Equal(original) {
		t.Errorf("round trip mismatch: got %+v, want %+v", decoded, original)
	}

	// Re-marshaling the loaded record must produce identical bytes.
	again, err := json.Marshal(&decoded)
	if err != nil {
		t.Fatalf("second Marshal failed: %v", err)
	}
	if string(again) != string(data) {
		t.Errorf("second Marshal = %s, want %s", again, data)
	}
}

func TestStatusRecordEqual(t *testing.T) {
	ts := time.Unix(1713708525, 0)
	a := NewStatusRecord(ts, valueobject.StatusOnline)

	if !a.Equal(NewStatusRecord(ts, valueobject.StatusOnline)) {
		t.Error("expected records with same values to be equal")
	}
	if a.Equal(NewStatusRecord(ts, valueobject.StatusOffline)) {
		t.Error("expected records with different status to differ")
	}
	if a.Equal(NewStatusRecord(ts.Add(time.Second), valueobject.StatusOnline)) {
		t.Error("expected records with different timestamps to differ")
	}
	if a.Equal(nil) {
		t.Error("expected record to differ from nil")
	}
}
