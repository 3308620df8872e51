package entity

import (
	"testing"
	"time"

	"github.com/ca-srg/xbmon/domain/valueobject"
)

func TestNewPresenceSnapshot(t *testing.T) {
	tests := []struct {
		name         string
		status       valueobject.PresenceStatus
		activityName string
		platform     string
		wantErr      bool
	}{
		{
			name:         "valid online snapshot",
			status:       valueobject.StatusOnline,
			activityName: "Forza Horizon 5",
			platform:     "Xbox Series X/S",
			wantErr:      false,
		},
		{
			name:    "valid offline snapshot without activity",
			status:  valueobject.StatusOffline,
			wantErr: false,
		},
		{
			name:    "empty status",
			status:  "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot, err := NewPresenceSnapshot(tt.status, tt.activityName, tt.platform)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if snapshot.Status() != tt.status {
				t.Errorf("Status() = %v, want %v", snapshot.Status(), tt.status)
			}
			if snapshot.ActivityName() != tt.activityName {
				t.Errorf("ActivityName() = %q, want %q", snapshot.ActivityName(), tt.activityName)
			}
			if snapshot.Platform() != tt.platform {
				t.Errorf("Platform() = %q, want %q", snapshot.Platform(), tt.platform)
			}
		})
	}
}

func TestPresenceSnapshotLastOnline(t *testing.T) {
	lastOnline := time.Date(2024, 4, 21, 12, 0, 0, 0, time.UTC)

	snapshot, err := NewPresenceSnapshotWithLastOnline(valueobject.StatusOffline, "", "Xbox One", lastOnline)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !snapshot.HasLastOnline() {
		t.Error("expected HasLastOnline to be true")
	}
	if !snapshot.LastOnlineAt().Equal(lastOnline) {
		t.Errorf("LastOnlineAt() = %v, want %v", snapshot.LastOnlineAt(), lastOnline)
	}

	// Zero last-seen is the degraded sentinel, not a real time.
	degraded, err := NewPresenceSnapshotWithLastOnline(valueobject.StatusOffline, "", "", time.Time{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if degraded.HasLastOnline() {
		t.Error("expected HasLastOnline to be false for zero time")
	}
}

func TestPresenceSnapshotHasActivity(t *testing.T) {
	withActivity, _ := NewPresenceSnapshot(valueobject.StatusOnline, "Halo Infinite", "")
	if !withActivity.HasActivity() {
		t.Error("expected HasActivity to be true")
	}

	withoutActivity, _ := NewPresenceSnapshot(valueobject.StatusOnline, "", "")
	if withoutActivity.HasActivity() {
		t.Error("expected HasActivity to be false")
	}
}
