package repository

import (
	"time"

	"github.com/ca-srg/xbmon/domain"
	"github.com/ca-srg/xbmon/domain/entity"
	"github.com/ca-srg/xbmon/domain/valueobject"
)

// systemTitles are title names the presence API reports for dashboard and
// companion surfaces. They never count as an activity.
var systemTitles = map[string]struct{}{
	"Online":   {},
	"Home":     {},
	"Xbox App": {},
}

// platformNames maps the API's device type identifiers onto the labels used
// in notifications and reports. Unlisted types pass through unchanged.
var platformNames = map[string]string{
	"Scarlett":       "Xbox Series X/S",
	"XboxSeries":     "Xbox Series X/S",
	"XboxOne":        "Xbox One",
	"Xbox360":        "Xbox 360",
	"WindowsOneCore": "PC",
}

// normalizePresence folds a raw userpresence payload into the canonical
// snapshot. The raw payload never leaves this package.
func normalizePresence(xuid string, raw *presenceResponse) (*entity.PresenceSnapshot, error) {
	status, err := valueobject.ParsePresenceStatus(raw.State)
	if err != nil {
		return nil, domain.ErrPresenceUnavailable(xuid, "presence response carries no state")
	}

	if status.IsOffline() && raw.LastSeen != nil {
		return entity.NewPresenceSnapshotWithLastOnline(
			status,
			"",
			platformName(raw.LastSeen.DeviceType),
			parseLastSeen(raw.LastSeen.Timestamp),
		)
	}

	activity, platform := pickActivity(raw.Devices)
	return entity.NewPresenceSnapshot(status, activity, platform)
}

// pickActivity selects the foreground game from the device list. A title
// qualifies when it is active, not placed in the background, and not a
// system surface. The first qualifying title wins; the device type of the
// first device is kept as the platform even when no title qualifies.
func pickActivity(devices []deviceResponse) (string, string) {
	platform := ""
	for _, device := range devices {
		if platform == "" && device.Type != "" {
			platform = platformName(device.Type)
		}
		for _, title := range device.Titles {
			if title.State != "Active" {
				continue
			}
			if title.Placement == "Background" {
				continue
			}
			if !isWatchableActivity(title.Name) {
				continue
			}
			return title.Name, platformName(device.Type)
		}
	}
	return "", platform
}

func isWatchableActivity(name string) bool {
	if name == "" {
		return false
	}
	_, system := systemTitles[name]
	return !system
}

func platformName(deviceType string) string {
	if label, ok := platformNames[deviceType]; ok {
		return label
	}
	return deviceType
}

// parseLastSeen converts the API's last-seen timestamp. A zero time is the
// degraded sentinel for a missing or unparseable value; callers already
// treat it that way.
func parseLastSeen(ts string) time.Time {
	if ts == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return time.Time{}
	}
	return parsed
}
