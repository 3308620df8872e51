package impl

import (
	"sync"
	"testing"
	"time"

	usecase "github.com/ca-srg/xbmon/usecase/interface"
)

func testSnapshot() usecase.RuntimeSnapshot {
	return usecase.RuntimeSnapshot{
		CheckInterval:        150 * time.Second,
		ActiveCheckInterval:  60 * time.Second,
		OfflineInterrupt:     420 * time.Second,
		ActiveInactiveNotify: true,
		GameChangeNotify:     false,
		StatusNotify:         false,
		ErrorNotify:          true,
		DesktopNotify:        true,
		ActivityWatchlist:    []string{"Sea of Thieves", "Halo*"},
	}
}

func TestRuntimeSettingsImpl_SeedsFromSnapshot(t *testing.T) {
	settings := NewRuntimeSettings(testSnapshot())

	if got := settings.CheckInterval(); got != 150*time.Second {
		t.Errorf("CheckInterval = %v, want 150s", got)
	}
	if got := settings.ActiveCheckInterval(); got != 60*time.Second {
		t.Errorf("ActiveCheckInterval = %v, want 60s", got)
	}
	if got := settings.OfflineInterrupt(); got != 420*time.Second {
		t.Errorf("OfflineInterrupt = %v, want 420s", got)
	}
	if !settings.ActiveInactiveNotify() {
		t.Error("ActiveInactiveNotify should be seeded true")
	}
	if settings.GameChangeNotify() {
		t.Error("GameChangeNotify should be seeded false")
	}
	if settings.StatusNotify() {
		t.Error("StatusNotify should be seeded false")
	}
	if !settings.ErrorNotify() {
		t.Error("ErrorNotify should be seeded true")
	}
	if !settings.DesktopNotify() {
		t.Error("DesktopNotify should be seeded true")
	}
	if got := settings.ActivityWatchlist(); len(got) != 2 || got[0] != "Sea of Thieves" {
		t.Errorf("ActivityWatchlist = %v, want seeded patterns", got)
	}
}

func TestRuntimeSettingsImpl_AdjustActiveCheckInterval(t *testing.T) {
	settings := NewRuntimeSettings(testSnapshot())

	// Step up.
	if got := settings.AdjustActiveCheckInterval(30 * time.Second); got != 90*time.Second {
		t.Errorf("after +30s: got %v, want 90s", got)
	}
	if got := settings.ActiveCheckInterval(); got != 90*time.Second {
		t.Errorf("ActiveCheckInterval after adjust = %v, want 90s", got)
	}

	// Step down.
	if got := settings.AdjustActiveCheckInterval(-30 * time.Second); got != 60*time.Second {
		t.Errorf("after -30s: got %v, want 60s", got)
	}

	// Stepping below the floor clamps instead of going to zero or negative.
	if got := settings.AdjustActiveCheckInterval(-5 * time.Minute); got != 30*time.Second {
		t.Errorf("after large decrement: got %v, want 30s floor", got)
	}
	if got := settings.AdjustActiveCheckInterval(-30 * time.Second); got != 30*time.Second {
		t.Errorf("decrement at floor: got %v, want to stay at 30s", got)
	}

	// The base interval is untouched by active interval adjustments.
	if got := settings.CheckInterval(); got != 150*time.Second {
		t.Errorf("CheckInterval changed to %v, want 150s", got)
	}
}

func TestRuntimeSettingsImpl_Toggles(t *testing.T) {
	settings := NewRuntimeSettings(testSnapshot())

	if got := settings.ToggleActiveInactiveNotify(); got {
		t.Error("ToggleActiveInactiveNotify should flip true to false")
	}
	if settings.ActiveInactiveNotify() {
		t.Error("ActiveInactiveNotify should read false after toggle")
	}
	if got := settings.ToggleActiveInactiveNotify(); !got {
		t.Error("second toggle should flip back to true")
	}

	if got := settings.ToggleGameChangeNotify(); !got {
		t.Error("ToggleGameChangeNotify should flip false to true")
	}
	if !settings.GameChangeNotify() {
		t.Error("GameChangeNotify should read true after toggle")
	}

	if got := settings.ToggleStatusNotify(); !got {
		t.Error("ToggleStatusNotify should flip false to true")
	}
	if got := settings.ToggleStatusNotify(); got {
		t.Error("second ToggleStatusNotify should flip back to false")
	}
}

func TestRuntimeSettingsImpl_ApplyReplacesSnapshot(t *testing.T) {
	settings := NewRuntimeSettings(testSnapshot())

	settings.Apply(usecase.RuntimeSnapshot{
		CheckInterval:       300 * time.Second,
		ActiveCheckInterval: 45 * time.Second,
		OfflineInterrupt:    600 * time.Second,
		StatusNotify:        true,
		ActivityWatchlist:   []string{"Forza*"},
	})

	if got := settings.CheckInterval(); got != 300*time.Second {
		t.Errorf("CheckInterval = %v, want 300s", got)
	}
	if got := settings.ActiveCheckInterval(); got != 45*time.Second {
		t.Errorf("ActiveCheckInterval = %v, want 45s", got)
	}
	if got := settings.OfflineInterrupt(); got != 600*time.Second {
		t.Errorf("OfflineInterrupt = %v, want 600s", got)
	}
	if !settings.StatusNotify() {
		t.Error("StatusNotify should be true after Apply")
	}
	// Fields absent from the new snapshot are replaced, not merged.
	if settings.ActiveInactiveNotify() {
		t.Error("ActiveInactiveNotify should be false after Apply with zero value")
	}
	if got := settings.ActivityWatchlist(); len(got) != 1 || got[0] != "Forza*" {
		t.Errorf("ActivityWatchlist = %v, want [Forza*]", got)
	}
}

func TestRuntimeSettingsImpl_ApplyClampsActiveInterval(t *testing.T) {
	settings := NewRuntimeSettings(testSnapshot())

	snap := testSnapshot()
	snap.ActiveCheckInterval = 5 * time.Second
	settings.Apply(snap)

	if got := settings.ActiveCheckInterval(); got != 30*time.Second {
		t.Errorf("ActiveCheckInterval = %v, want 30s floor", got)
	}
}

func TestRuntimeSettingsImpl_ReturnsCopies(t *testing.T) {
	settings := NewRuntimeSettings(testSnapshot())

	// Mutating the returned watchlist must not leak into the stored one.
	watchlist := settings.ActivityWatchlist()
	watchlist[0] = "mutated"
	if got := settings.ActivityWatchlist(); got[0] != "Sea of Thieves" {
		t.Errorf("stored watchlist changed to %v after caller mutation", got)
	}

	snap := settings.Snapshot()
	snap.ActivityWatchlist[1] = "mutated"
	snap.CheckInterval = time.Hour
	if got := settings.ActivityWatchlist(); got[1] != "Halo*" {
		t.Errorf("stored watchlist changed to %v after snapshot mutation", got)
	}
	if got := settings.CheckInterval(); got != 150*time.Second {
		t.Errorf("CheckInterval = %v, want 150s after snapshot mutation", got)
	}
}

func TestRuntimeSettingsImpl_ConcurrentAccess(t *testing.T) {
	settings := NewRuntimeSettings(testSnapshot())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				switch n % 5 {
				case 0:
					settings.AdjustActiveCheckInterval(time.Second)
				case 1:
					settings.AdjustActiveCheckInterval(-time.Second)
				case 2:
					settings.ToggleStatusNotify()
				case 3:
					settings.Apply(testSnapshot())
				default:
					_ = settings.Snapshot()
					_ = settings.ActiveCheckInterval()
					_ = settings.ActivityWatchlist()
				}
			}
		}(i)
	}
	wg.Wait()

	// Whatever interleaving happened, the floor invariant holds.
	if got := settings.ActiveCheckInterval(); got < 30*time.Second {
		t.Errorf("ActiveCheckInterval = %v, below the 30s floor", got)
	}
}
