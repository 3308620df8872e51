//go:build darwin
// +build darwin

package controller

import (
	"fmt"
	"time"

	"github.com/ca-srg/xbmon/assets"
	usecase "github.com/ca-srg/xbmon/usecase/interface"
	"github.com/getlantern/systray"
)

// statusRefreshInterval is how often the tray pulls fresh status for the
// tooltip and the menu header line
const statusRefreshInterval = 30 * time.Second

// SystrayController manages the system tray menu and interactions
type SystrayController struct {
	statusService usecase.StatusService
	settings      usecase.RuntimeSettings

	// Menu items
	statusItem       *systray.MenuItem
	checkNowItem     *systray.MenuItem
	activeNotifyItem *systray.MenuItem
	gameNotifyItem   *systray.MenuItem
	statusNotifyItem *systray.MenuItem
	startAtLoginItem *systray.MenuItem
	quitItem         *systray.MenuItem

	// Channels for menu actions
	checkNowChan chan struct{}
	quitChan     chan struct{}
	refreshStop  chan struct{}

	// Login item manager
	loginItemManager *LoginItemManager
}

// NewSystrayController creates a new system tray controller
func NewSystrayController(
	statusService usecase.StatusService,
	settings usecase.RuntimeSettings,
) *SystrayController {
	loginItemManager, _ := NewLoginItemManager()

	return &SystrayController{
		statusService:    statusService,
		settings:         settings,
		checkNowChan:     make(chan struct{}),
		quitChan:         make(chan struct{}),
		refreshStop:      make(chan struct{}),
		loginItemManager: loginItemManager,
	}
}

// OnReady is called when the system tray is ready
func (s *SystrayController) OnReady() {
	// Set up the system tray icon and tooltip
	systray.SetIcon(assets.IconData)
	systray.SetTooltip("xbmon - Xbox presence monitor")

	// Create menu items
	s.statusItem = systray.AddMenuItem("Waiting for first poll...", "Current presence")
	s.statusItem.Disable()
	systray.AddSeparator()
	s.checkNowItem = systray.AddMenuItem("Check Now", "Poll presence immediately")
	systray.AddSeparator()
	s.activeNotifyItem = systray.AddMenuItemCheckbox(
		"Email On/Off Transitions", "Send an email when the player comes online or goes offline",
		s.settings.ActiveInactiveNotify())
	s.gameNotifyItem = systray.AddMenuItemCheckbox(
		"Email Game Changes", "Send an email when the played game changes",
		s.settings.GameChangeNotify())
	s.statusNotifyItem = systray.AddMenuItemCheckbox(
		"Email Every Status Change", "Send an email for every status change",
		s.settings.StatusNotify())
	systray.AddSeparator()
	s.startAtLoginItem = systray.AddMenuItemCheckbox("Start at Login", "Start xbmon when you log in", false)

	// Set initial state for start at login
	if s.loginItemManager != nil {
		if isLoginItem, _ := s.loginItemManager.IsLoginItem(); isLoginItem {
			s.startAtLoginItem.Check()
		}
	}

	systray.AddSeparator()
	s.quitItem = systray.AddMenuItem("Quit", "Quit the application")

	// Start handling menu clicks and the periodic status refresh
	go s.handleMenuClicks()
	go s.refreshLoop()
}

// OnExit is called when the system tray is exiting
func (s *SystrayController) OnExit() {
	// Clean up resources
	close(s.refreshStop)
	close(s.checkNowChan)
	close(s.quitChan)
}

// handleMenuClicks handles clicks on menu items
func (s *SystrayController) handleMenuClicks() {
	for {
		select {
		case <-s.checkNowItem.ClickedCh:
			s.checkNowChan <- struct{}{}

		case <-s.activeNotifyItem.ClickedCh:
			s.syncCheckbox(s.activeNotifyItem, s.settings.ToggleActiveInactiveNotify())

		case <-s.gameNotifyItem.ClickedCh:
			s.syncCheckbox(s.gameNotifyItem, s.settings.ToggleGameChangeNotify())

		case <-s.statusNotifyItem.ClickedCh:
			s.syncCheckbox(s.statusNotifyItem, s.settings.ToggleStatusNotify())

		case <-s.startAtLoginItem.ClickedCh:
			s.handleStartAtLoginToggle()

		case <-s.quitItem.ClickedCh:
			s.quitChan <- struct{}{}
			return
		}
	}
}

// refreshLoop keeps the tray display in step with the daemon, including
// settings changed behind its back by signals or a config reload
func (s *SystrayController) refreshLoop() {
	ticker := time.NewTicker(statusRefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.refreshStop:
			return
		case <-ticker.C:
			if status, err := s.statusService.GetStatus(); err == nil {
				s.UpdateStatus(status)
			}
			s.syncNotifyToggles()
		}
	}
}

// syncNotifyToggles realigns the checkbox states with the runtime settings
func (s *SystrayController) syncNotifyToggles() {
	s.syncCheckbox(s.activeNotifyItem, s.settings.ActiveInactiveNotify())
	s.syncCheckbox(s.gameNotifyItem, s.settings.GameChangeNotify())
	s.syncCheckbox(s.statusNotifyItem, s.settings.StatusNotify())
}

// syncCheckbox sets a checkbox to the given state
func (s *SystrayController) syncCheckbox(item *systray.MenuItem, checked bool) {
	if item == nil {
		return
	}
	if checked {
		item.Check()
	} else {
		item.Uncheck()
	}
}

// GetCheckNowChannel returns the channel that signals when "Check Now" is clicked
func (s *SystrayController) GetCheckNowChannel() <-chan struct{} {
	return s.checkNowChan
}

// GetQuitChannel returns the channel that signals when "Quit" is clicked
func (s *SystrayController) GetQuitChannel() <-chan struct{} {
	return s.quitChan
}

// UpdateStatus updates the status display in the menu
func (s *SystrayController) UpdateStatus(status *usecase.StatusInfo) {
	if status == nil {
		return
	}

	// Header line: who is being watched and what they are doing
	line := status.Gamertag
	if line == "" {
		line = "xbmon"
	}
	line += ": " + status.PresenceStatus.Display()
	if status.Activity != "" {
		line += " (" + status.Activity + ")"
	}
	if s.statusItem != nil {
		s.statusItem.SetTitle(line)
	}

	// Update tooltip with current status
	tooltip := "xbmon\n"
	if status.IsRunning {
		tooltip += "Status: Running\n"
		tooltip += fmt.Sprintf("Presence: %s\n", status.PresenceStatus.Display())
		if status.LastPollAt != nil {
			tooltip += fmt.Sprintf("Last poll: %s\n", status.LastPollAt.Format("15:04:05"))
		}
		tooltip += fmt.Sprintf("Polls: %d (%d failed)", status.PollCount, status.PollErrorCount)
	} else {
		tooltip += "Status: Stopped"
	}

	systray.SetTooltip(tooltip)
}

// ShowNotification shows a notification to the user
func (s *SystrayController) ShowNotification(title, message string) {
	// systray has no notification API, so borrow the tooltip for a moment
	systray.SetTooltip(fmt.Sprintf("%s: %s", title, message))

	// Reset tooltip after 3 seconds
	go func() {
		time.Sleep(3 * time.Second)
		status, _ := s.statusService.GetStatus()
		s.UpdateStatus(status)
	}()
}

// handleStartAtLoginToggle handles toggling the start at login setting
func (s *SystrayController) handleStartAtLoginToggle() {
	if s.loginItemManager == nil {
		s.ShowNotification("Error", "Login item management not available")
		return
	}

	// Check current state
	isLoginItem, err := s.loginItemManager.IsLoginItem()
	if err != nil {
		s.ShowNotification("Error", fmt.Sprintf("Failed to check login item status: %v", err))
		return
	}

	// Toggle the state
	newState := !isLoginItem
	err = s.loginItemManager.SetLoginItem(newState)
	if err != nil {
		s.ShowNotification("Error", fmt.Sprintf("Failed to update login item: %v", err))
		// Revert the checkbox state
		s.syncCheckbox(s.startAtLoginItem, isLoginItem)
		return
	}

	// Update checkbox state
	s.syncCheckbox(s.startAtLoginItem, newState)
	if newState {
		s.ShowNotification("Success", "xbmon will start at login")
	} else {
		s.ShowNotification("Success", "xbmon will not start at login")
	}
}
