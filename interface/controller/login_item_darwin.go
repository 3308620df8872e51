//go:build darwin
// +build darwin

package controller

import (
	"fmt"
	"os"
	"path/filepath"
)

// launchAgentLabel is the LaunchAgent identifier for the start-at-login item
const launchAgentLabel = "com.xbmon.monitor"

// LoginItemManager manages the start-at-login LaunchAgent plist
type LoginItemManager struct {
	appPath   string
	plistPath string
}

// NewLoginItemManager creates a manager bound to the current executable
func NewLoginItemManager() (*LoginItemManager, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}
	realPath, err := filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve symlinks: %w", err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to locate home directory: %w", err)
	}

	return &LoginItemManager{
		appPath:   realPath,
		plistPath: filepath.Join(home, "Library", "LaunchAgents", launchAgentLabel+".plist"),
	}, nil
}

// AddToLoginItems writes the LaunchAgent plist so the monitor starts at login
func (l *LoginItemManager) AddToLoginItems() error {
	if err := os.MkdirAll(filepath.Dir(l.plistPath), 0755); err != nil {
		return fmt.Errorf("failed to create LaunchAgents directory: %w", err)
	}

	plist := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>%s</string>
	<key>ProgramArguments</key>
	<array>
		<string>%s</string>
		<string>-daemon</string>
	</array>
	<key>RunAtLoad</key>
	<true/>
	<key>KeepAlive</key>
	<false/>
</dict>
</plist>
`, launchAgentLabel, l.appPath)

	if err := os.WriteFile(l.plistPath, []byte(plist), 0644); err != nil {
		return fmt.Errorf("failed to write login item plist: %w", err)
	}
	return nil
}

// RemoveFromLoginItems deletes the LaunchAgent plist
func (l *LoginItemManager) RemoveFromLoginItems() error {
	if err := os.Remove(l.plistPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove login item plist: %w", err)
	}
	return nil
}

// IsLoginItem reports whether the LaunchAgent plist exists
func (l *LoginItemManager) IsLoginItem() (bool, error) {
	if _, err := os.Stat(l.plistPath); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// SetLoginItem sets the login item status
func (l *LoginItemManager) SetLoginItem(enabled bool) error {
	if enabled {
		return l.AddToLoginItems()
	}
	return l.RemoveFromLoginItems()
}
