package presenter

import (
	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"

	"github.com/ca-srg/xbmon/domain/valueobject"
)

// Color palette, Catppuccin Mocha
var (
	titleColor   = lipgloss.Color(catppuccin.Mocha.Mauve().Hex)
	onlineColor  = lipgloss.Color(catppuccin.Mocha.Green().Hex)
	awayColor    = lipgloss.Color(catppuccin.Mocha.Yellow().Hex)
	offlineColor = lipgloss.Color(catppuccin.Mocha.Overlay1().Hex)
	unknownColor = lipgloss.Color(catppuccin.Mocha.Red().Hex)
	labelColor   = lipgloss.Color(catppuccin.Mocha.Subtext0().Hex)
	valueColor   = lipgloss.Color(catppuccin.Mocha.Text().Hex)
)

// Line styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(titleColor)

	labelStyle = lipgloss.NewStyle().
			Foreground(labelColor).
			Width(15)

	valueStyle = lipgloss.NewStyle().
			Foreground(valueColor)

	onlineStyle = lipgloss.NewStyle().
			Foreground(onlineColor).
			Bold(true)

	awayStyle = lipgloss.NewStyle().
			Foreground(awayColor).
			Bold(true)

	offlineStyle = lipgloss.NewStyle().
			Foreground(offlineColor)

	unknownStyle = lipgloss.NewStyle().
			Foreground(unknownColor)
)

// StyleForStatus returns the render style for a presence status
func StyleForStatus(status valueobject.PresenceStatus) lipgloss.Style {
	switch status {
	case valueobject.StatusOnline:
		return onlineStyle
	case valueobject.StatusAway:
		return awayStyle
	case valueobject.StatusOffline:
		return offlineStyle
	default:
		return unknownStyle
	}
}
