package presenter

import (
	"fmt"
	"io"
	"os"
)

const timeLayout = "2006-01-02 15:04:05"

// ConsolePresenterImpl implements ConsolePresenter for terminal output
type ConsolePresenterImpl struct {
	writer io.Writer
}

// NewConsolePresenter creates a new console presenter
func NewConsolePresenter() *ConsolePresenterImpl {
	return &ConsolePresenterImpl{
		writer: os.Stdout,
	}
}

// PrintVersion prints version information
func (p *ConsolePresenterImpl) PrintVersion() {
	_, _ = fmt.Fprintln(p.writer, "xbmon version 1.0.0")
}

// PrintError prints an error message
func (p *ConsolePresenterImpl) PrintError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}

// PrintPresence prints the result of a one-shot presence check
func (p *ConsolePresenterImpl) PrintPresence(report *PresenceReport) error {
	header := report.Gamertag
	if report.RealName != "" {
		header += " (" + report.RealName + ")"
	}
	_, _ = fmt.Fprintln(p.writer, titleStyle.Render(header))

	p.printRow("XUID", report.XUID)
	p.printRow("Location", report.Location)
	p.printRow("Bio", report.Bio)

	statusText := StyleForStatus(report.Status).Render(report.Status.Display())
	_, _ = fmt.Fprintf(p.writer, "%s%s\n", labelStyle.Render("Status"), statusText)

	p.printRow("Playing", report.Activity)

	if !report.OnlineSince.IsZero() {
		p.printRow("Online since", report.OnlineSince.Format(timeLayout))
	} else if report.Status.IsOffline() && !report.StatusSince.IsZero() {
		// The offline boundary doubles as the last-seen time.
		p.printRow("Offline since", report.StatusSince.Format(timeLayout))
	}

	p.printRow("Checked", report.CheckedAt.Format(timeLayout))
	return nil
}

// printRow prints one aligned label/value line, skipping empty values
func (p *ConsolePresenterImpl) printRow(label, value string) {
	if value == "" {
		return
	}
	_, _ = fmt.Fprintf(p.writer, "%s%s\n", labelStyle.Render(label), valueStyle.Render(value))
}
