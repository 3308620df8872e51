package presenter

import (
	"encoding/json"
	"io"
	"os"
	"time"
)

// JSONPresenterImpl implements JSONPresenter for JSON output
type JSONPresenterImpl struct {
	writer  io.Writer
	encoder *json.Encoder
}

// NewJSONPresenter creates a new JSON presenter
func NewJSONPresenter() *JSONPresenterImpl {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	return &JSONPresenterImpl{
		writer:  os.Stdout,
		encoder: encoder,
	}
}

// PrintPresence prints a one-shot presence check as JSON
func (p *JSONPresenterImpl) PrintPresence(report *PresenceReport) error {
	data := map[string]interface{}{
		"gamertag":  report.Gamertag,
		"xuid":      report.XUID,
		"status":    report.Status.String(),
		"checkedAt": report.CheckedAt.Format(time.RFC3339),
	}

	if report.RealName != "" {
		data["realName"] = report.RealName
	}
	if report.Location != "" {
		data["location"] = report.Location
	}
	if report.Bio != "" {
		data["bio"] = report.Bio
	}
	if report.Activity != "" {
		data["activity"] = report.Activity
	}
	if !report.StatusSince.IsZero() {
		data["statusSince"] = report.StatusSince.Format(time.RFC3339)
	}
	if !report.OnlineSince.IsZero() {
		data["onlineSince"] = report.OnlineSince.Format(time.RFC3339)
	}

	return p.encoder.Encode(data)
}

// PrintError prints an error as JSON
func (p *JSONPresenterImpl) PrintError(err error) error {
	data := map[string]interface{}{
		"error": map[string]string{
			"message": err.Error(),
		},
	}

	// Use stderr for errors
	encoder := json.NewEncoder(os.Stderr)
	encoder.SetIndent("", "  ")

	return encoder.Encode(data)
}

// SetWriter sets the output writer (mainly for testing)
func (p *JSONPresenterImpl) SetWriter(w io.Writer) {
	p.writer = w
	p.encoder = json.NewEncoder(w)
	p.encoder.SetIndent("", "  ")
}
