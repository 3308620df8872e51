package controller

import (
	"testing"
	"time"

	"github.com/ca-srg/xbmon/domain"
	"github.com/ca-srg/xbmon/domain/entity"
	"github.com/ca-srg/xbmon/domain/valueobject"
	"github.com/ca-srg/xbmon/interface/presenter"
	usecase "github.com/ca-srg/xbmon/usecase/interface"
)

// captureConsole records presence reports instead of printing them
type captureConsole struct {
	reports []*presenter.PresenceReport
}

func (c *captureConsole) PrintVersion()       {}
func (c *captureConsole) PrintError(err error) {}
func (c *captureConsole) PrintPresence(report *presenter.PresenceReport) error {
	c.reports = append(c.reports, report)
	return nil
}

// captureJSON records presence reports instead of encoding them
type captureJSON struct {
	reports []*presenter.PresenceReport
}

func (c *captureJSON) PrintError(err error) error { return nil }
func (c *captureJSON) PrintPresence(report *presenter.PresenceReport) error {
	c.reports = append(c.reports, report)
	return nil
}

func testCLIMonitor(t *testing.T) *mockMonitorService {
	t.Helper()
	profile, err := entity.NewXboxProfileWithDetails("NinjaBear730", "2533274812345678", "Sam", "Seattle, WA", "")
	if err != nil {
		t.Fatalf("Failed to build profile: %v", err)
	}
	return &mockMonitorService{
		profile: profile,
		snapshot: &entity.SessionState{
			CurrentStatus:          valueobject.StatusOnline,
			StatusSince:            time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
			OnlineSessionStartedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		},
		outcomes: []usecase.PollOutcome{
			{Status: valueobject.StatusOnline, Activity: "Sea of Thieves"},
		},
	}
}

func TestCLIControllerPrintsConsoleReport(t *testing.T) {
	monitor := testCLIMonitor(t)
	console := &captureConsole{}
	json := &captureJSON{}
	cli := NewCLIController(monitor, console, json, &mockLogger{})

	if err := cli.Run(false); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(console.reports) != 1 {
		t.Fatalf("Expected one console report, got %d", len(console.reports))
	}
	if len(json.reports) != 0 {
		t.Errorf("Expected no JSON output in console mode, got %d", len(json.reports))
	}

	report := console.reports[0]
	if report.Gamertag != "NinjaBear730" {
		t.Errorf("Expected gamertag NinjaBear730, got %q", report.Gamertag)
	}
	if report.XUID != "2533274812345678" {
		t.Errorf("Expected XUID from profile, got %q", report.XUID)
	}
	if report.Status != valueobject.StatusOnline {
		t.Errorf("Expected online status, got %s", report.Status)
	}
	if report.Activity != "Sea of Thieves" {
		t.Errorf("Expected activity from poll outcome, got %q", report.Activity)
	}
	if report.OnlineSince.IsZero() {
		t.Error("Expected online session start from the snapshot")
	}
	if report.CheckedAt.IsZero() {
		t.Error("Expected a check timestamp")
	}
}

func TestCLIControllerPrintsJSONReport(t *testing.T) {
	monitor := testCLIMonitor(t)
	console := &captureConsole{}
	json := &captureJSON{}
	cli := NewCLIController(monitor, console, json, &mockLogger{})

	if err := cli.Run(true); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(json.reports) != 1 {
		t.Fatalf("Expected one JSON report, got %d", len(json.reports))
	}
	if len(console.reports) != 0 {
		t.Errorf("Expected no console output in JSON mode, got %d", len(console.reports))
	}
}

func TestCLIControllerInitializationFailure(t *testing.T) {
	monitor := &mockMonitorService{
		initErr: domain.ErrIdentityNotFound("NoSuchTag"),
	}
	console := &captureConsole{}
	cli := NewCLIController(monitor, console, &captureJSON{}, &mockLogger{})

	if err := cli.Run(false); err == nil {
		t.Fatal("Expected an error when initialization fails")
	}
	if len(console.reports) != 0 {
		t.Errorf("Expected no report after failed initialization, got %d", len(console.reports))
	}
}

func TestCLIControllerPollFailure(t *testing.T) {
	monitor := testCLIMonitor(t)
	monitor.pollErr = domain.ErrPresenceUnavailable("NinjaBear730", "stubbed outage")
	console := &captureConsole{}
	cli := NewCLIController(monitor, console, &captureJSON{}, &mockLogger{})

	if err := cli.Run(false); err == nil {
		t.Fatal("Expected an error when the poll fails")
	}
	if len(console.reports) != 0 {
		t.Errorf("Expected no report after failed poll, got %d", len(console.reports))
	}
}
