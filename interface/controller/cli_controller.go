package controller

import (
	"fmt"
	"time"

	"github.com/ca-srg/xbmon/domain"
	"github.com/ca-srg/xbmon/interface/presenter"
	usecase "github.com/ca-srg/xbmon/usecase/interface"
)

// CLIController handles the one-shot presence check
type CLIController struct {
	monitorService usecase.PresenceMonitorService
	console        presenter.ConsolePresenter
	json           presenter.JSONPresenter
	logger         domain.Logger
}

// NewCLIController creates a new CLI controller
func NewCLIController(
	monitorService usecase.PresenceMonitorService,
	console presenter.ConsolePresenter,
	json presenter.JSONPresenter,
	logger domain.Logger,
) *CLIController {
	return &CLIController{
		monitorService: monitorService,
		console:        console,
		json:           json,
		logger:         logger,
	}
}

// Run performs a single presence check and prints the result. The check goes
// through the regular monitor cycle, so it also refreshes the persisted
// status record that a later daemon start resumes from.
func (c *CLIController) Run(jsonOutput bool) error {
	if err := c.monitorService.Initialize(); err != nil {
		return fmt.Errorf("presence check failed: %w", err)
	}

	outcome, err := c.monitorService.Poll()
	if err != nil {
		return fmt.Errorf("presence check failed: %w", err)
	}

	report := c.buildReport(outcome)
	if jsonOutput {
		return c.json.PrintPresence(report)
	}
	return c.console.PrintPresence(report)
}

// buildReport assembles the presenter view from the monitor state
func (c *CLIController) buildReport(outcome *usecase.PollOutcome) *presenter.PresenceReport {
	report := &presenter.PresenceReport{
		Status:    outcome.Status,
		Activity:  outcome.Activity,
		CheckedAt: time.Now(),
	}

	if profile := c.monitorService.Profile(); profile != nil {
		report.Gamertag = profile.Gamertag()
		report.XUID = profile.XUID()
		report.RealName = profile.RealName()
		report.Location = profile.Location()
		report.Bio = profile.Bio()
	}

	if state := c.monitorService.SessionSnapshot(); state != nil {
		report.StatusSince = state.StatusSince
		report.OnlineSince = state.OnlineSessionStartedAt
	}

	return report
}
