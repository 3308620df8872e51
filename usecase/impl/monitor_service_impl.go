package impl

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ca-srg/xbmon/domain"
	"github.com/ca-srg/xbmon/domain/entity"
	"github.com/ca-srg/xbmon/domain/repository"
	"github.com/ca-srg/xbmon/domain/valueobject"
	usecase "github.com/ca-srg/xbmon/usecase/interface"
)

// PresenceMonitorServiceImpl implements PresenceMonitorService. It owns the
// fetch-detect-notify-persist cycle for one identity; the tracker holds the
// transition logic and this service wires it to the repositories and sinks.
type PresenceMonitorServiceImpl struct {
	mu sync.Mutex

	gamertag      string
	xboxRepo      repository.XboxAPIRepository
	recordRepo    repository.StatusRecordRepository
	statusService usecase.StatusService
	settings      usecase.RuntimeSettings
	router        *notificationRouter
	logger        domain.Logger

	tracker     *presenceTracker
	profile     *entity.XboxProfile
	polls       int64
	pollErrors  int64
	authAlerted bool
	initialized bool
	firstPolled bool

	nowFunc func() time.Time
}

// NewPresenceMonitorService creates a new presence monitor service
func NewPresenceMonitorService(
	gamertag string,
	xboxRepo repository.XboxAPIRepository,
	recordRepo repository.StatusRecordRepository,
	statusService usecase.StatusService,
	settings usecase.RuntimeSettings,
	emailRepo repository.EmailRepository,
	csvRepo repository.CSVReportRepository,
	desktopRepo repository.DesktopNotifyRepository,
	timezoneService repository.TimezoneService,
	logger domain.Logger,
) usecase.PresenceMonitorService {
	return &PresenceMonitorServiceImpl{
		gamertag:      gamertag,
		xboxRepo:      xboxRepo,
		recordRepo:    recordRepo,
		statusService: statusService,
		settings:      settings,
		router:        newNotificationRouter(logger, settings, emailRepo, csvRepo, desktopRepo, timezoneService),
		logger:        logger,
		nowFunc:       time.Now,
	}
}

// Initialize probes connectivity, resolves the gamertag to an XUID, and
// seeds the tracker from the persisted checkpoint. Any returned error is
// fatal; the poll loop must not start.
func (s *PresenceMonitorServiceImpl) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx := context.Background()

	if s.gamertag == "" {
		return domain.ErrConfig("xbox", "gamertag is not configured")
	}

	if err := s.xboxRepo.CheckConnectivity(); err != nil {
		return domain.ErrXboxAPIWithCause("connectivity check", err)
	}

	profile, err := s.xboxRepo.GetProfileByGamertag(s.gamertag)
	if err != nil {
		return err
	}
	s.profile = profile

	s.logger.Info(ctx, fmt.Sprintf("Monitoring Xbox user %s", profile.Gamertag()),
		domain.NewField("gamertag", profile.Gamertag()),
		domain.NewField("xuid", profile.XUID()),
		domain.NewField("location", profile.Location()),
	)

	record, err := s.recordRepo.Load(s.gamertag)
	if err != nil {
		// A broken checkpoint is not worth refusing to start over; the
		// first poll writes a fresh one.
		s.logger.Warn(ctx, "Could not read persisted status record, starting fresh",
			domain.NewField("path", s.recordRepo.FilePath(s.gamertag)),
			domain.NewField("error", err.Error()),
		)
		record = nil
	} else if record != nil {
		s.logger.Info(ctx, fmt.Sprintf("Last known status: %s", record.Status),
			domain.NewField("since", record.LastChangeAt.Format(time.RFC3339)),
		)
	}

	s.tracker = newPresenceTracker(s.gamertag, s.settings.OfflineInterrupt(), record)
	s.initialized = true
	return nil
}

// Poll performs one monitoring cycle. On a fetch failure the session state
// stays untouched and the error is returned for the loop driver to back off
// on; an auth-looking failure additionally triggers a one-shot alert that is
// re-armed by the next success.
func (s *PresenceMonitorServiceImpl) Poll() (*usecase.PollOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx := context.Background()

	if !s.initialized {
		return nil, domain.ErrInvalidState("monitor", "uninitialized", "poll")
	}

	now := s.nowFunc()
	s.polls++
	s.tracker.SetOfflineInterrupt(s.settings.OfflineInterrupt())

	snapshot, err := s.xboxRepo.GetPresence(s.profile.XUID())
	if err != nil {
		s.pollErrors++
		_ = s.statusService.RecordError(err)
		_ = s.statusService.UpdatePollCounts(s.polls, s.pollErrors)

		if domain.LooksAuthRelated(err) {
			s.logger.Warn(ctx, "Xbox auth credentials might not be valid anymore",
				domain.NewField("error", err.Error()))
			if !s.authAlerted {
				s.authAlerted = true
				s.router.NotifyAuthError(s.gamertag, err)
			}
		} else {
			s.logger.Warn(ctx, "Presence poll failed", domain.NewField("error", err.Error()))
		}
		return nil, err
	}

	s.authAlerted = false
	_ = s.statusService.ClearError()

	events, recordChanged := s.tracker.Process(snapshot, now)

	// The checkpoint is written before any notification goes out so a
	// crash mid-notify cannot lose the transition.
	if recordChanged {
		if err := s.recordRepo.Save(s.gamertag, s.tracker.Record()); err != nil {
			s.logger.Error(ctx, "Failed to persist status record",
				domain.NewField("path", s.recordRepo.FilePath(s.gamertag)),
				domain.NewField("error", err.Error()),
			)
		}
	}

	if !s.firstPolled {
		s.firstPolled = true
		s.logInitialStatus(ctx, snapshot, recordChanged, now)
	} else {
		for _, ev := range events {
			s.router.Route(ev)
		}
	}

	state := s.tracker.State()
	_ = s.statusService.UpdatePresence(state.CurrentStatus, state.CurrentActivity, state.StatusSince, state.OnlineSessionStartedAt)
	_ = s.statusService.UpdatePollCounts(s.polls, s.pollErrors)

	return &usecase.PollOutcome{
		Status:   state.CurrentStatus,
		Activity: state.CurrentActivity,
		Changed:  len(events) > 0 || recordChanged,
	}, nil
}

// logInitialStatus reports the reconciled state after the very first poll
// and mirrors a bootstrap status flip into the CSV report.
func (s *PresenceMonitorServiceImpl) logInitialStatus(ctx context.Context, snapshot *entity.PresenceSnapshot, recordChanged bool, now time.Time) {
	state := s.tracker.State()

	s.logger.Info(ctx, fmt.Sprintf("Xbox user %s is %s", s.gamertag, state.CurrentStatus),
		domain.NewField("gamertag", s.gamertag),
		domain.NewField("status", string(state.CurrentStatus)),
		domain.NewField("since", state.StatusSince.Format(time.RFC3339)),
	)
	if state.HasActivity() {
		s.logger.Info(ctx, fmt.Sprintf("User is playing %s", state.CurrentActivity),
			domain.NewField("activity", state.CurrentActivity),
			domain.NewField("platform", snapshot.Platform()),
		)
	}

	if recordChanged {
		ev := entity.NewPresenceEvent(entity.EventStatusChanged, s.gamertag, now)
		ev.NewStatus = state.CurrentStatus
		ev.Activity = state.CurrentActivity
		s.router.appendCSV(ev)
	}
}

// Profile returns the resolved identity. Valid after Initialize.
func (s *PresenceMonitorServiceImpl) Profile() *entity.XboxProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// SessionSnapshot returns a copy of the current session accounting.
func (s *PresenceMonitorServiceImpl) SessionSnapshot() *entity.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tracker == nil {
		return nil
	}
	return s.tracker.State().Clone()
}

// CurrentStatus returns the last known presence status.
func (s *PresenceMonitorServiceImpl) CurrentStatus() valueobject.PresenceStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tracker == nil {
		return valueobject.StatusUnknown
	}
	return s.tracker.statusForInterval()
}

// PollCounts returns the cumulative poll and poll-error counters.
func (s *PresenceMonitorServiceImpl) PollCounts() (int64, int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.polls, s.pollErrors
}
