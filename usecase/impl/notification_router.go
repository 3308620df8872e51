package impl

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ca-srg/xbmon/domain"
	"github.com/ca-srg/xbmon/domain/entity"
	"github.com/ca-srg/xbmon/domain/repository"
	"github.com/ca-srg/xbmon/domain/valueobject"
	usecase "github.com/ca-srg/xbmon/usecase/interface"
)

// notificationRouter fans a tracker event out to the configured sinks: the
// log always, the CSV report when enabled, and email and desktop
// notifications according to the runtime toggles. Sink failures are logged
// and swallowed; a broken mailer must never stop the poll loop.
type notificationRouter struct {
	logger   domain.Logger
	settings usecase.RuntimeSettings
	email    repository.EmailRepository
	csv      repository.CSVReportRepository
	desktop  repository.DesktopNotifyRepository
	timezone repository.TimezoneService
}

func newNotificationRouter(
	logger domain.Logger,
	settings usecase.RuntimeSettings,
	email repository.EmailRepository,
	csv repository.CSVReportRepository,
	desktop repository.DesktopNotifyRepository,
	timezone repository.TimezoneService,
) *notificationRouter {
	return &notificationRouter{
		logger:   logger,
		settings: settings,
		email:    email,
		csv:      csv,
		desktop:  desktop,
		timezone: timezone,
	}
}

// Route delivers one event to every applicable sink.
func (r *notificationRouter) Route(ev *entity.PresenceEvent) {
	switch ev.Kind {
	case entity.EventStatusChanged:
		r.routeStatusChange(ev)
	case entity.EventActivityStarted, entity.EventActivityChanged, entity.EventActivityEnded:
		r.routeActivityChange(ev)
	}

	r.appendCSV(ev)
}

func (r *notificationRouter) routeStatusChange(ev *entity.PresenceEvent) {
	ctx := context.Background()
	previousSpan := r.spanEndingAt(ev.OccurredAt, ev.DurationInPrevious)

	r.logger.Info(ctx, fmt.Sprintf("Xbox user %s changed status from %s to %s", ev.Gamertag, ev.OldStatus, ev.NewStatus),
		domain.NewField("gamertag", ev.Gamertag),
		domain.NewField("old_status", string(ev.OldStatus)),
		domain.NewField("new_status", string(ev.NewStatus)),
		domain.NewField("previous_for", ev.DurationInPrevious.String()),
	)
	r.logger.Info(ctx, fmt.Sprintf("User was %s for %s (%s)",
		ev.OldStatus, previousSpan.Format(2), previousSpan.FormatDateRange(true)))

	switch {
	case ev.WentOnline():
		r.logger.Info(ctx, fmt.Sprintf("*** User got ACTIVE ! (was offline since %s)",
			r.formatLocal(ev.OccurredAt.Add(-ev.DurationInPrevious))))
	case ev.LeftOnline() && !ev.OnlineSince.IsZero():
		sessionSpan := r.span(ev.OnlineSince, ev.OccurredAt)
		r.logger.Info(ctx, fmt.Sprintf("*** User got OFFLINE ! (after %s: %s)",
			sessionSpan.Format(2), sessionSpan.FormatDateRange(true)))
		if ev.SessionActivityCount > 0 {
			r.logger.Info(ctx, fmt.Sprintf("User played %d games for %s",
				ev.SessionActivityCount, valueobject.FormatDuration(ev.SessionActivityTotal, 2)))
		}
	}

	boundary := ev.WentOnline() || ev.LeftOnline()
	wantEmail := r.settings.StatusNotify() || (r.settings.ActiveInactiveNotify() && boundary)
	if wantEmail {
		subject, body := r.composeStatusEmail(ev)
		r.sendEmail(subject, body)
	}
	if boundary {
		r.notifyDesktop(
			fmt.Sprintf("%s is now %s", ev.Gamertag, ev.NewStatus.Display()),
			fmt.Sprintf("was %s for %s", ev.OldStatus, previousSpan.Format(2)),
		)
	}
}

func (r *notificationRouter) composeStatusEmail(ev *entity.PresenceEvent) (string, string) {
	previousSpan := r.spanEndingAt(ev.OccurredAt, ev.DurationInPrevious)

	after := previousSpan.Format(2)
	wasSince := fmt.Sprintf(", was %s: %s", ev.OldStatus, previousSpan.FormatDateRange(true))
	if ev.LeftOnline() && !ev.OnlineSince.IsZero() {
		sessionSpan := r.span(ev.OnlineSince, ev.OccurredAt)
		after = sessionSpan.Format(2)
		wasSince = fmt.Sprintf(", was available: %s", sessionSpan.FormatDateRange(true))
	}

	subject := fmt.Sprintf("Xbox user %s is now %s (after %s%s)", ev.Gamertag, ev.NewStatus, after, wasSince)

	var body strings.Builder
	fmt.Fprintf(&body, "Xbox user %s changed status from %s to %s\n\n", ev.Gamertag, ev.OldStatus, ev.NewStatus)
	fmt.Fprintf(&body, "User was %s for %s (%s)", ev.OldStatus, previousSpan.Format(3), previousSpan.FormatDateRange(false))
	if ev.LeftOnline() && !ev.OnlineSince.IsZero() {
		sessionSpan := r.span(ev.OnlineSince, ev.OccurredAt)
		fmt.Fprintf(&body, "\n\nUser was available for %s (%s)", sessionSpan.Format(3), sessionSpan.FormatDateRange(false))
		if ev.SessionActivityCount > 0 {
			fmt.Fprintf(&body, "\n\nUser played %d games for %s",
				ev.SessionActivityCount, valueobject.FormatDuration(ev.SessionActivityTotal, 3))
		}
	}
	fmt.Fprintf(&body, "\n\nTimestamp: %s", r.formatLocal(ev.OccurredAt))

	return subject, body.String()
}

func (r *notificationRouter) routeActivityChange(ev *entity.PresenceEvent) {
	var line, subject string

	switch ev.Kind {
	case entity.EventActivityStarted:
		line = fmt.Sprintf("Xbox user %s started playing %s", ev.Gamertag, ev.Activity)
		subject = fmt.Sprintf("Xbox user %s is playing %s", ev.Gamertag, ev.Activity)
	case entity.EventActivityChanged:
		played := valueobject.FormatDuration(ev.ActivityDuration, 2)
		line = fmt.Sprintf("Xbox user %s changed game from %s to %s (after %s)",
			ev.Gamertag, ev.PreviousActivity, ev.Activity, played)
		subject = fmt.Sprintf("Xbox user %s changed game to %s (after %s)", ev.Gamertag, ev.Activity, played)
	case entity.EventActivityEnded:
		played := valueobject.FormatDuration(ev.ActivityDuration, 2)
		line = fmt.Sprintf("Xbox user %s stopped playing %s (after %s)", ev.Gamertag, ev.PreviousActivity, played)
		subject = fmt.Sprintf("Xbox user %s stopped playing %s (after %s)", ev.Gamertag, ev.PreviousActivity, played)
	}

	r.logger.Info(context.Background(), line,
		domain.NewField("gamertag", ev.Gamertag),
		domain.NewField("activity", ev.Activity),
		domain.NewField("previous_activity", ev.PreviousActivity),
	)

	if !r.settings.GameChangeNotify() || !r.watchlistMatches(ev) {
		return
	}

	body := fmt.Sprintf("%s\n\nTimestamp: %s", line, r.formatLocal(ev.OccurredAt))
	r.sendEmail(subject, body)
	r.notifyDesktop(subject, "")
}

// NotifyAuthError sends the one-shot email for polling failures that look
// like an expired or revoked authentication token.
func (r *notificationRouter) NotifyAuthError(gamertag string, cause error) {
	if !r.settings.ErrorNotify() {
		return
	}
	subject := fmt.Sprintf("xbmon: Xbox auth error (user: %s)", gamertag)
	body := fmt.Sprintf("Xbox auth credentials might not be valid anymore!\n\n%v\n\nTimestamp: %s",
		cause, r.formatLocal(time.Now()))
	r.sendEmail(subject, body)
}

// watchlistMatches reports whether the event's activity clears the glob
// watchlist. An empty watchlist matches everything.
func (r *notificationRouter) watchlistMatches(ev *entity.PresenceEvent) bool {
	patterns := r.settings.ActivityWatchlist()
	if len(patterns) == 0 {
		return true
	}
	for _, pattern := range patterns {
		pattern = strings.ToLower(strings.TrimSpace(pattern))
		if pattern == "" {
			continue
		}
		for _, name := range []string{ev.Activity, ev.PreviousActivity} {
			if name == "" {
				continue
			}
			if ok, err := doublestar.Match(pattern, strings.ToLower(name)); err == nil && ok {
				return true
			}
		}
	}
	return false
}

func (r *notificationRouter) appendCSV(ev *entity.PresenceEvent) {
	if r.csv == nil || !r.csv.IsEnabled() {
		return
	}
	if err := r.csv.Append(ev); err != nil {
		r.logger.Warn(context.Background(), "Failed to append CSV report row", domain.NewField("error", err.Error()))
	}
}

func (r *notificationRouter) sendEmail(subject, body string) {
	if r.email == nil || !r.email.IsConfigured() {
		return
	}
	if err := r.email.Send(subject, body); err != nil {
		r.logger.Warn(context.Background(), "Failed to send notification email",
			domain.NewField("subject", subject),
			domain.NewField("error", err.Error()),
		)
	}
}

func (r *notificationRouter) notifyDesktop(summary, body string) {
	if !r.settings.DesktopNotify() || r.desktop == nil || !r.desktop.IsAvailable() {
		return
	}
	if err := r.desktop.Notify(summary, body); err != nil {
		r.logger.Debug(context.Background(), "Desktop notification failed", domain.NewField("error", err.Error()))
	}
}

func (r *notificationRouter) span(start, end time.Time) valueobject.Timespan {
	return valueobject.NewTimespan(r.toLocal(start), r.toLocal(end))
}

func (r *notificationRouter) spanEndingAt(end time.Time, length time.Duration) valueobject.Timespan {
	return r.span(end.Add(-length), end)
}

func (r *notificationRouter) formatLocal(t time.Time) string {
	return valueobject.FormatDate(r.toLocal(t))
}

func (r *notificationRouter) toLocal(t time.Time) time.Time {
	if r.timezone == nil {
		return t
	}
	return r.timezone.ConvertToUserTime(t)
}
