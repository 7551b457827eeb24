package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"agenda-service/internal/event"
	"agenda-service/internal/metrics"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// tick is the width of the window checked on each run. It matches the
// default once-a-minute schedule.
const tick = time.Minute

type Sender interface {
	Enabled() bool
	Send(ctx context.Context, token, title, body string) error
}

type OccurrenceSource interface {
	OccurrencesStartingIn(ctx context.Context, w event.Window) ([]event.Occurrence, error)
}

type TokenStore interface {
	GetTokenUser(ctx context.Context, userID string) ([]string, error)
}

// Reminder pushes a notice to the owner's devices shortly before each
// timed occurrence starts.
type Reminder struct {
	occurrences OccurrenceSource
	tokens      TokenStore
	sender      Sender
	lead        time.Duration
	location    *time.Location
	logger      *zap.SugaredLogger
	now         func() time.Time

	disabledOnce sync.Once
}

func NewReminder(occurrences OccurrenceSource, tokens TokenStore, sender Sender, lead time.Duration, location *time.Location, logger *zap.SugaredLogger) *Reminder {
	if location == nil {
		location = time.UTC
	}
	return &Reminder{
		occurrences: occurrences,
		tokens:      tokens,
		sender:      sender,
		lead:        lead,
		location:    location,
		logger:      logger,
		now:         time.Now,
	}
}

// Schedule registers Run on c under the cron expression expr.
func (r *Reminder) Schedule(c *cron.Cron, expr string) (cron.EntryID, error) {
	return c.AddFunc(expr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := r.Run(ctx); err != nil {
			r.logger.Errorw("reminder run failed", "error", err)
		}
	})
}

// Window is the slice of time whose occurrences are due for a reminder
// at now: [now+lead, now+lead+tick).
func (r *Reminder) Window(now time.Time) event.Window {
	start := now.UTC().Truncate(time.Minute).Add(r.lead)
	return event.Window{Start: start, End: start.Add(tick - time.Nanosecond)}
}

// Run sends the reminders due now and returns how many pushes succeeded.
func (r *Reminder) Run(ctx context.Context) (int, error) {

	if r.sender == nil || !r.sender.Enabled() {
		r.disabledOnce.Do(func() {
			r.logger.Warnw("push reminders disabled: no firebase credentials")
		})
		return 0, nil
	}

	w := r.Window(r.now())
	items, err := r.occurrences.OccurrencesStartingIn(ctx, w)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, o := range items {
		if o.AllDay || o.UserID == "" {
			continue
		}
		sent += r.remind(ctx, o)
	}

	if len(items) > 0 {
		r.logger.Infow("reminders processed", "window_start", w.Start, "occurrences", len(items), "sent", sent)
	}
	return sent, nil
}

func (r *Reminder) remind(ctx context.Context, o event.Occurrence) int {

	tokens, err := r.tokens.GetTokenUser(ctx, o.UserID)
	if err != nil {
		r.logger.Warnw("reminder: tokens unavailable", "user_id", o.UserID, "error", err)
		return 0
	}

	title, body := Message(o, r.location)
	sent := 0
	for _, token := range tokens {
		if token == "" {
			continue
		}
		if err := r.sender.Send(ctx, token, title, body); err != nil {
			metrics.RemindersSent.WithLabelValues("error").Inc()
			r.logger.Warnw("reminder: push failed", "user_id", o.UserID, "occurrence_id", o.CompositeID, "error", err)
			continue
		}
		metrics.RemindersSent.WithLabelValues("ok").Inc()
		sent++
	}
	return sent
}

// Message renders the push title and body for o, with the start time in loc.
func Message(o event.Occurrence, loc *time.Location) (string, string) {
	emoji := o.Emoji
	if emoji == "" {
		emoji = "🔔"
	}
	return emoji + " " + o.Title, fmt.Sprintf("%s commence à %s", o.Title, o.Start.In(loc).Format("15:04"))
}
