package event

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"agenda-service/internal/holiday"
	"agenda-service/internal/metrics"
	"agenda-service/internal/realtime"
	"agenda-service/pkg/constants"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrEventNotFound   = errors.New("event not found")
	ErrAgendaForbidden = errors.New("agenda not accessible")
)

// AgendaGuard answers ownership questions about agendas.
type AgendaGuard interface {
	AgendaIDsForUser(ctx context.Context, userID string) ([]primitive.ObjectID, error)
	CheckAgendaOwner(ctx context.Context, userID string, agendaID primitive.ObjectID) error
}

type HolidaySource interface {
	Between(from, to time.Time) []holiday.Holiday
}

type OccurrenceQuery struct {
	AgendaIDs []string
	Start     *time.Time
	End       *time.Time
	Filter    Filter
	Holidays  bool
}

type EventService interface {
	CreateEvent(ctx context.Context, userID string, req *CreateEventRequest) (*Event, error)
	GetEventByID(ctx context.Context, userID, id string) (*Event, error)
	UpdateEvent(ctx context.Context, userID, id string, req *UpdateEventRequest) (*Event, error)
	DeleteEvent(ctx context.Context, userID, id string) error
	MoveEvent(ctx context.Context, userID, id, targetAgendaID string) (*Event, error)
	QueryOccurrences(ctx context.Context, userID string, q *OccurrenceQuery) ([]Occurrence, error)
	ExpandEvent(ctx context.Context, userID, id string, start, end *time.Time) ([]Occurrence, error)
	OccurrencesStartingIn(ctx context.Context, w Window) ([]Occurrence, error)
}

type eventService struct {
	eventRepository EventRepository
	agendas         AgendaGuard
	holidays        HolidaySource
	publisher       realtime.Publisher
	logger          *zap.SugaredLogger
	holidayEmoji    string
	now             func() time.Time
}

func NewEventService(repo EventRepository, agendas AgendaGuard, holidays HolidaySource, publisher realtime.Publisher, logger *zap.SugaredLogger, holidayEmoji string) EventService {
	if publisher == nil {
		publisher = realtime.Nop{}
	}
	return &eventService{
		eventRepository: repo,
		agendas:         agendas,
		holidays:        holidays,
		publisher:       publisher,
		logger:          logger,
		holidayEmoji:    holidayEmoji,
		now:             time.Now,
	}
}

// Validate checks the invariants every stored event must hold.
func Validate(ev *Event) error {
	title := strings.TrimSpace(ev.Title)
	if title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return fmt.Errorf("%w: title exceeds %d characters", ErrValidation, MaxTitleLength)
	}
	if utf8.RuneCountInString(ev.Description) > MaxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrValidation, MaxDescriptionLength)
	}
	if ev.End.Before(ev.Start) {
		return fmt.Errorf("%w: end must not be before start", ErrValidation)
	}
	return ev.Recurrence.Validate(ev.Start)
}

func (s *eventService) CreateEvent(ctx context.Context, userID string, req *CreateEventRequest) (*Event, error) {

	agendaID, err := primitive.ObjectIDFromHex(req.AgendaID)
	if err != nil {
		return nil, fmt.Errorf("%w: agenda_id %q", ErrValidation, req.AgendaID)
	}
	if err := s.agendas.CheckAgendaOwner(ctx, userID, agendaID); err != nil {
		return nil, err
	}

	start, err := ParseBoundary(req.Start, req.AllDay)
	if err != nil {
		return nil, err
	}
	end := start
	if strings.TrimSpace(req.End) != "" {
		if end, err = ParseBoundary(req.End, req.AllDay); err != nil {
			return nil, err
		}
	}

	rule, err := req.Recurrence.ToRule()
	if err != nil {
		return nil, err
	}

	emoji := strings.TrimSpace(req.Emoji)
	if emoji == "" {
		emoji = constants.DefaultEmoji
	}

	now := s.now().UTC()
	ev := &Event{
		ID:          primitive.NewObjectID(),
		AgendaID:    agendaID,
		UserID:      userID,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Emoji:       emoji,
		Start:       start,
		End:         end,
		AllDay:      req.AllDay,
		Recurrence:  rule,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	Normalize(ev)

	if err := Validate(ev); err != nil {
		return nil, err
	}

	if err := s.eventRepository.Create(ctx, ev); err != nil {
		return nil, err
	}

	s.publish(userID, realtime.TypeEventCreated, ev)
	return ev, nil
}

func (s *eventService) GetEventByID(ctx context.Context, userID, id string) (*Event, error) {

	ev, _, err := s.loadOwned(ctx, userID, id)
	return ev, err

}

func (s *eventService) UpdateEvent(ctx context.Context, userID, id string, req *UpdateEventRequest) (*Event, error) {

	ev, ref, err := s.loadOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if ref.IsOccurrence && req.reschedules() {
		return nil, ErrOccurrenceImmutable
	}

	if req.Title != nil {
		ev.Title = strings.TrimSpace(*req.Title)
	}

	if req.Description != nil {
		ev.Description = strings.TrimSpace(*req.Description)
	}

	if req.Emoji != nil {
		ev.Emoji = strings.TrimSpace(*req.Emoji)
		if ev.Emoji == "" {
			ev.Emoji = constants.DefaultEmoji
		}
	}

	if req.AllDay != nil {
		ev.AllDay = *req.AllDay
	}

	if req.Start != nil {
		t, err := ParseBoundary(*req.Start, ev.AllDay)
		if err != nil {
			return nil, err
		}
		ev.Start = t
	}

	if req.End != nil {
		t, err := ParseBoundary(*req.End, ev.AllDay)
		if err != nil {
			return nil, err
		}
		ev.End = t
	}

	if req.Recurrence != nil {
		rule, err := req.Recurrence.ToRule()
		if err != nil {
			return nil, err
		}
		ev.Recurrence = rule
	}

	Normalize(ev)
	if err := Validate(ev); err != nil {
		return nil, err
	}

	ev.UpdatedAt = s.now().UTC()

	if err := s.eventRepository.UpdateEvent(ctx, ev); err != nil {
		return nil, err
	}

	s.publish(userID, realtime.TypeEventUpdated, ev)
	return ev, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, userID, id string) error {

	ev, _, err := s.loadOwned(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.eventRepository.DeleteEvent(ctx, ev.ID); err != nil {
		return err
	}

	s.publish(userID, realtime.TypeEventDeleted, ev)
	return nil
}

func (s *eventService) MoveEvent(ctx context.Context, userID, id, targetAgendaID string) (*Event, error) {

	ev, _, err := s.loadOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	target, err := primitive.ObjectIDFromHex(targetAgendaID)
	if err != nil {
		return nil, fmt.Errorf("%w: target_agenda_id %q", ErrValidation, targetAgendaID)
	}
	if err := s.agendas.CheckAgendaOwner(ctx, userID, target); err != nil {
		return nil, err
	}
	if target == ev.AgendaID {
		return ev, nil
	}

	if err := s.eventRepository.MoveToAgenda(ctx, ev.ID, target); err != nil {
		return nil, err
	}

	from := ev.AgendaID
	ev.AgendaID = target
	s.publisher.Publish(userID, realtime.Message{Type: realtime.TypeEventMoved, AgendaID: from.Hex(), EventID: ev.ID.Hex()})
	s.publish(userID, realtime.TypeEventMoved, ev)
	return ev, nil
}

// QueryOccurrences selects the candidate events of the requested agendas,
// expands them over the window, assigns composite ids and applies the
// keyword/emoji filter. A malformed stored event is logged and skipped.
func (s *eventService) QueryOccurrences(ctx context.Context, userID string, q *OccurrenceQuery) ([]Occurrence, error) {

	w := ResolveWindow(q.Start, q.End, s.now())
	if !w.Valid() {
		return []Occurrence{}, nil
	}

	agendaIDs, withHolidays, err := s.resolveAgendas(ctx, userID, q.AgendaIDs)
	if err != nil {
		return nil, err
	}

	events, err := s.eventRepository.FindInWindow(ctx, agendaIDs, w)
	if err != nil {
		return nil, err
	}

	out := make([]Occurrence, 0, len(events))
	for _, ev := range FilterCandidates(events, w) {
		items, err := s.expand(ev, w)
		if err != nil {
			metrics.MalformedEvents.Inc()
			s.logger.Warnw("skipping event that cannot be expanded",
				"event_id", ev.ID.Hex(),
				"agenda_id", ev.AgendaID.Hex(),
				"error", err,
			)
			continue
		}
		out = append(out, items...)
	}

	if q.Holidays || withHolidays {
		out = append(out, s.holidayOccurrences(w)...)
	}

	return ApplyFilter(out, q.Filter), nil
}

func (s *eventService) ExpandEvent(ctx context.Context, userID, id string, start, end *time.Time) ([]Occurrence, error) {

	ev, _, err := s.loadOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	w := ResolveWindow(start, end, s.now())
	if !w.Valid() {
		return []Occurrence{}, nil
	}

	return s.expand(ev, w)
}

// OccurrencesStartingIn returns every occurrence, across all agendas,
// whose start lies in w. It feeds the reminder job.
func (s *eventService) OccurrencesStartingIn(ctx context.Context, w Window) ([]Occurrence, error) {

	if !w.Valid() {
		return []Occurrence{}, nil
	}

	events, err := s.eventRepository.FindAllInWindow(ctx, w)
	if err != nil {
		return nil, err
	}

	out := make([]Occurrence, 0)
	for _, ev := range FilterCandidates(events, w) {
		items, err := s.expand(ev, w)
		if err != nil {
			s.logger.Warnw("skipping event that cannot be expanded", "event_id", ev.ID.Hex(), "error", err)
			continue
		}
		for _, o := range items {
			if w.Contains(o.Start) {
				out = append(out, o)
			}
		}
	}
	return ApplyFilter(out, Filter{}), nil
}

func (s *eventService) expand(ev *Event, w Window) ([]Occurrence, error) {
	exp, err := ExpandSeries(ev, w.Start, w.End)
	if err != nil {
		return nil, err
	}

	if ev.Recurrence.Active() {
		metrics.OccurrencesGenerated.Add(float64(len(exp.Occurrences)))
	}
	if exp.Truncated {
		metrics.OccurrencesTruncated.Inc()
		s.logger.Infow("occurrence ceiling reached", "event_id", ev.ID.Hex(), "window_start", w.Start, "window_end", w.End)
	}

	agendaID := ev.AgendaID.Hex()
	for i := range exp.Occurrences {
		AssignIdentity(&exp.Occurrences[i], agendaID)
	}
	return exp.Occurrences, nil
}

func (s *eventService) holidayOccurrences(w Window) []Occurrence {
	if s.holidays == nil {
		return nil
	}

	var out []Occurrence
	for _, h := range s.holidays.Between(w.Start, w.End) {
		date := DecodeDate(h.Date)
		out = append(out, Occurrence{
			Event: Event{
				Title:  h.Name,
				Emoji:  s.holidayEmoji,
				Start:  h.Date,
				End:    h.Date,
				AllDay: true,
			},
			CompositeID: constants.HolidayAgendaID + idSeparator + date,
		})
	}
	return out
}

// resolveAgendas turns requested agenda ids into owned ObjectIDs. No ids
// means every agenda of the user. The pseudo id "holidays" is not an
// agenda; it switches holidays on.
func (s *eventService) resolveAgendas(ctx context.Context, userID string, requested []string) ([]primitive.ObjectID, bool, error) {

	withHolidays := false
	ids := make([]primitive.ObjectID, 0, len(requested))
	for _, raw := range requested {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if raw == constants.HolidayAgendaID {
			withHolidays = true
			continue
		}
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return nil, false, fmt.Errorf("%w: agenda id %q", ErrValidation, raw)
		}
		if err := s.agendas.CheckAgendaOwner(ctx, userID, id); err != nil {
			return nil, false, err
		}
		ids = append(ids, id)
	}

	if len(ids) > 0 || withHolidays {
		return ids, withHolidays, nil
	}

	all, err := s.agendas.AgendaIDsForUser(ctx, userID)
	return all, false, err
}

// loadOwned resolves a bare or composite id to its base event and checks
// that userID owns the agenda holding it.
func (s *eventService) loadOwned(ctx context.Context, userID, id string) (*Event, Ref, error) {

	ref, err := ParseRef(id)
	if err != nil {
		return nil, Ref{}, err
	}

	objID, err := primitive.ObjectIDFromHex(ref.EventID)
	if err != nil {
		return nil, Ref{}, fmt.Errorf("%w: %q", ErrInvalidCompositeID, id)
	}

	ev, err := s.eventRepository.FindEventByID(ctx, objID)
	if err != nil {
		return nil, Ref{}, err
	}
	if ev == nil {
		return nil, Ref{}, ErrEventNotFound
	}

	if err := s.agendas.CheckAgendaOwner(ctx, userID, ev.AgendaID); err != nil {
		if errors.Is(err, ErrAgendaForbidden) {
			return nil, Ref{}, ErrEventNotFound
		}
		return nil, Ref{}, err
	}
	return ev, ref, nil
}

func (s *eventService) publish(userID, kind string, ev *Event) {
	s.publisher.Publish(userID, realtime.Message{Type: kind, AgendaID: ev.AgendaID.Hex(), EventID: ev.ID.Hex()})
}
