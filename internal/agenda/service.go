package agenda

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"agenda-service/internal/event"
	"agenda-service/internal/ics"
	"agenda-service/internal/realtime"
	"agenda-service/pkg/constants"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	ErrAgendaNotFound = errors.New("agenda not found")
	ErrDuplicateName  = errors.New("an agenda with this name already exists")
	ErrLastAgenda     = errors.New("the last agenda cannot be deleted")
	ErrValidation     = errors.New("validation failed")

	// ErrForbidden is what event operations see for an agenda the caller
	// does not own.
	ErrForbidden = event.ErrAgendaForbidden
)

var colorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

type AgendaService interface {
	ListAgendas(ctx context.Context, userID string) ([]*Agenda, error)
	CreateAgenda(ctx context.Context, userID string, req *CreateAgendaRequest) (*Agenda, error)
	UpdateAgenda(ctx context.Context, userID, id string, req *UpdateAgendaRequest) (*Agenda, error)
	DeleteAgenda(ctx context.Context, userID, id string) error
	EnsureDefault(ctx context.Context, userID string) (*Agenda, error)
	ExportICS(ctx context.Context, userID, id string) (*Agenda, string, error)
	ImportICS(ctx context.Context, userID, id string, body io.Reader) (*ImportResult, error)

	event.AgendaGuard
}

type agendaService struct {
	agendaRepository AgendaRepository
	eventRepository  event.EventRepository
	publisher        realtime.Publisher
	logger           *zap.SugaredLogger
	now              func() time.Time
}

func NewAgendaService(repo AgendaRepository, events event.EventRepository, publisher realtime.Publisher, logger *zap.SugaredLogger) AgendaService {
	if publisher == nil {
		publisher = realtime.Nop{}
	}
	return &agendaService{
		agendaRepository: repo,
		eventRepository:  events,
		publisher:        publisher,
		logger:           logger,
		now:              time.Now,
	}
}

// ListAgendas returns the user's agendas, creating the default one for a
// user who has none.
func (s *agendaService) ListAgendas(ctx context.Context, userID string) ([]*Agenda, error) {

	agendas, err := s.agendaRepository.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(agendas) > 0 {
		return agendas, nil
	}

	def, err := s.EnsureDefault(ctx, userID)
	if err != nil {
		return nil, err
	}
	return []*Agenda{def}, nil
}

func (s *agendaService) EnsureDefault(ctx context.Context, userID string) (*Agenda, error) {

	agendas, err := s.agendaRepository.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(agendas) > 0 {
		return agendas[0], nil
	}

	def := s.newAgenda(userID, constants.DefaultAgendaName, constants.DefaultAgendaColor)
	if err := s.agendaRepository.Create(ctx, def); err != nil {
		return nil, err
	}
	s.logger.Infow("default agenda created", "user_id", userID, "agenda_id", def.ID.Hex())
	return def, nil
}

func (s *agendaService) CreateAgenda(ctx context.Context, userID string, req *CreateAgendaRequest) (*Agenda, error) {

	name, err := validName(req.Name)
	if err != nil {
		return nil, err
	}
	color := strings.TrimSpace(req.Color)
	if color == "" {
		color = constants.DefaultAgendaColor
	}
	if !colorPattern.MatchString(color) {
		return nil, fmt.Errorf("%w: color %q must be #RGB or #RRGGBB", ErrValidation, color)
	}

	agenda := s.newAgenda(userID, name, color)
	if err := s.agendaRepository.Create(ctx, agenda); err != nil {
		return nil, err
	}

	s.publisher.Publish(userID, realtime.Message{Type: realtime.TypeAgendaChanged, AgendaID: agenda.ID.Hex()})
	return agenda, nil
}

func (s *agendaService) UpdateAgenda(ctx context.Context, userID, id string, req *UpdateAgendaRequest) (*Agenda, error) {

	agenda, err := s.loadOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if agenda.Name, err = validName(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Color != nil {
		color := strings.TrimSpace(*req.Color)
		if !colorPattern.MatchString(color) {
			return nil, fmt.Errorf("%w: color %q must be #RGB or #RRGGBB", ErrValidation, color)
		}
		agenda.Color = color
	}
	agenda.UpdatedAt = s.now().UTC()

	if err := s.agendaRepository.Update(ctx, agenda); err != nil {
		return nil, err
	}

	s.publisher.Publish(userID, realtime.Message{Type: realtime.TypeAgendaChanged, AgendaID: agenda.ID.Hex()})
	return agenda, nil
}

// DeleteAgenda removes the agenda's events and then the agenda itself. A
// user always keeps at least one agenda.
func (s *agendaService) DeleteAgenda(ctx context.Context, userID, id string) error {

	agenda, err := s.loadOwned(ctx, userID, id)
	if err != nil {
		return err
	}

	count, err := s.agendaRepository.CountByUser(ctx, userID)
	if err != nil {
		return err
	}
	if count <= 1 {
		return ErrLastAgenda
	}

	removed, err := s.eventRepository.DeleteByAgenda(ctx, agenda.ID)
	if err != nil {
		return err
	}
	if err := s.agendaRepository.Delete(ctx, agenda.ID); err != nil {
		return err
	}

	s.logger.Infow("agenda deleted", "user_id", userID, "agenda_id", agenda.ID.Hex(), "events_removed", removed)
	s.publisher.Publish(userID, realtime.Message{Type: realtime.TypeAgendaDeleted, AgendaID: agenda.ID.Hex()})
	return nil
}

func (s *agendaService) ExportICS(ctx context.Context, userID, id string) (*Agenda, string, error) {

	agenda, err := s.loadOwned(ctx, userID, id)
	if err != nil {
		return nil, "", err
	}

	events, err := s.eventRepository.FindByAgenda(ctx, agenda.ID)
	if err != nil {
		return nil, "", err
	}

	return agenda, ics.Encode(agenda.Name, events, s.now()), nil
}

// ImportICS creates one base event per readable VEVENT. Events that fail
// validation are counted as skipped, not reported as errors.
func (s *agendaService) ImportICS(ctx context.Context, userID, id string, body io.Reader) (*ImportResult, error) {

	agenda, err := s.loadOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	decoded, err := ics.Decode(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	res := &ImportResult{Skipped: decoded.Skipped, Simplified: decoded.Simplified}
	now := s.now().UTC()
	valid := make([]*event.Event, 0, len(decoded.Events))
	for _, ev := range decoded.Events {
		ev.ID = primitive.NewObjectID()
		ev.AgendaID = agenda.ID
		ev.UserID = userID
		ev.CreatedAt, ev.UpdatedAt = now, now
		if ev.Emoji == "" {
			ev.Emoji = constants.DefaultEmoji
		}
		if utf8.RuneCountInString(ev.Title) > event.MaxTitleLength {
			ev.Title = string([]rune(ev.Title)[:event.MaxTitleLength])
		}
		if err := event.Validate(ev); err != nil {
			s.logger.Warnw("import: event rejected", "agenda_id", agenda.ID.Hex(), "title", ev.Title, "error", err)
			res.Skipped++
			continue
		}
		valid = append(valid, ev)
	}

	if err := s.eventRepository.CreateMany(ctx, valid); err != nil {
		return nil, err
	}
	res.Imported = len(valid)

	s.logger.Infow("calendar imported", "agenda_id", agenda.ID.Hex(), "imported", res.Imported, "skipped", res.Skipped, "simplified", res.Simplified)
	if res.Imported > 0 {
		s.publisher.Publish(userID, realtime.Message{Type: realtime.TypeImported, AgendaID: agenda.ID.Hex()})
	}
	return res, nil
}

func (s *agendaService) AgendaIDsForUser(ctx context.Context, userID string) ([]primitive.ObjectID, error) {

	agendas, err := s.agendaRepository.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(agendas))
	for _, a := range agendas {
		ids = append(ids, a.ID)
	}
	return ids, nil
}

// CheckAgendaOwner fails with ErrForbidden both for an unknown agenda and
// for one owned by someone else.
func (s *agendaService) CheckAgendaOwner(ctx context.Context, userID string, agendaID primitive.ObjectID) error {

	agenda, err := s.agendaRepository.FindByID(ctx, agendaID)
	if err != nil {
		return err
	}
	if agenda == nil || agenda.UserID != userID {
		return ErrForbidden
	}
	return nil
}

func (s *agendaService) loadOwned(ctx context.Context, userID, id string) (*Agenda, error) {

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrAgendaNotFound
	}

	agenda, err := s.agendaRepository.FindByID(ctx, objID)
	if err != nil {
		return nil, err
	}
	if agenda == nil || agenda.UserID != userID {
		return nil, ErrAgendaNotFound
	}
	return agenda, nil
}

func (s *agendaService) newAgenda(userID, name, color string) *Agenda {
	now := s.now().UTC()
	return &Agenda{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Name:      name,
		Color:     color,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func validName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrValidation)
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", fmt.Errorf("%w: name exceeds %d characters", ErrValidation, MaxNameLength)
	}
	return name, nil
}
