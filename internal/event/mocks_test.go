package event

import (
	"context"
	"time"

	"agenda-service/internal/holiday"
	"agenda-service/internal/realtime"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockEventRepository is a testify mock of EventRepository.
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, ev *Event) error {
	return m.Called(ctx, ev).Error(0)
}

func (m *MockEventRepository) CreateMany(ctx context.Context, evs []*Event) error {
	return m.Called(ctx, evs).Error(0)
}

func (m *MockEventRepository) FindEventByID(ctx context.Context, id primitive.ObjectID) (*Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Event), args.Error(1)
}

func (m *MockEventRepository) FindInWindow(ctx context.Context, agendaIDs []primitive.ObjectID, w Window) ([]*Event, error) {
	args := m.Called(ctx, agendaIDs, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Event), args.Error(1)
}

func (m *MockEventRepository) FindAllInWindow(ctx context.Context, w Window) ([]*Event, error) {
	args := m.Called(ctx, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Event), args.Error(1)
}

func (m *MockEventRepository) FindByAgenda(ctx context.Context, agendaID primitive.ObjectID) ([]*Event, error) {
	args := m.Called(ctx, agendaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Event), args.Error(1)
}

func (m *MockEventRepository) UpdateEvent(ctx context.Context, ev *Event) error {
	return m.Called(ctx, ev).Error(0)
}

func (m *MockEventRepository) MoveToAgenda(ctx context.Context, id, agendaID primitive.ObjectID) error {
	return m.Called(ctx, id, agendaID).Error(0)
}

func (m *MockEventRepository) DeleteEvent(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockEventRepository) DeleteByAgenda(ctx context.Context, agendaID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, agendaID)
	return args.Get(0).(int64), args.Error(1)
}

// MockAgendaGuard is a testify mock of AgendaGuard.
type MockAgendaGuard struct {
	mock.Mock
}

func (m *MockAgendaGuard) AgendaIDsForUser(ctx context.Context, userID string) ([]primitive.ObjectID, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]primitive.ObjectID), args.Error(1)
}

func (m *MockAgendaGuard) CheckAgendaOwner(ctx context.Context, userID string, agendaID primitive.ObjectID) error {
	return m.Called(ctx, userID, agendaID).Error(0)
}

type stubHolidays []holiday.Holiday

func (s stubHolidays) Between(from, to time.Time) []holiday.Holiday {
	var out []holiday.Holiday
	for _, h := range s {
		if !h.Date.Before(from) && !h.Date.After(to) {
			out = append(out, h)
		}
	}
	return out
}

type recordingPublisher struct {
	messages []realtime.Message
}

func (p *recordingPublisher) Publish(_ string, msg realtime.Message) {
	p.messages = append(p.messages, msg)
}
