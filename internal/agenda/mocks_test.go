package agenda

import (
	"context"

	"agenda-service/internal/event"
	"agenda-service/internal/realtime"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MockAgendaRepository struct {
	mock.Mock
}

func (m *MockAgendaRepository) Create(ctx context.Context, agenda *Agenda) error {
	return m.Called(ctx, agenda).Error(0)
}

func (m *MockAgendaRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*Agenda, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Agenda), args.Error(1)
}

func (m *MockAgendaRepository) FindByUser(ctx context.Context, userID string) ([]*Agenda, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Agenda), args.Error(1)
}

func (m *MockAgendaRepository) Update(ctx context.Context, agenda *Agenda) error {
	return m.Called(ctx, agenda).Error(0)
}

func (m *MockAgendaRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAgendaRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, ev *event.Event) error {
	return m.Called(ctx, ev).Error(0)
}

func (m *MockEventRepository) CreateMany(ctx context.Context, events []*event.Event) error {
	return m.Called(ctx, events).Error(0)
}

func (m *MockEventRepository) FindEventByID(ctx context.Context, id primitive.ObjectID) (*event.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventRepository) FindInWindow(ctx context.Context, agendaIDs []primitive.ObjectID, w event.Window) ([]*event.Event, error) {
	args := m.Called(ctx, agendaIDs, w)
	return args.Get(0).([]*event.Event), args.Error(1)
}

func (m *MockEventRepository) FindAllInWindow(ctx context.Context, w event.Window) ([]*event.Event, error) {
	args := m.Called(ctx, w)
	return args.Get(0).([]*event.Event), args.Error(1)
}

func (m *MockEventRepository) FindByAgenda(ctx context.Context, agendaID primitive.ObjectID) ([]*event.Event, error) {
	args := m.Called(ctx, agendaID)
	return args.Get(0).([]*event.Event), args.Error(1)
}

func (m *MockEventRepository) UpdateEvent(ctx context.Context, ev *event.Event) error {
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

type recordingPublisher struct {
	messages []realtime.Message
}

func (p *recordingPublisher) Publish(_ string, msg realtime.Message) {
	p.messages = append(p.messages, msg)
}
