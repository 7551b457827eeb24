package event

import (
	"context"
	"time"

	"agenda-service/internal/recurrence"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	CreateMany(ctx context.Context, events []*Event) error
	FindEventByID(ctx context.Context, eventID primitive.ObjectID) (*Event, error)
	FindInWindow(ctx context.Context, agendaIDs []primitive.ObjectID, w Window) ([]*Event, error)
	FindAllInWindow(ctx context.Context, w Window) ([]*Event, error)
	FindByAgenda(ctx context.Context, agendaID primitive.ObjectID) ([]*Event, error)
	UpdateEvent(ctx context.Context, event *Event) error
	MoveToAgenda(ctx context.Context, id, agendaID primitive.ObjectID) error
	DeleteEvent(ctx context.Context, id primitive.ObjectID) error
	DeleteByAgenda(ctx context.Context, agendaID primitive.ObjectID) (int64, error)
}

type eventRepository struct {
	collection *mongo.Collection
}

func NewEventRepository(collection *mongo.Collection) EventRepository {
	_ = EnsureEventIndexes(context.Background(), collection)
	return &eventRepository{
		collection: collection,
	}
}

func (e *eventRepository) Create(ctx context.Context, event *Event) error {

	_, err := e.collection.InsertOne(ctx, event)
	return err

}

func (e *eventRepository) CreateMany(ctx context.Context, events []*Event) error {

	if len(events) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(events))
	for _, ev := range events {
		docs = append(docs, ev)
	}

	_, err := e.collection.InsertMany(ctx, docs)
	return err

}

func (e *eventRepository) FindEventByID(ctx context.Context, eventID primitive.ObjectID) (*Event, error) {

	var event Event

	err := e.collection.FindOne(ctx, bson.M{"_id": eventID}).Decode(&event)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	return &event, nil

}

func (e *eventRepository) FindInWindow(ctx context.Context, agendaIDs []primitive.ObjectID, w Window) ([]*Event, error) {

	if len(agendaIDs) == 0 {
		return []*Event{}, nil
	}

	filter := windowFilter(w)
	filter["agenda_id"] = bson.M{"$in": agendaIDs}

	return e.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "start", Value: 1}}))

}

func (e *eventRepository) FindAllInWindow(ctx context.Context, w Window) ([]*Event, error) {

	return e.find(ctx, windowFilter(w), options.Find().SetSort(bson.D{{Key: "start", Value: 1}}))

}

func (e *eventRepository) FindByAgenda(ctx context.Context, agendaID primitive.ObjectID) ([]*Event, error) {

	return e.find(ctx, bson.M{"agenda_id": agendaID}, options.Find().SetSort(bson.D{{Key: "start", Value: 1}}))

}

func (e *eventRepository) UpdateEvent(ctx context.Context, event *Event) error {

	_, err := e.collection.ReplaceOne(ctx, bson.M{"_id": event.ID}, event)
	return err

}

func (e *eventRepository) MoveToAgenda(ctx context.Context, id, agendaID primitive.ObjectID) error {

	res, err := e.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"agenda_id":  agendaID,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrEventNotFound
	}
	return nil

}

func (e *eventRepository) DeleteEvent(ctx context.Context, id primitive.ObjectID) error {

	res, err := e.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrEventNotFound
	}
	return nil

}

func (e *eventRepository) DeleteByAgenda(ctx context.Context, agendaID primitive.ObjectID) (int64, error) {

	res, err := e.collection.DeleteMany(ctx, bson.M{"agenda_id": agendaID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil

}

func (e *eventRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*Event, error) {

	events := []*Event{}

	cursor, err := e.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}

	return events, nil

}

// windowFilter selects events whose stored range overlaps w, plus every
// event carrying an active recurrence.
func windowFilter(w Window) bson.M {
	return bson.M{
		"$or": bson.A{
			bson.M{"start": bson.M{"$gte": w.Start, "$lte": w.End}},
			bson.M{"end": bson.M{"$gte": w.Start, "$lte": w.End}},
			bson.M{"start": bson.M{"$lte": w.Start}, "end": bson.M{"$gte": w.End}},
			bson.M{"recurrence.type": bson.M{"$in": recurrence.ActiveTypes}},
		},
	}
}

func EnsureEventIndexes(ctx context.Context, coll *mongo.Collection) error {

	models := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "agenda_id", Value: 1},
				{Key: "start", Value: 1},
			},
			Options: options.Index().
				SetName("by_agenda_start"),
		},
		{
			Keys: bson.D{
				{Key: "agenda_id", Value: 1},
				{Key: "end", Value: 1},
			},
			Options: options.Index().
				SetName("by_agenda_end"),
		},
		{
			Keys: bson.D{
				{Key: "recurrence.type", Value: 1},
			},
			Options: options.Index().
				SetName("by_recurrence_type").
				SetSparse(true),
		},
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().
				SetName("by_user_created"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, models)
	return err
}
