package agenda

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AgendaRepository interface {
	Create(ctx context.Context, agenda *Agenda) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Agenda, error)
	FindByUser(ctx context.Context, userID string) ([]*Agenda, error)
	Update(ctx context.Context, agenda *Agenda) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountByUser(ctx context.Context, userID string) (int64, error)
}

type agendaRepository struct {
	collection *mongo.Collection
}

func NewAgendaRepository(collection *mongo.Collection) AgendaRepository {
	_ = EnsureAgendaIndexes(context.Background(), collection)
	return &agendaRepository{
		collection: collection,
	}
}

func (a *agendaRepository) Create(ctx context.Context, agenda *Agenda) error {

	_, err := a.collection.InsertOne(ctx, agenda)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateName
	}
	return err

}

func (a *agendaRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*Agenda, error) {

	var agenda Agenda

	err := a.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&agenda)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	return &agenda, nil

}

func (a *agendaRepository) FindByUser(ctx context.Context, userID string) ([]*Agenda, error) {

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := a.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var agendas []*Agenda
	if err := cursor.All(ctx, &agendas); err != nil {
		return nil, err
	}

	return agendas, nil

}

func (a *agendaRepository) Update(ctx context.Context, agenda *Agenda) error {

	update := bson.M{"$set": bson.M{
		"name":       agenda.Name,
		"color":      agenda.Color,
		"updated_at": agenda.UpdatedAt,
	}}

	res, err := a.collection.UpdateByID(ctx, agenda.ID, update)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateName
	}
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrAgendaNotFound
	}
	return nil

}

func (a *agendaRepository) Delete(ctx context.Context, id primitive.ObjectID) error {

	res, err := a.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrAgendaNotFound
	}
	return nil

}

func (a *agendaRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	return a.collection.CountDocuments(ctx, bson.M{"user_id": userID})
}

// EnsureAgendaIndexes makes agenda names unique per user.
func EnsureAgendaIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("user_name_unique"),
	})
	return err
}
