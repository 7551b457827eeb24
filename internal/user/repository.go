package user

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	AddDeviceToken(ctx context.Context, id primitive.ObjectID, token string) error
	RemoveDeviceToken(ctx context.Context, id primitive.ObjectID, token string) error
}

type userRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(collection *mongo.Collection) UserRepository {
	_ = EnsureUserIndexes(context.Background(), collection)
	return &userRepository{
		collection: collection,
	}
}

func (u *userRepository) Create(ctx context.Context, user *User) error {

	_, err := u.collection.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrEmailTaken
	}
	return err

}

func (u *userRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	return u.findOne(ctx, bson.M{"_id": id})
}

func (u *userRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return u.findOne(ctx, bson.M{"email": email})
}

// AddDeviceToken keeps device tokens as a set.
func (u *userRepository) AddDeviceToken(ctx context.Context, id primitive.ObjectID, token string) error {

	res, err := u.collection.UpdateByID(ctx, id, bson.M{
		"$addToSet": bson.M{"device_tokens": token},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil

}

func (u *userRepository) RemoveDeviceToken(ctx context.Context, id primitive.ObjectID, token string) error {

	_, err := u.collection.UpdateByID(ctx, id, bson.M{
		"$pull": bson.M{"device_tokens": token},
	})
	return err

}

func (u *userRepository) findOne(ctx context.Context, filter bson.M) (*User, error) {

	var user User

	err := u.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil

}

func EnsureUserIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	return err
}
