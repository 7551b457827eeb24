package agenda

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const MaxNameLength = 50

type Agenda struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	UserID    string             `bson:"user_id" json:"user_id"`
	Name      string             `bson:"name" json:"name"`
	Color     string             `bson:"color" json:"color"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// ImportResult summarises an iCalendar import into one agenda.
type ImportResult struct {
	Imported   int `json:"imported"`
	Skipped    int `json:"skipped"`
	Simplified int `json:"simplified"`
}
