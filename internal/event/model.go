package event

import (
	"time"

	"agenda-service/internal/recurrence"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 1000
)

// Event is the stored base event. All-day events keep Start and End at
// 12:00 UTC of their calendar dates.
type Event struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	AgendaID    primitive.ObjectID `bson:"agenda_id" json:"agenda_id"`
	UserID      string             `bson:"user_id" json:"user_id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Emoji       string             `bson:"emoji" json:"emoji"`
	Start       time.Time          `bson:"start" json:"start"`
	End         time.Time          `bson:"end" json:"end"`
	AllDay      bool               `bson:"all_day" json:"all_day"`
	Recurrence  *recurrence.Rule   `bson:"recurrence,omitempty" json:"recurrence,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Occurrence is one visible instance of an event. For a non-recurring event
// it is the base event unchanged and the occurrence fields stay zero.
type Occurrence struct {
	Event

	IsRecurring     bool
	OccurrenceIndex *int
	OriginalEventID string

	// CompositeID addresses this instance under the agenda it is shown in.
	CompositeID string
}
