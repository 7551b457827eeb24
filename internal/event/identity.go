package event

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const idSeparator = "_"

var (
	ErrInvalidCompositeID  = errors.New("invalid event identifier")
	ErrOccurrenceImmutable = errors.New("recurring occurrences cannot be rescheduled individually, edit the whole series instead")
)

// CompositeID builds the identifier a client uses for one displayed
// instance: agenda_event, or agenda_event_index for an occurrence.
func CompositeID(agendaID, eventID string, index *int) string {
	id := agendaID + idSeparator + eventID
	if index != nil {
		id += idSeparator + strconv.Itoa(*index)
	}
	return id
}

// AssignIdentity sets o.CompositeID for display under agendaID.
func AssignIdentity(o *Occurrence, agendaID string) {
	o.CompositeID = CompositeID(agendaID, o.ID.Hex(), o.OccurrenceIndex)
}

// Ref is a decoded identifier.
type Ref struct {
	AgendaID string
	EventID  string
	Index    int
	// IsOccurrence is set when the identifier named a generated instance.
	IsOccurrence bool
}

// ParseRef accepts a bare event id or a composite id and recovers the
// event id. The occurrence index, if any, is reported but never part of
// EventID.
func ParseRef(id string) (Ref, error) {
	parts := strings.Split(id, idSeparator)
	for _, p := range parts {
		if p == "" {
			return Ref{}, fmt.Errorf("%w: %q", ErrInvalidCompositeID, id)
		}
	}

	switch len(parts) {
	case 1:
		return Ref{EventID: parts[0]}, nil
	case 2:
		return Ref{AgendaID: parts[0], EventID: parts[1]}, nil
	case 3:
		idx, err := strconv.Atoi(parts[2])
		if err != nil || idx < 0 {
			return Ref{}, fmt.Errorf("%w: bad occurrence index in %q", ErrInvalidCompositeID, id)
		}
		return Ref{AgendaID: parts[0], EventID: parts[1], Index: idx, IsOccurrence: true}, nil
	}
	return Ref{}, fmt.Errorf("%w: %q", ErrInvalidCompositeID, id)
}
