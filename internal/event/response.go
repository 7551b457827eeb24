package event

import (
	"agenda-service/internal/recurrence"
)

// OccurrenceResponse is the wire form of an Occurrence. Instants are
// RFC3339 UTC, all-day values are bare dates.
type OccurrenceResponse struct {
	ID              string           `json:"id"`
	EventID         string           `json:"event_id,omitempty"`
	AgendaID        string           `json:"agenda_id,omitempty"`
	Title           string           `json:"title"`
	Description     string           `json:"description,omitempty"`
	Emoji           string           `json:"emoji"`
	Start           string           `json:"start"`
	End             string           `json:"end"`
	AllDay          bool             `json:"all_day"`
	Recurrence      *recurrence.Rule `json:"recurrence,omitempty"`
	IsRecurring     bool             `json:"is_recurring,omitempty"`
	OccurrenceIndex *int             `json:"occurrence_index,omitempty"`
	OriginalEventID string           `json:"original_event_id,omitempty"`
}

func NewOccurrenceResponse(o Occurrence) OccurrenceResponse {
	resp := OccurrenceResponse{
		ID:              o.CompositeID,
		Title:           o.Title,
		Description:     o.Description,
		Emoji:           o.Emoji,
		Start:           FormatInstant(o.Start, o.AllDay),
		End:             FormatInstant(o.End, o.AllDay),
		AllDay:          o.AllDay,
		Recurrence:      o.Recurrence,
		IsRecurring:     o.IsRecurring,
		OccurrenceIndex: o.OccurrenceIndex,
		OriginalEventID: o.OriginalEventID,
	}
	if !o.ID.IsZero() {
		resp.EventID = o.ID.Hex()
		if resp.ID == "" {
			resp.ID = resp.EventID
		}
	}
	if !o.AgendaID.IsZero() {
		resp.AgendaID = o.AgendaID.Hex()
	} else if ref, err := ParseRef(o.CompositeID); err == nil {
		resp.AgendaID = ref.AgendaID
	}
	return resp
}

func NewOccurrenceResponses(items []Occurrence) []OccurrenceResponse {
	out := make([]OccurrenceResponse, 0, len(items))
	for _, o := range items {
		out = append(out, NewOccurrenceResponse(o))
	}
	return out
}

func NewEventResponse(ev *Event) OccurrenceResponse {
	return NewOccurrenceResponse(Occurrence{Event: *ev})
}
