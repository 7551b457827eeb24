package event

import (
	"fmt"
	"time"

	"agenda-service/internal/recurrence"
)

// Expansion is the result of expanding one base event over a window.
type Expansion struct {
	Occurrences []Occurrence
	Truncated   bool
}

// Expand returns the occurrences of ev visible in [rangeStart, rangeEnd].
//
// An event without an active recurrence comes back as the single item
// [ev], untouched and without occurrence fields, whatever the window.
func Expand(ev *Event, rangeStart, rangeEnd time.Time) ([]Occurrence, error) {
	exp, err := ExpandSeries(ev, rangeStart, rangeEnd)
	return exp.Occurrences, err
}

// ExpandSeries is Expand that also reports whether the occurrence ceiling
// cut the series short.
func ExpandSeries(ev *Event, rangeStart, rangeEnd time.Time) (Expansion, error) {
	if !ev.Recurrence.Active() {
		return Expansion{Occurrences: []Occurrence{{Event: *ev}}}, nil
	}

	series, err := recurrence.Generate(ev.Start, *ev.Recurrence, rangeStart, rangeEnd)
	if err != nil {
		return Expansion{}, fmt.Errorf("event %s: %w", ev.ID.Hex(), err)
	}

	duration := ev.End.Sub(ev.Start)
	baseID := ev.ID.Hex()
	out := make([]Occurrence, 0, len(series.Starts))
	for i, start := range series.Starts {
		idx := i
		occ := Occurrence{
			Event:           *ev,
			IsRecurring:     true,
			OccurrenceIndex: &idx,
			OriginalEventID: baseID,
		}
		occ.Start = start
		occ.End = start.Add(duration)
		Normalize(&occ.Event)
		out = append(out, occ)
	}
	return Expansion{Occurrences: out, Truncated: series.Truncated}, nil
}
