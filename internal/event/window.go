package event

import (
	"time"
)

// Window is an inclusive [Start, End] instant range.
type Window struct {
	Start time.Time
	End   time.Time
}

// DefaultWindow covers two months back to two months ahead of now's month:
// [first day of month-2, first day of month+3).
func DefaultWindow(now time.Time) Window {
	y, m, _ := now.UTC().Date()
	return Window{
		Start: time.Date(y, m-2, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(y, m+3, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond),
	}
}

// ResolveWindow fills missing bounds from the default window around now.
func ResolveWindow(start, end *time.Time, now time.Time) Window {
	w := DefaultWindow(now)
	if start != nil {
		w.Start = start.UTC()
	}
	if end != nil {
		w.End = end.UTC()
	}
	return w
}

func (w Window) Valid() bool {
	return !w.Start.After(w.End)
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Overlaps reports whether a stored [start, end] touches the window: it
// starts inside, ends inside, or spans the whole window.
func (w Window) Overlaps(start, end time.Time) bool {
	return w.Contains(start) ||
		w.Contains(end) ||
		(!start.After(w.Start) && !end.Before(w.End))
}

// IsCandidate reports whether ev may have something to show in w. Any
// event with an active recurrence qualifies, wherever its first
// occurrence sits.
func (w Window) IsCandidate(ev *Event) bool {
	if ev.Recurrence.Active() {
		return true
	}
	return w.Overlaps(ev.Start, ev.End)
}

// FilterCandidates keeps the events of events that are candidates for w,
// in their original order. An inverted window selects nothing.
func FilterCandidates(events []*Event, w Window) []*Event {
	out := make([]*Event, 0, len(events))
	if !w.Valid() {
		return out
	}
	for _, ev := range events {
		if ev != nil && w.IsCandidate(ev) {
			out = append(out, ev)
		}
	}
	return out
}
