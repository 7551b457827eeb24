package event

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidEventDate = errors.New("invalid event date")

// allDayHour keeps all-day instants far enough from midnight that no
// timezone offset moves them to a neighbouring date.
const allDayHour = 12

// EncodeDate maps a calendar date ("2006-01-02") to its stored instant,
// 12:00 UTC that day. A full RFC3339 value is accepted too; its calendar
// date is taken as written, in its own offset.
func EncodeDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if d, err := time.Parse(time.DateOnly, value); err == nil {
		return AnchorDate(d), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return AnchorDate(t), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q is not a YYYY-MM-DD date", ErrInvalidEventDate, value)
}

// AnchorDate returns 12:00 UTC on t's calendar date in t's own location.
func AnchorDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, allDayHour, 0, 0, 0, time.UTC)
}

// DecodeDate returns the UTC calendar date of a stored instant.
func DecodeDate(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

// ParseInstant parses an absolute timestamp. Values without zone
// information are rejected rather than guessed.
func ParseInstant(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not an RFC3339 timestamp with zone", ErrInvalidEventDate, value)
	}
	return t.UTC(), nil
}

// ParseBoundary parses one end of an event according to allDay.
func ParseBoundary(value string, allDay bool) (time.Time, error) {
	if allDay {
		return EncodeDate(value)
	}
	return ParseInstant(value)
}

// Normalize re-anchors an all-day event on its UTC calendar dates. Timed
// events only lose their location.
func Normalize(ev *Event) {
	if ev.AllDay {
		ev.Start = AnchorDate(ev.Start.UTC())
		ev.End = AnchorDate(ev.End.UTC())
		return
	}
	ev.Start = ev.Start.UTC()
	ev.End = ev.End.UTC()
}

// FormatInstant renders t for output: a bare date for all-day values,
// RFC3339 UTC otherwise.
func FormatInstant(t time.Time, allDay bool) string {
	if allDay {
		return DecodeDate(t)
	}
	return t.UTC().Format(time.RFC3339)
}
