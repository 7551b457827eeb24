package ics

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"agenda-service/internal/event"

	ical "github.com/arran4/golang-ical"
)

const (
	productID = "-//agenda-service//Agenda//FR"

	// emojiProperty carries the event emoji, which has no standard property.
	emojiProperty = ical.ComponentProperty("X-AGENDA-EMOJI")

	uidSuffix = "@agenda-service"
)

var ErrInvalidCalendar = errors.New("invalid iCalendar data")

// Encode renders the base events of one agenda as a VCALENDAR. Recurring
// events carry an RRULE, all-day events VALUE=DATE boundaries with an
// exclusive DTEND.
func Encode(name string, events []*event.Event, now time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName(name)

	for _, ev := range events {
		ve := cal.AddEvent(ev.ID.Hex() + uidSuffix)
		ve.SetDtStampTime(now.UTC())
		ve.SetCreatedTime(ev.CreatedAt.UTC())
		ve.SetModifiedAt(ev.UpdatedAt.UTC())
		ve.SetSummary(ev.Title)
		if ev.Description != "" {
			ve.SetDescription(ev.Description)
		}
		if ev.Emoji != "" {
			ve.SetProperty(emojiProperty, ev.Emoji)
		}

		if ev.AllDay {
			ve.SetAllDayStartAt(ev.Start.UTC())
			ve.SetAllDayEndAt(ev.End.UTC().AddDate(0, 0, 1))
		} else {
			ve.SetStartAt(ev.Start.UTC())
			ve.SetEndAt(ev.End.UTC())
		}

		if rule := RRule(ev.Recurrence); rule != "" {
			ve.AddRrule(rule)
		}
	}

	return cal.Serialize()
}

// Decoded is the outcome of reading a calendar. Events are drafts without
// ids or agenda; Skipped counts VEVENTs that could not be read at all and
// Simplified those whose RRULE was dropped.
type Decoded struct {
	Events     []*event.Event
	Skipped    int
	Simplified int
}

func Decode(r io.Reader) (*Decoded, error) {
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCalendar, err)
	}

	out := &Decoded{}
	for _, ve := range cal.Events() {
		ev, simplified, err := decodeEvent(ve)
		if err != nil {
			out.Skipped++
			continue
		}
		if simplified {
			out.Simplified++
		}
		out.Events = append(out.Events, ev)
	}
	return out, nil
}

func decodeEvent(ve *ical.VEvent) (*event.Event, bool, error) {
	ev := &event.Event{}

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		ev.Title = strings.TrimSpace(p.Value)
	}
	if ev.Title == "" {
		return nil, false, errors.New("missing SUMMARY")
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		ev.Description = strings.TrimSpace(p.Value)
	}
	if p := ve.GetProperty(emojiProperty); p != nil {
		ev.Emoji = strings.TrimSpace(p.Value)
	}

	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil {
		return nil, false, errors.New("missing DTSTART")
	}
	start, err := ve.GetStartAt()
	if err != nil {
		return nil, false, err
	}
	ev.AllDay = isDateValue(dtStart)

	end, err := ve.GetEndAt()
	if err != nil {
		end = start
	} else if ev.AllDay {
		// DTEND of a date range is exclusive.
		end = end.AddDate(0, 0, -1)
	}
	if ev.AllDay {
		// Date values parse at local midnight; anchor them on the written date.
		start, end = event.AnchorDate(start), event.AnchorDate(end)
	}
	if end.Before(start) {
		end = start
	}
	ev.Start, ev.End = start, end
	event.Normalize(ev)

	simplified := false
	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil && p.Value != "" {
		rule, ok := ParseRRule(p.Value, ev.Start)
		if ok {
			ev.Recurrence = rule
		} else {
			simplified = true
		}
	}
	return ev, simplified, nil
}

func isDateValue(p *ical.IANAProperty) bool {
	if vs, ok := p.ICalParameters[string(ical.ParameterValue)]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}
