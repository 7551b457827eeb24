package recurrence

import (
	"errors"
	"fmt"
	"time"
)

type Type string

const (
	TypeNone    Type = "none"
	TypeDaily   Type = "daily"
	TypeWeekly  Type = "weekly"
	TypeMonthly Type = "monthly"
	TypeYearly  Type = "yearly"
)

// ActiveTypes lists every type that produces more than one occurrence.
var ActiveTypes = []Type{TypeDaily, TypeWeekly, TypeMonthly, TypeYearly}

// MaxInterval bounds Rule.Interval so that interval steps stay inside the
// representable calendar.
const MaxInterval = 10000

var ErrInvalidRecurrenceRule = errors.New("invalid recurrence rule")

// Rule describes how a base event repeats.
//
// DaysOfWeek uses 0=Sunday..6=Saturday and only applies to weekly rules.
// EndDate is inclusive up to the end of its UTC calendar day.
type Rule struct {
	Type       Type       `bson:"type" json:"type"`
	Interval   int        `bson:"interval" json:"interval"`
	EndDate    *time.Time `bson:"end_date,omitempty" json:"end_date,omitempty"`
	DaysOfWeek []int      `bson:"days_of_week,omitempty" json:"days_of_week,omitempty"`
}

// Active reports whether r repeats at all. A nil rule, an empty type and
// TypeNone all mean the event happens once.
func (r *Rule) Active() bool {
	return r != nil && r.Type != "" && r.Type != TypeNone
}

// Validate checks r against the start instant of the event that owns it.
func (r *Rule) Validate(start time.Time) error {
	if r == nil {
		return nil
	}
	switch r.Type {
	case "", TypeNone:
		return nil
	case TypeDaily, TypeWeekly, TypeMonthly, TypeYearly:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidRecurrenceRule, r.Type)
	}

	if r.Interval <= 0 {
		return fmt.Errorf("%w: interval must be >= 1, got %d", ErrInvalidRecurrenceRule, r.Interval)
	}
	if r.Interval > MaxInterval {
		return fmt.Errorf("%w: interval must be <= %d, got %d", ErrInvalidRecurrenceRule, MaxInterval, r.Interval)
	}

	if r.EndDate != nil && EndOfDay(*r.EndDate).Before(start) {
		return fmt.Errorf("%w: end_date %s is before the event start", ErrInvalidRecurrenceRule, r.EndDate.UTC().Format(time.DateOnly))
	}

	for _, d := range r.DaysOfWeek {
		if d < 0 || d > 6 {
			return fmt.Errorf("%w: day of week %d out of range 0-6", ErrInvalidRecurrenceRule, d)
		}
	}
	return nil
}

// EndOfDay returns the last instant of t's UTC calendar day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)
}

func (r *Rule) hasWeekday(wd time.Weekday) bool {
	for _, d := range r.DaysOfWeek {
		if time.Weekday(d) == wd {
			return true
		}
	}
	return false
}
