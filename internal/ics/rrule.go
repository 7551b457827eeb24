package ics

import (
	"time"

	"agenda-service/internal/event"
	"agenda-service/internal/recurrence"

	"github.com/teambition/rrule-go"
)

var freqOf = map[recurrence.Type]rrule.Frequency{
	recurrence.TypeDaily:   rrule.DAILY,
	recurrence.TypeWeekly:  rrule.WEEKLY,
	recurrence.TypeMonthly: rrule.MONTHLY,
	recurrence.TypeYearly:  rrule.YEARLY,
}

var typeOf = map[rrule.Frequency]recurrence.Type{
	rrule.DAILY:   recurrence.TypeDaily,
	rrule.WEEKLY:  recurrence.TypeWeekly,
	rrule.MONTHLY: recurrence.TypeMonthly,
	rrule.YEARLY:  recurrence.TypeYearly,
}

// weekdays is indexed 0=Sunday like recurrence.Rule.DaysOfWeek.
var weekdays = []rrule.Weekday{rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA}

// RRule renders r as an RFC 5545 RRULE value, or "" when r does not repeat.
func RRule(r *recurrence.Rule) string {
	if !r.Active() {
		return ""
	}

	opt := rrule.ROption{Freq: freqOf[r.Type], Interval: r.Interval}
	if r.EndDate != nil {
		opt.Until = recurrence.EndOfDay(*r.EndDate).Truncate(time.Second)
	}
	if r.Type == recurrence.TypeWeekly && len(r.DaysOfWeek) > 0 {
		// A day list repeats every week whatever the stored interval.
		opt.Interval = 1
		for _, d := range r.DaysOfWeek {
			opt.Byweekday = append(opt.Byweekday, weekdays[d])
		}
	}
	return opt.RRuleString()
}

// ParseRRule maps an RRULE value onto a stored rule. ok is false when the
// value uses parts the rule model cannot express; the caller then keeps the
// event as a single occurrence.
func ParseRRule(value string, start time.Time) (rule *recurrence.Rule, ok bool) {
	opt, err := rrule.StrToROption(value)
	if err != nil {
		return nil, false
	}

	typ, known := typeOf[opt.Freq]
	if !known || hasUnsupportedParts(opt) {
		return nil, false
	}

	rule = &recurrence.Rule{Type: typ, Interval: opt.Interval}
	if rule.Interval == 0 {
		rule.Interval = 1
	}

	if len(opt.Byweekday) > 0 {
		if typ != recurrence.TypeWeekly || rule.Interval > 1 {
			return nil, false
		}
		for _, wd := range opt.Byweekday {
			if wd.N() != 0 {
				return nil, false
			}
			rule.DaysOfWeek = append(rule.DaysOfWeek, (wd.Day()+1)%7)
		}
	}

	switch {
	case !opt.Until.IsZero():
		end := event.AnchorDate(opt.Until.UTC())
		rule.EndDate = &end
	case opt.Count > recurrence.MaxOccurrences:
		return nil, false
	case opt.Count > 0:
		opt.Dtstart = start
		r, err := rrule.NewRRule(*opt)
		if err != nil {
			return nil, false
		}
		all := r.All()
		if len(all) == 0 {
			return nil, false
		}
		end := event.AnchorDate(all[len(all)-1].UTC())
		rule.EndDate = &end
	}

	if err := rule.Validate(start); err != nil {
		return nil, false
	}
	return rule, true
}

func hasUnsupportedParts(opt *rrule.ROption) bool {
	return len(opt.Bysetpos)+len(opt.Bymonth)+len(opt.Bymonthday)+len(opt.Byyearday)+
		len(opt.Byweekno)+len(opt.Byhour)+len(opt.Byminute)+len(opt.Bysecond)+len(opt.Byeaster) > 0
}
