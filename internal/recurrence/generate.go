package recurrence

import (
	"time"
)

// MaxOccurrences caps a single generation call. Hitting it truncates the
// series silently; Series.Truncated reports it.
const MaxOccurrences = 1000

// Series is the ordered set of start instants generated for one event.
// The position of a start in Starts is its occurrence index.
type Series struct {
	Starts    []time.Time
	Truncated bool
}

// stepper yields the k-th candidate start counted from the anchor. ok is
// false for candidates that exist only to keep the day walk going (weekly
// rules restricted to some weekdays). Candidates must strictly increase
// with k.
type stepper struct {
	at    func(k int) (t time.Time, ok bool)
	first int
}

// Generate walks the candidate starts of rule from anchor and keeps those
// within [rangeStart, rangeEnd] and before the rule's end date.
//
// Counting always starts at the anchor so a windowed call stays in phase
// with the unwindowed series. rangeStart after rangeEnd yields an empty
// series.
func Generate(anchor time.Time, rule Rule, rangeStart, rangeEnd time.Time) (Series, error) {
	var out Series

	if err := rule.Validate(anchor); err != nil {
		return out, err
	}
	if rangeStart.After(rangeEnd) {
		return out, nil
	}

	anchor = anchor.UTC()
	rangeStart = rangeStart.UTC()
	bound := rangeEnd.UTC()
	if rule.EndDate != nil {
		if eod := EndOfDay(*rule.EndDate); eod.Before(bound) {
			bound = eod
		}
	}

	return collect(newStepper(anchor, rule, rangeStart), rangeStart, bound), nil
}

// collect runs st until a candidate passes bound or stops moving forward.
func collect(st stepper, rangeStart, bound time.Time) Series {
	var out Series
	var prev time.Time
	for k := st.first; ; k++ {
		candidate, ok := st.at(k)
		if candidate.After(bound) {
			break
		}
		if k > st.first && !candidate.After(prev) {
			break
		}
		prev = candidate
		if !ok || candidate.Before(rangeStart) {
			continue
		}
		if len(out.Starts) == MaxOccurrences {
			out.Truncated = true
			break
		}
		out.Starts = append(out.Starts, candidate)
	}
	return out
}

func newStepper(anchor time.Time, rule Rule, rangeStart time.Time) stepper {
	n := rule.Interval
	elapsedDays := 0
	if rangeStart.After(anchor) {
		elapsedDays = int(rangeStart.Sub(anchor) / (24 * time.Hour))
	}

	switch rule.Type {
	case TypeDaily:
		return stepper{
			at:    func(k int) (time.Time, bool) { return anchor.AddDate(0, 0, k*n), true },
			first: skipAhead(elapsedDays, n),
		}

	case TypeWeekly:
		if len(rule.DaysOfWeek) == 0 {
			// An empty day list behaves like an absent one: plain weekly cadence.
			return stepper{
				at:    func(k int) (time.Time, bool) { return anchor.AddDate(0, 0, 7*k*n), true },
				first: skipAhead(elapsedDays, 7*n),
			}
		}
		// Day list set: walk day by day, interval does not apply.
		return stepper{
			at: func(k int) (time.Time, bool) {
				t := anchor.AddDate(0, 0, k)
				return t, rule.hasWeekday(t.Weekday())
			},
			first: skipAhead(elapsedDays, 1),
		}

	case TypeMonthly:
		return stepper{
			at:    func(k int) (time.Time, bool) { return addMonths(anchor, k*n), true },
			first: skipAhead(monthsBetween(anchor, rangeStart), n),
		}

	case TypeYearly:
		return stepper{
			at:    func(k int) (time.Time, bool) { return addMonths(anchor, 12*k*n), true },
			first: skipAhead(monthsBetween(anchor, rangeStart)/12, n),
		}
	}

	// Not repeating: the anchor is the only candidate.
	return stepper{
		at: func(k int) (time.Time, bool) {
			if k == 0 {
				return anchor, true
			}
			return endOfTime, false
		},
	}
}

var endOfTime = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)

// skipAhead returns a step index safely before the first candidate that can
// reach the window, given how many units separate anchor and window start.
func skipAhead(elapsed, per int) int {
	k := elapsed/per - 1
	if k < 0 {
		return 0
	}
	return k
}

func monthsBetween(from, to time.Time) int {
	if !to.After(from) {
		return 0
	}
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}

// addMonths moves t by n calendar months, clamping the day to the last day
// of the target month (Jan 31 + 1 month = Feb 28).
func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
