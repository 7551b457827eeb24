package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teambition/rrule-go"
)

func utc(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func days(ts []time.Time) []int {
	out := make([]int, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.Day())
	}
	return out
}

func TestGenerate_DailyEveryDay(t *testing.T) {
	anchor := utc(2025, 1, 1, 10, 0)
	rule := Rule{Type: TypeDaily, Interval: 1}

	s, err := Generate(anchor, rule, utc(2025, 1, 1, 0, 0), utc(2025, 1, 8, 0, 0))
	require.NoError(t, err)
	assert.False(t, s.Truncated)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, days(s.Starts))
	for _, st := range s.Starts {
		assert.Equal(t, 10, st.Hour())
	}
}

func TestGenerate_DailyEveryOtherDay(t *testing.T) {
	anchor := utc(2025, 1, 1, 10, 0)
	rule := Rule{Type: TypeDaily, Interval: 2}

	s, err := Generate(anchor, rule, utc(2025, 1, 1, 0, 0), utc(2025, 1, 8, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 5, 7}, days(s.Starts))
}

func TestGenerate_WindowKeepsPhase(t *testing.T) {
	anchor := utc(2025, 1, 1, 10, 0)
	rule := Rule{Type: TypeDaily, Interval: 2}

	s, err := Generate(anchor, rule, utc(2025, 1, 10, 0, 0), utc(2025, 1, 16, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, []int{11, 13, 15}, days(s.Starts))
}

func TestGenerate_WeeklyWithDays(t *testing.T) {
	// 2025-01-06 is a Monday.
	anchor := utc(2025, 1, 6, 9, 0)
	rule := Rule{Type: TypeWeekly, Interval: 1, DaysOfWeek: []int{1, 3, 5}}

	s, err := Generate(anchor, rule, utc(2025, 1, 6, 0, 0), utc(2025, 1, 12, 23, 59))
	require.NoError(t, err)
	require.Len(t, s.Starts, 3)
	assert.Equal(t, time.Monday, s.Starts[0].Weekday())
	assert.Equal(t, time.Wednesday, s.Starts[1].Weekday())
	assert.Equal(t, time.Friday, s.Starts[2].Weekday())
}

func TestGenerate_WeeklyWithDaysIgnoresInterval(t *testing.T) {
	anchor := utc(2025, 1, 6, 9, 0)
	rule := Rule{Type: TypeWeekly, Interval: 2, DaysOfWeek: []int{1, 3, 5}}

	s, err := Generate(anchor, rule, utc(2025, 1, 6, 0, 0), utc(2025, 1, 19, 23, 59))
	require.NoError(t, err)
	assert.Equal(t, []int{6, 8, 10, 13, 15, 17}, days(s.Starts))

	every, err := Generate(anchor, Rule{Type: TypeWeekly, Interval: 1, DaysOfWeek: []int{1, 3, 5}}, utc(2025, 1, 6, 0, 0), utc(2025, 1, 19, 23, 59))
	require.NoError(t, err)
	assert.Equal(t, every, s)
}

func TestGenerate_WeeklyEveryOtherWeekWindowed(t *testing.T) {
	// Series: Jan 6, Jan 20, Feb 3, Feb 17, Mar 3.
	anchor := utc(2025, 1, 6, 9, 0)
	rule := Rule{Type: TypeWeekly, Interval: 2}

	s, err := Generate(anchor, rule, utc(2025, 2, 1, 0, 0), utc(2025, 3, 1, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, []time.Time{utc(2025, 2, 3, 9, 0), utc(2025, 2, 17, 9, 0)}, s.Starts)
}

func TestGenerate_MonthlyWindowKeepsPhase(t *testing.T) {
	anchor := utc(2020, 1, 15, 8, 30)
	rule := Rule{Type: TypeMonthly, Interval: 3}

	s, err := Generate(anchor, rule, utc(2025, 6, 1, 0, 0), utc(2025, 12, 31, 23, 59))
	require.NoError(t, err)
	assert.Equal(t, []time.Time{utc(2025, 7, 15, 8, 30), utc(2025, 10, 15, 8, 30)}, s.Starts)
}

func TestGenerate_YearlyWindowKeepsPhase(t *testing.T) {
	anchor := utc(2020, 3, 1, 12, 0)
	rule := Rule{Type: TypeYearly, Interval: 2}

	s, err := Generate(anchor, rule, utc(2025, 1, 1, 0, 0), utc(2029, 12, 31, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, []time.Time{utc(2026, 3, 1, 12, 0), utc(2028, 3, 1, 12, 0)}, s.Starts)
}

func TestGenerate_WeeklyEmptyDaysFallsBackToCadence(t *testing.T) {
	anchor := utc(2025, 1, 6, 9, 0)
	withEmpty := Rule{Type: TypeWeekly, Interval: 1, DaysOfWeek: []int{}}
	without := Rule{Type: TypeWeekly, Interval: 1}

	a, err := Generate(anchor, withEmpty, utc(2025, 1, 1, 0, 0), utc(2025, 2, 1, 0, 0))
	require.NoError(t, err)
	b, err := Generate(anchor, without, utc(2025, 1, 1, 0, 0), utc(2025, 2, 1, 0, 0))
	require.NoError(t, err)

	assert.Equal(t, b, a)
	assert.Equal(t, []int{6, 13, 20, 27}, days(a.Starts))
}

func TestGenerate_MonthlyOnePerMonth(t *testing.T) {
	anchor := utc(2025, 1, 15, 8, 30)
	rule := Rule{Type: TypeMonthly, Interval: 1}

	s, err := Generate(anchor, rule, utc(2025, 1, 1, 0, 0), utc(2025, 6, 30, 23, 59))
	require.NoError(t, err)
	require.Len(t, s.Starts, 6)
	for i, st := range s.Starts {
		assert.Equal(t, time.Month(i+1), st.Month())
		assert.Equal(t, 15, st.Day())
	}
}

func TestGenerate_MonthlyClampsToMonthEnd(t *testing.T) {
	anchor := utc(2025, 1, 31, 12, 0)
	rule := Rule{Type: TypeMonthly, Interval: 1}

	s, err := Generate(anchor, rule, utc(2025, 1, 1, 0, 0), utc(2025, 5, 31, 23, 59))
	require.NoError(t, err)
	require.Len(t, s.Starts, 5)
	assert.Equal(t, utc(2025, 2, 28, 12, 0), s.Starts[1])
	assert.Equal(t, utc(2025, 3, 31, 12, 0), s.Starts[2])
	assert.Equal(t, utc(2025, 4, 30, 12, 0), s.Starts[3])
	assert.Equal(t, utc(2025, 5, 31, 12, 0), s.Starts[4])
}

func TestGenerate_YearlyLeapDay(t *testing.T) {
	anchor := utc(2024, 2, 29, 12, 0)
	rule := Rule{Type: TypeYearly, Interval: 1}

	s, err := Generate(anchor, rule, utc(2025, 1, 1, 0, 0), utc(2028, 12, 31, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		utc(2025, 2, 28, 12, 0),
		utc(2026, 2, 28, 12, 0),
		utc(2027, 2, 28, 12, 0),
		utc(2028, 2, 29, 12, 0),
	}, s.Starts)
}

func TestGenerate_EndDateBoundsSeries(t *testing.T) {
	anchor := utc(2025, 1, 1, 10, 0)
	end := utc(2025, 1, 3, 0, 0)
	rule := Rule{Type: TypeDaily, Interval: 1, EndDate: &end}

	s, err := Generate(anchor, rule, utc(2025, 1, 1, 0, 0), utc(2025, 1, 31, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, days(s.Starts))
}

func TestGenerate_Ceiling(t *testing.T) {
	anchor := utc(2000, 1, 1, 10, 0)
	rule := Rule{Type: TypeDaily, Interval: 1}

	s, err := Generate(anchor, rule, anchor, utc(2100, 1, 1, 0, 0))
	require.NoError(t, err)
	assert.Len(t, s.Starts, MaxOccurrences)
	assert.True(t, s.Truncated)
}

func TestGenerate_ExactlyCeilingIsNotTruncated(t *testing.T) {
	anchor := utc(2000, 1, 1, 10, 0)
	rule := Rule{Type: TypeDaily, Interval: 1}

	last := anchor.AddDate(0, 0, MaxOccurrences-1)
	s, err := Generate(anchor, rule, anchor, last)
	require.NoError(t, err)
	assert.Len(t, s.Starts, MaxOccurrences)
	assert.False(t, s.Truncated)
}

func TestGenerate_Deterministic(t *testing.T) {
	anchor := utc(2025, 3, 3, 7, 15)
	rule := Rule{Type: TypeWeekly, Interval: 1, DaysOfWeek: []int{0, 2, 4}}
	from, to := utc(2025, 3, 10, 0, 0), utc(2025, 9, 1, 0, 0)

	a, err := Generate(anchor, rule, from, to)
	require.NoError(t, err)
	b, err := Generate(anchor, rule, from, to)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	for _, st := range a.Starts {
		assert.False(t, st.Before(from))
	}
}

func TestGenerate_InvertedWindowIsEmpty(t *testing.T) {
	s, err := Generate(utc(2025, 1, 1, 0, 0), Rule{Type: TypeDaily, Interval: 1}, utc(2025, 2, 1, 0, 0), utc(2025, 1, 1, 0, 0))
	require.NoError(t, err)
	assert.Empty(t, s.Starts)
}

func TestGenerate_AnchorAfterWindow(t *testing.T) {
	s, err := Generate(utc(2025, 6, 1, 0, 0), Rule{Type: TypeMonthly, Interval: 1}, utc(2025, 1, 1, 0, 0), utc(2025, 3, 1, 0, 0))
	require.NoError(t, err)
	assert.Empty(t, s.Starts)
}

func TestGenerate_InvalidRules(t *testing.T) {
	anchor := utc(2025, 1, 10, 0, 0)
	before := utc(2025, 1, 9, 0, 0)

	cases := map[string]Rule{
		"zero interval":     {Type: TypeDaily, Interval: 0},
		"negative interval": {Type: TypeWeekly, Interval: -2},
		"unknown type":      {Type: "hourly", Interval: 1},
		"end before start":  {Type: TypeDaily, Interval: 1, EndDate: &before},
		"bad weekday":       {Type: TypeWeekly, Interval: 1, DaysOfWeek: []int{7}},
		"huge daily":        {Type: TypeDaily, Interval: 1 << 60},
		"huge monthly":      {Type: TypeMonthly, Interval: 1 << 62},
		"above max":         {Type: TypeYearly, Interval: MaxInterval + 1},
	}
	for name, rule := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Generate(anchor, rule, anchor, anchor.AddDate(0, 1, 0))
			assert.ErrorIs(t, err, ErrInvalidRecurrenceRule)
		})
	}
}

func TestGenerate_MaxIntervalYieldsAnchorOnly(t *testing.T) {
	anchor := utc(2025, 1, 1, 0, 0)

	for _, typ := range ActiveTypes {
		s, err := Generate(anchor, Rule{Type: typ, Interval: MaxInterval}, anchor, utc(2025, 12, 31, 0, 0))
		require.NoError(t, err, typ)
		assert.Equal(t, []time.Time{anchor}, s.Starts, typ)
	}
}

func TestCollect_StopsWhenCandidatesStall(t *testing.T) {
	anchor := utc(2025, 1, 1, 0, 0)
	stalled := stepper{at: func(int) (time.Time, bool) { return anchor, true }}

	s := collect(stalled, anchor, utc(2025, 12, 31, 0, 0))
	assert.Equal(t, []time.Time{anchor}, s.Starts)
	assert.False(t, s.Truncated)
}

func TestGenerate_EndDateOnStartDayIsValid(t *testing.T) {
	anchor := utc(2025, 1, 10, 18, 0)
	sameDay := utc(2025, 1, 10, 0, 0)

	s, err := Generate(anchor, Rule{Type: TypeDaily, Interval: 1, EndDate: &sameDay}, anchor, anchor.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.Equal(t, []time.Time{anchor}, s.Starts)
}

func TestGenerate_MatchesRRuleForDaily(t *testing.T) {
	anchor := utc(2024, 11, 5, 6, 45)
	from, to := utc(2025, 2, 1, 0, 0), utc(2025, 4, 1, 0, 0)

	r, err := rrule.NewRRule(rrule.ROption{Freq: rrule.DAILY, Interval: 3, Dtstart: anchor})
	require.NoError(t, err)
	want := r.Between(from, to, true)

	s, err := Generate(anchor, Rule{Type: TypeDaily, Interval: 3}, from, to)
	require.NoError(t, err)
	require.Len(t, s.Starts, len(want))
	for i := range want {
		assert.True(t, want[i].Equal(s.Starts[i]), "index %d: want %s got %s", i, want[i], s.Starts[i])
	}
}

func TestActive(t *testing.T) {
	var nilRule *Rule
	assert.False(t, nilRule.Active())
	assert.False(t, (&Rule{}).Active())
	assert.False(t, (&Rule{Type: TypeNone, Interval: 1}).Active())
	assert.True(t, (&Rule{Type: TypeYearly, Interval: 1}).Active())
}
