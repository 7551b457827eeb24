package holiday

import (
	"sort"
	"time"
)

// Holiday is a public holiday. Date is 12:00 UTC on the holiday, the same
// anchor all-day events use.
type Holiday struct {
	Date time.Time
	Name string
}

// French lists metropolitan French public holidays.
type French struct{}

func NewFrench() French {
	return French{}
}

// Between returns the holidays whose day overlaps [from, to], in date order.
func (French) Between(from, to time.Time) []Holiday {
	if from.After(to) {
		return nil
	}

	var out []Holiday
	for y := from.UTC().Year(); y <= to.UTC().Year(); y++ {
		for _, h := range ForYear(y) {
			dayStart := h.Date.Add(-12 * time.Hour)
			dayEnd := dayStart.Add(24 * time.Hour)
			if dayEnd.After(from) && !dayStart.After(to) {
				out = append(out, h)
			}
		}
	}
	return out
}

// ForYear returns the eleven French public holidays of year.
func ForYear(year int) []Holiday {
	easter := Easter(year)
	days := []Holiday{
		{date(year, time.January, 1), "Jour de l'an"},
		{easter.AddDate(0, 0, 1), "Lundi de Pâques"},
		{date(year, time.May, 1), "Fête du Travail"},
		{date(year, time.May, 8), "Victoire 1945"},
		{easter.AddDate(0, 0, 39), "Ascension"},
		{easter.AddDate(0, 0, 50), "Lundi de Pentecôte"},
		{date(year, time.July, 14), "Fête nationale"},
		{date(year, time.August, 15), "Assomption"},
		{date(year, time.November, 1), "Toussaint"},
		{date(year, time.November, 11), "Armistice 1918"},
		{date(year, time.December, 25), "Noël"},
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })
	return days
}

// Easter returns Easter Sunday of year (Gregorian calendar), at 12:00 UTC.
func Easter(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return date(year, time.Month(month), day)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}
