package event

import (
	"sort"
	"strings"
)

// Filter narrows an expanded occurrence list. Zero values pass everything.
type Filter struct {
	Keywords string
	Emojis   []string
}

func (f Filter) Match(o *Occurrence) bool {
	if kw := strings.ToLower(strings.TrimSpace(f.Keywords)); kw != "" {
		if !strings.Contains(strings.ToLower(o.Title), kw) &&
			!strings.Contains(strings.ToLower(o.Description), kw) {
			return false
		}
	}

	if len(f.Emojis) > 0 {
		found := false
		for _, e := range f.Emojis {
			if e == o.Emoji {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// ApplyFilter returns the items matching f sorted by start. Ties keep a
// fixed order by composite id.
func ApplyFilter(items []Occurrence, f Filter) []Occurrence {
	out := make([]Occurrence, 0, len(items))
	for i := range items {
		if f.Match(&items[i]) {
			out = append(out, items[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].CompositeID < out[j].CompositeID
	})
	return out
}
