package itinerary

import "strings"

// Fit forces it to exactly n days: the first n days by order are kept,
// missing trailing days are placeholders, labels are rewritten to
// day1..dayN and empty activity lists get the placeholder activity.
func Fit(it Itinerary, n int) Itinerary {
	if n <= 0 {
		return Itinerary{}
	}
	entries := make([]Entry, n)
	for i := 0; i < n; i++ {
		d := PlaceholderDay()
		if i < len(it.entries) {
			d = fillDay(it.entries[i].Day)
		}
		entries[i] = Entry{Label: Label(i + 1), Day: d}
	}
	return Itinerary{entries: entries}
}

func fillDay(d Day) Day {
	ph := PlaceholderDay()
	d.Morning = fillSlot(d.Morning, ph.Morning)
	d.Afternoon = fillSlot(d.Afternoon, ph.Afternoon)
	d.Evening = fillSlot(d.Evening, ph.Evening)
	return d
}

func fillSlot(s, ph Slot) Slot {
	acts := make([]string, 0, len(s.Activities))
	for _, a := range s.Activities {
		if strings.TrimSpace(a) != "" {
			acts = append(acts, a)
		}
	}
	if len(acts) == 0 {
		acts = ph.Activities
	}
	s.Activities = acts
	return s
}
