package service

import (
	"time"

	"samway/internal/modules/intent"
)

// stay is the resolved date window of a chat turn.
type stay struct {
	Departure string
	Arrival   string
	// Travel drives the flight lookup; it is empty when the window was assumed.
	Travel    string
	Origin    string
	Defaulted bool
}

// resolveStay picks the first date source available: the structured trip
// sentence, explicit request dates, a date written in the message, then a
// default window starting today.
func resolveStay(msg string, req ChatRequest, now time.Time) stay {
	s := stay{Origin: req.Origin}

	if trip, ok := intent.ParseTripMessage(msg); ok {
		s.Departure, s.Arrival = trip.DepartureDate, trip.ArrivalDate
		s.Travel = firstNonEmpty(intent.NormalizeDate(req.TravelDate), s.Departure)
		if s.Origin == "" {
			s.Origin = trip.Origin
		}
		return s
	}

	if dep := firstNonEmpty(req.DepartureDate, req.TravelDate); dep != "" {
		s.Departure = intent.NormalizeDate(dep)
		s.Arrival = intent.NormalizeDate(req.ArrivalDate)
		if s.Arrival == "" {
			s.Arrival = intent.AddDays(s.Departure, intent.DefaultStayDays)
		}
		s.Travel = firstNonEmpty(intent.NormalizeDate(req.TravelDate), s.Departure)
		return s
	}

	if d, ok := intent.ExtractDate(msg); ok {
		s.Departure, s.Travel = d, d
		s.Arrival = intent.AddDays(d, intent.DefaultStayDays)
		return s
	}

	s.Departure, s.Arrival = intent.DefaultWindow(now)
	s.Defaulted = true
	return s
}

// revisionWindow fills a missing window for a re-run: no dates means today
// plus the default stay, a lone departure gets the default stay appended.
func revisionWindow(dep, arr string, now time.Time) (string, string) {
	dep, arr = intent.NormalizeDate(dep), intent.NormalizeDate(arr)
	switch {
	case dep == "" && arr == "":
		return intent.DefaultWindow(now)
	case arr == "":
		return dep, intent.AddDays(dep, intent.DefaultStayDays)
	}
	return dep, arr
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
