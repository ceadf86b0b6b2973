package intent

import (
	"math"
	"regexp"
	"strings"
	"time"
)

const isoDate = "2006-01-02"

var (
	datePattern = regexp.MustCompile(`([0-9]{4}-[0-9]{2}-[0-9]{2})|([0-9]{2}[/-][0-9]{2}[/-][0-9]{4})`)
	dayFirst    = regexp.MustCompile(`^([0-9]{2})[/-]([0-9]{2})[/-]([0-9]{4})$`)
	tripPattern = regexp.MustCompile(`Voyage de (.*?) à (.*?) du (.*?) au (.*?)$`)
)

// ExtractDate returns the first date found in message, reordered to
// YYYY-MM-DD when written day first. Month and day ranges are not checked;
// StayDuration rejects impossible dates later.
func ExtractDate(message string) (string, bool) {
	m := datePattern.FindString(message)
	if m == "" {
		return "", false
	}
	return NormalizeDate(m), true
}

// NormalizeDate reorders DD/MM/YYYY and DD-MM-YYYY to YYYY-MM-DD and trims
// anything else.
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if m := dayFirst.FindStringSubmatch(s); m != nil {
		return m[3] + "-" + m[2] + "-" + m[1]
	}
	return s
}

// TripRequest is the result of parsing "Voyage de X à Y du A au B".
type TripRequest struct {
	Origin        string
	Destination   string
	DepartureDate string
	ArrivalDate   string
}

// ParseTripMessage recognizes the structured trip sentence sent by the booking form.
func ParseTripMessage(message string) (TripRequest, bool) {
	m := tripPattern.FindStringSubmatch(strings.TrimSpace(message))
	if m == nil {
		return TripRequest{}, false
	}
	return TripRequest{
		Origin:        strings.TrimSpace(m[1]),
		Destination:   strings.TrimSpace(m[2]),
		DepartureDate: NormalizeDate(m[3]),
		ArrivalDate:   NormalizeDate(m[4]),
	}, true
}

// ParseDate accepts YYYY-MM-DD, DD/MM/YYYY and RFC 3339 timestamps.
func ParseDate(s string) (time.Time, bool) {
	s = NormalizeDate(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(isoDate, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// AddDays returns the ISO date n days after date, or "" if date does not parse.
func AddDays(date string, n int) string {
	t, ok := ParseDate(date)
	if !ok {
		return ""
	}
	return t.AddDate(0, 0, n).Format(isoDate)
}

// DefaultWindow is the stay assumed from a single start date.
func DefaultWindow(start time.Time) (string, string) {
	return start.Format(isoDate), start.AddDate(0, 0, DefaultStayDays).Format(isoDate)
}

// StayDuration is ceil((arrival - departure) / 24h). It is 0 when either date
// is missing or invalid, when departure is after arrival, or when the stay
// exceeds MaxStayDays.
func StayDuration(departure, arrival string) int {
	if departure == "" || arrival == "" {
		return 0
	}
	start, ok := ParseDate(departure)
	if !ok {
		return 0
	}
	end, ok := ParseDate(arrival)
	if !ok {
		return 0
	}
	if start.After(end) {
		return 0
	}
	days := int(math.Ceil(end.Sub(start).Hours() / 24))
	if days < 0 || days > MaxStayDays {
		return 0
	}
	return days
}
