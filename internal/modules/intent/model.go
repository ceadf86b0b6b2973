// README: Intent types (travel context, detected location, gazetteer document).
package intent

import "errors"

// AllNeighborhoods is the neighborhood value returned when only the city name matched.
const AllNeighborhoods = "all neighborhoods"

// DefaultStayDays is the stay length assumed when only one date is known.
const DefaultStayDays = 3

// MaxStayDays bounds the stay length; longer ranges count as invalid dates.
const MaxStayDays = 30

var ErrInvalidGazetteer = errors.New("invalid gazetteer")

// Location is the result of a gazetteer match.
type Location struct {
	City         string `json:"city"`
	Neighborhood string `json:"neighborhood"`
}

// AllNeighborhoods reports whether the match was on the bare city name.
func (l Location) AllNeighborhoods() bool {
	return l.Neighborhood == AllNeighborhoods
}

// SearchTerm is the most specific name usable as a lookup filter.
func (l Location) SearchTerm() string {
	if l.Neighborhood == "" || l.AllNeighborhoods() {
		return l.City
	}
	return l.Neighborhood
}

// RevisionKind marks why reasoning is being re-run for an existing proposal.
type RevisionKind string

const (
	RevisionRefuse RevisionKind = "refuse"
	RevisionModify RevisionKind = "modify"
)

// Revision carries the user's feedback on a previous proposal.
type Revision struct {
	Kind   RevisionKind `json:"kind"`
	Reason string       `json:"reason,omitempty"`
}

// TravelContext is built per request and embedded in the generation prompt.
type TravelContext struct {
	City          string    `json:"city"`
	Neighborhood  string    `json:"neighborhood"`
	DepartureDate string    `json:"departureDate,omitempty"`
	ArrivalDate   string    `json:"arrivalDate,omitempty"`
	TravelDate    string    `json:"travelDate,omitempty"`
	Origin        string    `json:"origin,omitempty"`
	Revision      *Revision `json:"revision,omitempty"`
}

// StayDuration is the number of days between the context's dates.
func (tc TravelContext) StayDuration() int {
	return StayDuration(tc.DepartureDate, tc.ArrivalDate)
}

// City is one gazetteer entry.
type City struct {
	Name          string   `yaml:"name"`
	Neighborhoods []string `yaml:"neighborhoods"`
}

// Gazetteer is the immutable city/neighborhood table plus the request denylist.
// It is loaded once and shared by reference; nothing mutates it after Load.
type Gazetteer struct {
	Cities   []City   `yaml:"cities"`
	Denylist []string `yaml:"denylist"`
}
