// README: Airport and flight types plus the static airport table used when the API has nothing.
package flights

import "errors"

// ErrAPI marks a non-retryable Aviationstack failure (client error status or error body).
var ErrAPI = errors.New("aviationstack api error")

// MaxFlights caps the number of flights returned per lookup.
const MaxFlights = 5

type Airport struct {
	AirportName string `json:"airport_name"`
	IATACode    string `json:"iata_code"`
	CityName    string `json:"city_name,omitempty"`
	CountryName string `json:"country_name,omitempty"`
}

type Endpoint struct {
	Airport   string `json:"airport"`
	IATA      string `json:"iata"`
	Scheduled string `json:"scheduled"`
}

type Airline struct {
	Name string `json:"name"`
	IATA string `json:"iata"`
}

type FlightNumber struct {
	Number string `json:"number"`
	IATA   string `json:"iata"`
}

type Flight struct {
	FlightDate   string       `json:"flight_date"`
	FlightStatus string       `json:"flight_status"`
	Departure    Endpoint     `json:"departure"`
	Arrival      Endpoint     `json:"arrival"`
	Airline      Airline      `json:"airline"`
	Flight       FlightNumber `json:"flight"`
}

// Selection is the outcome of the airport fallback chain. Warning is set
// when the airports are not a direct city match.
type Selection struct {
	Airports []Airport `json:"airports"`
	Warning  string    `json:"warning,omitempty"`
}

// staticAirports is keyed by normalized city name.
var staticAirports = map[string][]Airport{
	"paris": {
		{AirportName: "Paris Charles de Gaulle", IATACode: "CDG"},
		{AirportName: "Paris Orly", IATACode: "ORY"},
		{AirportName: "Paris Beauvais", IATACode: "BVA"},
	},
	"madrid": {
		{AirportName: "Adolfo Suárez Madrid–Barajas", IATACode: "MAD"},
	},
	"new york city": {
		{AirportName: "John F. Kennedy International", IATACode: "JFK"},
		{AirportName: "LaGuardia", IATACode: "LGA"},
		{AirportName: "Newark Liberty International", IATACode: "EWR"},
	},
	"san francisco": {
		{AirportName: "San Francisco International", IATACode: "SFO"},
		{AirportName: "Oakland International", IATACode: "OAK"},
	},
	"istanbul": {
		{AirportName: "Istanbul Airport", IATACode: "IST"},
		{AirportName: "Sabiha Gokcen", IATACode: "SAW"},
	},
	"casablanca": {
		{AirportName: "Mohammed V International", IATACode: "CMN"},
	},
	"rabat": {
		{AirportName: "Rabat–Salé Airport", IATACode: "RBA"},
	},
}
