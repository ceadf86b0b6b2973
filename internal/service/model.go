// README: Trip planner request/response types, outcomes and user-facing fixed sentences.
package service

import (
	"errors"

	"samway/internal/maps"
	"samway/internal/modules/catalog"
	"samway/internal/modules/flights"
	"samway/internal/modules/reasoning"
)

var (
	ErrBadRequest    = errors.New("bad request")
	ErrUnknownAction = errors.New("unknown reservation action")
	ErrUnavailable   = errors.New("conversation store unavailable")
)

// Outcome classifies a chat or reservation turn. It picks the HTTP status
// and the metrics label and is never serialized.
type Outcome string

const (
	OutcomeOK           Outcome = "ok"
	OutcomeRejected     Outcome = "rejected"
	OutcomeNoLocation   Outcome = "no_location"
	OutcomeInvalidDates Outcome = "invalid_dates"
)

const (
	RejectedResponse   = "Je suis désolé, je ne peux pas vous aider pour cette demande."
	NoLocationResponse = `Je n'ai pas identifié de quartier ou de ville. Essayez par exemple : "Que faire à Montmartre", "Hôtels à Manhattan", ou "Activités à Taksim".`
	RefuseResponse     = "D'accord, je vous propose d'autres options !"
	ModifyResponse     = "Voici un nouvel itinéraire adapté à vos modifications."
	bookingStatus      = "confirmed"
)

type ChatRequest struct {
	Message       string `json:"message"`
	TravelDate    string `json:"travelDate,omitempty"`
	DepartureDate string `json:"departureDate,omitempty"`
	ArrivalDate   string `json:"arrivalDate,omitempty"`
	Origin        string `json:"origin,omitempty"`
	UserID        string `json:"userId,omitempty"`
}

// ChatData carries the collaborator results. Lists are never null.
type ChatData struct {
	Hotels                []catalog.Hotel      `json:"hotels"`
	Restaurants           []catalog.Restaurant `json:"restaurants"`
	Activities            []catalog.Activity   `json:"activities"`
	Airports              []flights.Airport    `json:"airports"`
	AirportsWarning       string               `json:"airportsWarning,omitempty"`
	OriginAirports        []flights.Airport    `json:"originAirports"`
	OriginAirportsWarning string               `json:"originAirportsWarning,omitempty"`
	Flights               []flights.Flight     `json:"flights"`
	Highlights            []maps.Place         `json:"highlights"`
	Transfer              *maps.Transfer       `json:"transfer,omitempty"`
}

func emptyData() ChatData {
	return ChatData{
		Hotels:         []catalog.Hotel{},
		Restaurants:    []catalog.Restaurant{},
		Activities:     []catalog.Activity{},
		Airports:       []flights.Airport{},
		OriginAirports: []flights.Airport{},
		Flights:        []flights.Flight{},
		Highlights:     []maps.Place{},
	}
}

type ChatResponse struct {
	Response       string               `json:"response"`
	Reasoning      *reasoning.Reasoning `json:"reasoning,omitempty"`
	Data           *ChatData            `json:"data,omitempty"`
	UserID         string               `json:"userId,omitempty"`
	ConversationID string               `json:"conversationId,omitempty"`
	Outcome        Outcome              `json:"-"`
}

type ReservationParams struct {
	HotelName         string `json:"hotelName,omitempty"`
	TravelDate        string `json:"travelDate,omitempty"`
	DepartureDate     string `json:"departureDate,omitempty"`
	ArrivalDate       string `json:"arrivalDate,omitempty"`
	DepartureLocation string `json:"departureLocation,omitempty"`
	ArrivalLocation   string `json:"arrivalLocation,omitempty"`
	Neighborhood      string `json:"neighborhood,omitempty"`
}

type Modification struct {
	DepartureDate string `json:"departureDate,omitempty"`
	ArrivalDate   string `json:"arrivalDate,omitempty"`
	NewDates      string `json:"newDates,omitempty"`
}

type ReservationRequest struct {
	Action         string            `json:"action"`
	Message        string            `json:"message"`
	UserID         string            `json:"userId,omitempty"`
	ConversationID string            `json:"conversationId,omitempty"`
	Params         ReservationParams `json:"params"`
	Modification   *Modification     `json:"modification,omitempty"`
}

type Booking struct {
	Reference   string `json:"reference"`
	HotelName   string `json:"hotelName"`
	CheckIn     string `json:"checkIn"`
	CheckOut    string `json:"checkOut"`
	Destination string `json:"destination,omitempty"`
	Status      string `json:"status"`
}

type ReservationResponse struct {
	Response       string               `json:"response"`
	Reasoning      *reasoning.Reasoning `json:"reasoning,omitempty"`
	Booking        *Booking             `json:"booking,omitempty"`
	UserID         string               `json:"userId,omitempty"`
	ConversationID string               `json:"conversationId,omitempty"`
	Outcome        Outcome              `json:"-"`
}
