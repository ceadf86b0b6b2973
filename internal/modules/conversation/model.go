// README: Conversation types (thread metadata, append-only message log, titles).
package conversation

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

var ErrNotFound = errors.New("conversation not found")

type Role string

const (
	RoleUser      Role = "user"
	RoleBot       Role = "bot"
	RoleBotTyping Role = "bot_typing"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
	StatusDeleted  Status = "deleted"
)

const (
	NewTitle = "Nouvelle conversation"
	Greeting = "Bonjour ! Je suis votre assistant de voyage. Comment puis-je vous aider ?"

	// HistoryLimit caps ListByUser.
	HistoryLimit = 10

	titleRunes = 50
)

// Message is one entry of a conversation. Payload fields are stored as-is.
type Message struct {
	Role          Role            `json:"role"`
	Text          string          `json:"text"`
	Timestamp     time.Time       `json:"timestamp"`
	Data          json.RawMessage `json:"data,omitempty"`
	Reasoning     json.RawMessage `json:"reasoning,omitempty"`
	BookingResult json.RawMessage `json:"bookingResult,omitempty"`
	Itinerary     json.RawMessage `json:"itinerary,omitempty"`
}

// Meta is the trip metadata refreshed on every user message. Empty fields
// leave the stored value unchanged.
type Meta struct {
	DetectedCity      string
	DepartureLocation string
	ArrivalLocation   string
	DepartureDate     string
	ArrivalDate       string
}

type Conversation struct {
	ID                string    `json:"id"`
	UserID            string    `json:"userId"`
	Title             string    `json:"title"`
	Messages          []Message `json:"messages"`
	DetectedCity      string    `json:"detectedCity"`
	DepartureLocation string    `json:"departureLocation"`
	ArrivalLocation   string    `json:"arrivalLocation"`
	DepartureDate     string    `json:"departureDate"`
	ArrivalDate       string    `json:"arrivalDate"`
	Status            Status    `json:"status"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Title names a conversation after its city, or after the opening message
// when no city is known.
func Title(city, message string) string {
	if city = strings.TrimSpace(city); city != "" {
		return "Voyage à " + city
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return NewTitle
	}
	if utf8.RuneCountInString(message) <= titleRunes {
		return message
	}
	return string([]rune(message)[:titleRunes]) + "..."
}
