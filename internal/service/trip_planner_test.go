package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samway/internal/ai"
	"samway/internal/maps"
	"samway/internal/modules/catalog"
	"samway/internal/modules/conversation"
	"samway/internal/modules/flights"
	"samway/internal/modules/intent"
	"samway/internal/modules/itinerary"
	"samway/internal/modules/reasoning"
)

var errBoom = errors.New("boom")

type fakeReasoner struct {
	mu    sync.Mutex
	calls []intent.TravelContext
	res   *reasoning.Result
}

func (f *fakeReasoner) Reason(ctx context.Context, message string, tc intent.TravelContext) reasoning.Result {
	f.mu.Lock()
	f.calls = append(f.calls, tc)
	f.mu.Unlock()
	if f.res != nil {
		return *f.res
	}
	n := tc.StayDuration()
	if n <= 0 {
		return reasoning.Result{Response: reasoning.InvalidDatesResponse, Reasoning: reasoning.EmptyReasoning(), Outcome: reasoning.OutcomeInvalidDates}
	}
	return reasoning.Result{
		Response:  "Raisonnement",
		Reasoning: reasoning.Fallback(itinerary.Skeleton(n)).Reasoning,
		Outcome:   reasoning.OutcomeGenerated,
		Duration:  n,
	}
}

type fakeCatalog struct {
	err error
}

func (f fakeCatalog) Hotels(ctx context.Context, loc intent.Location) ([]catalog.Hotel, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []catalog.Hotel{{Name: "Hôtel " + loc.SearchTerm()}}, nil
}

func (f fakeCatalog) Restaurants(ctx context.Context, loc intent.Location) ([]catalog.Restaurant, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []catalog.Restaurant{{Name: "Bistrot"}}, nil
}

func (f fakeCatalog) Activities(ctx context.Context, loc intent.Location) ([]catalog.Activity, error) {
	return nil, nil
}

type fakeFlights struct {
	mu          sync.Mutex
	flightCalls []string
}

func (f *fakeFlights) Airports(ctx context.Context, city string) (flights.Selection, error) {
	switch city {
	case "Paris":
		return flights.Selection{Airports: []flights.Airport{{AirportName: "Paris Orly", IATACode: "ORY"}}}, nil
	case "Lyon":
		return flights.Selection{Airports: []flights.Airport{{AirportName: "Lyon Saint-Exupéry", IATACode: "LYS"}}, Warning: "manuel"}, nil
	}
	return flights.Selection{Airports: []flights.Airport{}}, errBoom
}

func (f *fakeFlights) Flights(ctx context.Context, iata, date string) ([]flights.Flight, error) {
	f.mu.Lock()
	f.flightCalls = append(f.flightCalls, iata+"@"+date)
	f.mu.Unlock()
	return []flights.Flight{{FlightDate: date}}, nil
}

type fakeRoutes struct{}

func (fakeRoutes) TransferEstimate(ctx context.Context, origin, destination string) (maps.Transfer, error) {
	return maps.Transfer{From: origin, To: destination, Minutes: 40}, nil
}

type fakePlaces struct{}

func (fakePlaces) Highlights(ctx context.Context, city, neighborhood string) ([]maps.Place, error) {
	return nil, errBoom
}

type fakeConversations struct {
	mu       sync.Mutex
	messages map[string][]conversation.Message
	owners   map[string]string
	metas    []conversation.Meta
	failUser bool
}

func newFakeConversations() *fakeConversations {
	return &fakeConversations{messages: map[string][]conversation.Message{}, owners: map[string]string{}}
}

func (f *fakeConversations) AppendUser(ctx context.Context, userID string, meta conversation.Meta, text string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUser {
		return "", errBoom
	}
	id := "conv-" + userID
	f.owners[id] = userID
	f.metas = append(f.metas, meta)
	f.messages[id] = append(f.messages[id], conversation.Message{Role: conversation.RoleUser, Text: text})
	return id, nil
}

func (f *fakeConversations) Append(ctx context.Context, userID, conversationID string, msgs ...conversation.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.owners[conversationID] != userID {
		return conversation.ErrNotFound
	}
	f.messages[conversationID] = append(f.messages[conversationID], msgs...)
	return nil
}

func (f *fakeConversations) ListByUser(ctx context.Context, userID string) ([]conversation.Conversation, error) {
	return nil, nil
}

func (f *fakeConversations) Create(ctx context.Context, userID string) (conversation.Conversation, error) {
	return conversation.Conversation{ID: "new", UserID: userID, Title: conversation.NewTitle}, nil
}

type fakeQuota struct {
	err   error
	calls int
}

func (f *fakeQuota) Use(ctx context.Context, uid string) error {
	f.calls++
	return f.err
}

func newPlanner(t *testing.T, deps Deps) *TripPlanner {
	t.Helper()
	g, err := intent.LoadDefault()
	require.NoError(t, err)
	deps.Detector = intent.NewDetector(g)
	deps.Filter = intent.NewFilter(g, intent.MatchSubstring)
	if deps.Reasoner == nil {
		deps.Reasoner = &fakeReasoner{}
	}
	p, err := NewTripPlanner(deps)
	require.NoError(t, err)
	p.now = func() time.Time { return time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC) }
	return p
}

func TestNewTripPlannerRequiresCore(t *testing.T) {
	_, err := NewTripPlanner(Deps{})
	assert.Error(t, err)
}

func TestChatEmptyMessage(t *testing.T) {
	p := newPlanner(t, Deps{})
	_, err := p.Chat(context.Background(), ChatRequest{Message: "  "})
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestChatRejectsIllegalMessage(t *testing.T) {
	r := &fakeReasoner{}
	convs := newFakeConversations()
	p := newPlanner(t, Deps{Reasoner: r, Conversations: convs})

	resp, err := p.Chat(context.Background(), ChatRequest{Message: "Comment PIRATER un hôtel à Paris", UserID: "u1"})

	require.NoError(t, err)
	assert.Equal(t, OutcomeRejected, resp.Outcome)
	assert.Equal(t, RejectedResponse, resp.Response)
	assert.Nil(t, resp.Reasoning)
	assert.Empty(t, resp.UserID)
	assert.Empty(t, r.calls)
	assert.Empty(t, convs.messages)
}

func TestChatQuotaExceeded(t *testing.T) {
	quotaErr := errors.New("quota exceeded")
	quota := &fakeQuota{err: quotaErr}
	p := newPlanner(t, Deps{Quota: quota})
	_, err := p.Chat(context.Background(), ChatRequest{Message: "Que faire à Montmartre"})
	assert.ErrorIs(t, err, quotaErr)
	assert.Equal(t, 1, quota.calls)
}

func TestChatNoLocation(t *testing.T) {
	r := &fakeReasoner{}
	quota := &fakeQuota{}
	convs := newFakeConversations()
	p := newPlanner(t, Deps{Reasoner: r, Quota: quota, Conversations: convs})

	resp, err := p.Chat(context.Background(), ChatRequest{Message: "Je veux partir à Lisbonne"})

	require.NoError(t, err)
	assert.Equal(t, OutcomeNoLocation, resp.Outcome)
	assert.Equal(t, NoLocationResponse, resp.Response)
	assert.NotEmpty(t, resp.UserID)
	assert.Empty(t, r.calls)
	assert.Equal(t, 0, quota.calls)
	assert.Empty(t, convs.messages)
}

func TestChatRejectedMessageIsNotCharged(t *testing.T) {
	quota := &fakeQuota{}
	p := newPlanner(t, Deps{Quota: quota})

	resp, err := p.Chat(context.Background(), ChatRequest{Message: "pirater Paris", UserID: "u1"})

	require.NoError(t, err)
	assert.Equal(t, OutcomeRejected, resp.Outcome)
	assert.Equal(t, 0, quota.calls)
}

func TestChatOverlongStayIsInvalidDates(t *testing.T) {
	r := &fakeReasoner{}
	fl := &fakeFlights{}
	p := newPlanner(t, Deps{Reasoner: r, Flights: fl})

	resp, err := p.Chat(context.Background(), ChatRequest{Message: "Voyage de Lyon à Paris du 2025-01-01 au 9999-12-31"})

	require.NoError(t, err)
	assert.Equal(t, OutcomeInvalidDates, resp.Outcome)
	assert.Nil(t, resp.Data)
	assert.Equal(t, 0, resp.Reasoning.SuggestedItinerary.Len())
	assert.Empty(t, fl.flightCalls)
}

func TestChatInvalidDatesSkipsCollaborators(t *testing.T) {
	fl := &fakeFlights{}
	convs := newFakeConversations()
	p := newPlanner(t, Deps{Catalog: fakeCatalog{err: errBoom}, Flights: fl, Conversations: convs})

	resp, err := p.Chat(context.Background(), ChatRequest{
		Message:       "Que faire à Montmartre",
		DepartureDate: "2024-06-05",
		ArrivalDate:   "2024-06-01",
		UserID:        "u1",
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeInvalidDates, resp.Outcome)
	assert.Equal(t, reasoning.InvalidDatesResponse, resp.Response)
	assert.Nil(t, resp.Data)
	assert.Equal(t, 0, resp.Reasoning.SuggestedItinerary.Len())
	assert.Empty(t, fl.flightCalls)
	assert.Equal(t, "conv-u1", resp.ConversationID)
	assert.Len(t, convs.messages["conv-u1"], 2)
}

func TestChatFullTurn(t *testing.T) {
	r := &fakeReasoner{}
	fl := &fakeFlights{}
	convs := newFakeConversations()
	p := newPlanner(t, Deps{
		Reasoner:      r,
		Catalog:       fakeCatalog{},
		Flights:       fl,
		Routes:        fakeRoutes{},
		Places:        fakePlaces{},
		Conversations: convs,
	})

	resp, err := p.Chat(context.Background(), ChatRequest{
		Message:    "Que faire à Montmartre",
		TravelDate: "01/07/2024",
		Origin:     "Lyon",
		UserID:     "u1",
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeOK, resp.Outcome)
	assert.Equal(t, "Raisonnement", resp.Response)

	require.Len(t, r.calls, 1)
	tc := r.calls[0]
	assert.Equal(t, "Paris", tc.City)
	assert.Equal(t, "montmartre", tc.Neighborhood)
	assert.Equal(t, "2024-07-01", tc.DepartureDate)
	assert.Equal(t, "2024-07-04", tc.ArrivalDate)
	assert.Equal(t, 3, resp.Reasoning.SuggestedItinerary.Len())

	data := resp.Data
	require.NotNil(t, data)
	assert.Equal(t, "Hôtel montmartre", data.Hotels[0].Name)
	assert.Len(t, data.Restaurants, 1)
	assert.NotNil(t, data.Activities)
	assert.Empty(t, data.Activities)
	assert.Equal(t, "ORY", data.Airports[0].IATACode)
	assert.Equal(t, "LYS", data.OriginAirports[0].IATACode)
	assert.Equal(t, "manuel", data.OriginAirportsWarning)
	assert.Equal(t, []string{"ORY@2024-07-01"}, fl.flightCalls)
	require.NotNil(t, data.Transfer)
	assert.Equal(t, "montmartre, Paris", data.Transfer.To)
	assert.NotNil(t, data.Highlights)
	assert.Empty(t, data.Highlights)

	require.Len(t, convs.metas, 1)
	assert.Equal(t, "Paris", convs.metas[0].DetectedCity)
	assert.Equal(t, "Lyon", convs.metas[0].DepartureLocation)
	msgs := convs.messages["conv-u1"]
	require.Len(t, msgs, 2)
	assert.Equal(t, conversation.RoleBot, msgs[1].Role)
	assert.NotEmpty(t, msgs[1].Data)
	assert.NotEmpty(t, msgs[1].Reasoning)
}

func TestChatDefaultWindowSkipsFlights(t *testing.T) {
	r := &fakeReasoner{}
	fl := &fakeFlights{}
	p := newPlanner(t, Deps{Reasoner: r, Flights: fl})

	resp, err := p.Chat(context.Background(), ChatRequest{Message: "Hôtels à Paris"})

	require.NoError(t, err)
	assert.Equal(t, OutcomeOK, resp.Outcome)
	assert.Equal(t, "2024-06-01", r.calls[0].DepartureDate)
	assert.Equal(t, "2024-06-04", r.calls[0].ArrivalDate)
	assert.Empty(t, fl.flightCalls)
	assert.Empty(t, resp.Data.OriginAirports)
	assert.Empty(t, resp.ConversationID)
}

func TestChatCollaboratorFailuresDegrade(t *testing.T) {
	convs := newFakeConversations()
	convs.failUser = true
	p := newPlanner(t, Deps{Catalog: fakeCatalog{err: errBoom}, Flights: &fakeFlights{}, Conversations: convs})

	resp, err := p.Chat(context.Background(), ChatRequest{Message: "Que faire à Taksim", UserID: "u1"})

	require.NoError(t, err)
	assert.Equal(t, OutcomeOK, resp.Outcome)
	assert.Empty(t, resp.Data.Hotels)
	assert.NotNil(t, resp.Data.Hotels)
	assert.Empty(t, resp.Data.Airports)
	assert.Empty(t, resp.ConversationID)

	body, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"hotels":[]`)
	assert.Contains(t, string(body), `"flights":[]`)
	assert.NotContains(t, string(body), "null")
}

func TestChatComposesPlan(t *testing.T) {
	var prompt string
	composer := ai.GeneratorFunc(func(ctx context.Context, p string) (string, error) {
		prompt = p
		return "  PLAN DE VOYAGE  ", nil
	})
	p := newPlanner(t, Deps{Catalog: fakeCatalog{}, Composer: composer})

	resp, err := p.Chat(context.Background(), ChatRequest{Message: "Que faire à Montmartre", DepartureDate: "2024-06-01", ArrivalDate: "2024-06-03"})

	require.NoError(t, err)
	assert.Equal(t, "PLAN DE VOYAGE", resp.Response)
	assert.Contains(t, prompt, "EXACTEMENT 2 jours")
	assert.Contains(t, prompt, "Hôtel montmartre")
	assert.Contains(t, prompt, "Aucun aéroport trouvé")
}

func TestChatComposerFailureKeepsReasoning(t *testing.T) {
	composer := ai.GeneratorFunc(func(ctx context.Context, p string) (string, error) {
		return "", errBoom
	})
	p := newPlanner(t, Deps{Composer: composer})

	resp, err := p.Chat(context.Background(), ChatRequest{Message: "Que faire à Montmartre"})

	require.NoError(t, err)
	assert.Equal(t, "Raisonnement", resp.Response)
}

func TestReserveConfirm(t *testing.T) {
	convs := newFakeConversations()
	convs.owners["c1"] = "u1"
	p := newPlanner(t, Deps{Conversations: convs})

	resp, err := p.Reserve(context.Background(), ReservationRequest{
		Action:         ActionConfirm,
		Message:        "Oui",
		UserID:         "u1",
		ConversationID: "c1",
		Params:         ReservationParams{HotelName: "Hôtel Amour", TravelDate: "10/07/2024", ArrivalLocation: "Paris"},
	})

	require.NoError(t, err)
	require.NotNil(t, resp.Booking)
	assert.Equal(t, "2024-07-10", resp.Booking.CheckIn)
	assert.Equal(t, "2024-07-13", resp.Booking.CheckOut)
	assert.Equal(t, "confirmed", resp.Booking.Status)
	assert.NotEmpty(t, resp.Booking.Reference)
	assert.Contains(t, resp.Response, "Hôtel Amour")
	assert.Equal(t, "c1", resp.ConversationID)

	msgs := convs.messages["c1"]
	require.Len(t, msgs, 2)
	assert.Equal(t, conversation.RoleUser, msgs[0].Role)
	assert.NotEmpty(t, msgs[1].BookingResult)
}

func TestReserveForeignConversationUsesOwnThread(t *testing.T) {
	convs := newFakeConversations()
	convs.owners["c2"] = "someone-else"
	p := newPlanner(t, Deps{Conversations: convs})

	resp, err := p.Reserve(context.Background(), ReservationRequest{
		Action:         ActionConfirm,
		Message:        "Oui",
		UserID:         "u1",
		ConversationID: "c2",
		Params:         ReservationParams{HotelName: "Hôtel Amour"},
	})

	require.NoError(t, err)
	assert.Empty(t, convs.messages["c2"])
	assert.Equal(t, "conv-u1", resp.ConversationID)
	msgs := convs.messages["conv-u1"]
	require.Len(t, msgs, 2)
	assert.Equal(t, "Oui", msgs[0].Text)
	assert.NotEmpty(t, msgs[1].BookingResult)
}

func TestReserveConfirmDefaultsCheckIn(t *testing.T) {
	p := newPlanner(t, Deps{})
	resp, err := p.Reserve(context.Background(), ReservationRequest{Action: ActionConfirm, Params: ReservationParams{HotelName: "H"}})
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", resp.Booking.CheckIn)
	assert.Equal(t, "2024-06-04", resp.Booking.CheckOut)
	assert.NotEmpty(t, resp.UserID)
}

func TestReserveConfirmRequiresHotel(t *testing.T) {
	p := newPlanner(t, Deps{})
	_, err := p.Reserve(context.Background(), ReservationRequest{Action: ActionConfirm})
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestReserveRefuse(t *testing.T) {
	r := &fakeReasoner{}
	p := newPlanner(t, Deps{Reasoner: r})

	resp, err := p.Reserve(context.Background(), ReservationRequest{
		Action:  ActionRefuse,
		Message: "Trop cher à Montmartre",
		Params:  ReservationParams{DepartureDate: "2024-08-01"},
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeOK, resp.Outcome)
	require.Len(t, r.calls, 1)
	tc := r.calls[0]
	assert.Equal(t, "Paris", tc.City)
	assert.Equal(t, "montmartre", tc.Neighborhood)
	assert.Equal(t, "2024-08-01", tc.DepartureDate)
	assert.Equal(t, "2024-08-04", tc.ArrivalDate)
	require.NotNil(t, tc.Revision)
	assert.Equal(t, intent.RevisionRefuse, tc.Revision.Kind)
	assert.Equal(t, "Trop cher à Montmartre", tc.Revision.Reason)
}

func TestReserveRefuseFallbackText(t *testing.T) {
	fb := reasoning.Fallback(itinerary.Skeleton(3))
	p := newPlanner(t, Deps{Reasoner: &fakeReasoner{res: &fb}})

	resp, err := p.Reserve(context.Background(), ReservationRequest{Action: ActionRefuse, Message: "Non", Params: ReservationParams{ArrivalLocation: "Paris"}})

	require.NoError(t, err)
	assert.Equal(t, RefuseResponse, resp.Response)
}

func TestReserveModifyNewDates(t *testing.T) {
	r := &fakeReasoner{}
	p := newPlanner(t, Deps{Reasoner: r})

	resp, err := p.Reserve(context.Background(), ReservationRequest{
		Action:       ActionModify,
		Message:      "Plutôt en septembre",
		Params:       ReservationParams{ArrivalLocation: "Madrid", DepartureDate: "2024-08-01", ArrivalDate: "2024-08-10"},
		Modification: &Modification{NewDates: "15/09/2024"},
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeOK, resp.Outcome)
	tc := r.calls[0]
	assert.Equal(t, "Madrid", tc.City)
	assert.Equal(t, intent.AllNeighborhoods, tc.Neighborhood)
	assert.Equal(t, "2024-09-15", tc.DepartureDate)
	assert.Equal(t, "2024-09-18", tc.ArrivalDate)
	assert.Equal(t, intent.RevisionModify, tc.Revision.Kind)
}

func TestReserveModifyPartialDates(t *testing.T) {
	r := &fakeReasoner{}
	p := newPlanner(t, Deps{Reasoner: r})

	_, err := p.Reserve(context.Background(), ReservationRequest{
		Action:       ActionModify,
		Params:       ReservationParams{ArrivalLocation: "Paris", DepartureDate: "2024-08-01", ArrivalDate: "2024-08-03"},
		Modification: &Modification{ArrivalDate: "2024-08-06"},
	})

	require.NoError(t, err)
	assert.Equal(t, "2024-08-01", r.calls[0].DepartureDate)
	assert.Equal(t, "2024-08-06", r.calls[0].ArrivalDate)
}

func TestReserveRejectsIllegalAndUnknown(t *testing.T) {
	p := newPlanner(t, Deps{})

	resp, err := p.Reserve(context.Background(), ReservationRequest{Action: ActionConfirm, Message: "faux passeport"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeRejected, resp.Outcome)

	_, err = p.Reserve(context.Background(), ReservationRequest{Action: "cancel"})
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestHistoryAndNewConversation(t *testing.T) {
	p := newPlanner(t, Deps{})

	_, err := p.History(context.Background(), "")
	assert.ErrorIs(t, err, ErrBadRequest)

	list, err := p.History(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	_, err = p.NewConversation(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrUnavailable)

	p = newPlanner(t, Deps{Conversations: newFakeConversations()})
	list, err = p.History(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotNil(t, list)

	c, err := p.NewConversation(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", c.UserID)
}

func TestResolveStay(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name    string
		msg     string
		req     ChatRequest
		dep     string
		arr     string
		travel  string
		assumed bool
	}{
		{"explicit pair", "Paris", ChatRequest{DepartureDate: "2024-07-01", ArrivalDate: "2024-07-05"}, "2024-07-01", "2024-07-05", "2024-07-01", false},
		{"travel date only", "Paris", ChatRequest{TravelDate: "02/07/2024"}, "2024-07-02", "2024-07-05", "2024-07-02", false},
		{"date in message", "Paris le 03/07/2024", ChatRequest{}, "2024-07-03", "2024-07-06", "2024-07-03", false},
		{"default window", "Paris", ChatRequest{}, "2024-06-01", "2024-06-04", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := resolveStay(tc.msg, tc.req, now)
			assert.Equal(t, tc.dep, s.Departure)
			assert.Equal(t, tc.arr, s.Arrival)
			assert.Equal(t, tc.travel, s.Travel)
			assert.Equal(t, tc.assumed, s.Defaulted)
		})
	}
}

func TestPlanPromptListsData(t *testing.T) {
	data := emptyData()
	data.Flights = []flights.Flight{{Flight: flights.FlightNumber{IATA: "AF123"}}}
	prompt := buildPlanPrompt(intent.Location{City: "Paris", Neighborhood: intent.AllNeighborhoods}, 4, data, stay{Departure: "2024-06-01", Arrival: "2024-06-05", Travel: "2024-06-01"})

	assert.Contains(t, prompt, "PLAN DE VOYAGE - Paris\n")
	assert.Contains(t, prompt, "Aucun hôtel trouvé")
	assert.Contains(t, prompt, "AF123")
	assert.True(t, strings.Contains(prompt, "EXACTEMENT 4 jours"))
}
