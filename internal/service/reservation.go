package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"samway/internal/modules/conversation"
	"samway/internal/modules/intent"
	"samway/internal/modules/reasoning"
)

const (
	ActionConfirm = "confirm"
	ActionRefuse  = "refuse"
	ActionModify  = "modify"
)

// Reserve handles the user's answer to a proposed plan.
func (p *TripPlanner) Reserve(ctx context.Context, req ReservationRequest) (*ReservationResponse, error) {
	if p.deps.Filter.IsIllegal(req.Message) {
		return &ReservationResponse{Response: RejectedResponse, Outcome: OutcomeRejected}, nil
	}
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		userID = uuid.NewString()
	}
	logger := log.WithFields(log.Fields{"user_id": userID, "action": req.Action})

	var (
		resp *ReservationResponse
		err  error
	)
	switch req.Action {
	case ActionConfirm:
		resp, err = p.confirm(req)
	case ActionRefuse:
		dep, arr := revisionWindow(req.Params.DepartureDate, req.Params.ArrivalDate, p.now())
		resp = p.revise(ctx, req, dep, arr, intent.RevisionRefuse, RefuseResponse)
	case ActionModify:
		dep, arr := modifiedWindow(req)
		dep, arr = revisionWindow(dep, arr, p.now())
		resp = p.revise(ctx, req, dep, arr, intent.RevisionModify, ModifyResponse)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, req.Action)
	}
	if err != nil {
		return nil, err
	}
	resp.UserID = userID

	bot := conversation.Message{Role: conversation.RoleBot, Text: resp.Response}
	if resp.Reasoning != nil {
		bot.Reasoning = rawJSON(resp.Reasoning)
		bot.Itinerary = rawJSON(resp.Reasoning.SuggestedItinerary)
	}
	if resp.Booking != nil {
		bot.BookingResult = rawJSON(resp.Booking)
	}
	meta := conversation.Meta{
		DepartureLocation: req.Params.DepartureLocation,
		ArrivalLocation:   req.Params.ArrivalLocation,
	}
	resp.ConversationID = p.record(ctx, logger, userID, req.ConversationID, meta, userText(req), bot)

	logger.WithField("outcome", resp.Outcome).Info("reservation: action handled")
	return resp, nil
}

func (p *TripPlanner) confirm(req ReservationRequest) (*ReservationResponse, error) {
	hotel := strings.TrimSpace(req.Params.HotelName)
	if hotel == "" {
		return nil, fmt.Errorf("%w: hotelName requis", ErrBadRequest)
	}
	checkIn := intent.NormalizeDate(firstNonEmpty(req.Params.TravelDate, req.Params.DepartureDate))
	if _, ok := intent.ParseDate(checkIn); !ok {
		checkIn, _ = intent.DefaultWindow(p.now())
	}
	booking := &Booking{
		Reference:   uuid.NewString(),
		HotelName:   hotel,
		CheckIn:     checkIn,
		CheckOut:    intent.AddDays(checkIn, intent.DefaultStayDays),
		Destination: req.Params.ArrivalLocation,
		Status:      bookingStatus,
	}
	return &ReservationResponse{
		Response: fmt.Sprintf("Votre réservation à l'hôtel %s est confirmée du %s au %s (référence %s).",
			booking.HotelName, booking.CheckIn, booking.CheckOut, booking.Reference),
		Booking: booking,
		Outcome: OutcomeOK,
	}, nil
}

// revise re-runs reasoning for a refused or modified proposal. fallbackText
// replaces the generic fallback narrative.
func (p *TripPlanner) revise(ctx context.Context, req ReservationRequest, dep, arr string, kind intent.RevisionKind, fallbackText string) *ReservationResponse {
	tc := intent.TravelContext{
		City:          strings.TrimSpace(req.Params.ArrivalLocation),
		Neighborhood:  strings.TrimSpace(req.Params.Neighborhood),
		DepartureDate: dep,
		ArrivalDate:   arr,
		TravelDate:    req.Params.TravelDate,
		Origin:        req.Params.DepartureLocation,
		Revision:      &intent.Revision{Kind: kind, Reason: req.Message},
	}
	if loc, ok := p.deps.Detector.Detect(req.Message); ok {
		if tc.City == "" {
			tc.City = loc.City
		}
		if tc.Neighborhood == "" && loc.City == tc.City {
			tc.Neighborhood = loc.Neighborhood
		}
	}
	if tc.Neighborhood == "" {
		tc.Neighborhood = intent.AllNeighborhoods
	}

	res := p.deps.Reasoner.Reason(ctx, req.Message, tc)
	resp := &ReservationResponse{
		Response:  res.Response,
		Reasoning: &res.Reasoning,
		Outcome:   OutcomeOK,
	}
	switch res.Outcome {
	case reasoning.OutcomeFallback:
		resp.Response = fallbackText
	case reasoning.OutcomeInvalidDates:
		resp.Outcome = OutcomeInvalidDates
	}
	return resp
}

// modifiedWindow prefers the modification dates over the original ones; a
// single new date starts a default-length stay.
func modifiedWindow(req ReservationRequest) (string, string) {
	dep, arr := req.Params.DepartureDate, req.Params.ArrivalDate
	m := req.Modification
	if m == nil {
		return dep, arr
	}
	if nd := intent.NormalizeDate(m.NewDates); nd != "" {
		return nd, intent.AddDays(nd, intent.DefaultStayDays)
	}
	return firstNonEmpty(m.DepartureDate, dep), firstNonEmpty(m.ArrivalDate, arr)
}

func userText(req ReservationRequest) string {
	if msg := strings.TrimSpace(req.Message); msg != "" {
		return msg
	}
	return req.Action
}
