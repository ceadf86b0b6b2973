package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"samway/internal/ai"
	"samway/internal/maps"
	"samway/internal/metrics"
	"samway/internal/modules/catalog"
	"samway/internal/modules/conversation"
	"samway/internal/modules/flights"
	"samway/internal/modules/intent"
	"samway/internal/modules/reasoning"
)

type Reasoner interface {
	Reason(ctx context.Context, message string, tc intent.TravelContext) reasoning.Result
}

type Catalog interface {
	Hotels(ctx context.Context, loc intent.Location) ([]catalog.Hotel, error)
	Restaurants(ctx context.Context, loc intent.Location) ([]catalog.Restaurant, error)
	Activities(ctx context.Context, loc intent.Location) ([]catalog.Activity, error)
}

type Flights interface {
	Airports(ctx context.Context, city string) (flights.Selection, error)
	Flights(ctx context.Context, iata, date string) ([]flights.Flight, error)
}

type Places interface {
	Highlights(ctx context.Context, city, neighborhood string) ([]maps.Place, error)
}

type Routes interface {
	TransferEstimate(ctx context.Context, origin, destination string) (maps.Transfer, error)
}

type Conversations interface {
	AppendUser(ctx context.Context, userID string, meta conversation.Meta, text string) (string, error)
	Append(ctx context.Context, userID, conversationID string, msgs ...conversation.Message) error
	ListByUser(ctx context.Context, userID string) ([]conversation.Conversation, error)
	Create(ctx context.Context, userID string) (conversation.Conversation, error)
}

type Quota interface {
	Use(ctx context.Context, uid string) error
}

// Deps wires the planner. Detector, Filter and Reasoner are required; every
// other collaborator is optional and skipped when nil.
type Deps struct {
	Detector      *intent.Detector
	Filter        *intent.Filter
	Reasoner      Reasoner
	Catalog       Catalog
	Flights       Flights
	Places        Places
	Routes        Routes
	Conversations Conversations
	Quota         Quota
	// Composer writes the narrative travel plan. Nil keeps the reasoning narrative.
	Composer ai.Generator
}

// TripPlanner runs one chat turn end to end: gate, intent, fan-out,
// narrative and persistence.
type TripPlanner struct {
	deps Deps
	now  func() time.Time
}

// NewTripPlanner creates a TripPlanner with initialized dependencies.
func NewTripPlanner(deps Deps) (*TripPlanner, error) {
	if deps.Detector == nil || deps.Filter == nil || deps.Reasoner == nil {
		return nil, errors.New("trip planner: detector, filter and reasoner are required")
	}
	return &TripPlanner{deps: deps, now: time.Now}, nil
}

// Chat answers one user message. Collaborator and persistence failures
// degrade the answer but never fail it; only bad input and an exhausted
// quota are errors.
func (p *TripPlanner) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	start := time.Now()
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		return nil, fmt.Errorf("%w: message requis", ErrBadRequest)
	}
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		userID = uuid.NewString()
	}
	logger := log.WithField("user_id", userID)

	resp, err := p.chat(ctx, logger, msg, userID, req)
	if err != nil {
		return nil, err
	}
	metrics.ChatOutcomes.WithLabelValues(string(resp.Outcome)).Inc()
	metrics.ChatDuration.Observe(float64(time.Since(start).Milliseconds()))
	logger.WithFields(log.Fields{
		"outcome":     resp.Outcome,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("chat: turn handled")
	return resp, nil
}

func (p *TripPlanner) chat(ctx context.Context, logger *log.Entry, msg, userID string, req ChatRequest) (*ChatResponse, error) {
	if p.deps.Filter.IsIllegal(msg) {
		return &ChatResponse{Response: RejectedResponse, Outcome: OutcomeRejected}, nil
	}
	loc, ok := p.deps.Detector.Detect(msg)
	if !ok {
		return &ChatResponse{Response: NoLocationResponse, UserID: userID, Outcome: OutcomeNoLocation}, nil
	}
	if p.deps.Quota != nil {
		if err := p.deps.Quota.Use(ctx, userID); err != nil {
			return nil, err
		}
	}

	dates := resolveStay(msg, req, p.now())
	logger = logger.WithFields(log.Fields{"city": loc.City, "neighborhood": loc.Neighborhood})
	if dates.Defaulted {
		logger.Debug("chat: no dates given, default window assumed")
	}

	tc := intent.TravelContext{
		City:          loc.City,
		Neighborhood:  loc.Neighborhood,
		DepartureDate: dates.Departure,
		ArrivalDate:   dates.Arrival,
		TravelDate:    dates.Travel,
		Origin:        dates.Origin,
	}
	meta := conversation.Meta{
		DetectedCity:      loc.City,
		DepartureLocation: dates.Origin,
		ArrivalLocation:   loc.City,
		DepartureDate:     dates.Departure,
		ArrivalDate:       dates.Arrival,
	}

	if tc.StayDuration() <= 0 {
		res := p.deps.Reasoner.Reason(ctx, msg, tc)
		resp := &ChatResponse{
			Response:  res.Response,
			Reasoning: &res.Reasoning,
			UserID:    userID,
			Outcome:   OutcomeInvalidDates,
		}
		resp.ConversationID = p.persist(ctx, logger, userID, meta, msg, botMessage(resp.Response, nil, resp.Reasoning))
		return resp, nil
	}

	res, data := p.fanOut(ctx, logger, msg, loc, tc)
	narrative := p.composePlan(ctx, logger, loc, res, data, dates)

	resp := &ChatResponse{
		Response:  narrative,
		Reasoning: &res.Reasoning,
		Data:      &data,
		UserID:    userID,
		Outcome:   OutcomeOK,
	}
	resp.ConversationID = p.persist(ctx, logger, userID, meta, msg, botMessage(narrative, &data, resp.Reasoning))
	return resp, nil
}

// fanOut runs the reasoning call and every collaborator concurrently. Each
// branch writes only its own result; failures become empty results.
func (p *TripPlanner) fanOut(ctx context.Context, logger *log.Entry, msg string, loc intent.Location, tc intent.TravelContext) (reasoning.Result, ChatData) {
	var (
		res  reasoning.Result
		data = emptyData()
	)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		res = p.deps.Reasoner.Reason(gctx, msg, tc)
		return nil
	})

	if c := p.deps.Catalog; c != nil {
		g.Go(func() error {
			if hotels, err := c.Hotels(gctx, loc); err != nil {
				p.collaboratorFailed(logger, "hotels", err)
			} else {
				data.Hotels = hotels
			}
			return nil
		})
		g.Go(func() error {
			if restaurants, err := c.Restaurants(gctx, loc); err != nil {
				p.collaboratorFailed(logger, "restaurants", err)
			} else {
				data.Restaurants = restaurants
			}
			return nil
		})
		g.Go(func() error {
			if activities, err := c.Activities(gctx, loc); err != nil {
				p.collaboratorFailed(logger, "activities", err)
			} else {
				data.Activities = activities
			}
			return nil
		})
	}

	if f := p.deps.Flights; f != nil {
		g.Go(func() error {
			sel, err := f.Airports(gctx, loc.City)
			if err != nil {
				p.collaboratorFailed(logger, "airports", err)
			}
			data.Airports, data.AirportsWarning = sel.Airports, sel.Warning
			if len(sel.Airports) == 0 {
				return nil
			}
			arrival := sel.Airports[0]

			if tc.TravelDate != "" {
				if fl, err := f.Flights(gctx, arrival.IATACode, tc.TravelDate); err != nil {
					p.collaboratorFailed(logger, "flights", err)
				} else {
					data.Flights = fl
				}
			}
			if r := p.deps.Routes; r != nil {
				if tr, err := r.TransferEstimate(gctx, arrival.AirportName, destination(loc)); err != nil {
					p.collaboratorFailed(logger, "transfer", err)
				} else {
					data.Transfer = &tr
				}
			}
			return nil
		})

		if tc.Origin != "" {
			g.Go(func() error {
				sel, err := f.Airports(gctx, tc.Origin)
				if err != nil {
					p.collaboratorFailed(logger, "origin_airports", err)
				}
				data.OriginAirports, data.OriginAirportsWarning = sel.Airports, sel.Warning
				return nil
			})
		}
	}

	if pl := p.deps.Places; pl != nil {
		g.Go(func() error {
			neighborhood := loc.Neighborhood
			if loc.AllNeighborhoods() {
				neighborhood = ""
			}
			if places, err := pl.Highlights(gctx, loc.City, neighborhood); err != nil {
				p.collaboratorFailed(logger, "highlights", err)
			} else {
				data.Highlights = places
			}
			return nil
		})
	}

	_ = g.Wait()
	data.normalize()
	return res, data
}

// normalize restores empty lists a collaborator may have returned as nil.
func (d *ChatData) normalize() {
	empty := emptyData()
	if d.Hotels == nil {
		d.Hotels = empty.Hotels
	}
	if d.Restaurants == nil {
		d.Restaurants = empty.Restaurants
	}
	if d.Activities == nil {
		d.Activities = empty.Activities
	}
	if d.Airports == nil {
		d.Airports = empty.Airports
	}
	if d.OriginAirports == nil {
		d.OriginAirports = empty.OriginAirports
	}
	if d.Flights == nil {
		d.Flights = empty.Flights
	}
	if d.Highlights == nil {
		d.Highlights = empty.Highlights
	}
}

func destination(loc intent.Location) string {
	if loc.AllNeighborhoods() {
		return loc.City
	}
	return loc.Neighborhood + ", " + loc.City
}

func (p *TripPlanner) collaboratorFailed(logger *log.Entry, name string, err error) {
	metrics.CollaboratorFailures.WithLabelValues(name).Inc()
	logger.WithError(err).WithField("collaborator", name).Warn("chat: collaborator failed, using empty result")
}

// composePlan asks for the narrative travel plan; the reasoning narrative
// is kept when composition is off or fails.
func (p *TripPlanner) composePlan(ctx context.Context, logger *log.Entry, loc intent.Location, res reasoning.Result, data ChatData, dates stay) string {
	if p.deps.Composer == nil {
		return res.Response
	}
	text, err := p.deps.Composer.Generate(ctx, buildPlanPrompt(loc, res.Duration, data, dates))
	if err != nil || strings.TrimSpace(text) == "" {
		if err == nil {
			err = ai.ErrEmptyReply
		}
		p.collaboratorFailed(logger, "plan", err)
		return res.Response
	}
	return strings.TrimSpace(text)
}
