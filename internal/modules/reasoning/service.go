package reasoning

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"samway/internal/ai"
	"samway/internal/metrics"
	"samway/internal/modules/intent"
	"samway/internal/modules/itinerary"
)

var errNoGenerator = errors.New("no generator configured")

// Service turns a message and its travel context into a Result. The
// generator is an untrusted, best-effort oracle: its reply is always
// repaired, and any failure takes the static fallback.
type Service struct {
	gen ai.Generator
}

// NewService creates a Service. A nil generator always yields the fallback.
func NewService(gen ai.Generator) *Service {
	return &Service{gen: gen}
}

// Reason performs at most one generation call and never fails.
func (s *Service) Reason(ctx context.Context, message string, tc intent.TravelContext) Result {
	logger := log.WithFields(log.Fields{"city": tc.City, "neighborhood": tc.Neighborhood})

	duration := tc.StayDuration()
	if duration <= 0 {
		logger.WithFields(log.Fields{
			"departure": tc.DepartureDate,
			"arrival":   tc.ArrivalDate,
		}).Info("reasoning: invalid stay dates")
		metrics.ReasoningOutcomes.WithLabelValues(string(OutcomeInvalidDates)).Inc()
		return invalidDates()
	}

	seed := itinerary.Skeleton(duration)
	res, err := s.generate(ctx, message, tc, duration, seed)
	if err != nil {
		logger.WithError(err).Warn("reasoning: falling back to static suggestions")
		res = Fallback(seed)
	}
	metrics.ReasoningOutcomes.WithLabelValues(string(res.Outcome)).Inc()
	return res
}

func (s *Service) generate(ctx context.Context, message string, tc intent.TravelContext, duration int, seed itinerary.Itinerary) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generation panicked: %v", r)
		}
	}()

	if s.gen == nil {
		return Result{}, errNoGenerator
	}
	prompt, err := buildPrompt(message, tc, duration, seed)
	if err != nil {
		return Result{}, err
	}
	raw, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return Result{}, err
	}
	res, notes, err := parseReply(raw, seed, duration)
	if err != nil {
		return Result{}, err
	}
	if len(notes) > 0 {
		log.WithField("repairs", notes).Debug("reasoning: reply repaired")
	}
	return res, nil
}
