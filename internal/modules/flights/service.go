package flights

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Service resolves airports and arriving flights. Both the client and the
// cache are optional: without a client only the static table is used.
type Service struct {
	client *Client
	cache  *Cache
}

func NewService(client *Client, cache *Cache) *Service {
	return &Service{client: client, cache: cache}
}

// Airports always returns a Selection; a fetch error is returned alongside
// the selection computed from whatever was available.
func (s *Service) Airports(ctx context.Context, city string) (Selection, error) {
	if strings.TrimSpace(city) == "" {
		return Selection{Airports: []Airport{}}, nil
	}
	fetched, err := s.fetchAirports(ctx, city)
	return SelectAirports(city, fetched), err
}

func (s *Service) fetchAirports(ctx context.Context, city string) ([]Airport, error) {
	logger := log.WithField("city", city)
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, city)
		switch {
		case err != nil:
			logger.WithError(err).Warn("flights: airport cache read failed")
		case ok:
			return cached, nil
		}
	}
	if s.client == nil {
		return nil, nil
	}
	fetched, err := s.client.Airports(ctx, city)
	if err != nil {
		return nil, err
	}
	if s.cache != nil && len(fetched) > 0 {
		if err := s.cache.Set(ctx, city, fetched); err != nil {
			logger.WithError(err).Warn("flights: airport cache write failed")
		}
	}
	return fetched, nil
}

// Flights returns at most MaxFlights flights arriving at iata on date.
func (s *Service) Flights(ctx context.Context, iata, date string) ([]Flight, error) {
	if s.client == nil || iata == "" || date == "" {
		return []Flight{}, nil
	}
	flights, err := s.client.Flights(ctx, iata, date)
	if err != nil {
		return []Flight{}, err
	}
	if len(flights) > MaxFlights {
		flights = flights[:MaxFlights]
	}
	if flights == nil {
		flights = []Flight{}
	}
	return flights, nil
}
