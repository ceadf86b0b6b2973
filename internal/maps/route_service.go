package maps

import (
	"context"
	"fmt"
	"time"

	"googlemaps.github.io/maps"
)

// Transfer is a driving estimate between two places.
type Transfer struct {
	From     string        `json:"from"`
	To       string        `json:"to"`
	Duration time.Duration `json:"-"`
	Minutes  int           `json:"minutes"`
	Distance string        `json:"distance"`
}

// RouteService handles interactions with Google Maps API.
type RouteService struct {
	client *maps.Client
}

// NewRouteService creates a new RouteService with the given API Key.
func NewRouteService(apiKey string, opts ...maps.ClientOption) (*RouteService, error) {
	client, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &RouteService{client: client}, nil
}

// TransferEstimate returns the driving time and distance from origin to destination.
func (s *RouteService) TransferEstimate(ctx context.Context, origin, destination string) (Transfer, error) {
	routes, _, err := s.client.Directions(ctx, &maps.DirectionsRequest{
		Origin:      origin,
		Destination: destination,
		Mode:        maps.TravelModeDriving,
		Language:    "fr",
	})
	if err != nil {
		return Transfer{}, fmt.Errorf("maps api error: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return Transfer{}, fmt.Errorf("no route found")
	}

	leg := routes[0].Legs[0]
	return Transfer{
		From:     origin,
		To:       destination,
		Duration: leg.Duration,
		Minutes:  int(leg.Duration.Round(time.Minute) / time.Minute),
		Distance: leg.Distance.HumanReadable,
	}, nil
}
