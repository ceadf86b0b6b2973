// README: Google Places text search for neighborhood highlights.
package maps

import (
	"context"
	"fmt"
	"strings"

	"googlemaps.github.io/maps"
)

const (
	minRating     = 4.0
	maxHighlights = 3
)

// Place represents a simplified location result.
type Place struct {
	Name             string  `json:"name"`
	Address          string  `json:"address"`
	Rating           float32 `json:"rating"`
	PlaceID          string  `json:"placeId"`
	UserRatingsTotal int     `json:"userRatingsTotal"`
}

// excludedKeywords drop results that are not worth suggesting to a visitor.
var excludedKeywords = []string{"Parking", "Station-service", "Supermarché", "Carrefour", "Pharmacie"}

// PlacesService handles interactions with Google Places API.
type PlacesService struct {
	client *maps.Client
}

// NewPlacesService creates a new PlacesService with the given API Key.
func NewPlacesService(apiKey string, opts ...maps.ClientOption) (*PlacesService, error) {
	client, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &PlacesService{client: client}, nil
}

// Highlights returns up to three well-rated attractions in the neighborhood,
// or in the whole city when neighborhood is empty.
func (s *PlacesService) Highlights(ctx context.Context, city, neighborhood string) ([]Place, error) {
	area := city
	if neighborhood != "" {
		area = neighborhood + ", " + city
	}
	resp, err := s.client.TextSearch(ctx, &maps.TextSearchRequest{
		Query:    "incontournables à " + area,
		Language: "fr",
	})
	if err != nil {
		return nil, fmt.Errorf("places api error: %w", err)
	}

	results := []Place{}
	for _, r := range resp.Results {
		if r.Rating < minRating || excluded(r.Name) {
			continue
		}
		results = append(results, Place{
			Name:             r.Name,
			Address:          r.FormattedAddress,
			Rating:           r.Rating,
			PlaceID:          r.PlaceID,
			UserRatingsTotal: r.UserRatingsTotal,
		})
		if len(results) >= maxHighlights {
			break
		}
	}
	return results, nil
}

func excluded(name string) bool {
	for _, kw := range excludedKeywords {
		if containsIgnoreCase(name, kw) {
			return true
		}
	}
	return false
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
