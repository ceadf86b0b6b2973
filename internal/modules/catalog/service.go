package catalog

import (
	"context"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"samway/internal/modules/intent"
)

// Service looks up hotels, restaurants and activities near a location.
type Service struct {
	store *Store
}

// NewService creates a Service backed by the given Store.
func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) Hotels(ctx context.Context, loc intent.Location) ([]Hotel, error) {
	var docs []hotelDoc
	if err := s.store.find(ctx, HotelsCollection, hotelFilter(loc.SearchTerm()), &docs); err != nil {
		return nil, err
	}
	return flattenHotels(docs), nil
}

func (s *Service) Restaurants(ctx context.Context, loc intent.Location) ([]Restaurant, error) {
	var docs []restaurantDoc
	if err := s.store.find(ctx, RestaurantsCollection, restaurantFilter(loc.SearchTerm()), &docs); err != nil {
		return nil, err
	}
	return flattenRestaurants(docs), nil
}

func (s *Service) Activities(ctx context.Context, loc intent.Location) ([]Activity, error) {
	var docs []activityDoc
	if err := s.store.find(ctx, ActivitiesCollection, activityFilter(loc.SearchTerm()), &docs); err != nil {
		return nil, err
	}
	return flattenActivities(docs), nil
}

// match is a case-insensitive contains on a literal term.
func match(term string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
}

func hotelFilter(term string) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"data.data.title": match(term)},
		bson.M{"data.data.secondaryInfo": match(term)},
	}}
}

func restaurantFilter(term string) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"data.restaurants.name": match(term)},
	}}
}

func activityFilter(term string) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"data.products.name": match(term)},
	}}
}

func flattenHotels(docs []hotelDoc) []Hotel {
	out := []Hotel{}
	for _, d := range docs {
		for _, g := range d.Data {
			for _, h := range g.Data {
				if h == (hotelItem{}) {
					continue
				}
				out = append(out, Hotel{
					Name:        strings.TrimSpace(string(h.Title)),
					Location:    strings.TrimSpace(string(h.SecondaryInfo)),
					Price:       h.PriceForDisplay.or(NoPrice),
					Description: h.PriceSummary.or(NoDescription),
				})
			}
		}
	}
	return out
}

func flattenRestaurants(docs []restaurantDoc) []Restaurant {
	out := []Restaurant{}
	for _, d := range docs {
		for _, g := range d.Data {
			for _, r := range g.Restaurants {
				if r.Name == "" && r.AverageRating == "" && r.PriceTag == "" && len(r.Tags) == 0 {
					continue
				}
				tags := make([]string, 0, len(r.Tags))
				for _, t := range r.Tags {
					if t != "" {
						tags = append(tags, string(t))
					}
				}
				cuisine := NoCuisine
				if len(tags) > 0 {
					cuisine = strings.Join(tags, ", ")
				}
				out = append(out, Restaurant{
					Name:    string(r.Name),
					Rating:  r.AverageRating.or(NoRating),
					Price:   r.PriceTag.or(NoPrice),
					Cuisine: cuisine,
					URL:     string(r.MenuURL),
					Status:  r.CurrentOpenStatus.or(UnknownStatus),
				})
			}
		}
	}
	return out
}

func flattenActivities(docs []activityDoc) []Activity {
	out := []Activity{}
	for _, d := range docs {
		for _, g := range d.Data {
			for _, a := range g.Products {
				if a.Name == "" && a.ShortDescription == "" && a.RepresentativePrice == nil {
					continue
				}
				act := Activity{
					Name:        string(a.Name),
					Description: a.ShortDescription.or(NoDescription),
					Price:       NoPrice,
				}
				if p := a.RepresentativePrice; p != nil {
					act.Price = p.PublicAmount.or(NoPrice)
					act.Currency = string(p.Currency)
				}
				out = append(out, act)
			}
		}
	}
	return out
}
