// README: Reasoning result types (steps, itinerary, suggestion tiers).
package reasoning

import (
	"samway/internal/modules/itinerary"
)

// Outcome tells how a Result was produced. It is not serialized.
type Outcome string

const (
	OutcomeGenerated    Outcome = "generated"
	OutcomeFallback     Outcome = "fallback"
	OutcomeInvalidDates Outcome = "invalid_dates"
)

// User-facing fixed sentences.
const (
	InvalidDatesResponse = "Désolé, les dates fournies ne sont pas valides. Veuillez vérifier que la date de retour est après la date de départ."
	MissingResponse      = "Je n'ai pas pu générer une réponse appropriée."
	FallbackResponse     = "Je suis désolé, je n'ai pas pu traiter votre demande correctement. Veuillez réessayer."
)

// Result is returned once per message and not mutated afterwards.
type Result struct {
	Response  string    `json:"response"`
	Reasoning Reasoning `json:"reasoning"`
	Outcome   Outcome   `json:"-"`
	Duration  int       `json:"-"`
}

// Reasoning is the structured part of a Result. Every field is always
// present; list fields are never nil once normalized.
type Reasoning struct {
	Steps                 []Step                `json:"steps"`
	SuggestedItinerary    itinerary.Itinerary   `json:"suggested_itinerary"`
	HotelSuggestions      HotelSuggestions      `json:"hotel_suggestions"`
	RestaurantSuggestions RestaurantSuggestions `json:"restaurant_suggestions"`
	LocalExperiences      LocalExperiences      `json:"local_experiences"`
}

// Step is one planned search action. Criteria is a set: order kept, no duplicates.
type Step struct {
	Action          string   `json:"action"`
	Criteria        []string `json:"criteria"`
	Priority        int      `json:"priority"`
	Personalization string   `json:"personalization"`
}

type HotelTier struct {
	Options          []string `json:"options"`
	LocalInsights    string   `json:"local_insights"`
	NeighborhoodTips string   `json:"neighborhood_tips"`
}

type HotelSuggestions struct {
	Budget   HotelTier `json:"budget"`
	MidRange HotelTier `json:"mid_range"`
	Luxury   HotelTier `json:"luxury"`
}

type MealTier struct {
	Options        []string `json:"options"`
	Specialties    string   `json:"specialties"`
	LocalEtiquette string   `json:"local_etiquette"`
}

type RestaurantSuggestions struct {
	Breakfast MealTier `json:"breakfast"`
	Lunch     MealTier `json:"lunch"`
	Dinner    MealTier `json:"dinner"`
}

type LocalExperiences struct {
	CulturalInsights []string `json:"cultural_insights"`
	HiddenGems       []string `json:"hidden_gems"`
	SeasonalEvents   []string `json:"seasonal_events"`
}

// EmptyReasoning is the correctly shaped structure with no content.
func EmptyReasoning() Reasoning {
	return Reasoning{}.normalized()
}

func (r Reasoning) normalized() Reasoning {
	steps := make([]Step, 0, len(r.Steps))
	for _, s := range r.Steps {
		s.Criteria = dedupe(s.Criteria)
		steps = append(steps, s)
	}
	r.Steps = steps
	r.HotelSuggestions = r.HotelSuggestions.normalized()
	r.RestaurantSuggestions = r.RestaurantSuggestions.normalized()
	r.LocalExperiences = r.LocalExperiences.normalized()
	return r
}

func (h HotelSuggestions) normalized() HotelSuggestions {
	h.Budget.Options = orEmpty(h.Budget.Options)
	h.MidRange.Options = orEmpty(h.MidRange.Options)
	h.Luxury.Options = orEmpty(h.Luxury.Options)
	return h
}

func (r RestaurantSuggestions) normalized() RestaurantSuggestions {
	r.Breakfast.Options = orEmpty(r.Breakfast.Options)
	r.Lunch.Options = orEmpty(r.Lunch.Options)
	r.Dinner.Options = orEmpty(r.Dinner.Options)
	return r
}

func (l LocalExperiences) normalized() LocalExperiences {
	l.CulturalInsights = orEmpty(l.CulturalInsights)
	l.HiddenGems = orEmpty(l.HiddenGems)
	l.SeasonalEvents = orEmpty(l.SeasonalEvents)
	return l
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
