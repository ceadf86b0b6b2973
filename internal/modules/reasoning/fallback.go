package reasoning

import "samway/internal/modules/itinerary"

// Fallback builds the static result used whenever the generated reply cannot
// be used. It never fails.
func Fallback(seed itinerary.Itinerary) Result {
	return Result{
		Response: FallbackResponse,
		Outcome:  OutcomeFallback,
		Duration: seed.Len(),
		Reasoning: Reasoning{
			Steps: []Step{
				{
					Action:          "recherche_hotels",
					Criteria:        []string{"tous"},
					Priority:        1,
					Personalization: "Recherche d'hôtels adaptés à tous les budgets",
				},
				{
					Action:          "recherche_activites",
					Criteria:        []string{"tous"},
					Priority:        2,
					Personalization: "Recherche d'activités pour tous les goûts",
				},
			},
			SuggestedItinerary: seed,
			HotelSuggestions: HotelSuggestions{
				Budget: HotelTier{
					Options:          []string{"Hôtel Turenne Le Marais", "citizenM Paris Gare de Lyon"},
					LocalInsights:    "Hôtels avec une excellente localisation",
					NeighborhoodTips: "Quartiers animés et bien desservis",
				},
				MidRange: HotelTier{
					Options:          []string{"Secret de Paris - Hotel & Spa", "B Montmartre Hotel"},
					LocalInsights:    "Hôtels avec charme et confort",
					NeighborhoodTips: "Quartiers authentiques et pittoresques",
				},
				Luxury: HotelTier{
					Options:          []string{"Le Bristol Paris", "Hôtel Plaza Athénée"},
					LocalInsights:    "Hôtels de luxe avec service exceptionnel",
					NeighborhoodTips: "Quartiers prestigieux et élégants",
				},
			},
			RestaurantSuggestions: RestaurantSuggestions{
				Breakfast: MealTier{
					Options:        []string{"Café de Flore", "Ladurée"},
					Specialties:    "Pâtisseries françaises traditionnelles",
					LocalEtiquette: "Le petit-déjeuner à la française",
				},
				Lunch: MealTier{
					Options:        []string{"Le Petit Bistrot", "Chez Janou"},
					Specialties:    "Cuisine française authentique",
					LocalEtiquette: "Le déjeuner à la française",
				},
				Dinner: MealTier{
					Options:        []string{"Le Grand Véfour", "L'Ami Louis"},
					Specialties:    "Gastronomie française raffinée",
					LocalEtiquette: "Le dîner à la française",
				},
			},
			LocalExperiences: LocalExperiences{
				CulturalInsights: []string{"Marchés locaux", "Visites guidées insolites"},
				HiddenGems:       []string{"Passages couverts", "Jardins secrets"},
				SeasonalEvents:   []string{"Festivals locaux", "Événements culturels"},
			},
		},
	}
}

// invalidDates is the terminal result for a zero-day stay.
func invalidDates() Result {
	return Result{
		Response:  InvalidDatesResponse,
		Reasoning: EmptyReasoning(),
		Outcome:   OutcomeInvalidDates,
	}
}
