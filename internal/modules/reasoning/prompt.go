package reasoning

import (
	"encoding/json"
	"fmt"
	"strings"

	"samway/internal/modules/intent"
	"samway/internal/modules/itinerary"
)

// buildPrompt embeds the message, the serialized context, the stay length and
// the seed itinerary, and pins the exact JSON shape expected back.
func buildPrompt(message string, tc intent.TravelContext, duration int, seed itinerary.Itinerary) (string, error) {
	ctxJSON, err := json.Marshal(tc)
	if err != nil {
		return "", fmt.Errorf("marshal context: %w", err)
	}
	seedJSON, err := json.Marshal(seed)
	if err != nil {
		return "", fmt.Errorf("marshal seed itinerary: %w", err)
	}

	var dayKeys []string
	for i := 1; i <= duration; i++ {
		dayKeys = append(dayKeys, fmt.Sprintf(`"%s": { "morning": {...}, "afternoon": {...}, "evening": {...} }`, itinerary.Label(i)))
	}

	return fmt.Sprintf(`Rôle : vous êtes l'expert voyage de SAMWay, passionné et créatif. Analysez la demande suivante et proposez une expérience de voyage unique et mémorable.

Message : %q
Contexte : %s
Durée du séjour : %d jours
%s
RÈGLES :
1. L'itinéraire DOIT contenir EXACTEMENT %d jours, clés "day1" à "day%d", chaque jour avec "morning", "afternoon" et "evening".
2. Chaque créneau contient "activities" (liste non vide), "local_tips" et "hidden_gems".
3. Répondez UNIQUEMENT avec un objet JSON valide, sans backticks ni texte autour.

Structure de l'itinéraire :
{
  %s
}

Format attendu :
{
  "response": "Une réponse personnalisée qui raconte le voyage, avec anecdotes locales et conseils d'expert",
  "reasoning": {
    "steps": [
      { "action": "recherche_hotels", "criteria": ["critère1", "critère2"], "priority": 1, "personalization": "Comment adapter les critères au voyageur" },
      { "action": "recherche_activites", "criteria": ["critère1", "critère2"], "priority": 2, "personalization": "Comment créer une expérience authentique" }
    ],
    "suggested_itinerary": %s,
    "hotel_suggestions": {
      "budget": { "options": ["hôtel1", "hôtel2"], "local_insights": "Pourquoi ces hôtels sont uniques", "neighborhood_tips": "Conseils sur le quartier" },
      "mid_range": { "options": ["hôtel1", "hôtel2"], "local_insights": "...", "neighborhood_tips": "..." },
      "luxury": { "options": ["hôtel1", "hôtel2"], "local_insights": "...", "neighborhood_tips": "..." }
    },
    "restaurant_suggestions": {
      "breakfast": { "options": ["restaurant1", "restaurant2"], "specialties": "Plats typiques", "local_etiquette": "Usages locaux" },
      "lunch": { "options": ["restaurant1", "restaurant2"], "specialties": "...", "local_etiquette": "..." },
      "dinner": { "options": ["restaurant1", "restaurant2"], "specialties": "...", "local_etiquette": "..." }
    },
    "local_experiences": {
      "cultural_insights": ["Expérience culturelle 1", "Expérience culturelle 2"],
      "hidden_gems": ["Endroit secret 1", "Endroit secret 2"],
      "seasonal_events": ["Événement 1", "Événement 2"]
    }
  }
}`,
		message, ctxJSON, duration, revisionNote(tc.Revision),
		duration, duration,
		strings.Join(dayKeys, ",\n  "),
		seedJSON,
	), nil
}

func revisionNote(r *intent.Revision) string {
	if r == nil {
		return ""
	}
	switch r.Kind {
	case intent.RevisionRefuse:
		return fmt.Sprintf("\nLe voyageur a refusé la proposition précédente (%q). Proposez des options nettement différentes.\n", r.Reason)
	case intent.RevisionModify:
		return fmt.Sprintf("\nLe voyageur demande une modification de la proposition précédente (%q). Adaptez le plan en conséquence.\n", r.Reason)
	default:
		return ""
	}
}
