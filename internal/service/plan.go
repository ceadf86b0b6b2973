package service

import (
	"fmt"
	"strings"

	"samway/internal/modules/intent"
)

// buildPlanPrompt asks for the plain-text travel plan shown to the user,
// grounded on the collaborator data gathered for this turn.
func buildPlanPrompt(loc intent.Location, duration int, data ChatData, dates stay) string {
	var b strings.Builder
	place := loc.City
	if !loc.AllNeighborhoods() {
		place = fmt.Sprintf("%s (%s)", loc.City, loc.Neighborhood)
	}

	fmt.Fprintf(&b, "En tant qu'assistant de voyage SAMWay, créez un plan de voyage détaillé pour %s. ", place)
	b.WriteString("Structurez votre réponse comme un véritable plan de voyage avec des conseils pratiques, en texte simple.\n\n")
	fmt.Fprintf(&b, "PLAN DE VOYAGE - %s\n\n", place)
	fmt.Fprintf(&b, "IMPORTANT : l'itinéraire couvre EXACTEMENT %d jours, du %s au %s, avec matin, après-midi et soir pour chaque jour.\n\n", duration, dates.Departure, dates.Arrival)

	b.WriteString("Sections attendues :\n")
	b.WriteString("1. ARRIVÉE : aéroport, transport depuis l'aéroport, durée du trajet\n")
	b.WriteString("2. HÉBERGEMENT : hôtel recommandé, localisation, points forts, prix par nuit\n")
	fmt.Fprintf(&b, "3. ITINÉRAIRE JOUR PAR JOUR (%d jours)\n", duration)
	b.WriteString("4. RESTAURATION : petit-déjeuner, déjeuner, dîner\n")
	fmt.Fprintf(&b, "5. BUDGET ESTIMÉ pour %d jours\n", duration)
	b.WriteString("6. CONSEILS PRATIQUES\n")
	b.WriteString("Terminez par : Voulez-vous que je procède à la réservation ? ✅/❌\n\n")

	b.WriteString("Données disponibles :\n")
	section(&b, "Aéroports", "Aucun aéroport trouvé", len(data.Airports), func(i int) string {
		a := data.Airports[i]
		return fmt.Sprintf("%s (%s)", a.AirportName, a.IATACode)
	})
	if data.Transfer != nil {
		fmt.Fprintf(&b, "Trajet aéroport → %s : environ %d minutes (%s)\n", data.Transfer.To, data.Transfer.Minutes, data.Transfer.Distance)
	}
	section(&b, "Hôtels", "Aucun hôtel trouvé", len(data.Hotels), func(i int) string {
		h := data.Hotels[i]
		return fmt.Sprintf("%s (%s) | %s | %s", h.Name, h.Location, h.Price, h.Description)
	})
	section(&b, "Restaurants", "Aucun restaurant trouvé", len(data.Restaurants), func(i int) string {
		r := data.Restaurants[i]
		return fmt.Sprintf("%s | %s | %s | %s", r.Name, r.Cuisine, r.Price, r.Status)
	})
	section(&b, "Activités", "Aucune activité trouvée", len(data.Activities), func(i int) string {
		a := data.Activities[i]
		return strings.TrimSpace(fmt.Sprintf("%s | %s | %s %s", a.Name, a.Description, a.Price, a.Currency))
	})
	section(&b, "Incontournables", "Aucun lieu remarquable trouvé", len(data.Highlights), func(i int) string {
		p := data.Highlights[i]
		return fmt.Sprintf("%s (%.1f★) %s", p.Name, p.Rating, p.Address)
	})
	if dates.Travel != "" {
		section(&b, "Vols du "+dates.Travel, "Aucun vol trouvé", len(data.Flights), func(i int) string {
			f := data.Flights[i]
			return fmt.Sprintf("%s | %s → %s | %s", f.Flight.IATA, f.Departure.Airport, f.Arrival.Airport, f.Airline.Name)
		})
	}
	return b.String()
}

func section(b *strings.Builder, title, empty string, n int, line func(int) string) {
	fmt.Fprintf(b, "\n%s :\n", title)
	if n == 0 {
		b.WriteString(empty + "\n")
		return
	}
	for i := 0; i < n; i++ {
		b.WriteString("- " + line(i) + "\n")
	}
}
