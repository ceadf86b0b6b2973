package flights

import (
	"fmt"
	"strings"

	"samway/internal/modules/intent"
)

const (
	rawListWarning = "⚠️ Aucun aéroport trouvé pour la ville \"%s\" dans les résultats. Voici la liste brute retournée par l'API :\n"
	staticWarning  = "⚠️ Aucun aéroport trouvé pour \"%s\" dans l'API. Voici les principaux aéroports ajoutés manuellement :\n"
)

// SelectAirports narrows fetched airports to city: city-name matches first,
// then airport or country name matches, then the unfiltered list, then the
// static table, then nothing.
func SelectAirports(city string, fetched []Airport) Selection {
	key := intent.Normalize(strings.TrimSpace(city))

	if key != "" {
		if byCity := filterAirports(fetched, func(a Airport) bool {
			return contains(a.CityName, key)
		}); len(byCity) > 0 {
			return Selection{Airports: byCity}
		}
		if byName := filterAirports(fetched, func(a Airport) bool {
			return contains(a.AirportName, key) || contains(a.CountryName, key)
		}); len(byName) > 0 {
			return Selection{Airports: byName}
		}
	}
	if len(fetched) > 0 {
		return Selection{Airports: fetched, Warning: fmt.Sprintf(rawListWarning, city)}
	}
	if static, ok := staticAirports[key]; ok {
		out := make([]Airport, len(static))
		copy(out, static)
		return Selection{Airports: out, Warning: fmt.Sprintf(staticWarning, city)}
	}
	return Selection{Airports: []Airport{}}
}

func filterAirports(in []Airport, keep func(Airport) bool) []Airport {
	var out []Airport
	for _, a := range in {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

func contains(field, key string) bool {
	return field != "" && strings.Contains(intent.Normalize(field), key)
}
