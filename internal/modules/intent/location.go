package intent

import "strings"

type namedKey struct {
	name string
	key  string
}

type compiledCity struct {
	namedKey
	neighborhoods []namedKey
}

// Detector matches messages against a gazetteer.
type Detector struct {
	cities []compiledCity
}

// NewDetector precomputes normalized keys for every gazetteer entry.
func NewDetector(g *Gazetteer) *Detector {
	cities := make([]compiledCity, 0, len(g.Cities))
	for _, c := range g.Cities {
		cc := compiledCity{namedKey: namedKey{name: c.Name, key: Normalize(c.Name)}}
		for _, n := range c.Neighborhoods {
			cc.neighborhoods = append(cc.neighborhoods, namedKey{name: n, key: Normalize(n)})
		}
		cities = append(cities, cc)
	}
	return &Detector{cities: cities}
}

// Detect returns the first city (declaration order) with any match. Within
// a city the first neighborhood contained in the message wins; otherwise a
// bare city-name hit yields AllNeighborhoods.
func (d *Detector) Detect(message string) (Location, bool) {
	msg := Normalize(message)
	if msg == "" {
		return Location{}, false
	}
	for _, c := range d.cities {
		for _, n := range c.neighborhoods {
			if containsKey(msg, n.key) {
				return Location{City: c.name, Neighborhood: n.name}, true
			}
		}
		if containsKey(msg, c.key) {
			return Location{City: c.name, Neighborhood: AllNeighborhoods}, true
		}
	}
	return Location{}, false
}

func containsKey(msg, key string) bool {
	return key != "" && strings.Contains(msg, key)
}
