package intent

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed gazetteer.yaml
var defaultGazetteer []byte

// LoadDefault parses the embedded gazetteer.
func LoadDefault() (*Gazetteer, error) {
	return Load(defaultGazetteer)
}

// LoadFile parses a gazetteer from path, or the embedded one when path is empty.
func LoadFile(path string) (*Gazetteer, error) {
	if strings.TrimSpace(path) == "" {
		return LoadDefault()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read gazetteer: %w", err)
	}
	return Load(data)
}

// Load parses and validates a YAML gazetteer document.
func Load(data []byte) (*Gazetteer, error) {
	var g Gazetteer
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGazetteer, err)
	}
	if len(g.Cities) == 0 {
		return nil, fmt.Errorf("%w: no cities", ErrInvalidGazetteer)
	}
	for i, c := range g.Cities {
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("%w: city %d has no name", ErrInvalidGazetteer, i)
		}
		for _, n := range c.Neighborhoods {
			if strings.TrimSpace(n) == "" {
				return nil, fmt.Errorf("%w: empty neighborhood in %s", ErrInvalidGazetteer, c.Name)
			}
		}
	}
	return &g, nil
}

// CityNames lists the known cities in declaration order.
func (g *Gazetteer) CityNames() []string {
	names := make([]string, 0, len(g.Cities))
	for _, c := range g.Cities {
		names = append(names, c.Name)
	}
	return names
}
