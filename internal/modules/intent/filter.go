package intent

import (
	"fmt"
	"strings"
)

// FilterMode selects how denylist entries are matched.
type FilterMode string

const (
	// MatchSubstring flags any message containing a keyword, even inside a longer word.
	MatchSubstring FilterMode = "substring"
	// MatchWords flags only whole-word (or whole-phrase) occurrences.
	MatchWords FilterMode = "word"
)

// ParseFilterMode maps a config value to a FilterMode; empty means substring.
func ParseFilterMode(v string) (FilterMode, error) {
	switch FilterMode(strings.ToLower(strings.TrimSpace(v))) {
	case "", MatchSubstring:
		return MatchSubstring, nil
	case MatchWords:
		return MatchWords, nil
	default:
		return "", fmt.Errorf("unknown filter mode %q", v)
	}
}

// Filter is the keyword gate run before any reasoning.
type Filter struct {
	keywords []string
	mode     FilterMode
}

// NewFilter normalizes the gazetteer denylist once.
func NewFilter(g *Gazetteer, mode FilterMode) *Filter {
	f := &Filter{mode: mode}
	seen := make(map[string]struct{}, len(g.Denylist))
	for _, kw := range g.Denylist {
		k := Normalize(strings.TrimSpace(kw))
		if mode == MatchWords {
			k = strings.TrimSpace(words(k))
		}
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		f.keywords = append(f.keywords, k)
	}
	return f
}

// IsIllegal reports whether message contains a denylisted keyword,
// ignoring case and accents.
func (f *Filter) IsIllegal(message string) bool {
	if strings.TrimSpace(message) == "" {
		return false
	}
	msg := Normalize(message)
	if f.mode == MatchWords {
		msg = words(msg)
		for _, kw := range f.keywords {
			if strings.Contains(msg, " "+kw+" ") {
				return true
			}
		}
		return false
	}
	for _, kw := range f.keywords {
		if strings.Contains(msg, kw) {
			return true
		}
	}
	return false
}
