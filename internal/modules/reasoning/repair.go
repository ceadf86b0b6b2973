package reasoning

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"samway/internal/ai"
	"samway/internal/modules/itinerary"
)

// parseReply decodes a sanitized model reply and repairs it into a Result
// with exactly duration days. It fails only when the reply is not a JSON
// object; every field below the top level is defaulted independently.
func parseReply(raw string, seed itinerary.Itinerary, duration int) (Result, []string, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(ai.CleanJSON(raw)), &top); err != nil {
		return Result{}, nil, fmt.Errorf("decode reply: %w", err)
	}
	if top == nil {
		return Result{}, nil, fmt.Errorf("decode reply: null object")
	}

	var notes []string
	note := func(format string, args ...any) {
		notes = append(notes, fmt.Sprintf(format, args...))
	}

	response := MissingResponse
	if s, ok := decodeField[string](top["response"]); ok && strings.TrimSpace(s) != "" {
		response = s
	} else {
		note("response missing")
	}

	// Some replies flatten the reasoning fields to the top level.
	fields := top
	if r, ok := top["reasoning"]; ok {
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(r, &nested); err == nil && nested != nil {
			fields = nested
		} else {
			note("reasoning is not an object")
			fields = map[string]json.RawMessage{}
		}
	}

	var reasoning Reasoning
	reasoning.Steps = decodeSteps(fields["steps"], note)

	if v, ok := decodeField[HotelSuggestions](fields["hotel_suggestions"]); ok {
		reasoning.HotelSuggestions = v
	} else {
		note("hotel_suggestions defaulted")
	}
	if v, ok := decodeField[RestaurantSuggestions](fields["restaurant_suggestions"]); ok {
		reasoning.RestaurantSuggestions = v
	} else {
		note("restaurant_suggestions defaulted")
	}
	if v, ok := decodeField[LocalExperiences](fields["local_experiences"]); ok {
		reasoning.LocalExperiences = v
	} else {
		note("local_experiences defaulted")
	}

	it := seed
	if present(fields["suggested_itinerary"]) {
		decoded, invalid, err := itinerary.Decode(fields["suggested_itinerary"])
		switch {
		case err != nil:
			note("suggested_itinerary unreadable, seed used")
		default:
			it = decoded
			if len(invalid) > 0 {
				note("days replaced by placeholders: %s", strings.Join(invalid, ","))
			}
		}
	} else {
		note("suggested_itinerary missing, seed used")
	}
	if it.Len() != duration {
		note("itinerary had %d days, want %d", it.Len(), duration)
	}
	reasoning.SuggestedItinerary = itinerary.Fit(it, duration)

	return Result{
		Response:  response,
		Reasoning: reasoning.normalized(),
		Outcome:   OutcomeGenerated,
		Duration:  duration,
	}, notes, nil
}

func present(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) > 0 && !bytes.Equal(t, []byte("null"))
}

// decodeField reports false when raw is absent, null, or of the wrong shape.
func decodeField[T any](raw json.RawMessage) (T, bool) {
	var v T
	if !present(raw) {
		return v, false
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, false
	}
	return v, true
}

// decodeSteps keeps every well-formed step and drops the rest.
func decodeSteps(raw json.RawMessage, note func(string, ...any)) []Step {
	items, ok := decodeField[[]json.RawMessage](raw)
	if !ok {
		note("steps defaulted")
		return nil
	}
	steps := make([]Step, 0, len(items))
	for i, item := range items {
		s, ok := decodeField[Step](item)
		if !ok || strings.TrimSpace(s.Action) == "" {
			note("step %d dropped", i)
			continue
		}
		steps = append(steps, s)
	}
	return steps
}
