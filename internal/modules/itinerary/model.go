// README: Day-by-day itinerary types with order-preserving JSON encoding.
package itinerary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Slot is one part of a day.
type Slot struct {
	Activities []string `json:"activities"`
	LocalTips  string   `json:"local_tips"`
	HiddenGems string   `json:"hidden_gems"`
}

// Day holds exactly three slots.
type Day struct {
	Morning   Slot `json:"morning"`
	Afternoon Slot `json:"afternoon"`
	Evening   Slot `json:"evening"`
}

// Entry is one labeled day.
type Entry struct {
	Label string
	Day   Day
}

// Itinerary maps day labels to days and remembers insertion order. The zero
// value is an empty itinerary and encodes as {}.
type Itinerary struct {
	entries []Entry
}

// New builds an itinerary from entries in the given order. A repeated label
// keeps its first position and takes the last value, like a JSON object.
func New(entries ...Entry) Itinerary {
	var it Itinerary
	for _, e := range entries {
		it.set(e.Label, e.Day)
	}
	return it
}

func (it *Itinerary) set(label string, d Day) {
	for i := range it.entries {
		if it.entries[i].Label == label {
			it.entries[i].Day = d
			return
		}
	}
	it.entries = append(it.entries, Entry{Label: label, Day: d})
}

// Len is the number of days.
func (it Itinerary) Len() int { return len(it.entries) }

// Labels returns the day labels in order.
func (it Itinerary) Labels() []string {
	out := make([]string, len(it.entries))
	for i, e := range it.entries {
		out[i] = e.Label
	}
	return out
}

// Entries returns a copy of the days in order.
func (it Itinerary) Entries() []Entry {
	out := make([]Entry, len(it.entries))
	copy(out, it.entries)
	return out
}

// Day looks a day up by label.
func (it Itinerary) Day(label string) (Day, bool) {
	for _, e := range it.entries {
		if e.Label == label {
			return e.Day, true
		}
	}
	return Day{}, false
}

// Label returns the canonical key for the i-th day, starting at 1.
func Label(i int) string {
	return "day" + strconv.Itoa(i)
}

// MarshalJSON writes days as an object in itinerary order.
func (it Itinerary) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range it.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Label)
		if err != nil {
			return nil, err
		}
		day, err := json.Marshal(e.Day)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(day)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a strict object of days, keeping key order.
// Use Decode for untrusted input.
func (it *Itinerary) UnmarshalJSON(data []byte) error {
	raw, err := decodeOrdered(data)
	if err != nil {
		return err
	}
	var out Itinerary
	for _, r := range raw {
		var d Day
		if err := json.Unmarshal(r.value, &d); err != nil {
			return fmt.Errorf("itinerary %s: %w", r.key, err)
		}
		out.set(r.key, d)
	}
	*it = out
	return nil
}

// rawDay is a day key with its undecoded value.
type rawDay struct {
	key   string
	value json.RawMessage
}

// Decode reads an itinerary object from an untrusted source. Keys keep their
// order. A day value that is not a valid day object is reported as invalid
// instead of failing the whole decode.
func Decode(data []byte) (Itinerary, []string, error) {
	raw, err := decodeOrdered(data)
	if err != nil {
		return Itinerary{}, nil, err
	}
	var (
		out     Itinerary
		invalid []string
	)
	for _, r := range raw {
		var d Day
		if err := json.Unmarshal(r.value, &d); err != nil {
			invalid = append(invalid, r.key)
			out.set(r.key, PlaceholderDay())
			continue
		}
		out.set(r.key, d)
	}
	return out, invalid, nil
}

func decodeOrdered(data []byte) ([]rawDay, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("itinerary: expected object, got %v", tok)
	}
	var out []rawDay
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("itinerary: unexpected key %v", tok)
		}
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, rawDay{key: strings.TrimSpace(key), value: v})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return out, nil
}
