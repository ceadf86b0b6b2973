package itinerary

// Placeholder copy shown to the traveller until the plan is personalised.
const (
	PlaceholderActivity = "À planifier"
	PlaceholderTip      = "Journée à personnaliser selon vos préférences"

	morningGem   = "Découvrez les quartiers moins touristiques"
	afternoonGem = "Explorez les cafés et restaurants locaux"
	eveningGem   = "Profitez de l'ambiance nocturne locale"
)

// PlaceholderDay is the fixed-shape day used by Skeleton and by repair.
func PlaceholderDay() Day {
	return Day{
		Morning:   placeholderSlot(morningGem),
		Afternoon: placeholderSlot(afternoonGem),
		Evening:   placeholderSlot(eveningGem),
	}
}

func placeholderSlot(gem string) Slot {
	return Slot{
		Activities: []string{PlaceholderActivity},
		LocalTips:  PlaceholderTip,
		HiddenGems: gem,
	}
}

// Skeleton returns day1..dayN placeholder days; n <= 0 gives an empty itinerary.
func Skeleton(n int) Itinerary {
	if n <= 0 {
		return Itinerary{}
	}
	entries := make([]Entry, n)
	for i := range entries {
		entries[i] = Entry{Label: Label(i + 1), Day: PlaceholderDay()}
	}
	return Itinerary{entries: entries}
}
