package util

import (
	"sort"
	"strings"
)

// Alarm subtypes in the order operations crews expect them listed: cardiac
// arrest dispatches first, live reconnaissance second, everything else
// after.
var subtypeOrder = map[string]int{
	"ohca":     0,
	"liveview": 1,
}

// NormalizeSubtype lowercases a raw subtype value for comparison and
// display grouping.
func NormalizeSubtype(subtype string) string {
	return strings.ToLower(strings.TrimSpace(subtype))
}

// GetSubtypeOrder returns the sort order for a subtype (lower number =
// higher priority).
func GetSubtypeOrder(subtype string) int {
	if order, ok := subtypeOrder[NormalizeSubtype(subtype)]; ok {
		return order
	}
	return 99
}

// SortSubtypes sorts subtype names by operational priority, then
// alphabetically within the same priority.
func SortSubtypes(subtypes []string) []string {
	sorted := make([]string, len(subtypes))
	copy(sorted, subtypes)
	sort.Slice(sorted, func(i, j int) bool {
		oi, oj := GetSubtypeOrder(sorted[i]), GetSubtypeOrder(sorted[j])
		if oi != oj {
			return oi < oj
		}
		return sorted[i] < sorted[j]
	})
	return sorted
}
