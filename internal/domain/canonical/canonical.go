// Package canonical maps vendor event-type strings onto the fixed,
// vendor-independent vocabulary the rest of the engine works with.
//
// Normalize is a total function: input it cannot map is returned in its
// normalized spelling and acts as its own canonical type, so downstream
// tiering can default safely instead of dropping the event.
package canonical

import "strings"

// Unknown is the canonical type for empty or missing raw types.
const Unknown = "unknown"

// defaultSeverityRank sorts unranked types last within their tier.
const defaultSeverityRank = 50

// Normalize lower-cases, trims, and underscores a raw vendor type string,
// then resolves it through the synonym table.
func Normalize(rawType string) string {
	if strings.TrimSpace(rawType) == "" {
		return Unknown
	}
	key := strings.ToLower(strings.TrimSpace(rawType))
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, "-", "_")
	if canonical, ok := synonyms[key]; ok {
		return canonical
	}
	return key
}

// Known reports whether the canonical type belongs to the curated vocabulary.
func Known(canonicalType string) bool {
	_, ok := displayNames[canonicalType]
	return ok
}

// DisplayName returns the human-readable label for a canonical type.
// Unknown types get a title-cased rendering of the raw type so the label
// is never empty.
func DisplayName(canonicalType, rawType string) string {
	if name, ok := displayNames[canonicalType]; ok {
		return name
	}
	display := rawType
	if display == "" {
		display = canonicalType
	}
	display = strings.ReplaceAll(display, "_", " ")
	return titleCase(display)
}

// SeverityRank returns the within-tier ordering key for a canonical type.
// Lower is more severe. Unranked types sort last within their tier.
func SeverityRank(canonicalType string) int {
	if rank, ok := severityRanks[canonicalType]; ok {
		return rank
	}
	return defaultSeverityRank
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
