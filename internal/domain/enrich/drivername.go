package enrich

import (
	"strings"
	"unicode"
)

// minParsedNameLength guards against suffixes like "E" or "PP" being taken
// for a person's name.
const minParsedNameLength = 3

// DriverFromVehicleNumber attempts to recover a driver's name embedded in a
// free-text vehicle-number field, e.g. "5010C John Smith" or
// "POL-2324PP - Yem Bobey". It strips leading numeric/alphanumeric tokens
// and separators until the remainder looks like a name: at least three
// characters with at least one letter.
//
// This is a best-effort heuristic over free text; callers must record the
// provenance so downstream consumers can tell it apart from a master-data
// lookup hit.
func DriverFromVehicleNumber(vehicleNumber string) (string, bool) {
	if !strings.Contains(vehicleNumber, " ") {
		return "", false
	}

	_, candidate, _ := strings.Cut(vehicleNumber, " ")
	candidate = strings.TrimLeft(strings.TrimSpace(candidate), "- ")

	// Strip leading numeric tokens: "2560 Drew Kendrick" -> "Drew Kendrick".
	for candidate != "" {
		first, rest, found := strings.Cut(candidate, " ")
		if !isNumericToken(first) {
			break
		}
		if !found {
			candidate = ""
			break
		}
		candidate = strings.TrimLeft(strings.TrimSpace(rest), "- ")
	}

	if len(candidate) < minParsedNameLength || !containsLetter(candidate) {
		return "", false
	}
	return candidate, true
}

// isNumericToken reports whether a token is digits once hyphens are removed.
func isNumericToken(token string) bool {
	token = strings.ReplaceAll(token, "-", "")
	if token == "" {
		return false
	}
	for _, r := range token {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func containsLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
