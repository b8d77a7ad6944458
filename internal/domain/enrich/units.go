package enrich

import (
	"fmt"
	"math"
)

// KMHToMPH is the conversion factor applied to every vendor speed. All
// vendor speeds arrive in km/h; reports are mph throughout.
const KMHToMPH = 0.621371

// MPH converts a km/h value to mph, rounded to one decimal place. The same
// conversion and rounding is used everywhere speed appears (display,
// thresholds, sorting) to avoid unit-mismatch bugs.
func MPH(kmh float64) float64 {
	return math.Round(kmh*KMHToMPH*10) / 10
}

// FormatDuration renders a duration in seconds as a short readable string,
// e.g. "45s", "2m", "1m 15s". Non-positive input yields "N/A".
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "N/A"
	}
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	minutes := seconds / 60
	secs := seconds % 60
	if secs != 0 {
		return fmt.Sprintf("%dm %ds", minutes, secs)
	}
	return fmt.Sprintf("%dm", minutes)
}
