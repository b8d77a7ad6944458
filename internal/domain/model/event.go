// Package model contains domain models passed between layers.
package model

import "time"

// UnknownDriver is the sentinel used when no resolution source produced a name.
const UnknownDriver = "Unknown"

// Tier is the three-level severity classification of a safety event.
type Tier string

// Severity tiers, most severe first.
const (
	TierRed    Tier = "RED"    // immediate action
	TierOrange Tier = "ORANGE" // coaching required
	TierYellow Tier = "YELLOW" // monitoring
)

// Order returns the sort position of the tier (RED first).
// Unrecognized values sort with ORANGE, matching the classification default.
func (t Tier) Order() int {
	switch t {
	case TierRed:
		return 0
	case TierOrange:
		return 1
	case TierYellow:
		return 2
	default:
		return 1
	}
}

// DriverNameSource records how a driver name was resolved so downstream
// consumers can distinguish confident from best-effort resolutions.
type DriverNameSource string

const (
	DriverFromLookup   DriverNameSource = "lookup"   // fleet master-data map
	DriverFromEmbedded DriverNameSource = "embedded" // driver sub-object on the raw event
	DriverFromParsed   DriverNameSource = "parsed"   // parsed out of the vehicle-number string
	DriverUnknown      DriverNameSource = "unknown"
)

// NormalizedEvent is a vendor-independent safety event ready for aggregation.
// Fields not applicable to an event family are zero-valued.
type NormalizedEvent struct {
	EventID      string           `json:"event_id"`
	Driver       string           `json:"driver"`
	DriverSource DriverNameSource `json:"driver_source"`
	Vehicle      string           `json:"vehicle"`
	Division     string           `json:"division"`
	Yard         string           `json:"yard"` // empty = no yard assigned

	EventType   string `json:"event_type"` // canonical; "unknown" if unrecognized
	DisplayName string `json:"display_name"`
	Tier        Tier   `json:"tier"`

	// Speed family fields, all mph.
	SpeedMPH       float64 `json:"speed_mph,omitempty"`
	PostedSpeedMPH float64 `json:"posted_speed_mph,omitempty"`
	OverspeedMPH   float64 `json:"overspeed_mph,omitempty"`

	DurationSeconds int    `json:"duration_seconds,omitempty"`
	Duration        string `json:"duration,omitempty"` // formatted, e.g. "1m 15s"

	Lat      float64 `json:"lat,omitempty"`
	Lon      float64 `json:"lon,omitempty"`
	Location string  `json:"location,omitempty"` // "lat, lon" or "Unknown"
	MapsLink string  `json:"maps_link,omitempty"`

	TimestampUTC   time.Time `json:"timestamp_utc,omitzero"`
	TimestampLocal time.Time `json:"timestamp_local,omitzero"`
	// TimeValid is false when the raw timestamp could not be parsed. The
	// event still classifies; it is only excluded from window filtering.
	TimeValid bool `json:"time_valid"`
	IsWeekend bool `json:"is_weekend"`
}
