// Package config defines report configuration structures and loading hooks.
//
// The curated rule tables live here as defaults rather than as constants in
// the classification code: the cut points and minimums have changed across
// report revisions, and keeping them as data means a behavior change is a
// config edit, not a code edit.
package config

import "time"

// GroupRule maps a vendor group id to its organizational unit.
type GroupRule struct {
	ID       int64  `koanf:"id"`
	Division string `koanf:"division"`
	Yard     string `koanf:"yard"`
}

// PrefixRule maps a vehicle-number prefix to its organizational unit.
// Rules are ordered; the first match wins.
type PrefixRule struct {
	Prefix   string `koanf:"prefix"`
	Division string `koanf:"division"`
	Yard     string `koanf:"yard"`
}

// VehicleRule assigns one vehicle number to its organizational unit. These
// come from the fleet roster and take priority over group-id and prefix
// resolution.
type VehicleRule struct {
	Number   string `koanf:"number"`
	Division string `koanf:"division"`
	Yard     string `koanf:"yard"`
}

// Config contains process and rule configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Timezone is the IANA identifier for the business's local zone. All
	// window filtering happens in this zone, never UTC.
	Timezone string `koanf:"timezone"`

	// Speed-based tier cut points, mph.
	RedOverLimitMPH    float64 `koanf:"red_over_limit_mph"`
	OrangeOverLimitMPH float64 `koanf:"orange_over_limit_mph"`
	RedAbsoluteMPH     float64 `koanf:"red_absolute_mph"`

	// Cross-source flagging thresholds.
	CameraFlagMin   int `koanf:"camera_flag_min"`
	SpeedingFlagMin int `koanf:"speeding_flag_min"`

	// Repeat-offender minimums differ by report cadence.
	DailyRepeatMin    int `koanf:"daily_repeat_min"`
	WeeklyRepeatMin   int `koanf:"weekly_repeat_min"`
	RepeatOffenderCap int `koanf:"repeat_offender_cap"`

	// Report ordering tables.
	YardOrder     []string `koanf:"yard_order"`
	DivisionOrder []string `koanf:"division_order"`

	// Organizational-unit resolution tables.
	GroupRules  []GroupRule  `koanf:"group_rules"`
	PrefixRules []PrefixRule `koanf:"prefix_rules"`

	// Fleet-roster tables, refreshed per deployment from master data:
	// vehicle number to driver display name, vehicle number to its
	// organizational unit, and per-yard fleet sizes for the scorecard.
	DriverLookup  map[string]string `koanf:"driver_lookup"`
	VehicleRules  []VehicleRule     `koanf:"vehicle_rules"`
	VehicleCounts map[string]int    `koanf:"vehicle_counts"`

	// Assessment accountability maps: observer last name (lower-cased) to
	// primary yard / safety rep key.
	ObserverYards map[string]string `koanf:"observer_yards"`
	ObserverReps  map[string]string `koanf:"observer_reps"`
}

// New creates a Config populated with the curated defaults.
func New() *Config {
	return &Config{
		LogLevel: "info",
		Timezone: "America/Chicago",

		RedOverLimitMPH:    20,
		OrangeOverLimitMPH: 15,
		RedAbsoluteMPH:     90,

		CameraFlagMin:   3,
		SpeedingFlagMin: 5,

		DailyRepeatMin:    2,
		WeeklyRepeatMin:   3,
		RepeatOffenderCap: 10,

		YardOrder: []string{
			"Midland", "Bryan", "Kilgore", "Hobbs", "Jourdanton", "Laredo", "San Angelo",
		},
		DivisionOrder: []string{
			"Rathole", "Casing",
			"Butch's Trucking", "Transcend Drilling", "Valor Energy Services",
			"Poly Pipe", "Pit Lining", "Environmental", "Fencing", "Anchors",
			"Construction", "Downhole Tools", "Sales/Admin", "Unassigned",
		},

		// Roster tables default empty; they track real vehicles and head
		// counts, so each deployment supplies its own.
		DriverLookup:  map[string]string{},
		VehicleRules:  []VehicleRule{},
		VehicleCounts: map[string]int{},

		GroupRules: defaultGroupRules(),
		PrefixRules: []PrefixRule{
			{Prefix: "LL-RAT", Division: "Rathole", Yard: "Levelland"},
			{Prefix: "MID-RAT", Division: "Rathole", Yard: "Midland"},
			{Prefix: "WIN-RAT", Division: "Rathole", Yard: "Wink"},
			{Prefix: "BAR-RAT", Division: "Rathole", Yard: "Barstow"},
			{Prefix: "JOU-RAT", Division: "Rathole", Yard: "Jourdanton"},
			{Prefix: "TOW-RAT", Division: "Rathole"},
			{Prefix: "DS-RAT", Division: "Rathole"},
			{Prefix: "BTI-", Division: "Butch's Trucking"},
			{Prefix: "VAL-", Division: "Valor Energy Services"},
			{Prefix: "TD-", Division: "Transcend Drilling"},
			{Prefix: "POL-", Division: "Poly Pipe"},
			{Prefix: "ENV-", Division: "Environmental"},
			{Prefix: "FEN-", Division: "Fencing"},
			{Prefix: "ANC-", Division: "Anchors"},
			{Prefix: "PIT-", Division: "Pit Lining"},
			{Prefix: "CON-", Division: "Construction"},
			{Prefix: "SALES", Division: "Sales/Admin"},
		},

		ObserverYards: map[string]string{
			"salazar": "Midland",
			"hancock": "Midland",
			"conrad":  "Bryan",
			"barnett": "Kilgore",
			"batts":   "Hobbs",
			"speyrer": "Jourdanton",
		},
		ObserverReps: map[string]string{
			"salazar": "MICHAEL HANCOCK & MICHAEL SALAZAR",
			"hancock": "MICHAEL HANCOCK & MICHAEL SALAZAR",
			"conrad":  "JUSTIN CONRAD",
			"barnett": "JAMES BARNETT (J.P.)",
			"batts":   "ALLEN BATTS",
			"speyrer": "JOEY SPEYRER",
		},
	}
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// defaultGroupRules is the vendor group-id table from the fleet account.
func defaultGroupRules() []GroupRule {
	return []GroupRule{
		// Rathole yards
		{ID: 266026, Division: "Rathole", Yard: "Midland"},
		{ID: 266025, Division: "Rathole", Yard: "Levelland"},
		{ID: 266024, Division: "Rathole", Yard: "Barstow"},
		{ID: 265996, Division: "Rathole", Yard: "Jourdanton"},
		{ID: 290472, Division: "Rathole", Yard: "Jourdanton"},
		{ID: 290471, Division: "Rathole", Yard: "Jourdanton"},
		{ID: 265998, Division: "Rathole", Yard: "Oklahoma"},
		{ID: 266028, Division: "Rathole", Yard: "Ohio"},
		{ID: 266027, Division: "Rathole", Yard: "Pennsylvania"},
		{ID: 265997, Division: "Rathole", Yard: "North Dakota"},
		{ID: 265988, Division: "Rathole"}, // parent group, no yard

		// Casing yards
		{ID: 167175, Division: "Casing", Yard: "Midland"},
		{ID: 169090, Division: "Casing", Yard: "Bryan"},
		{ID: 169092, Division: "Casing", Yard: "Kilgore"},
		{ID: 186740, Division: "Casing", Yard: "Hobbs"},
		{ID: 169091, Division: "Casing", Yard: "Jourdanton"},
		{ID: 186739, Division: "Casing", Yard: "Laredo"},
		{ID: 186741, Division: "Casing", Yard: "San Angelo"},
		{ID: 186746, Division: "Casing"}, // parent group, no yard

		// Other divisions, no yard breakdown
		{ID: 265993, Division: "Poly Pipe"},
		{ID: 296040, Division: "Poly Pipe"},
		{ID: 296036, Division: "Poly Pipe"},
		{ID: 296017, Division: "Poly Pipe"},
		{ID: 296020, Division: "Poly Pipe"},
		{ID: 265992, Division: "Pit Lining"},
		{ID: 265983, Division: "Construction"},
		{ID: 265987, Division: "Environmental"},
		{ID: 265991, Division: "Fencing"},
		{ID: 265982, Division: "Anchors"},
		{ID: 265989, Division: "Butch's Trucking"},
		{ID: 265986, Division: "Transcend Drilling"},
		{ID: 265985, Division: "Valor Energy Services"},
		{ID: 265984, Division: "Sales/Admin"},
	}
}
