package model

// RedFlagDriver is a driver whose events across sources tripped a pattern rule.
type RedFlagDriver struct {
	Name    string `json:"name"`
	Vehicle string `json:"vehicle"`
	Yard    string `json:"yard"`

	CameraCount   int `json:"camera_count"`
	SpeedingCount int `json:"speeding_count"`
	KPACount      int `json:"kpa_count"`
	Total         int `json:"total"`

	CameraSummary   string `json:"camera_summary,omitempty"`
	SpeedingSummary string `json:"speeding_summary,omitempty"`

	RecommendedAction string `json:"recommended_action"`
}

// RepeatOffender is a driver with repeated events within a single source.
type RepeatOffender struct {
	Name        string            `json:"name"`
	Count       int               `json:"count"`
	TypeSummary string            `json:"type_summary,omitempty"` // "Distraction x2, Hard Brake x1"
	WorstTier   Tier              `json:"worst_tier"`
	Events      []NormalizedEvent `json:"events"`
}

// YardScore is one row of the per-yard comparison scorecard.
type YardScore struct {
	Rank          int     `json:"rank"`
	Yard          string  `json:"yard"`
	VehicleCount  int     `json:"vehicle_count"`
	CameraCount   int     `json:"camera_count"`
	SpeedingCount int     `json:"speeding_count"`
	Total         int     `json:"total"`
	Rate          float64 `json:"rate"` // events per vehicle, 0 if no vehicles
}

// TimeBucket is a six-hour slice of the local day.
type TimeBucket string

const (
	BucketMorning   TimeBucket = "6AM-12PM"
	BucketAfternoon TimeBucket = "12PM-6PM"
	BucketEvening   TimeBucket = "6PM-12AM"
	BucketOvernight TimeBucket = "12AM-6AM"
)

// TimeBucketAnalysis counts camera events per local time-of-day bucket.
type TimeBucketAnalysis struct {
	Buckets map[TimeBucket]int `json:"buckets"`
	Notes   []string           `json:"notes"`
}
