// Package tier classifies canonical event types and speeding measurements
// into the three severity tiers.
//
// Classification is total: every input maps to exactly one tier. Canonical
// types outside the curated sets default to ORANGE so an unrecognized vendor
// type surfaces as a coaching item rather than being silently ignored or
// silently escalated.
package tier

import "github.com/krhodes5267/daily-safety-report/internal/domain/model"

// Default speed-based cut points (mph). The cut points moved across report
// revisions, so they are configuration rather than constants.
const (
	defaultRedOverLimitMPH    = 20
	defaultOrangeOverLimitMPH = 15
	defaultRedAbsoluteMPH     = 90
)

// redTypes are collision-adjacent and inattention events.
var redTypes = map[string]struct{}{
	"distraction":               {},
	"cell_phone":                {},
	"drowsiness":                {},
	"close_following":           {},
	"forward_collision_warning": {},
	"collision":                 {},
	"near_collision":            {},
	"stop_sign_violation":       {},
	"unsafe_lane_change":        {},
	"lane_swerving":             {},
}

// orangeTypes require coaching. ORANGE is also the default tier for any
// type not present in either set.
var orangeTypes = map[string]struct{}{
	"hard_brake":          {},
	"seat_belt_violation": {},
	"camera_obstruction":  {},
	"smoking":             {},
	"unsafe_parking":      {},
}

// yellowTypes are monitoring-only.
var yellowTypes = map[string]struct{}{
	"hard_accel":      {},
	"hard_corner":     {},
	"speed_violation": {},
}

// Option applies a configuration option to the Classifier.
type Option func(*Classifier)

// WithSpeedThresholds sets the over-limit cut points (mph) for RED and
// ORANGE speeding events. Values must be positive with red above orange.
func WithSpeedThresholds(redOverLimit, orangeOverLimit float64) Option {
	return func(c *Classifier) {
		if orangeOverLimit > 0 && redOverLimit > orangeOverLimit {
			c.redOverLimitMPH = redOverLimit
			c.orangeOverLimitMPH = orangeOverLimit
		}
	}
}

// WithAbsoluteSpeedThreshold sets the absolute speed (mph) that escalates a
// speeding event to RED regardless of the over-limit amount.
func WithAbsoluteSpeedThreshold(mph float64) Option {
	return func(c *Classifier) {
		if mph > 0 {
			c.redAbsoluteMPH = mph
		}
	}
}

// Classifier assigns severity tiers. The zero value is not usable; build
// one with New.
type Classifier struct {
	redOverLimitMPH    float64
	orangeOverLimitMPH float64
	redAbsoluteMPH     float64
}

// New creates a Classifier with default thresholds and applies options.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		redOverLimitMPH:    defaultRedOverLimitMPH,
		orangeOverLimitMPH: defaultOrangeOverLimitMPH,
		redAbsoluteMPH:     defaultRedAbsoluteMPH,
	}

	// Apply all options
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ByType classifies a canonical event type. Used for the camera event family.
func (c *Classifier) ByType(canonicalType string) model.Tier {
	if _, ok := redTypes[canonicalType]; ok {
		return model.TierRed
	}
	if _, ok := orangeTypes[canonicalType]; ok {
		return model.TierOrange
	}
	if _, ok := yellowTypes[canonicalType]; ok {
		return model.TierYellow
	}
	// Unknown types default to ORANGE
	return model.TierOrange
}

// BySpeed classifies a telematics over-the-limit event. Whichever condition
// is worse wins: a high absolute speed escalates a small relative overage.
// Anything below the ORANGE cut is YELLOW; the vendor only emits events that
// already exceeded the posted limit.
func (c *Classifier) BySpeed(overLimitMPH, absoluteSpeedMPH float64) model.Tier {
	if overLimitMPH >= c.redOverLimitMPH || absoluteSpeedMPH >= c.redAbsoluteMPH {
		return model.TierRed
	}
	if overLimitMPH >= c.orangeOverLimitMPH {
		return model.TierOrange
	}
	return model.TierYellow
}
