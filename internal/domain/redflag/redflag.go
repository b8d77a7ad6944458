// Package redflag cross-references drivers across the camera, speeding, and
// EHS incident streams and applies fixed pattern rules to surface drivers
// needing intervention.
package redflag

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/krhodes5267/daily-safety-report/internal/domain/model"
	"github.com/krhodes5267/daily-safety-report/pkg/logger"
	"github.com/krhodes5267/daily-safety-report/pkg/metrics"
)

// Default flagging thresholds. They differ from the repeat-offender
// minimums; both are configuration.
const (
	defaultCameraFlagMin   = 3
	defaultSpeedingFlagMin = 5
)

// Canned recommended actions, applied by fixed priority.
const (
	ActionFatigue          = "Pattern: fatigue - address scheduling and rest compliance"
	ActionDistraction      = "Pattern: distraction - formal coaching required"
	ActionSpeed            = "Pattern: speed non-compliance - formal coaching required"
	ActionMultipleCategory = "Multiple safety categories - supervisor meeting required"
	ActionGenericReview    = "Cross-source flags - safety rep to review and coach"
)

// fatigueTypes and distractionTypes drive the action priority rules.
var fatigueTypes = map[string]struct{}{
	"drowsiness":    {},
	"lane_swerving": {},
}

var distractionTypes = map[string]struct{}{
	"distraction": {},
	"cell_phone":  {},
}

// Option applies a configuration option to the Detector.
type Option func(*Detector)

// WithCameraFlagMin sets the camera-event count that flags a driver on its own.
func WithCameraFlagMin(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.cameraFlagMin = n
		}
	}
}

// WithSpeedingFlagMin sets the speeding-event count that flags a driver on its own.
func WithSpeedingFlagMin(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.speedingFlagMin = n
		}
	}
}

// WithLogger sets a custom logger for the detector.
func WithLogger(log logger.Logger) Option {
	return func(d *Detector) {
		if log != nil {
			d.log = log
		}
	}
}

// Detector applies the cross-source red-flag rules.
type Detector struct {
	cameraFlagMin   int
	speedingFlagMin int
	log             logger.Logger
}

// NewDetector constructs a Detector with default thresholds.
func NewDetector(opts ...Option) *Detector {
	d := &Detector{
		cameraFlagMin:   defaultCameraFlagMin,
		speedingFlagMin: defaultSpeedingFlagMin,
		log:             logger.Named("redflag"),
	}

	// Apply all options
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// driverRecord accumulates one driver's events across sources.
type driverRecord struct {
	camera   []model.NormalizedEvent
	speeding []model.NormalizedEvent
	kpa      []model.NormalizedEvent
	vehicle  string
	yard     string
}

// Detect cross-references the three streams per driver and returns flagged
// drivers sorted by total event count descending. The Unknown sentinel is
// never aggregated into a named flag.
func (d *Detector) Detect(ctx context.Context, camera, speeding, kpa []model.NormalizedEvent) []model.RedFlagDriver {
	drivers := map[string]*driverRecord{}
	var order []string // first-seen order, the stable tie-break

	record := func(name string) *driverRecord {
		rec, ok := drivers[name]
		if !ok {
			rec = &driverRecord{}
			drivers[name] = rec
			order = append(order, name)
		}
		return rec
	}

	for _, evt := range camera {
		if evt.Driver == model.UnknownDriver {
			continue
		}
		rec := record(evt.Driver)
		rec.camera = append(rec.camera, evt)
		rec.note(evt)
	}
	for _, evt := range speeding {
		if evt.Driver == model.UnknownDriver {
			continue
		}
		rec := record(evt.Driver)
		rec.speeding = append(rec.speeding, evt)
		rec.note(evt)
	}
	for _, evt := range kpa {
		if evt.Driver == model.UnknownDriver {
			continue
		}
		rec := record(evt.Driver)
		rec.kpa = append(rec.kpa, evt)
		rec.note(evt)
	}

	flagged := []model.RedFlagDriver{}
	for _, name := range order {
		rec := drivers[name]
		if !d.isFlagged(rec) {
			continue
		}

		flagged = append(flagged, model.RedFlagDriver{
			Name:              name,
			Vehicle:           rec.vehicle,
			Yard:              rec.yard,
			CameraCount:       len(rec.camera),
			SpeedingCount:     len(rec.speeding),
			KPACount:          len(rec.kpa),
			Total:             len(rec.camera) + len(rec.speeding) + len(rec.kpa),
			CameraSummary:     cameraSummary(rec.camera),
			SpeedingSummary:   speedingSummary(rec.speeding),
			RecommendedAction: recommendAction(rec, d.cameraFlagMin, d.speedingFlagMin),
		})
	}

	sort.SliceStable(flagged, func(i, j int) bool {
		return flagged[i].Total > flagged[j].Total
	})

	metrics.UpdateRedFlagDrivers(len(flagged))
	if len(flagged) > 0 {
		d.log.Info(ctx, "red flag drivers detected", logger.Int("count", len(flagged)))
	}
	return flagged
}

// note keeps the last-known vehicle and yard for the driver.
func (r *driverRecord) note(evt model.NormalizedEvent) {
	if evt.Vehicle != "" && evt.Vehicle != model.UnknownDriver {
		r.vehicle = evt.Vehicle
	}
	if evt.Yard != "" {
		r.yard = evt.Yard
	}
}

// isFlagged applies the flagging rules; any one suffices.
func (d *Detector) isFlagged(rec *driverRecord) bool {
	cam, spd, kpa := len(rec.camera), len(rec.speeding), len(rec.kpa)
	switch {
	case cam > 0 && spd > 0:
		return true
	case cam >= d.cameraFlagMin:
		return true
	case spd >= d.speedingFlagMin:
		return true
	case cam > 0 && kpa > 0:
		return true
	default:
		return false
	}
}

// recommendAction derives the canned recommendation. Only the first
// matching rule in priority order applies; the count rules use the same
// configured thresholds as flagging.
func recommendAction(rec *driverRecord, cameraMin, speedingMin int) string {
	for _, evt := range rec.camera {
		if _, ok := fatigueTypes[evt.EventType]; ok {
			return ActionFatigue
		}
	}
	for _, evt := range rec.camera {
		if _, ok := distractionTypes[evt.EventType]; ok {
			return ActionDistraction
		}
	}
	if len(rec.speeding) >= speedingMin {
		return ActionSpeed
	}
	if len(rec.camera) >= cameraMin && len(rec.speeding) > 0 {
		return ActionMultipleCategory
	}
	return ActionGenericReview
}

// cameraSummary renders "Distraction x2, Hard Brake x1" with counts
// descending and names ascending on ties.
func cameraSummary(events []model.NormalizedEvent) string {
	if len(events) == 0 {
		return ""
	}
	counts := map[string]int{}
	for _, evt := range events {
		counts[evt.DisplayName]++
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s x%d", name, counts[name])
	}
	return strings.Join(parts, ", ")
}

// speedingSummary renders the count and worst single event.
func speedingSummary(events []model.NormalizedEvent) string {
	if len(events) == 0 {
		return ""
	}
	worst := events[0]
	for _, evt := range events[1:] {
		if evt.OverspeedMPH > worst.OverspeedMPH {
			worst = evt
		}
	}
	noun := "events"
	if len(events) == 1 {
		noun = "event"
	}
	return fmt.Sprintf("%d %s, worst: +%.1f over at %.1f mph", len(events), noun, worst.OverspeedMPH, worst.SpeedMPH)
}
