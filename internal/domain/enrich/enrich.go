// Package enrich joins raw vendor events to fleet master data and produces
// normalized events ready for aggregation.
//
// Enrichment never fails: every missing or malformed field degrades to a
// documented sentinel. Data-quality conditions are logged and counted, not
// raised.
package enrich

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/krhodes5267/daily-safety-report/internal/domain/canonical"
	"github.com/krhodes5267/daily-safety-report/internal/domain/model"
	"github.com/krhodes5267/daily-safety-report/internal/domain/tier"
	"github.com/krhodes5267/daily-safety-report/internal/domain/window"
	"github.com/krhodes5267/daily-safety-report/pkg/logger"
	"github.com/krhodes5267/daily-safety-report/pkg/metrics"
)

// UnassignedDivision is the sentinel for vehicles no rule could place.
const UnassignedDivision = "Unassigned"

// DivisionYard is an organizational-unit pair. Yard may be empty for
// divisions with no yard breakdown.
type DivisionYard struct {
	Division string
	Yard     string
}

// PrefixRule maps a vehicle-number prefix to its organizational unit.
// Rules are ordered; the first match wins.
type PrefixRule struct {
	Prefix   string
	Division string
	Yard     string
}

// casingNumberRE matches the bare-numeric casing convention, e.g. "5036C".
var casingNumberRE = regexp.MustCompile(`^\d+C\b`)

// Option applies a configuration option to the Enricher.
type Option func(*Enricher)

// WithDriverLookup sets the vehicle-number -> driver display name map.
func WithDriverLookup(drivers map[string]string) Option {
	return func(e *Enricher) {
		if drivers != nil {
			e.drivers = drivers
		}
	}
}

// WithVehicleGroups sets the vehicle-number -> (division, yard) map built
// from fleet master data.
func WithVehicleGroups(groups map[string]DivisionYard) Option {
	return func(e *Enricher) {
		if groups != nil {
			e.vehicleGroups = groups
		}
	}
}

// WithGroupIDMap sets the vendor group-id -> (division, yard) table used
// when the raw event carries group ids directly.
func WithGroupIDMap(groups map[int64]DivisionYard) Option {
	return func(e *Enricher) {
		if groups != nil {
			e.groupIDs = groups
		}
	}
}

// WithPrefixRules sets the ordered vehicle-number-prefix fallback table.
func WithPrefixRules(rules []PrefixRule) Option {
	return func(e *Enricher) {
		if rules != nil {
			e.prefixRules = rules
		}
	}
}

// WithClassifier sets the tier classifier.
func WithClassifier(c *tier.Classifier) Option {
	return func(e *Enricher) {
		if c != nil {
			e.classifier = c
		}
	}
}

// WithLocation sets the report's local timezone.
func WithLocation(loc *time.Location) Option {
	return func(e *Enricher) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// WithLogger sets a custom logger for the enricher.
func WithLogger(log logger.Logger) Option {
	return func(e *Enricher) {
		if log != nil {
			e.log = log
		}
	}
}

// Enricher normalizes raw vendor events against fleet master data.
type Enricher struct {
	drivers       map[string]string
	vehicleGroups map[string]DivisionYard
	groupIDs      map[int64]DivisionYard
	prefixRules   []PrefixRule

	classifier *tier.Classifier
	loc        *time.Location
	log        logger.Logger
}

// New constructs an Enricher with empty lookups, UTC, and default
// thresholds; options supply the real configuration.
func New(opts ...Option) *Enricher {
	e := &Enricher{
		drivers:       map[string]string{},
		vehicleGroups: map[string]DivisionYard{},
		groupIDs:      map[int64]DivisionYard{},
		classifier:    tier.New(),
		loc:           time.UTC,
		log:           logger.Named("enrich"),
	}

	// Apply all options
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// CameraEvent normalizes one camera/driver-performance record.
func (e *Enricher) CameraEvent(ctx context.Context, raw RawEvent) model.NormalizedEvent {
	rawType := raw.stringField("type", "event_type", "behavior_type")
	eventType := canonical.Normalize(rawType)
	if !canonical.Known(eventType) {
		metrics.RecordUnknownEventType()
		e.log.Debug(ctx, "unmapped event type defaulted to coaching tier",
			logger.String("rawType", rawType),
		)
	}

	evt := model.NormalizedEvent{
		EventID:     raw.ID(),
		EventType:   eventType,
		DisplayName: canonical.DisplayName(eventType, rawType),
		Tier:        e.classifier.ByType(eventType),
	}

	e.resolveVehicleAndDriver(ctx, raw, &evt)
	e.resolveDivisionYard(raw, &evt)
	e.resolveTime(ctx, raw, &evt, "start_time", "event_time", "created_at")

	evt.SpeedMPH = MPH(raw.floatField("start_speed", "max_speed", "end_speed"))
	evt.DurationSeconds = int(raw.floatField("duration", "duration_seconds"))
	evt.Duration = FormatDuration(evt.DurationSeconds)

	metrics.RecordEventClassified(string(evt.Tier))
	return evt
}

// SpeedingEvent normalizes one telematics over-the-limit record. All vendor
// speed fields are km/h.
func (e *Enricher) SpeedingEvent(ctx context.Context, raw RawEvent) model.NormalizedEvent {
	maxSpeed := MPH(raw.floatField("max_vehicle_speed", "avg_vehicle_speed"))
	posted := MPH(raw.floatField("min_posted_speed_limit_in_kph"))
	overspeed := MPH(raw.floatField("max_over_speed_in_kph", "avg_over_speed_in_kph"))

	evt := model.NormalizedEvent{
		EventID:        raw.ID(),
		EventType:      "speed_violation",
		DisplayName:    canonical.DisplayName("speed_violation", ""),
		Tier:           e.classifier.BySpeed(overspeed, maxSpeed),
		SpeedMPH:       maxSpeed,
		PostedSpeedMPH: posted,
		OverspeedMPH:   overspeed,
	}

	e.resolveVehicleAndDriver(ctx, raw, &evt)
	e.resolveDivisionYard(raw, &evt)
	e.resolveTime(ctx, raw, &evt, "start_time", "end_time")

	evt.DurationSeconds = int(raw.floatField("duration"))
	evt.Duration = FormatDuration(evt.DurationSeconds)

	lat := raw.floatField("start_lat")
	lon := raw.floatField("start_lon")
	if lat != 0 && lon != 0 {
		evt.Lat = lat
		evt.Lon = lon
		evt.Location = fmt.Sprintf("%.4f, %.4f", lat, lon)
		evt.MapsLink = fmt.Sprintf("https://www.google.com/maps?q=%v,%v", lat, lon)
	} else {
		evt.Location = model.UnknownDriver
	}

	metrics.RecordEventClassified(string(evt.Tier))
	return evt
}

// resolveVehicleAndDriver fills Vehicle, Driver, and DriverSource.
// Resolution order: master-data lookup by vehicle number, driver sub-object
// on the event, name parsed out of the vehicle-number string, sentinel.
func (e *Enricher) resolveVehicleAndDriver(ctx context.Context, raw RawEvent, evt *model.NormalizedEvent) {
	vehicle := raw.vehicleNumber()
	if vehicle == "" {
		vehicle = model.UnknownDriver
	}
	evt.Vehicle = vehicle

	if name, ok := e.drivers[vehicle]; ok && name != "" {
		evt.Driver = name
		evt.DriverSource = model.DriverFromLookup
		return
	}
	if name := strings.TrimSpace(raw.embeddedDriverName()); name != "" {
		evt.Driver = name
		evt.DriverSource = model.DriverFromEmbedded
		return
	}
	if name, ok := DriverFromVehicleNumber(vehicle); ok {
		evt.Driver = name
		evt.DriverSource = model.DriverFromParsed
		metrics.RecordParsedDriverName()
		e.log.Debug(ctx, "driver name parsed from vehicle number",
			logger.String("vehicle", vehicle),
			logger.String("driver", name),
		)
		return
	}

	evt.Driver = model.UnknownDriver
	evt.DriverSource = model.DriverUnknown
	metrics.RecordUnknownDriver()
}

// resolveDivisionYard fills Division and Yard. Master-data lookup by
// vehicle number first, then the group-id table over ids carried on the raw
// event, then the ordered prefix rules, then the numeric casing convention.
func (e *Enricher) resolveDivisionYard(raw RawEvent, evt *model.NormalizedEvent) {
	if dy, ok := e.vehicleGroups[evt.Vehicle]; ok {
		evt.Division = dy.Division
		evt.Yard = dy.Yard
		return
	}
	for _, gid := range raw.vehicleGroupIDs() {
		if dy, ok := e.groupIDs[gid]; ok {
			evt.Division = dy.Division
			evt.Yard = dy.Yard
			return
		}
	}

	vn := strings.ToUpper(evt.Vehicle)
	for _, rule := range e.prefixRules {
		if strings.HasPrefix(vn, strings.ToUpper(rule.Prefix)) {
			evt.Division = rule.Division
			evt.Yard = rule.Yard
			return
		}
	}
	if casingNumberRE.MatchString(vn) {
		evt.Division = "Casing"
		return
	}

	evt.Division = UnassignedDivision
}

// resolveTime fills the timestamp fields. An unparseable timestamp keeps
// the event classifiable; it is only excluded from window filtering, and
// the condition is surfaced as a data-quality signal.
func (e *Enricher) resolveTime(ctx context.Context, raw RawEvent, evt *model.NormalizedEvent, keys ...string) {
	ts, ok := raw.timestampRFC3339(keys...)
	if !ok {
		evt.TimeValid = false
		metrics.RecordUnparseableTimestamp()
		e.log.Warn(ctx, "unparseable event timestamp; event kept, window filter skipped",
			logger.String("eventID", evt.EventID),
			logger.String("vehicle", evt.Vehicle),
		)
		return
	}

	evt.TimestampUTC = ts.UTC()
	evt.TimestampLocal = ts.In(e.loc)
	evt.TimeValid = true
	evt.IsWeekend = window.IsWeekend(evt.TimestampLocal)
}
