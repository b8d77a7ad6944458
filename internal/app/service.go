// Package service composes the domain packages into the three report
// families: the daily camera report, the daily speeding report, and the
// weekly cross-source briefing.
package service

import (
	"context"
	"sort"
	"time"

	"github.com/krhodes5267/daily-safety-report/internal/config"
	"github.com/krhodes5267/daily-safety-report/internal/domain/enrich"
	"github.com/krhodes5267/daily-safety-report/internal/domain/findings"
	"github.com/krhodes5267/daily-safety-report/internal/domain/model"
	"github.com/krhodes5267/daily-safety-report/internal/domain/redflag"
	"github.com/krhodes5267/daily-safety-report/internal/domain/tier"
	"github.com/krhodes5267/daily-safety-report/internal/domain/window"
	"github.com/krhodes5267/daily-safety-report/pkg/logger"
	"github.com/krhodes5267/daily-safety-report/pkg/metrics"
)

// Service builds reports from already-decoded raw events. Each run is a
// full recomputation; the service carries configuration and lookups but no
// result state between calls.
type Service struct {
	enricher *enrich.Enricher
	detector *redflag.Detector
	analyzer *findings.Analyzer

	loc *time.Location

	dailyRepeatMin    int
	weeklyRepeatMin   int
	repeatOffenderCap int

	yardOrder     []string
	divisionOrder []string
	vehicleCounts map[string]int

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithEnricher sets the record enricher.
func WithEnricher(e *enrich.Enricher) Option {
	return func(s *Service) {
		if e != nil {
			s.enricher = e
		}
	}
}

// WithDetector sets the cross-source red-flag detector.
func WithDetector(d *redflag.Detector) Option {
	return func(s *Service) {
		if d != nil {
			s.detector = d
		}
	}
}

// WithAnalyzer sets the assessment analyzer.
func WithAnalyzer(a *findings.Analyzer) Option {
	return func(s *Service) {
		if a != nil {
			s.analyzer = a
		}
	}
}

// WithLocation sets the report timezone.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithRepeatMinimums sets the per-cadence repeat-offender minimums.
func WithRepeatMinimums(daily, weekly int) Option {
	return func(s *Service) {
		if daily > 0 {
			s.dailyRepeatMin = daily
		}
		if weekly > 0 {
			s.weeklyRepeatMin = weekly
		}
	}
}

// WithRepeatOffenderCap sets the weekly top-N truncation.
func WithRepeatOffenderCap(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.repeatOffenderCap = n
		}
	}
}

// WithYardOrder sets the canonical yard presentation order.
func WithYardOrder(yards []string) Option {
	return func(s *Service) {
		if yards != nil {
			s.yardOrder = yards
		}
	}
}

// WithDivisionOrder sets the canonical division presentation order.
func WithDivisionOrder(divisions []string) Option {
	return func(s *Service) {
		if divisions != nil {
			s.divisionOrder = divisions
		}
	}
}

// WithVehicleCounts sets the per-yard fleet sizes used by the scorecard.
func WithVehicleCounts(counts map[string]int) Option {
	return func(s *Service) {
		if counts != nil {
			s.vehicleCounts = counts
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// New constructs a Service with default components; options supply the
// configured ones.
func New(opts ...Option) *Service {
	cfg := config.New()
	s := &Service{
		enricher:          enrich.New(),
		detector:          redflag.NewDetector(),
		analyzer:          findings.NewAnalyzer(),
		loc:               time.UTC,
		dailyRepeatMin:    cfg.DailyRepeatMin,
		weeklyRepeatMin:   cfg.WeeklyRepeatMin,
		repeatOffenderCap: cfg.RepeatOffenderCap,
		yardOrder:         cfg.YardOrder,
		divisionOrder:     cfg.DivisionOrder,
		vehicleCounts:     map[string]int{},
		logger:            logger.Named("service"),
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// FromConfig builds the full option set for a loaded configuration. The
// caller may append overrides after it.
func FromConfig(cfg *config.Config) ([]Option, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	groupIDs := make(map[int64]enrich.DivisionYard, len(cfg.GroupRules))
	for _, rule := range cfg.GroupRules {
		groupIDs[rule.ID] = enrich.DivisionYard{Division: rule.Division, Yard: rule.Yard}
	}
	prefixRules := make([]enrich.PrefixRule, len(cfg.PrefixRules))
	for i, rule := range cfg.PrefixRules {
		prefixRules[i] = enrich.PrefixRule{Prefix: rule.Prefix, Division: rule.Division, Yard: rule.Yard}
	}
	vehicleGroups := make(map[string]enrich.DivisionYard, len(cfg.VehicleRules))
	for _, rule := range cfg.VehicleRules {
		vehicleGroups[rule.Number] = enrich.DivisionYard{Division: rule.Division, Yard: rule.Yard}
	}

	enricher := enrich.New(
		enrich.WithDriverLookup(cfg.DriverLookup),
		enrich.WithVehicleGroups(vehicleGroups),
		enrich.WithGroupIDMap(groupIDs),
		enrich.WithPrefixRules(prefixRules),
		enrich.WithClassifier(tier.New(
			tier.WithSpeedThresholds(cfg.RedOverLimitMPH, cfg.OrangeOverLimitMPH),
			tier.WithAbsoluteSpeedThreshold(cfg.RedAbsoluteMPH),
		)),
		enrich.WithLocation(loc),
	)
	detector := redflag.NewDetector(
		redflag.WithCameraFlagMin(cfg.CameraFlagMin),
		redflag.WithSpeedingFlagMin(cfg.SpeedingFlagMin),
	)
	analyzer := findings.NewAnalyzer(
		findings.WithObserverYards(cfg.ObserverYards),
		findings.WithObserverReps(cfg.ObserverReps),
		findings.WithYardOrder(cfg.YardOrder),
	)

	return []Option{
		WithEnricher(enricher),
		WithDetector(detector),
		WithAnalyzer(analyzer),
		WithLocation(loc),
		WithRepeatMinimums(cfg.DailyRepeatMin, cfg.WeeklyRepeatMin),
		WithRepeatOffenderCap(cfg.RepeatOffenderCap),
		WithYardOrder(cfg.YardOrder),
		WithDivisionOrder(cfg.DivisionOrder),
		WithVehicleCounts(cfg.VehicleCounts),
	}, nil
}

// TierBreakdown summarizes a set of classified events.
type TierBreakdown struct {
	Red    int `json:"red"`
	Orange int `json:"orange"`
	Yellow int `json:"yellow"`
	Total  int `json:"total"`

	// ByType counts events per display name.
	ByType map[string]int `json:"by_type"`
}

// YardGroup is one yard's events within a division, already sorted for
// presentation.
type YardGroup struct {
	Yard   string                  `json:"yard"`
	Events []model.NormalizedEvent `json:"events"`
}

// DivisionGroup is one division's events, broken down by yard.
type DivisionGroup struct {
	Division string      `json:"division"`
	Yards    []YardGroup `json:"yards"`
}

// DailyCameraReport is the camera family's daily output.
type DailyCameraReport struct {
	Date        string    `json:"date"`
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`

	Breakdown       TierBreakdown          `json:"breakdown"`
	Divisions       []DivisionGroup        `json:"divisions"`
	RepeatOffenders []model.RepeatOffender `json:"repeat_offenders"`

	// EventsUnfiltered counts events kept despite an unparseable
	// timestamp; they appear in the groups but bypassed window filtering.
	EventsUnfiltered int `json:"events_unfiltered"`
}

// DailySpeedingReport is the speeding family's daily output.
type DailySpeedingReport struct {
	Date        string    `json:"date"`
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`

	Breakdown       TierBreakdown          `json:"breakdown"`
	Divisions       []DivisionGroup        `json:"divisions"`
	RepeatOffenders []model.RepeatOffender `json:"repeat_offenders"`

	EventsUnfiltered int `json:"events_unfiltered"`
}

// WeeklyBriefing is the cross-source weekly output.
type WeeklyBriefing struct {
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`

	CameraBreakdown   TierBreakdown `json:"camera_breakdown"`
	SpeedingBreakdown TierBreakdown `json:"speeding_breakdown"`

	RedFlags        []model.RedFlagDriver    `json:"red_flags"`
	RepeatOffenders []model.RepeatOffender   `json:"repeat_offenders"`
	Scorecard       []model.YardScore        `json:"scorecard"`
	TimeBuckets     model.TimeBucketAnalysis `json:"time_buckets"`

	Assessments model.AssessmentAnalysis `json:"assessments"`

	WeekendCameraEvents int `json:"weekend_camera_events"`

	// EventsUnfiltered counts events across both streams kept despite an
	// unparseable timestamp; they bypassed window filtering.
	EventsUnfiltered int `json:"events_unfiltered"`
}

// DailyCamera builds the camera report for the calendar date of day.
func (s *Service) DailyCamera(ctx context.Context, day time.Time, raw []enrich.RawEvent) DailyCameraReport {
	win := window.Day(day, s.loc)
	events, unfiltered := s.normalizeCamera(ctx, raw, win)
	redflag.SortBySeverity(events)

	report := DailyCameraReport{
		Date:             win.Start.Format("2006-01-02"),
		WindowStart:      win.Start,
		WindowEnd:        win.End,
		Breakdown:        breakdown(events),
		Divisions:        s.groupByDivision(events, bySeverity),
		RepeatOffenders:  redflag.RepeatOffenders(events, s.dailyRepeatMin, 0),
		EventsUnfiltered: unfiltered,
	}

	metrics.UpdateEventsInWindow(len(events))
	s.logger.Info(ctx, "daily camera report built",
		logger.String("date", report.Date),
		logger.Int("events", len(events)),
	)
	return report
}

// DailySpeeding builds the speeding report for the calendar date of day.
func (s *Service) DailySpeeding(ctx context.Context, day time.Time, raw []enrich.RawEvent) DailySpeedingReport {
	win := window.Day(day, s.loc)
	events, unfiltered := s.normalizeSpeeding(ctx, raw, win)
	redflag.SortByOverspeed(events)

	report := DailySpeedingReport{
		Date:             win.Start.Format("2006-01-02"),
		WindowStart:      win.Start,
		WindowEnd:        win.End,
		Breakdown:        breakdown(events),
		Divisions:        s.groupByDivision(events, byOverspeed),
		RepeatOffenders:  redflag.RepeatOffenders(events, s.dailyRepeatMin, 0),
		EventsUnfiltered: unfiltered,
	}

	metrics.UpdateEventsInWindow(len(events))
	s.logger.Info(ctx, "daily speeding report built",
		logger.String("date", report.Date),
		logger.Int("events", len(events)),
	)
	return report
}

// Weekly builds the cross-source briefing over the Monday-through-Sunday
// week before now. The kpa stream carries EHS incidents already adapted to
// events; assessmentRows is the raw assessment export.
func (s *Service) Weekly(ctx context.Context, now time.Time, cameraRaw, speedingRaw []enrich.RawEvent, kpa []model.NormalizedEvent, assessmentRows []findings.AssessmentRow) WeeklyBriefing {
	win := window.PreviousWeek(now, s.loc)

	camera, camUnfiltered := s.normalizeCamera(ctx, cameraRaw, win)
	speeding, spdUnfiltered := s.normalizeSpeeding(ctx, speedingRaw, win)

	weekend := 0
	for _, evt := range camera {
		if evt.IsWeekend {
			weekend++
		}
	}

	// The weekly repeat table covers speeding only; camera repeats are a
	// daily concern.
	offenders := redflag.RepeatOffenders(speeding, s.weeklyRepeatMin, s.repeatOffenderCap)

	briefing := WeeklyBriefing{
		WindowStart:         win.Start,
		WindowEnd:           win.End,
		CameraBreakdown:     breakdown(camera),
		SpeedingBreakdown:   breakdown(speeding),
		RedFlags:            s.detector.Detect(ctx, camera, speeding, kpa),
		RepeatOffenders:     offenders,
		Scorecard:           redflag.YardScorecard(camera, speeding, s.vehicleCounts, s.yardOrder),
		TimeBuckets:         redflag.TimeBuckets(camera),
		Assessments:         s.analyzer.Analyze(ctx, assessmentRows),
		WeekendCameraEvents: weekend,
		EventsUnfiltered:    camUnfiltered + spdUnfiltered,
	}

	metrics.UpdateEventsInWindow(len(camera) + len(speeding))
	s.logger.Info(ctx, "weekly briefing built",
		logger.Int("cameraEvents", len(camera)),
		logger.Int("speedingEvents", len(speeding)),
		logger.Int("redFlags", len(briefing.RedFlags)),
	)
	return briefing
}

// normalizeCamera enriches and window-filters the camera stream. Events
// whose timestamp could not be parsed are kept and counted separately.
func (s *Service) normalizeCamera(ctx context.Context, raw []enrich.RawEvent, win window.Window) ([]model.NormalizedEvent, int) {
	events := make([]model.NormalizedEvent, 0, len(raw))
	unfiltered := 0
	for _, r := range raw {
		evt := s.enricher.CameraEvent(ctx, r)
		if !evt.TimeValid {
			unfiltered++
			events = append(events, evt)
			continue
		}
		if win.Contains(evt.TimestampLocal) {
			events = append(events, evt)
		}
	}
	return events, unfiltered
}

// normalizeSpeeding enriches and window-filters the speeding stream.
func (s *Service) normalizeSpeeding(ctx context.Context, raw []enrich.RawEvent, win window.Window) ([]model.NormalizedEvent, int) {
	events := make([]model.NormalizedEvent, 0, len(raw))
	unfiltered := 0
	for _, r := range raw {
		evt := s.enricher.SpeedingEvent(ctx, r)
		if !evt.TimeValid {
			unfiltered++
			events = append(events, evt)
			continue
		}
		if win.Contains(evt.TimestampLocal) {
			events = append(events, evt)
		}
	}
	return events, unfiltered
}

// breakdown tallies events per tier and display name.
func breakdown(events []model.NormalizedEvent) TierBreakdown {
	b := TierBreakdown{ByType: map[string]int{}}
	for _, evt := range events {
		switch evt.Tier {
		case model.TierRed:
			b.Red++
		case model.TierOrange:
			b.Orange++
		case model.TierYellow:
			b.Yellow++
		}
		b.Total++
		b.ByType[evt.DisplayName]++
	}
	return b
}

// sortMode selects the per-yard event ordering for a report family.
type sortMode int

const (
	bySeverity sortMode = iota
	byOverspeed
)

// groupByDivision arranges events into the canonical division order, then
// yard order within each division. Divisions outside the canonical table
// are appended sorted by name, with Unassigned always last. Within a yard,
// events are sorted per the family's mode.
func (s *Service) groupByDivision(events []model.NormalizedEvent, mode sortMode) []DivisionGroup {
	byDivYard := map[string]map[string][]model.NormalizedEvent{}
	for _, evt := range events {
		yards, ok := byDivYard[evt.Division]
		if !ok {
			yards = map[string][]model.NormalizedEvent{}
			byDivYard[evt.Division] = yards
		}
		yards[evt.Yard] = append(yards[evt.Yard], evt)
	}

	divisions := orderedKeys(byDivYard, s.divisionOrder, enrich.UnassignedDivision)

	groups := make([]DivisionGroup, 0, len(divisions))
	for _, div := range divisions {
		yards := byDivYard[div]
		group := DivisionGroup{Division: div}
		for _, yard := range orderedKeys(yards, s.yardOrder, "") {
			evts := yards[yard]
			switch mode {
			case byOverspeed:
				redflag.SortByOverspeed(evts)
			default:
				redflag.SortBySeverity(evts)
			}
			group.Yards = append(group.Yards, YardGroup{Yard: yard, Events: evts})
		}
		groups = append(groups, group)
	}
	return groups
}

// orderedKeys returns the keys of m present in the canonical order first,
// then the remainder sorted, with last (if non-empty and present) moved to
// the end.
func orderedKeys[V any](m map[string]V, canonical []string, last string) []string {
	out := make([]string, 0, len(m))
	seen := map[string]struct{}{}
	for _, k := range canonical {
		if k == last {
			continue
		}
		if _, ok := m[k]; ok {
			out = append(out, k)
			seen[k] = struct{}{}
		}
	}

	var rest []string
	for k := range m {
		if _, ok := seen[k]; ok || k == last {
			continue
		}
		rest = append(rest, k)
	}
	sort.Strings(rest)
	out = append(out, rest...)

	if last != "" {
		if _, ok := m[last]; ok {
			out = append(out, last)
		}
	}
	return out
}
