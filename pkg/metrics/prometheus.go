// Package metrics provides Prometheus metrics for the safety report engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the report engine.
type Manager struct {
	namespace    string
	subsystem    string
	customLabels map[string]string
	registry     prometheus.Registerer

	// Classification metrics
	eventsClassified  *prometheus.CounterVec
	unknownEventTypes prometheus.Counter

	// Data-quality metrics - conditions that degrade but never fail a run
	unparseableTimestamps prometheus.Counter
	unknownDrivers        prometheus.Counter
	parsedDriverNames     prometheus.Counter
	headerRowsFiltered    prometheus.Counter
	duplicateRawEvents    prometheus.Counter

	// Assessment metrics
	findingsExtracted prometheus.Counter
	cleanAssessments  prometheus.Counter

	// Run summary gauges
	redFlagDrivers  prometheus.Gauge
	eventsInWindow  prometheus.Gauge
	repeatOffenders prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:    "safety",
		subsystem:    "report",
		customLabels: make(map[string]string),
		registry:     prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.eventsClassified = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "events_classified_total",
			Help:      "Total number of raw events classified, by severity tier",
		},
		[]string{"tier"},
	)

	m.unknownEventTypes = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "unknown_event_types_total",
		Help:      "Total events whose raw type had no canonical mapping (defaulted to ORANGE)",
	})

	m.unparseableTimestamps = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "unparseable_timestamps_total",
		Help:      "Total events kept for classification but excluded from window filtering",
	})

	m.unknownDrivers = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "unknown_drivers_total",
		Help:      "Total events whose driver could not be resolved by any source",
	})

	m.parsedDriverNames = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "parsed_driver_names_total",
		Help:      "Total driver names recovered by parsing the vehicle-number string (best effort)",
	})

	m.headerRowsFiltered = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "header_rows_filtered_total",
		Help:      "Total duplicate CSV header-sentinel rows dropped from EHS form data",
	})

	m.duplicateRawEvents = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "duplicate_raw_events_total",
		Help:      "Total raw events dropped because their vendor event id was already seen",
	})

	m.findingsExtracted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "findings_extracted_total",
		Help:      "Total findings extracted from EHS field assessments",
	})

	m.cleanAssessments = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "clean_assessments_total",
		Help:      "Total field assessments with zero extracted findings",
	})

	m.redFlagDrivers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "red_flag_drivers",
		Help:      "Red-flag drivers detected in the most recent run",
	})

	m.eventsInWindow = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_in_window",
		Help:      "Normalized events inside the reporting window in the most recent run",
	})

	m.repeatOffenders = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "repeat_offenders",
		Help:      "Repeat-offender drivers in the most recent run",
	})
}

// RecordEventClassified increments the classified-event counter for a tier.
func RecordEventClassified(tier string) {
	globalManager.eventsClassified.WithLabelValues(tier).Inc()
}

// RecordUnknownEventType increments the unmapped raw-type counter.
func RecordUnknownEventType() {
	globalManager.unknownEventTypes.Inc()
}

// RecordUnparseableTimestamp increments the skipped-for-window counter.
func RecordUnparseableTimestamp() {
	globalManager.unparseableTimestamps.Inc()
}

// RecordUnknownDriver increments the unresolved-driver counter.
func RecordUnknownDriver() {
	globalManager.unknownDrivers.Inc()
}

// RecordParsedDriverName increments the parsed-from-vehicle-number counter.
func RecordParsedDriverName() {
	globalManager.parsedDriverNames.Inc()
}

// RecordHeaderRowFiltered increments the header-sentinel counter.
func RecordHeaderRowFiltered() {
	globalManager.headerRowsFiltered.Inc()
}

// RecordDuplicateRawEvent increments the duplicate raw-event counter.
func RecordDuplicateRawEvent() {
	globalManager.duplicateRawEvents.Inc()
}

// RecordFindingExtracted increments the extracted-finding counter.
func RecordFindingExtracted() {
	globalManager.findingsExtracted.Inc()
}

// RecordCleanAssessment increments the clean-assessment counter.
func RecordCleanAssessment() {
	globalManager.cleanAssessments.Inc()
}

// UpdateRedFlagDrivers sets the red-flag driver gauge for the current run.
func UpdateRedFlagDrivers(count int) {
	globalManager.redFlagDrivers.Set(float64(count))
}

// UpdateEventsInWindow sets the in-window event gauge for the current run.
func UpdateEventsInWindow(count int) {
	globalManager.eventsInWindow.Set(float64(count))
}

// UpdateRepeatOffenders sets the repeat-offender gauge for the current run.
func UpdateRepeatOffenders(count int) {
	globalManager.repeatOffenders.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
