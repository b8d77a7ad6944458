// Package feed decodes already-fetched vendor payloads into the raw record
// shapes the enrichment layer consumes.
//
// Both vendors wrap records in single-key envelopes
// ({"driver_performance_event": {...}}, {"speeding_event": {...}}), and the
// EHS CSV export repeats its header as a data row on page boundaries. Those
// transport quirks end here; nothing downstream sees them.
package feed

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/krhodes5267/daily-safety-report/internal/domain/enrich"
	"github.com/krhodes5267/daily-safety-report/internal/domain/findings"
	"github.com/krhodes5267/daily-safety-report/internal/domain/model"
	"github.com/krhodes5267/daily-safety-report/pkg/logger"
	"github.com/krhodes5267/daily-safety-report/pkg/metrics"
)

// headerSentinel is the value the EHS export repeats in the report-number
// column when a header row leaks into the data.
const headerSentinel = "Report Number"

// Envelope keys per event family.
const (
	cameraListKey   = "driver_performance_events"
	cameraItemKey   = "driver_performance_event"
	speedingListKey = "speeding_events"
	speedingItemKey = "speeding_event"
)

// Decoder decodes vendor payloads and suppresses duplicate event ids across
// payload pages. Pagination in the source system can return overlapping
// pages, so the same vendor event id may appear twice.
type Decoder struct {
	mu   sync.Mutex
	seen map[string]struct{}
	log  logger.Logger
}

// Option applies a configuration option to the Decoder.
type Option func(*Decoder)

// WithLogger sets a custom logger for the decoder.
func WithLogger(log logger.Logger) Option {
	return func(d *Decoder) {
		if log != nil {
			d.log = log
		}
	}
}

// NewDecoder constructs a Decoder with an empty seen set.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{
		seen: map[string]struct{}{},
		log:  logger.Named("feed"),
	}

	// Apply all options
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Reset clears the duplicate-suppression state between runs.
func (d *Decoder) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seen = map[string]struct{}{}
}

// seenAndRecord reports whether id was already decoded this run and records
// it if not. Events without a vendor id are never suppressed.
func (d *Decoder) seenAndRecord(id string) bool {
	if id == "" {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.seen[id]; ok {
		return true
	}
	d.seen[id] = struct{}{}
	return false
}

// CameraEvents decodes one camera/driver-performance payload page.
func (d *Decoder) CameraEvents(ctx context.Context, r io.Reader) ([]enrich.RawEvent, error) {
	return d.decodeEnveloped(ctx, r, cameraListKey, cameraItemKey)
}

// SpeedingEvents decodes one speeding-event payload page.
func (d *Decoder) SpeedingEvents(ctx context.Context, r io.Reader) ([]enrich.RawEvent, error) {
	return d.decodeEnveloped(ctx, r, speedingListKey, speedingItemKey)
}

// decodeEnveloped handles both payload families: a top-level object holding
// a list under listKey, each element possibly wrapped under itemKey. A bare
// JSON array is accepted too.
func (d *Decoder) decodeEnveloped(ctx context.Context, r io.Reader, listKey, itemKey string) ([]enrich.RawEvent, error) {
	var payload any
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodePayload, err)
	}

	var items []any
	switch p := payload.(type) {
	case map[string]any:
		list, ok := p[listKey].([]any)
		if !ok {
			return nil, fmt.Errorf("%w: missing %q list", ErrDecodePayload, listKey)
		}
		items = list
	case []any:
		items = p
	default:
		return nil, fmt.Errorf("%w: unexpected top-level %T", ErrDecodePayload, payload)
	}

	events := make([]enrich.RawEvent, 0, len(items))
	duplicates := 0
	for _, item := range items {
		wrapper, ok := item.(map[string]any)
		if !ok {
			continue
		}
		evt := wrapper
		if inner, ok := wrapper[itemKey].(map[string]any); ok {
			evt = inner
		}
		raw := enrich.RawEvent(evt)
		if d.seenAndRecord(raw.ID()) {
			duplicates++
			metrics.RecordDuplicateRawEvent()
			continue
		}
		events = append(events, raw)
	}

	if duplicates > 0 {
		d.log.Warn(ctx, "duplicate raw events suppressed",
			logger.Int("duplicates", duplicates),
			logger.String("family", listKey),
		)
	}
	return events, nil
}

// AssessmentRows reads a flattened EHS form-response CSV export. The
// repeated "Report Number" header-sentinel rows are filtered out as
// duplicate headers, not data. Rows carry the export's column order so
// finding excerpts come out in source order.
func (d *Decoder) AssessmentRows(ctx context.Context, r io.Reader) ([]findings.AssessmentRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // vendor exports ragged rows

	header, err := reader.Read()
	if err == io.EOF {
		return []findings.AssessmentRow{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadCSV, err)
	}

	rows := []findings.AssessmentRow{}
	filtered := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrReadCSV, err)
		}

		row := findings.AssessmentRow{
			Columns: header,
			Fields:  map[string]string{},
		}
		for i, col := range header {
			if i < len(record) {
				row.Fields[col] = record[i]
			}
		}
		if row.Get("report number") == headerSentinel {
			filtered++
			metrics.RecordHeaderRowFiltered()
			continue
		}
		rows = append(rows, row)
	}

	if filtered > 0 {
		d.log.Warn(ctx, "header-sentinel rows filtered from assessment export",
			logger.Int("rows", filtered),
		)
	}
	return rows, nil
}

// incidentColumn returns the first non-empty value among candidate column
// names, case-insensitively.
func incidentColumn(row map[string]string, names ...string) string {
	for _, name := range names {
		for col, val := range row {
			if strings.EqualFold(strings.TrimSpace(col), name) && strings.TrimSpace(val) != "" {
				return strings.TrimSpace(val)
			}
		}
	}
	return ""
}

// IncidentEvents reads the EHS incident export and adapts each row into the
// minimal event shape the cross-source aggregator consumes. Rows with no
// resolvable person name are dropped rather than attributed to the Unknown
// sentinel.
func (d *Decoder) IncidentEvents(ctx context.Context, r io.Reader) ([]model.NormalizedEvent, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return []model.NormalizedEvent{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadCSV, err)
	}

	events := []model.NormalizedEvent{}
	dropped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrReadCSV, err)
		}

		row := map[string]string{}
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		if row["report number"] == headerSentinel {
			metrics.RecordHeaderRowFiltered()
			continue
		}

		name := incidentColumn(row, "employee name", "driver", "name")
		if name == "" {
			dropped++
			continue
		}
		events = append(events, model.NormalizedEvent{
			EventID:      incidentColumn(row, "report number", "id"),
			Driver:       name,
			DriverSource: model.DriverFromEmbedded,
			Yard:         incidentColumn(row, "yard", "location"),
			EventType:    "incident",
			DisplayName:  incidentColumn(row, "incident type", "description"),
		})
	}

	if dropped > 0 {
		d.log.Warn(ctx, "incident rows without a person name dropped",
			logger.Int("rows", dropped),
		)
	}
	return events, nil
}
