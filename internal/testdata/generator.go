// Package testdata generates synthetic vendor payloads shaped like the real
// camera, telematics, and assessment feeds. Used by the CLI's generate mode
// and by integration-style tests that need realistic inputs without live
// vendor credentials.
package testdata

import (
	"context"
	"crypto/rand"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/krhodes5267/daily-safety-report/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
)

// Constants for camera event generation ranges. Vendor speeds are km/h;
// the enrichment layer converts.
const (
	cameraSpeedMinKMH   = 15.0
	cameraSpeedRangeKMH = 55.0
	durationMinSec      = 3
	durationRangeSec    = 117
)

// Constants for speeding event generation ranges (km/h).
const (
	postedLimitMinKMH   = 50.0
	postedLimitRangeKMH = 60.0
	overMinKMH          = 5.0
	overRangeKMH        = 35.0
)

// cameraEventTypes is the weighted pool the generator draws camera behavior
// types from. Repetition sets the weight; raw vendor spellings are used on
// purpose so generated payloads exercise canonicalization.
var cameraEventTypes = []string{
	"hard_brake", "hard_brake", "hard_brake",
	"Harsh Braking",
	"distraction", "distraction",
	"cell_phone",
	"drowsiness",
	"following_distance", "following_distance",
	"stop_sign_violation",
	"lane_swerving",
	"seatbelt_compliance",
	"hard_accel",
	"rolling_stop",
	"obstruction", // unmapped on purpose
}

// driverPool supplies embedded driver sub-objects. Empty entries produce
// events where the driver must come from lookup or vehicle-number parsing.
var driverPool = []struct {
	first, last string
}{
	{"Marcus", "Webb"},
	{"Dale", "Trujillo"},
	{"", ""},
	{"Yem", "Bobey"},
	{"Rick", "Ostrander"},
	{"", ""},
}

// vehiclePool mixes plain unit numbers, prefixed numbers, casing-convention
// numbers, and the free-text "number - name" form seen in the real fleet.
var vehiclePool = []string{
	"RT-1104",
	"TK-2218",
	"5036C",
	"POL-2324PP - Yem Bobey",
	"88812",
	"RT-1159",
	"CR-443",
	"7741C",
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// pick returns a uniformly random element of pool.
func pick[T any](pool []T) T {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(pool))))
	return pool[n.Int64()]
}

// Generator produces synthetic payloads inside a fixed time window so the
// report pipeline's window filter accepts them.
type Generator struct {
	start time.Time
	end   time.Time
	log   logger.Logger
}

// New constructs a Generator emitting timestamps in [start, end).
func New(start, end time.Time) *Generator {
	return &Generator{
		start: start,
		end:   end,
		log:   logger.Named("testdata"),
	}
}

// randomTimestamp returns an RFC3339 timestamp inside the window.
func (g *Generator) randomTimestamp() string {
	span := g.end.Sub(g.start)
	offset := time.Duration(getRandomFloat() * float64(span))
	return g.start.Add(offset).UTC().Format(time.RFC3339)
}

// WriteCameraPayload writes a camera payload page with n events in the
// vendor envelope shape.
func (g *Generator) WriteCameraPayload(ctx context.Context, w io.Writer, n int) error {
	g.log.Info(ctx, "generating camera payload", logger.Int("events", n))

	items := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		drv := pick(driverPool)
		evt := map[string]any{
			"id":          uuid.New().String(),
			"type":        pick(cameraEventTypes),
			"start_time":  g.randomTimestamp(),
			"start_speed": cameraSpeedMinKMH + getRandomFloat()*cameraSpeedRangeKMH,
			"duration":    durationMinSec + int(getRandomFloat()*durationRangeSec),
			"vehicle": map[string]any{
				"number": pick(vehiclePool),
			},
		}
		if drv.first != "" {
			evt["driver"] = map[string]any{
				"first_name": drv.first,
				"last_name":  drv.last,
			}
		}
		items = append(items, map[string]any{"driver_performance_event": evt})
	}

	payload := map[string]any{"driver_performance_events": items}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		return fmt.Errorf("failed to encode camera payload: %w", err)
	}
	return nil
}

// WriteSpeedingPayload writes a speeding payload page with n events. Vendor
// speed fields are km/h.
func (g *Generator) WriteSpeedingPayload(ctx context.Context, w io.Writer, n int) error {
	g.log.Info(ctx, "generating speeding payload", logger.Int("events", n))

	items := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		posted := postedLimitMinKMH + getRandomFloat()*postedLimitRangeKMH
		over := overMinKMH + getRandomFloat()*overRangeKMH
		evt := map[string]any{
			"id":                            uuid.New().String(),
			"start_time":                    g.randomTimestamp(),
			"max_vehicle_speed":             posted + over,
			"min_posted_speed_limit_in_kph": posted,
			"max_over_speed_in_kph":         over,
			"duration":                      durationMinSec + int(getRandomFloat()*durationRangeSec),
			"start_lat":                     31.0 + getRandomFloat()*4.0,
			"start_lon":                     -103.0 - getRandomFloat()*3.0,
			"vehicle": map[string]any{
				"number": pick(vehiclePool),
			},
		}
		items = append(items, map[string]any{"speeding_event": evt})
	}

	payload := map[string]any{"speeding_events": items}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		return fmt.Errorf("failed to encode speeding payload: %w", err)
	}
	return nil
}

// assessmentResponses is the pool of free-text field values for generated
// assessment rows, mixing clean observations and real findings.
var assessmentResponses = []string{
	"All members wearing proper PPE",
	"Housekeeping good, site clean and organized",
	"Spill kit missing from unit, replaced on site",
	"Fire extinguisher gauge in red, corrected on site",
	"Operator not wearing safety glasses, coached and corrected",
	"JSA missing signatures, requires follow-up",
	"No unsafe conditions observed",
	"Handrail damaged on stairs, work order submitted for repair",
}

var assessmentObservers = []string{
	"D. Trujillo", "M. Webb", "R. Ostrander", "K. Pham",
}

// WriteAssessmentCSV writes n synthetic assessment rows, injecting a
// header-sentinel row partway through the way the real paginated export
// does.
func (g *Generator) WriteAssessmentCSV(ctx context.Context, w io.Writer, n int) error {
	g.log.Info(ctx, "generating assessment export", logger.Int("rows", n))

	cw := csv.NewWriter(w)
	header := []string{"report number", "observer", "date", "PPE compliance", "Housekeeping"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write assessment header: %w", err)
	}

	for i := 0; i < n; i++ {
		if i > 0 && i%25 == 0 {
			// Page-boundary artifact from the real export.
			if err := cw.Write([]string{"Report Number", "Observer", "Date", "PPE compliance", "Housekeeping"}); err != nil {
				return fmt.Errorf("failed to write sentinel row: %w", err)
			}
		}
		row := []string{
			fmt.Sprintf("KPA-%05d", i+1),
			pick(assessmentObservers),
			g.randomTimestamp(),
			pick(assessmentResponses),
			pick(assessmentResponses),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write assessment row %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush assessment export: %w", err)
	}
	return nil
}
