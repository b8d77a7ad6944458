package service_test

import (
	"context"
	"testing"
	"time"

	service "github.com/krhodes5267/daily-safety-report/internal/app"
	"github.com/krhodes5267/daily-safety-report/internal/config"
	"github.com/krhodes5267/daily-safety-report/internal/domain/enrich"
	"github.com/krhodes5267/daily-safety-report/internal/domain/findings"
	"github.com/krhodes5267/daily-safety-report/internal/domain/model"
	"github.com/krhodes5267/daily-safety-report/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func newService(t *testing.T) *service.Service {
	t.Helper()
	opts, err := service.FromConfig(config.New())
	if err != nil {
		t.Fatalf("service options: %v", err)
	}
	return service.New(opts...)
}

func cameraRaw(id, typ, vehicle, ts string) enrich.RawEvent {
	return enrich.RawEvent{
		"id":         id,
		"type":       typ,
		"start_time": ts,
		"vehicle":    map[string]any{"number": vehicle},
	}
}

func TestServiceNew(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
		})
	})

	Convey("Given options built from configuration", t, func() {
		opts, err := service.FromConfig(config.New())

		Convey("Then they build without error", func() {
			So(err, ShouldBeNil)
			So(service.New(opts...), ShouldNotBeNil)
		})
	})

	Convey("Given a configuration with a bad timezone", t, func() {
		cfg := config.New()
		cfg.Timezone = "Nowhere/Null"
		_, err := service.FromConfig(cfg)

		Convey("Then option building fails", func() {
			So(err, ShouldNotBeNil)
		})
	})
}

func TestDailyCamera(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service and a day of camera events", t, func() {
		svc := newService(t)

		raw := []enrich.RawEvent{
			cameraRaw("evt-1", "Harsh Braking", "MID-RAT-12", "2025-03-14T15:00:00Z"),
			cameraRaw("evt-2", "distraction", "MID-RAT-12", "2025-03-14T20:00:00Z"),
			cameraRaw("evt-3", "hard_accel", "POL-88", "2025-03-14T18:00:00Z"),
			// Out of window
			cameraRaw("evt-4", "hard_brake", "MID-RAT-12", "2025-03-12T15:00:00Z"),
			// Unparseable timestamp, kept but not window-filtered
			cameraRaw("evt-5", "drowsiness", "POL-88", "sometime"),
		}

		day := time.Date(2025, time.March, 14, 12, 0, 0, 0, time.UTC)
		report := svc.DailyCamera(ctx, day, raw)

		Convey("Then the out-of-window event is excluded and the timeless one kept", func() {
			So(report.Breakdown.Total, ShouldEqual, 4)
			So(report.EventsUnfiltered, ShouldEqual, 1)
		})

		Convey("Then the tier breakdown reflects the classifications", func() {
			So(report.Breakdown.Red, ShouldEqual, 2)    // distraction, drowsiness
			So(report.Breakdown.Orange, ShouldEqual, 1) // hard_brake
			So(report.Breakdown.Yellow, ShouldEqual, 1) // hard_accel
			So(report.Breakdown.ByType["Hard Brake"], ShouldEqual, 1)
		})

		Convey("Then events group under their resolved divisions", func() {
			So(report.Divisions, ShouldNotBeEmpty)
			So(report.Divisions[0].Division, ShouldEqual, "Rathole")

			var divisions []string
			for _, g := range report.Divisions {
				divisions = append(divisions, g.Division)
			}
			So(divisions, ShouldContain, "Poly Pipe")
		})

		Convey("Then the date and window are stamped", func() {
			So(report.Date, ShouldEqual, "2025-03-14")
			So(report.WindowEnd.After(report.WindowStart), ShouldBeTrue)
		})
	})

	Convey("Given no events at all", t, func() {
		svc := newService(t)
		report := svc.DailyCamera(context.Background(), time.Now(), nil)

		Convey("Then the report is empty but well-formed", func() {
			So(report.Breakdown.Total, ShouldEqual, 0)
			So(report.Divisions, ShouldBeEmpty)
			So(report.RepeatOffenders, ShouldBeEmpty)
		})
	})
}

func TestDailySpeeding(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service and speeding events", t, func() {
		svc := newService(t)

		mk := func(id, vehicle string, overKMH float64) enrich.RawEvent {
			return enrich.RawEvent{
				"id":                            id,
				"start_time":                    "2025-03-14T15:00:00Z",
				"max_vehicle_speed":             100.0 + overKMH,
				"min_posted_speed_limit_in_kph": 100.0,
				"max_over_speed_in_kph":         overKMH,
				"vehicle":                       map[string]any{"number": vehicle},
			}
		}
		raw := []enrich.RawEvent{
			mk("s-1", "MID-RAT-12", 10),
			mk("s-2", "MID-RAT-12", 40),
			mk("s-3", "MID-RAT-12", 25),
		}

		day := time.Date(2025, time.March, 14, 12, 0, 0, 0, time.UTC)
		report := svc.DailySpeeding(ctx, day, raw)

		Convey("Then per-yard events order by overspeed descending", func() {
			So(report.Divisions, ShouldHaveLength, 1)
			events := report.Divisions[0].Yards[0].Events
			So(events, ShouldHaveLength, 3)
			So(events[0].OverspeedMPH, ShouldBeGreaterThan, events[1].OverspeedMPH)
			So(events[1].OverspeedMPH, ShouldBeGreaterThan, events[2].OverspeedMPH)
		})
	})
}

func TestWeekly(t *testing.T) {
	ctx := context.Background()

	Convey("Given a week of cross-source activity", t, func() {
		svc := newService(t)

		// Previous week relative to Thursday 2025-03-20 is March 10-16.
		now := time.Date(2025, time.March, 20, 10, 0, 0, 0, time.UTC)

		camera := []enrich.RawEvent{
			cameraRaw("c-1", "distraction", "MID-RAT-12 Sam Verde", "2025-03-11T15:00:00Z"),
			cameraRaw("c-2", "hard_brake", "MID-RAT-12 Sam Verde", "2025-03-12T15:00:00Z"),
			// Saturday event
			cameraRaw("c-3", "hard_brake", "POL-88 - Yem Bobey", "2025-03-15T17:00:00Z"),
		}
		speeding := []enrich.RawEvent{
			{
				"id":                            "s-1",
				"start_time":                    "2025-03-13T15:00:00Z",
				"max_vehicle_speed":             150.0,
				"min_posted_speed_limit_in_kph": 110.0,
				"max_over_speed_in_kph":         40.0,
				"vehicle":                       map[string]any{"number": "MID-RAT-12 Sam Verde"},
			},
		}
		kpa := []model.NormalizedEvent{
			{Driver: "Yem Bobey", EventType: "incident", DisplayName: "Property Damage"},
		}
		rows := []findings.AssessmentRow{
			{Fields: map[string]string{
				"report number":  "KPA-00001",
				"observer":       "Michael Salazar",
				"PPE compliance": "Operator missing safety glasses, corrected on site",
			}},
		}

		briefing := svc.Weekly(ctx, now, camera, speeding, kpa, rows)

		Convey("Then the window is the completed prior week", func() {
			So(briefing.WindowStart.Format("2006-01-02"), ShouldEqual, "2025-03-10")
			So(briefing.WindowEnd.Format("2006-01-02"), ShouldEqual, "2025-03-16")
		})

		Convey("Then both drivers come out flagged", func() {
			// Sam Verde: camera + speeding. Yem Bobey: camera + incident.
			So(briefing.RedFlags, ShouldHaveLength, 2)
			So(briefing.RedFlags[0].Name, ShouldEqual, "Sam Verde")
			So(briefing.RedFlags[0].Total, ShouldEqual, 3)
			So(briefing.RedFlags[1].Name, ShouldEqual, "Yem Bobey")
			So(briefing.RedFlags[1].KPACount, ShouldEqual, 1)
		})

		Convey("Then the weekend camera event is counted", func() {
			So(briefing.WeekendCameraEvents, ShouldEqual, 1)
		})

		Convey("Then the scorecard covers the canonical yards", func() {
			So(briefing.Scorecard, ShouldNotBeEmpty)
		})

		Convey("Then the assessment finding flows through", func() {
			So(briefing.Assessments.WithFindings, ShouldHaveLength, 1)
			So(briefing.Assessments.WithFindings[0].Status, ShouldEqual, model.StatusCorrectedOnSite)
		})

		Convey("Then the time buckets account for every in-window camera event", func() {
			total := 0
			for _, n := range briefing.TimeBuckets.Buckets {
				total += n
			}
			So(total, ShouldEqual, 3)
		})
	})

	Convey("Given events whose timestamps cannot be parsed", t, func() {
		svc := newService(t)
		now := time.Date(2025, time.March, 20, 10, 0, 0, 0, time.UTC)

		camera := []enrich.RawEvent{
			cameraRaw("c-bad", "hard_brake", "MID-RAT-12", "sometime"),
		}
		speeding := []enrich.RawEvent{
			{
				"id":                "s-bad",
				"start_time":        "unknown",
				"max_vehicle_speed": 120.0,
				"vehicle":           map[string]any{"number": "MID-RAT-12"},
			},
		}

		briefing := svc.Weekly(ctx, now, camera, speeding, nil, nil)

		Convey("Then both are kept and surfaced in the unfiltered count", func() {
			So(briefing.EventsUnfiltered, ShouldEqual, 2)
			So(briefing.CameraBreakdown.Total, ShouldEqual, 1)
			So(briefing.SpeedingBreakdown.Total, ShouldEqual, 1)
		})
	})
}

func TestFromConfigRoster(t *testing.T) {
	ctx := context.Background()

	Convey("Given configuration carrying the fleet roster tables", t, func() {
		cfg := config.New()
		cfg.DriverLookup = map[string]string{"CAS-101": "Rosa Delgado"}
		cfg.VehicleRules = []config.VehicleRule{
			{Number: "CAS-101", Division: "Casing", Yard: "Midland"},
		}
		cfg.VehicleCounts = map[string]int{"Midland": 10}

		opts, err := service.FromConfig(cfg)
		So(err, ShouldBeNil)
		svc := service.New(opts...)

		raw := []enrich.RawEvent{
			cameraRaw("r-1", "hard_brake", "CAS-101", "2025-03-11T15:00:00Z"),
			cameraRaw("r-2", "distraction", "CAS-101", "2025-03-11T20:00:00Z"),
		}

		Convey("When a daily report runs over that vehicle's events", func() {
			day := time.Date(2025, time.March, 11, 12, 0, 0, 0, time.UTC)
			report := svc.DailyCamera(ctx, day, raw)

			Convey("Then the driver resolves from the lookup map", func() {
				So(report.RepeatOffenders, ShouldHaveLength, 1)
				So(report.RepeatOffenders[0].Name, ShouldEqual, "Rosa Delgado")
			})

			Convey("Then the vehicle rule assigns its organizational unit", func() {
				So(report.Divisions, ShouldHaveLength, 1)
				So(report.Divisions[0].Division, ShouldEqual, "Casing")
				So(report.Divisions[0].Yards[0].Yard, ShouldEqual, "Midland")
			})
		})

		Convey("When the weekly briefing runs over the same week", func() {
			now := time.Date(2025, time.March, 20, 10, 0, 0, 0, time.UTC)
			briefing := svc.Weekly(ctx, now, raw, nil, nil, nil)

			Convey("Then the scorecard rates against the configured fleet size", func() {
				So(briefing.Scorecard, ShouldNotBeEmpty)
				So(briefing.Scorecard[0].Yard, ShouldEqual, "Midland")
				So(briefing.Scorecard[0].VehicleCount, ShouldEqual, 10)
				So(briefing.Scorecard[0].Rate, ShouldEqual, 0.2)
			})
		})
	})
}
