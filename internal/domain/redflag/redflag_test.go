package redflag_test

import (
	"context"
	"testing"

	"github.com/krhodes5267/daily-safety-report/internal/domain/model"
	redflag "github.com/krhodes5267/daily-safety-report/internal/domain/redflag"
	. "github.com/smartystreets/goconvey/convey"
)

func camEvent(driver, typ, display string) model.NormalizedEvent {
	return model.NormalizedEvent{
		Driver:      driver,
		Vehicle:     "RT-1104",
		Yard:        "Midland",
		EventType:   typ,
		DisplayName: display,
		Tier:        model.TierOrange,
	}
}

func spdEvent(driver string, over, speed float64) model.NormalizedEvent {
	return model.NormalizedEvent{
		Driver:       driver,
		Vehicle:      "RT-1104",
		Yard:         "Midland",
		EventType:    "speed_violation",
		DisplayName:  "Speed Violation",
		Tier:         model.TierYellow,
		OverspeedMPH: over,
		SpeedMPH:     speed,
	}
}

func TestDetect(t *testing.T) {
	ctx := context.Background()

	Convey("Given a detector with default thresholds", t, func() {
		d := redflag.NewDetector()

		Convey("When a driver appears in both camera and speeding streams", func() {
			flags := d.Detect(ctx,
				[]model.NormalizedEvent{camEvent("Marcus Webb", "hard_brake", "Hard Brake")},
				[]model.NormalizedEvent{spdEvent("Marcus Webb", 18, 80)},
				nil,
			)

			Convey("Then the driver is flagged", func() {
				So(flags, ShouldHaveLength, 1)
				So(flags[0].Name, ShouldEqual, "Marcus Webb")
				So(flags[0].Total, ShouldEqual, 2)
			})
		})

		Convey("When a driver has four camera events and nothing else", func() {
			events := []model.NormalizedEvent{
				camEvent("Dale Trujillo", "hard_brake", "Hard Brake"),
				camEvent("Dale Trujillo", "hard_brake", "Hard Brake"),
				camEvent("Dale Trujillo", "hard_accel", "Hard Accel"),
				camEvent("Dale Trujillo", "hard_brake", "Hard Brake"),
			}
			flags := d.Detect(ctx, events, nil, nil)

			Convey("Then the camera count alone flags them", func() {
				So(flags, ShouldHaveLength, 1)
				So(flags[0].CameraCount, ShouldEqual, 4)
			})

			Convey("And with no fatigue or distraction pattern the action is the generic review", func() {
				So(flags[0].RecommendedAction, ShouldEqual, redflag.ActionGenericReview)
			})

			Convey("And the camera summary counts by type", func() {
				So(flags[0].CameraSummary, ShouldEqual, "Hard Brake x3, Hard Accel x1")
			})
		})

		Convey("When a driver has two camera events and nothing else", func() {
			flags := d.Detect(ctx,
				[]model.NormalizedEvent{
					camEvent("Dale Trujillo", "hard_brake", "Hard Brake"),
					camEvent("Dale Trujillo", "hard_brake", "Hard Brake"),
				},
				nil, nil,
			)

			Convey("Then no rule fires", func() {
				So(flags, ShouldBeEmpty)
			})
		})

		Convey("When a driver has five speeding events", func() {
			events := []model.NormalizedEvent{
				spdEvent("Rick Ostrander", 16, 70),
				spdEvent("Rick Ostrander", 22, 82),
				spdEvent("Rick Ostrander", 12, 65),
				spdEvent("Rick Ostrander", 25, 88),
				spdEvent("Rick Ostrander", 10, 60),
			}
			flags := d.Detect(ctx, nil, events, nil)

			Convey("Then the speeding count flags them with the speed action", func() {
				So(flags, ShouldHaveLength, 1)
				So(flags[0].RecommendedAction, ShouldEqual, redflag.ActionSpeed)
			})

			Convey("And the summary names the worst single event", func() {
				So(flags[0].SpeedingSummary, ShouldEqual, "5 events, worst: +25.0 over at 88.0 mph")
			})
		})

		Convey("When a camera event coincides with an incident", func() {
			flags := d.Detect(ctx,
				[]model.NormalizedEvent{camEvent("Kim Pham", "hard_brake", "Hard Brake")},
				nil,
				[]model.NormalizedEvent{{Driver: "Kim Pham", EventType: "incident"}},
			)

			So(flags, ShouldHaveLength, 1)
			So(flags[0].KPACount, ShouldEqual, 1)
		})

		Convey("When the fatigue pattern is present", func() {
			events := []model.NormalizedEvent{
				camEvent("Dale Trujillo", "distraction", "Distraction"),
				camEvent("Dale Trujillo", "drowsiness", "Drowsiness"),
				camEvent("Dale Trujillo", "hard_brake", "Hard Brake"),
			}
			flags := d.Detect(ctx, events, nil, nil)

			Convey("Then fatigue outranks the distraction pattern", func() {
				So(flags[0].RecommendedAction, ShouldEqual, redflag.ActionFatigue)
			})
		})

		Convey("When only the distraction pattern is present", func() {
			events := []model.NormalizedEvent{
				camEvent("Dale Trujillo", "distraction", "Distraction"),
				camEvent("Dale Trujillo", "cell_phone", "Cell Phone"),
				camEvent("Dale Trujillo", "hard_brake", "Hard Brake"),
			}
			flags := d.Detect(ctx, events, nil, nil)

			So(flags[0].RecommendedAction, ShouldEqual, redflag.ActionDistraction)
		})

		Convey("When events carry the Unknown sentinel", func() {
			flags := d.Detect(ctx,
				[]model.NormalizedEvent{
					camEvent(model.UnknownDriver, "hard_brake", "Hard Brake"),
					camEvent(model.UnknownDriver, "hard_brake", "Hard Brake"),
					camEvent(model.UnknownDriver, "hard_brake", "Hard Brake"),
				},
				[]model.NormalizedEvent{spdEvent(model.UnknownDriver, 30, 95)},
				nil,
			)

			Convey("Then the sentinel is never aggregated into a flag", func() {
				So(flags, ShouldBeEmpty)
			})
		})

		Convey("When several drivers are flagged", func() {
			flags := d.Detect(ctx,
				[]model.NormalizedEvent{
					camEvent("Marcus Webb", "hard_brake", "Hard Brake"),
					camEvent("Dale Trujillo", "hard_brake", "Hard Brake"),
					camEvent("Dale Trujillo", "hard_accel", "Hard Accel"),
				},
				[]model.NormalizedEvent{
					spdEvent("Marcus Webb", 18, 80),
					spdEvent("Dale Trujillo", 16, 75),
					spdEvent("Dale Trujillo", 20, 85),
				},
				nil,
			)

			Convey("Then ordering is by total descending", func() {
				So(flags, ShouldHaveLength, 2)
				So(flags[0].Name, ShouldEqual, "Dale Trujillo")
				So(flags[0].Total, ShouldEqual, 4)
				So(flags[1].Name, ShouldEqual, "Marcus Webb")
			})
		})

		Convey("When every stream is empty", func() {
			flags := d.Detect(ctx, nil, nil, nil)

			Convey("Then the result is empty, not nil panic", func() {
				So(flags, ShouldBeEmpty)
			})
		})
	})

	Convey("Given raised thresholds", t, func() {
		d := redflag.NewDetector(
			redflag.WithCameraFlagMin(5),
			redflag.WithSpeedingFlagMin(8),
		)

		Convey("Then four camera events no longer flag", func() {
			events := []model.NormalizedEvent{
				camEvent("Dale Trujillo", "hard_brake", "Hard Brake"),
				camEvent("Dale Trujillo", "hard_brake", "Hard Brake"),
				camEvent("Dale Trujillo", "hard_brake", "Hard Brake"),
				camEvent("Dale Trujillo", "hard_brake", "Hard Brake"),
			}
			So(d.Detect(context.Background(), events, nil, nil), ShouldBeEmpty)
		})
	})

	Convey("Given a lowered camera threshold", t, func() {
		d := redflag.NewDetector(redflag.WithCameraFlagMin(2))

		Convey("When a driver has two camera events plus a speeding event", func() {
			flags := d.Detect(ctx,
				[]model.NormalizedEvent{
					camEvent("Marcus Webb", "hard_brake", "Hard Brake"),
					camEvent("Marcus Webb", "hard_accel", "Hard Accel"),
				},
				[]model.NormalizedEvent{spdEvent("Marcus Webb", 18, 80)},
				nil,
			)

			Convey("Then the action rule honors the configured threshold too", func() {
				So(flags, ShouldHaveLength, 1)
				So(flags[0].RecommendedAction, ShouldEqual, redflag.ActionMultipleCategory)
			})
		})
	})
}
