package canonical_test

import (
	"testing"

	canonical "github.com/krhodes5267/daily-safety-report/internal/domain/canonical"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalize(t *testing.T) {
	Convey("Given the vendor type canonicalizer", t, func() {
		Convey("When normalizing known synonyms", func() {
			Convey("Then spelling variants collapse to one canonical type", func() {
				So(canonical.Normalize("Harsh Braking"), ShouldEqual, "hard_brake")
				So(canonical.Normalize("hard_brake"), ShouldEqual, "hard_brake")
				So(canonical.Normalize("  HARD-BRAKE  "), ShouldEqual, "hard_brake")
				So(canonical.Normalize("drowsy driving"), ShouldEqual, "drowsiness")
				So(canonical.Normalize("fcw"), ShouldEqual, "forward_collision_warning")
				So(canonical.Normalize("crash"), ShouldEqual, "collision")
			})
		})

		Convey("When normalizing an empty or blank type", func() {
			Convey("Then the unknown sentinel comes back", func() {
				So(canonical.Normalize(""), ShouldEqual, canonical.Unknown)
				So(canonical.Normalize("   "), ShouldEqual, canonical.Unknown)
			})
		})

		Convey("When normalizing an unmapped type", func() {
			got := canonical.Normalize("Weird New Behavior")

			Convey("Then it comes back in normalized spelling", func() {
				So(got, ShouldEqual, "weird_new_behavior")
			})

			Convey("And it is not part of the curated vocabulary", func() {
				So(canonical.Known(got), ShouldBeFalse)
			})
		})

		Convey("When normalizing twice", func() {
			Convey("Then the result is idempotent", func() {
				for _, raw := range []string{"Harsh Braking", "crash", "unmapped thing", ""} {
					once := canonical.Normalize(raw)
					So(canonical.Normalize(once), ShouldEqual, once)
				}
			})
		})
	})
}

func TestDisplayName(t *testing.T) {
	Convey("Given the display-name table", t, func() {
		Convey("When looking up a canonical type", func() {
			So(canonical.DisplayName("hard_brake", "Harsh Braking"), ShouldEqual, "Hard Brake")
			So(canonical.DisplayName("forward_collision_warning", ""), ShouldEqual, "Forward Collision Warning")
		})

		Convey("When the type is outside the vocabulary", func() {
			Convey("Then the raw type is title-cased as a fallback", func() {
				So(canonical.DisplayName("weird_new_behavior", "weird new behavior"), ShouldEqual, "Weird New Behavior")
			})

			Convey("And the canonical spelling is used when no raw type exists", func() {
				So(canonical.DisplayName("weird_new_behavior", ""), ShouldEqual, "Weird New Behavior")
			})
		})
	})
}

func TestSeverityRank(t *testing.T) {
	Convey("Given the severity ranking", t, func() {
		Convey("Then collision outranks everything", func() {
			So(canonical.SeverityRank("collision"), ShouldEqual, 1)
			So(canonical.SeverityRank("collision"), ShouldBeLessThan, canonical.SeverityRank("near_collision"))
			So(canonical.SeverityRank("drowsiness"), ShouldBeLessThan, canonical.SeverityRank("hard_brake"))
		})

		Convey("Then unranked types sort last within their tier", func() {
			So(canonical.SeverityRank("weird_new_behavior"), ShouldEqual, 50)
			So(canonical.SeverityRank("speed_violation"), ShouldBeLessThan, canonical.SeverityRank("weird_new_behavior"))
		})
	})
}
