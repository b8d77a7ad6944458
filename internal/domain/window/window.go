// Package window computes timezone-correct reporting windows and time-of-day
// classifications.
//
// Vendor timestamps arrive in UTC while report boundaries are local calendar
// days, so every membership check here happens in the business's local zone.
package window

import (
	"time"

	"github.com/krhodes5267/daily-safety-report/internal/domain/model"
)

// Hour boundaries for time-of-day buckets.
const (
	morningStartHour   = 6
	afternoonStartHour = 12
	eveningStartHour   = 18
)

// Window is a closed local-time interval [Start, End].
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window, inclusive on both
// ends. The comparison converts t into the window's zone first.
func (w Window) Contains(t time.Time) bool {
	local := t.In(w.Start.Location())
	return !local.Before(w.Start) && !local.After(w.End)
}

// Day returns the closed interval [00:00:00, 23:59:59] local time for the
// calendar date of d interpreted in loc.
func Day(d time.Time, loc *time.Location) Window {
	local := d.In(loc)
	year, month, day := local.Date()
	return Window{
		Start: time.Date(year, month, day, 0, 0, 0, 0, loc),
		End:   time.Date(year, month, day, 23, 59, 59, 0, loc),
	}
}

// PreviousWeek returns the Monday-through-Sunday window for the ISO week
// before the one containing now. When now falls on a Monday the window is
// still the week before: the calculation always looks back at least one
// full week, never the week in progress.
func PreviousWeek(now time.Time, loc *time.Location) Window {
	local := now.In(loc)
	year, month, day := local.Date()
	today := time.Date(year, month, day, 0, 0, 0, 0, loc)

	daysSinceMonday := int(today.Weekday()) - int(time.Monday)
	if daysSinceMonday < 0 {
		daysSinceMonday += 7 // Sunday
	}

	var lastMonday time.Time
	if daysSinceMonday == 0 {
		lastMonday = today.AddDate(0, 0, -7)
	} else {
		lastMonday = today.AddDate(0, 0, -(daysSinceMonday + 7))
	}
	lastSunday := lastMonday.AddDate(0, 0, 6)

	return Window{
		Start: lastMonday,
		End:   time.Date(lastSunday.Year(), lastSunday.Month(), lastSunday.Day(), 23, 59, 59, 0, loc),
	}
}

// Bucket assigns a local timestamp to its six-hour slice of the day.
func Bucket(local time.Time) model.TimeBucket {
	hour := local.Hour()
	switch {
	case hour >= morningStartHour && hour < afternoonStartHour:
		return model.BucketMorning
	case hour >= afternoonStartHour && hour < eveningStartHour:
		return model.BucketAfternoon
	case hour >= eveningStartHour:
		return model.BucketEvening
	default:
		return model.BucketOvernight
	}
}

// IsWeekend reports whether the local timestamp falls on Saturday or Sunday.
func IsWeekend(local time.Time) bool {
	wd := local.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
