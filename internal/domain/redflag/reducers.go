package redflag

import (
	"math"
	"sort"

	"github.com/krhodes5267/daily-safety-report/internal/domain/canonical"
	"github.com/krhodes5267/daily-safety-report/internal/domain/model"
	"github.com/krhodes5267/daily-safety-report/internal/domain/window"
	"github.com/krhodes5267/daily-safety-report/pkg/metrics"
)

// drowsyPMNoteMin is the minimum afternoon/evening drowsiness count before
// the scheduling note fires.
const drowsyPMNoteMin = 2

// SortBySeverity stable-sorts events by (tier order, severity rank), most
// severe first. Events with equal tier and rank keep their relative order.
func SortBySeverity(events []model.NormalizedEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Tier.Order() != events[j].Tier.Order() {
			return events[i].Tier.Order() < events[j].Tier.Order()
		}
		return canonical.SeverityRank(events[i].EventType) < canonical.SeverityRank(events[j].EventType)
	})
}

// SortByOverspeed stable-sorts events by overspeed descending, the order
// used by the speeding report family.
func SortByOverspeed(events []model.NormalizedEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].OverspeedMPH > events[j].OverspeedMPH
	})
}

// RepeatOffenders counts events per named driver within a single source and
// reports drivers at or above minEvents. The minimum differs by report
// cadence (2 for daily contexts, 3 for the weekly speeding table) and is
// supplied by the caller. When maxResults > 0 the list is ordered by worst
// single-event severity before truncating; otherwise by count descending.
func RepeatOffenders(events []model.NormalizedEvent, minEvents, maxResults int) []model.RepeatOffender {
	byDriver := map[string][]model.NormalizedEvent{}
	var order []string
	for _, evt := range events {
		if evt.Driver == model.UnknownDriver {
			continue
		}
		if _, ok := byDriver[evt.Driver]; !ok {
			order = append(order, evt.Driver)
		}
		byDriver[evt.Driver] = append(byDriver[evt.Driver], evt)
	}

	offenders := []model.RepeatOffender{}
	for _, name := range order {
		evts := byDriver[name]
		if len(evts) < minEvents {
			continue
		}
		offenders = append(offenders, model.RepeatOffender{
			Name:        name,
			Count:       len(evts),
			TypeSummary: cameraSummary(evts),
			WorstTier:   worstTier(evts),
			Events:      evts,
		})
	}

	if maxResults > 0 {
		// Capped lists surface the worst single event first, not the
		// highest count.
		sort.SliceStable(offenders, func(i, j int) bool {
			ri, rj := worstSeverityRank(offenders[i].Events), worstSeverityRank(offenders[j].Events)
			if offenders[i].WorstTier.Order() != offenders[j].WorstTier.Order() {
				return offenders[i].WorstTier.Order() < offenders[j].WorstTier.Order()
			}
			if ri != rj {
				return ri < rj
			}
			return offenders[i].Count > offenders[j].Count
		})
		if len(offenders) > maxResults {
			offenders = offenders[:maxResults]
		}
	} else {
		sort.SliceStable(offenders, func(i, j int) bool {
			if offenders[i].Count != offenders[j].Count {
				return offenders[i].Count > offenders[j].Count
			}
			return offenders[i].WorstTier.Order() < offenders[j].WorstTier.Order()
		})
	}

	metrics.UpdateRepeatOffenders(len(offenders))
	return offenders
}

func worstTier(events []model.NormalizedEvent) model.Tier {
	worst := model.TierYellow
	for _, evt := range events {
		if evt.Tier.Order() < worst.Order() {
			worst = evt.Tier
		}
	}
	return worst
}

func worstSeverityRank(events []model.NormalizedEvent) int {
	best := math.MaxInt
	for _, evt := range events {
		if r := canonical.SeverityRank(evt.EventType); r < best {
			best = r
		}
	}
	return best
}

// YardScorecard computes events-per-vehicle for each yard in yardOrder and
// ranks yards descending by rate. The sort is stable, so equal rates keep
// the original yard order as the tie-break.
func YardScorecard(camera, speeding []model.NormalizedEvent, vehicleCounts map[string]int, yardOrder []string) []model.YardScore {
	cameraByYard := map[string]int{}
	for _, evt := range camera {
		cameraByYard[evt.Yard]++
	}
	speedingByYard := map[string]int{}
	for _, evt := range speeding {
		speedingByYard[evt.Yard]++
	}

	scores := make([]model.YardScore, 0, len(yardOrder))
	for _, yard := range yardOrder {
		vehicles := vehicleCounts[yard]
		total := cameraByYard[yard] + speedingByYard[yard]
		rate := 0.0
		if vehicles > 0 {
			rate = math.Round(float64(total)/float64(vehicles)*100) / 100
		}
		scores = append(scores, model.YardScore{
			Yard:          yard,
			VehicleCount:  vehicles,
			CameraCount:   cameraByYard[yard],
			SpeedingCount: speedingByYard[yard],
			Total:         total,
			Rate:          rate,
		})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Rate > scores[j].Rate
	})
	for i := range scores {
		scores[i].Rank = i + 1
	}
	return scores
}

// TimeBuckets counts camera events per six-hour local bucket and emits the
// drowsiness scheduling note when afternoon/evening drowsiness outweighs
// the morning/overnight count.
func TimeBuckets(camera []model.NormalizedEvent) model.TimeBucketAnalysis {
	analysis := model.TimeBucketAnalysis{
		Buckets: map[model.TimeBucket]int{
			model.BucketMorning:   0,
			model.BucketAfternoon: 0,
			model.BucketEvening:   0,
			model.BucketOvernight: 0,
		},
		Notes: []string{},
	}

	drowsyByBucket := map[model.TimeBucket]int{}
	for _, evt := range camera {
		if !evt.TimeValid {
			continue
		}
		bucket := window.Bucket(evt.TimestampLocal)
		analysis.Buckets[bucket]++
		if evt.EventType == "drowsiness" {
			drowsyByBucket[bucket]++
		}
	}

	pm := drowsyByBucket[model.BucketAfternoon] + drowsyByBucket[model.BucketEvening]
	am := drowsyByBucket[model.BucketMorning] + drowsyByBucket[model.BucketOvernight]
	if pm > am && pm >= drowsyPMNoteMin {
		analysis.Notes = append(analysis.Notes,
			"Drowsiness events concentrated in afternoon/evening - consider scheduling adjustments")
	}

	return analysis
}
