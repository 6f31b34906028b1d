package analysis

import (
	"math"
	"sort"
	"time"

	"github.com/Mortti11/Marjetas-project/internal/models"
)

// DefaultMaxGapHours is the default bridging limit: qualifying hours this
// many hours apart or closer belong to the same event.
const DefaultMaxGapHours = 4

// ClassifyEventIntensity buckets an event's total precipitation.
func ClassifyEventIntensity(mm float64) string {
	if math.IsNaN(mm) {
		return models.IntensityUnknown
	}
	switch {
	case mm < 5.0:
		return models.IntensityLight
	case mm < 20.0:
		return models.IntensityModerate
	case mm < 40.0:
		return models.IntensityHeavy
	default:
		return models.IntensityExtreme
	}
}

// DetectEvents segments the hourly stream into precipitation events. An hour
// qualifies when its rain amount (missing counts as zero) reaches
// rainThreshold or its precipitation type is an active one. Qualifying hours
// are scanned in timestamp order; a gap larger than maxGapHours closes the
// running event. Each event is then enriched by re-slicing the original
// record set over the inclusive [start, end] span, so bridged non-qualifying
// hours contribute to the totals. Ids start at 1 on every call. No
// qualifying hours means an empty, non-nil result.
func DetectEvents(records []models.HourlyRecord, rainThreshold float64, maxGapHours int) []models.Event {
	events := []models.Event{}
	if len(records) == 0 {
		return events
	}

	sorted := make([]models.HourlyRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var qualifying []time.Time
	for _, rec := range sorted {
		if valueOrZero(rec.RainMMHour) >= rainThreshold || models.IsPrecipitating(rec.PtypeHour) {
			qualifying = append(qualifying, rec.Timestamp)
		}
	}
	if len(qualifying) == 0 {
		return events
	}

	type span struct {
		id    int
		start time.Time
		end   time.Time
	}
	var spans []span
	id := 1
	start, last := qualifying[0], qualifying[0]
	for _, ts := range qualifying[1:] {
		if ts.Sub(last).Hours() <= float64(maxGapHours) {
			last = ts
			continue
		}
		spans = append(spans, span{id: id, start: start, end: last})
		id++
		start, last = ts, ts
	}
	spans = append(spans, span{id: id, start: start, end: last})

	for _, sp := range spans {
		var (
			rows      float64
			mmTotal   float64
			typeCount = map[string]int{}
		)
		for _, rec := range sorted {
			if rec.Timestamp.Before(sp.start) {
				continue
			}
			if rec.Timestamp.After(sp.end) {
				break
			}
			rows++
			if rec.RainMMHour != nil {
				mmTotal += *rec.RainMMHour
			}
			typeCount[rec.PtypeHour]++
		}
		events = append(events, models.Event{
			EventID:        sp.id,
			StartTS:        sp.start,
			EndTS:          sp.end,
			StartDate:      sp.start.Format("2006-01-02"),
			DurationH:      rows,
			MMTotal:        mmTotal,
			PtypeMain:      dominantType(typeCount),
			EventIntensity: ClassifyEventIntensity(mmTotal),
		})
	}
	return events
}

// Unflag drops the derived flags, recovering the raw hourly records for
// stages that re-slice the original stream.
func Unflag(flagged []models.FlaggedRecord) []models.HourlyRecord {
	out := make([]models.HourlyRecord, len(flagged))
	for i, f := range flagged {
		out[i] = f.HourlyRecord
	}
	return out
}

// dominantType picks the most frequent label, breaking count ties by
// ascending label so repeated runs agree.
func dominantType(counts map[string]int) string {
	if len(counts) == 0 {
		return "Unknown"
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	best := names[0]
	for _, name := range names[1:] {
		if counts[name] > counts[best] {
			best = name
		}
	}
	return best
}
