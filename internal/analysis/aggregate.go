package analysis

import (
	"sort"
	"sync"

	"github.com/Mortti11/Marjetas-project/internal/models"
)

// AggregateEnvironment averages each observable per relative-hour bucket
// across all events. Missing values are skipped; a bucket where every event
// lacks a value reports a nil mean. Rows come back sorted by offset.
func AggregateEnvironment(windows []models.WindowRow) []models.EnvironmentMean {
	out := []models.EnvironmentMean{}
	if len(windows) == 0 {
		return out
	}

	type bucket struct {
		rh, spread, vpd, wind, windDir, gusts, pressure []float64
	}
	buckets := map[float64]*bucket{}
	for _, row := range windows {
		b, ok := buckets[row.RelHour]
		if !ok {
			b = &bucket{}
			buckets[row.RelHour] = b
		}
		appendValue(&b.rh, row.RHPct)
		appendValue(&b.spread, row.DPSpreadC)
		appendValue(&b.vpd, row.VPDkPa)
		appendValue(&b.wind, row.WindSpeedKmh)
		appendValue(&b.windDir, row.WindDirectionDeg)
		appendValue(&b.gusts, row.WindGustsKmh)
		appendValue(&b.pressure, row.SurfacePressureHPa)
	}

	offsets := make([]float64, 0, len(buckets))
	for rel := range buckets {
		offsets = append(offsets, rel)
	}
	sort.Float64s(offsets)

	for _, rel := range offsets {
		b := buckets[rel]
		out = append(out, models.EnvironmentMean{
			RelHour:                rel,
			RHMean:                 meanOf(b.rh),
			DPSpreadMean:           meanOf(b.spread),
			VPDMean:                meanOf(b.vpd),
			WindMean:               meanOf(b.wind),
			WindDirectionDegMean:   meanOf(b.windDir),
			WindGustsKmhMean:       meanOf(b.gusts),
			SurfacePressureHPaMean: meanOf(b.pressure),
		})
	}
	return out
}

// AggregateFractions computes, per relative-hour bucket, the share of events
// that are wet and the share already dry, plus the median drying times over
// the events that produced one. Rows with a missing flag are skipped by the
// mean; a bucket with no flag values at all reports 0.0 (the zero fill
// happens after averaging, not before). Events that never dried are excluded
// from the medians, not imputed.
func AggregateFractions(windows []models.WindowRow) ([]models.FractionRow, models.DryingStats) {
	fractions := []models.FractionRow{}
	stats := models.DryingStats{}
	if len(windows) == 0 {
		return fractions, stats
	}

	type bucket struct {
		wet, dry []float64
	}
	buckets := map[float64]*bucket{}
	for _, row := range windows {
		b, ok := buckets[row.RelHour]
		if !ok {
			b = &bucket{}
			buckets[row.RelHour] = b
		}
		if row.WetOrRain != nil {
			b.wet = append(b.wet, boolToFloat(*row.WetOrRain))
		}
		if row.DryEnoughCity != nil {
			b.dry = append(b.dry, boolToFloat(*row.DryEnoughCity))
		}
	}

	offsets := make([]float64, 0, len(buckets))
	for rel := range buckets {
		offsets = append(offsets, rel)
	}
	sort.Float64s(offsets)

	for _, rel := range offsets {
		b := buckets[rel]
		fractions = append(fractions, models.FractionRow{
			RelHour: rel,
			WetFrac: zeroIfNil(meanOf(b.wet)),
			DryFrac: zeroIfNil(meanOf(b.dry)),
		})
	}

	drying := ComputeEventDryingTimes(windows)
	if len(drying) > 0 {
		fromStart := make([]float64, 0, len(drying))
		fromEnd := make([]float64, 0, len(drying))
		alias := make([]float64, 0, len(drying))
		for _, d := range drying {
			fromStart = append(fromStart, d.DryingHoursFromStart)
			fromEnd = append(fromEnd, d.DryingHoursFromEnd)
			alias = append(alias, d.DryingHours)
		}
		stats.MedianDryingH = medianOf(alias)
		stats.MedianDryingHFromStart = medianOf(fromStart)
		stats.MedianDryingHFromEnd = medianOf(fromEnd)
	}
	return fractions, stats
}

// BuildEventAggregates composes the full event-aggregate payload for one
// calendar date: detection over the whole record set so events spilling
// across midnight keep their identity, windows for the events starting on
// the date, and the environment, fraction, drying and heatmap aggregates
// computed concurrently. Site is left for the caller to fill. A date with
// no events yields the counters and an empty event list with null
// aggregate blocks.
func BuildEventAggregates(records []models.HourlyRecord, date string, preH, postH int, th Thresholds) models.EventAggregates {
	flagged := AddEnvironmentFlags(records, th)
	allEvents := DetectEvents(records, th.RainEventMMH, DefaultMaxGapHours)

	dateEvents := make([]models.Event, 0, len(allEvents))
	for _, ev := range allEvents {
		if ev.StartDate == date {
			dateEvents = append(dateEvents, ev)
		}
	}

	payload := models.EventAggregates{
		Date:        date,
		PreH:        preH,
		PostH:       postH,
		NEventsAll:  len(allEvents),
		NEventsDate: len(dateEvents),
		Events:      []models.EventWithDrying{},
	}
	if len(dateEvents) == 0 {
		return payload
	}

	windows := BuildEventWindows(flagged, dateEvents, preH, postH)

	var (
		wg          sync.WaitGroup
		environment []models.EnvironmentMean
		fractions   []models.FractionRow
		stats       models.DryingStats
		drying      []models.DryingTime
		heatmap     models.RHHeatmap
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		environment = AggregateEnvironment(windows)
	}()
	go func() {
		defer wg.Done()
		fractions, stats = AggregateFractions(windows)
	}()
	go func() {
		defer wg.Done()
		drying = ComputeEventDryingTimes(windows)
	}()
	go func() {
		defer wg.Done()
		heatmap = BuildRHHeatmap(records, dateEvents)
	}()
	wg.Wait()

	payload.Environment = environment
	payload.Fractions = &models.FractionsBlock{
		Records:                fractions,
		MedianDryingH:          stats.MedianDryingH,
		MedianDryingHFromStart: stats.MedianDryingHFromStart,
		MedianDryingHFromEnd:   stats.MedianDryingHFromEnd,
	}
	payload.Heatmap = &heatmap
	payload.Events = MergeDrying(dateEvents, drying)

	return payload
}

func appendValue(dst *[]float64, v *float64) {
	if v != nil {
		*dst = append(*dst, *v)
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1.0
	}
	return 0.0
}

func zeroIfNil(v *float64) float64 {
	if v == nil {
		return 0.0
	}
	return *v
}
