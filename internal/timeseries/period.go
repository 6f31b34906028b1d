package timeseries

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/Mortti11/Marjetas-project/internal/models"
)

// Supported aggregation frequency codes.
const (
	FreqDaily   = "D"
	FreqWeekly  = "W"
	FreqMonthly = "M"
)

// ErrInvalidFreq is returned for an unsupported aggregation frequency code.
var ErrInvalidFreq = errors.New(`invalid freq: use "D", "W" or "M"`)

// AggregateByPeriod rolls hourly records up into calendar periods: D keys by
// date, W by the Monday of the ISO week, M by year-month. Per period it
// reports the row count, mean temperature and VPD (2 decimals), the share of
// hours at or above 90% RH (1 decimal), the rain total and the count of hours
// with rain. Rows sort by period key. An empty input aggregates to an empty
// slice; only an unsupported freq is an error.
func AggregateByPeriod(records []models.HourlyRecord, freq string) ([]models.PeriodSummary, error) {
	if freq != FreqDaily && freq != FreqWeekly && freq != FreqMonthly {
		return nil, fmt.Errorf("freq %q: %w", freq, ErrInvalidFreq)
	}

	type bucket struct {
		rows      int
		temps     []float64
		vpds      []float64
		rhHigh    int
		rainTotal float64
		rainHours int
	}
	buckets := map[string]*bucket{}
	for _, rec := range records {
		key := periodKey(rec.Timestamp, freq)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		b.rows++
		if rec.TempC != nil {
			b.temps = append(b.temps, *rec.TempC)
		}
		if rec.VPDkPa != nil {
			b.vpds = append(b.vpds, *rec.VPDkPa)
		}
		if rec.RHPct != nil && *rec.RHPct >= 90.0 {
			b.rhHigh++
		}
		if rec.RainMMHour != nil {
			b.rainTotal += *rec.RainMMHour
			if *rec.RainMMHour > 0.0 {
				b.rainHours++
			}
		}
	}

	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]models.PeriodSummary, 0, len(keys))
	for _, key := range keys {
		b := buckets[key]
		row := models.PeriodSummary{
			Period:      key,
			Rows:        b.rows,
			RainTotalMM: b.rainTotal,
			RainHours:   b.rainHours,
		}
		if len(b.temps) > 0 {
			row.TMean = models.Float(roundTo(stat.Mean(b.temps, nil), 2))
		}
		if len(b.vpds) > 0 {
			row.VPDMean = models.Float(roundTo(stat.Mean(b.vpds, nil), 2))
		}
		// Share over all rows in the period; a missing RH counts as below 90.
		row.RH90Pct = models.Float(roundTo(100.0*float64(b.rhHigh)/float64(b.rows), 1))
		out = append(out, row)
	}
	return out, nil
}

func periodKey(ts time.Time, freq string) string {
	switch freq {
	case FreqWeekly:
		daysPastMonday := (int(ts.Weekday()) + 6) % 7
		return ts.AddDate(0, 0, -daysPastMonday).Format("2006-01-02")
	case FreqMonthly:
		return ts.Format("2006-01")
	default:
		return ts.Format("2006-01-02")
	}
}

func roundTo(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}
