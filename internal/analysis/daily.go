package analysis

import (
	"math"

	"github.com/Mortti11/Marjetas-project/internal/models"
)

// ComputeDailySummary aggregates the flagged records falling on one calendar
// date (YYYY-MM-DD, compared in the records' own timezone). A date with no
// rows reports Rows=0 and nil everywhere else rather than failing.
func ComputeDailySummary(records []models.FlaggedRecord, date string) models.DailySummary {
	sum := models.DailySummary{Date: date}

	var (
		temps, rhs  []float64
		rainTotal   float64
		rainHours   int
		wetHours    int
		cityHours   int
		strictHours int
	)
	for _, rec := range records {
		if rec.Timestamp.Format("2006-01-02") != date {
			continue
		}
		sum.Rows++
		if rec.TempC != nil {
			temps = append(temps, *rec.TempC)
		}
		if rec.RHPct != nil {
			rhs = append(rhs, *rec.RHPct)
		}
		if rec.RainMMHour != nil {
			rainTotal += *rec.RainMMHour
			if *rec.RainMMHour > 0.0 {
				rainHours++
			}
		}
		if rec.WetOrRain {
			wetHours++
		}
		if rec.DryEnoughCity {
			cityHours++
		}
		if rec.DryEnoughStrict {
			strictHours++
		}
	}
	if sum.Rows == 0 {
		return sum
	}

	sum.TMean = meanOf(temps)
	sum.TMin, sum.TMax = minMax(temps)
	sum.RHMean = meanOf(rhs)
	sum.RHMin, sum.RHMax = minMax(rhs)
	sum.RainTotalMM = models.Float(rainTotal)
	sum.RainHours = intPtr(rainHours)
	sum.WetHours = intPtr(wetHours)
	sum.DryCityHours = intPtr(cityHours)
	sum.DryStrictHours = intPtr(strictHours)
	return sum
}

func minMax(values []float64) (*float64, *float64) {
	if len(values) == 0 {
		return nil, nil
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return models.Float(lo), models.Float(hi)
}

func intPtr(v int) *int {
	return &v
}
