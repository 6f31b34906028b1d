// Package roadrisk scores hourly records for road-surface slipperiness and
// summarizes high-risk stretches over forecast horizons.
package roadrisk

import (
	"sort"

	"github.com/Mortti11/Marjetas-project/internal/models"
)

// Freezing band for road surfaces: slightly below to slightly above zero is
// where melt/refreeze cycles make surfaces treacherous.
const (
	freezingMinC = -4.0
	freezingMaxC = 1.0
)

var commuteHours = map[int]bool{
	5: true, 6: true, 7: true, 8: true,
	16: true, 17: true, 18: true, 19: true,
}

// AddSlipperyRisk scores every record on a 0-100 scale and buckets it into
// low/medium/high. Records are scored in timestamp order: the wet-history
// component looks at the current and two preceding rows of the sorted series,
// with missing history treated as dry. Timestamps must already be in local
// time for the commute component to line up with rush hours. A missing
// temperature is outside the freezing band; missing RH or spread disables the
// black-ice component.
func AddSlipperyRisk(records []models.FlaggedRecord) []models.RiskRow {
	rows := make([]models.FlaggedRecord, len(records))
	copy(rows, records)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Timestamp.Before(rows[j].Timestamp)
	})

	out := make([]models.RiskRow, 0, len(rows))
	for i, rec := range rows {
		freezing := rec.TempC != nil && *rec.TempC >= freezingMinC && *rec.TempC <= freezingMaxC

		recentWet := rec.WetOrRain
		if i >= 1 && rows[i-1].WetOrRain {
			recentWet = true
		}
		if i >= 2 && rows[i-2].WetOrRain {
			recentWet = true
		}

		blackIce := freezing && recentWet &&
			rec.RHPct != nil && *rec.RHPct >= 95.0 &&
			rec.DPSpreadC != nil && *rec.DPSpreadC <= 1.0

		snowOrMix := rec.PtypeHour == models.PtypeSnow || rec.PtypeHour == models.PtypeMix
		commute := commuteHours[rec.Timestamp.Hour()]

		score := 0
		if recentWet {
			score += 30
		}
		if freezing {
			score += 30
		}
		if blackIce {
			score += 20
		}
		if snowOrMix {
			score += 10
		}
		if commute {
			score += 10
		}
		if score > 100 {
			score = 100
		}

		out = append(out, models.RiskRow{
			FlaggedRecord: rec,
			SlipperyScore: score,
			SlipperyLevel: levelFor(score),
		})
	}
	return out
}

func levelFor(score int) string {
	switch {
	case score >= 70:
		return models.RiskHigh
	case score >= 40:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}
