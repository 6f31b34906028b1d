package roadrisk

import (
	"sort"
	"time"

	"github.com/Mortti11/Marjetas-project/internal/models"
)

// ExtractHighRiskPeriods groups the high-level hours before end into
// contiguous runs. A new run starts whenever consecutive high hours are more
// than one hour apart. DurationH is the number of hours in the run, not the
// elapsed span.
func ExtractHighRiskPeriods(rows []models.RiskRow, end time.Time) []models.HighRiskPeriod {
	high := []models.RiskRow{}
	for _, row := range rows {
		if row.Timestamp.Before(end) && row.SlipperyLevel == models.RiskHigh {
			high = append(high, row)
		}
	}
	sort.SliceStable(high, func(i, j int) bool {
		return high[i].Timestamp.Before(high[j].Timestamp)
	})

	periods := []models.HighRiskPeriod{}
	var current *models.HighRiskPeriod
	for _, row := range high {
		if current != nil && row.Timestamp.Sub(current.EndTS) > time.Hour {
			periods = append(periods, *current)
			current = nil
		}
		if current == nil {
			current = &models.HighRiskPeriod{StartTS: row.Timestamp}
		}
		current.EndTS = row.Timestamp
		current.DurationH++
		if row.SlipperyScore > current.MaxScore {
			current.MaxScore = row.SlipperyScore
		}
	}
	if current != nil {
		periods = append(periods, *current)
	}
	return periods
}

// ComputeRoadStats summarizes risk over the 24h and 72h horizons measured
// from the earliest scored hour. Empty input yields zeroed counters and
// empty period lists.
func ComputeRoadStats(rows []models.RiskRow, events []models.EventWithDrying) models.RoadStats {
	stats := models.RoadStats{
		HighRiskPeriods24h: []models.HighRiskPeriod{},
		HighRiskPeriods72h: []models.HighRiskPeriod{},
	}
	if len(rows) == 0 {
		return stats
	}

	ref := rows[0].Timestamp
	for _, row := range rows {
		if row.Timestamp.Before(ref) {
			ref = row.Timestamp
		}
	}
	h24 := ref.Add(24 * time.Hour)
	h72 := ref.Add(72 * time.Hour)

	for _, row := range rows {
		if row.Timestamp.Before(h24) {
			if row.SlipperyLevel == models.RiskHigh {
				stats.HighRiskHours24h++
			}
			if row.SlipperyScore > stats.MaxSlipperyScore24h {
				stats.MaxSlipperyScore24h = row.SlipperyScore
			}
		}
		if row.Timestamp.Before(h72) && row.SlipperyLevel == models.RiskHigh {
			stats.HighRiskHours72h++
		}
	}
	for _, ev := range events {
		if ev.StartTS.Before(h72) {
			stats.TotalEvents72h++
		}
	}

	stats.HighRiskPeriods24h = ExtractHighRiskPeriods(rows, h24)
	stats.HighRiskPeriods72h = ExtractHighRiskPeriods(rows, h72)
	return stats
}
