package analysis

import (
	"github.com/Mortti11/Marjetas-project/internal/models"
)

// AddEnvironmentFlags derives the five boolean environment flags for every
// record against the given threshold bundle. Missing rain and wind count as
// zero; a missing RH, spread or VPD fails whatever comparison needs it.
// The input slice is not modified.
func AddEnvironmentFlags(records []models.HourlyRecord, th Thresholds) []models.FlaggedRecord {
	out := make([]models.FlaggedRecord, 0, len(records))
	for _, rec := range records {
		rain := valueOrZero(rec.RainMMHour)
		wind := valueOrZero(rec.WindSpeedKmh)

		// Strictly greater than: rain exactly at the threshold is not rain.
		isRaining := rain > th.RainEventMMH && models.IsPrecipitating(rec.PtypeHour)

		leafWet := geq(rec.RHPct, th.LeafWetRHPct) && leq(rec.DPSpreadC, th.LeafWetDPSpreadMaxC)

		out = append(out, models.FlaggedRecord{
			HourlyRecord: rec,
			EnvironmentFlags: models.EnvironmentFlags{
				IsRaining:       isRaining,
				LeafWetness:     leafWet,
				WetOrRain:       isRaining || leafWet,
				DryEnoughStrict: dryEnough(rec, rain, wind, th.DryStrict),
				DryEnoughCity:   dryEnough(rec, rain, wind, th.DryCity),
			},
		})
	}
	return out
}

func dryEnough(rec models.HourlyRecord, rain, wind float64, p DryPolicy) bool {
	return rain <= p.RainMaxMMH &&
		leq(rec.RHPct, p.RHMaxPct) &&
		geq(rec.DPSpreadC, p.DPSpreadMinC) &&
		geq(rec.VPDkPa, p.VPDMinKPa) &&
		wind >= p.WindMinKmh
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0.0
	}
	return *v
}

// geq and leq treat a missing value as failing the comparison.
func geq(v *float64, cutoff float64) bool {
	return v != nil && *v >= cutoff
}

func leq(v *float64, cutoff float64) bool {
	return v != nil && *v <= cutoff
}
