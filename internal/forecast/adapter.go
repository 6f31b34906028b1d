// Package forecast adapts Open-Meteo hourly payloads into the pair-hourly
// schema and runs them through the analysis pipeline: flags, slipperiness
// risk and rain events with drying estimates.
package forecast

import (
	"sort"
	"time"

	"github.com/Mortti11/Marjetas-project/internal/models"
	"github.com/Mortti11/Marjetas-project/internal/physics"
	"github.com/Mortti11/Marjetas-project/pkg/client"
)

// hourLayout matches Open-Meteo hourly time strings, which are wall-clock
// times in whatever timezone the request asked for.
const hourLayout = "2006-01-02T15:04"

// Adapt converts an hourly block into records in the site's local timezone.
// The dewpoint spread and VPD are derived here since the upstream payload
// does not carry them; wind gusts are not available from this source and
// stay nil. Rows whose time string does not parse are dropped.
func Adapt(hourly client.HourlySeries, loc *time.Location) []models.HourlyRecord {
	records := make([]models.HourlyRecord, 0, len(hourly.Time))

	for i, raw := range hourly.Time {
		ts, err := time.ParseInLocation(hourLayout, raw, loc)
		if err != nil {
			continue
		}

		rec := models.HourlyRecord{
			Timestamp:          ts,
			TempC:              seriesAt(hourly.Temperature2M, i),
			RHPct:              seriesAt(hourly.RelativeHumidity2M, i),
			DewpointC:          seriesAt(hourly.Dewpoint2M, i),
			RainMMHour:         seriesAt(hourly.Rain, i),
			WindSpeedKmh:       seriesAt(hourly.WindSpeed10M, i),
			WindDirectionDeg:   seriesAt(hourly.WindDirection10M, i),
			SurfacePressureHPa: seriesAt(hourly.SurfacePressure, i),
		}

		if rec.TempC != nil && rec.DewpointC != nil {
			rec.DPSpreadC = models.Float(*rec.TempC - *rec.DewpointC)
		}
		if rec.TempC != nil && rec.RHPct != nil {
			rec.VPDkPa = models.Float(physics.VPDkPa(*rec.TempC, *rec.RHPct))
		}
		rec.PtypeHour = ptypeFor(rec.RainMMHour, seriesAt(hourly.Snowfall, i), rec.TempC)

		records = append(records, rec)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.Before(records[j].Timestamp)
	})
	return records
}

// ptypeFor labels the hour from rain and snow amounts plus temperature.
// Dry hours inside the [-2, 1] C band also label as Mix; consumers that
// need actual precipitation must check the rain amount as well.
func ptypeFor(rain, snow, temp *float64) string {
	r := amount(rain)
	s := amount(snow)

	switch {
	case s > 0 && temp != nil && *temp <= -0.5:
		return models.PtypeSnow
	case r > 0 && temp != nil && *temp >= 1.0:
		return models.PtypeRain
	case r > 0 && s > 0:
		return models.PtypeMix
	case temp != nil && *temp >= -2.0 && *temp <= 1.0:
		return models.PtypeMix
	default:
		return models.PtypeNoData
	}
}

// seriesAt reads one value from a parallel array, tolerating arrays shorter
// than the time axis.
func seriesAt(values []*float64, i int) *float64 {
	if i >= len(values) {
		return nil
	}
	return values[i]
}

func amount(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
