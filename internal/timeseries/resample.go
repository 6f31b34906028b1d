// Package timeseries resamples raw station observations to the hourly grid
// and rolls hourly records up into calendar periods.
package timeseries

import (
	"sort"
	"time"

	"github.com/Mortti11/Marjetas-project/internal/models"
)

// BucketPrecipCode maps a station precipitation code to a type label.
// Codes follow the WMO-style station encoding: 0 dry, 60 rain, 61..69
// mixed phases, 70 snow. Anything else is Other; a missing code is NoData.
func BucketPrecipCode(code *float64) string {
	if code == nil {
		return models.PtypeNoData
	}
	c := int(*code)
	switch {
	case c == 0:
		return models.PtypeDry
	case c == 60:
		return models.PtypeRain
	case c > 60 && c < 70:
		return models.PtypeMix
	case c == 70:
		return models.PtypeSnow
	default:
		return models.PtypeOther
	}
}

// ResampleHourly aggregates sub-hourly station observations onto a dense
// hourly axis from the first to the last observed hour. Rain amounts are
// treated as 0 when missing, clipped at 0 and summed per hour; the hour's
// precipitation code is the most frequent one, ties going to the smallest
// code. Hours without any observation report 0 rain and NoData.
func ResampleHourly(observations []models.StationObservation) []models.StationHour {
	out := []models.StationHour{}
	if len(observations) == 0 {
		return out
	}

	obs := make([]models.StationObservation, len(observations))
	copy(obs, observations)
	sort.SliceStable(obs, func(i, j int) bool {
		return obs[i].Timestamp.Before(obs[j].Timestamp)
	})

	type bucket struct {
		rain  float64
		codes map[float64]int
	}
	buckets := map[int64]*bucket{}
	for _, o := range obs {
		key := floorHour(o.Timestamp).Unix()
		b, ok := buckets[key]
		if !ok {
			b = &bucket{codes: map[float64]int{}}
			buckets[key] = b
		}
		if o.RainMM != nil && *o.RainMM > 0.0 {
			b.rain += *o.RainMM
		}
		if o.PrecipCode != nil {
			b.codes[*o.PrecipCode]++
		}
	}

	first := floorHour(obs[0].Timestamp)
	last := floorHour(obs[len(obs)-1].Timestamp)
	for ts := first; !ts.After(last); ts = ts.Add(time.Hour) {
		hour := models.StationHour{
			Timestamp:  ts,
			RainMMHour: models.Float(0.0),
			PtypeHour:  models.PtypeNoData,
		}
		if b, ok := buckets[ts.Unix()]; ok {
			hour.RainMMHour = models.Float(b.rain)
			hour.PtypeHour = BucketPrecipCode(modeCode(b.codes))
		}
		out = append(out, hour)
	}
	return out
}

// modeCode picks the most frequent code, smallest first on ties. Returns
// nil when no codes were observed in the hour.
func modeCode(counts map[float64]int) *float64 {
	var best *float64
	bestN := 0
	for code, n := range counts {
		if n > bestN || (n == bestN && best != nil && code < *best) {
			c := code
			best = &c
			bestN = n
		}
	}
	return best
}

func floorHour(ts time.Time) time.Time {
	return time.Date(ts.Year(), ts.Month(), ts.Day(), ts.Hour(), 0, 0, 0, ts.Location())
}
