// Package pairing merges the ground sensor, precipitation station and wind
// streams into the hourly pair records the analysis layer consumes.
package pairing

import (
	"sort"
	"time"

	"github.com/Mortti11/Marjetas-project/internal/models"
	"github.com/Mortti11/Marjetas-project/internal/physics"
)

// interpolationLimit caps how many consecutive missing hours get filled from
// each side of an interior gap.
const interpolationLimit = 3

// BuildPairHourly builds one hourly pair record per hour between the first
// and last sensor reading. Sensor rows are floored to the hour with the first
// row winning duplicates; dewpoint, spread and VPD derive from the raw
// readings before interpolation; all five sensor series then fill interior
// gaps linearly, at most interpolationLimit hours from each gap edge. Station
// hours left-join onto the axis (missing hour: nil rain, NoData type). Wind
// hours left-join when supplied; without a wind stream every row reports
// wind_speed_kmh 0.0 and nil for the other wind and pressure fields.
// The sensor stream alone defines the axis: no sensor data, no rows.
func BuildPairHourly(sensor []models.SensorHour, station []models.StationHour, wind []models.WindHour) []models.HourlyRecord {
	out := []models.HourlyRecord{}
	if len(sensor) == 0 {
		return out
	}

	sensorByHour := map[int64]models.SensorHour{}
	hours := []time.Time{}
	for _, row := range sortedSensor(sensor) {
		ts := floorHour(row.Timestamp)
		key := ts.Unix()
		if _, ok := sensorByHour[key]; ok {
			continue
		}
		sensorByHour[key] = row
		hours = append(hours, ts)
	}

	first, last := hours[0], hours[len(hours)-1]
	axis := []time.Time{}
	for ts := first; !ts.After(last); ts = ts.Add(time.Hour) {
		axis = append(axis, ts)
	}

	temp := make([]*float64, len(axis))
	rh := make([]*float64, len(axis))
	dew := make([]*float64, len(axis))
	spread := make([]*float64, len(axis))
	vpd := make([]*float64, len(axis))
	for i, ts := range axis {
		row, ok := sensorByHour[ts.Unix()]
		if !ok {
			continue
		}
		temp[i] = row.TempC
		rh[i] = row.RHPct
		if row.TempC != nil && row.RHPct != nil {
			d := physics.DewpointC(*row.TempC, *row.RHPct)
			dew[i] = models.Float(d)
			spread[i] = models.Float(*row.TempC - d)
			vpd[i] = models.Float(physics.VPDkPa(*row.TempC, *row.RHPct))
		}
	}
	for _, series := range [][]*float64{temp, rh, dew, spread, vpd} {
		interpolateInside(series, interpolationLimit)
	}

	stationByHour := map[int64]models.StationHour{}
	for _, row := range sortedStation(station) {
		key := floorHour(row.Timestamp).Unix()
		if _, ok := stationByHour[key]; !ok {
			stationByHour[key] = row
		}
	}
	windByHour := map[int64]models.WindHour{}
	for _, row := range sortedWind(wind) {
		key := floorHour(row.Timestamp).Unix()
		if _, ok := windByHour[key]; !ok {
			windByHour[key] = row
		}
	}
	haveWind := len(wind) > 0

	for i, ts := range axis {
		rec := models.HourlyRecord{
			Timestamp: ts,
			TempC:     temp[i],
			RHPct:     rh[i],
			DewpointC: dew[i],
			DPSpreadC: spread[i],
			VPDkPa:    vpd[i],
			PtypeHour: models.PtypeNoData,
		}
		if st, ok := stationByHour[ts.Unix()]; ok {
			rec.RainMMHour = st.RainMMHour
			if st.PtypeHour != "" {
				rec.PtypeHour = st.PtypeHour
			}
		}
		if haveWind {
			if w, ok := windByHour[ts.Unix()]; ok {
				rec.WindSpeedKmh = w.WindSpeedKmh
				rec.WindDirectionDeg = w.WindDirectionDeg
				rec.WindGustsKmh = w.WindGustsKmh
				rec.SurfacePressureHPa = w.SurfacePressureHPa
			}
		} else {
			rec.WindSpeedKmh = models.Float(0.0)
		}
		out = append(out, rec)
	}
	return out
}

// interpolateInside fills interior gaps of a series linearly between its
// surrounding values. Positions further than limit hours from both gap edges
// stay nil, as do leading and trailing runs with only one side anchored.
func interpolateInside(values []*float64, limit int) {
	anchors := []int{}
	for i, v := range values {
		if v != nil {
			anchors = append(anchors, i)
		}
	}
	for ai := 0; ai+1 < len(anchors); ai++ {
		a, b := anchors[ai], anchors[ai+1]
		if b-a <= 1 {
			continue
		}
		va, vb := *values[a], *values[b]
		for k := a + 1; k < b; k++ {
			if k-a > limit && b-k > limit {
				continue
			}
			frac := float64(k-a) / float64(b-a)
			values[k] = models.Float(va + (vb-va)*frac)
		}
	}
}

func sortedSensor(rows []models.SensorHour) []models.SensorHour {
	out := make([]models.SensorHour, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out
}

func sortedStation(rows []models.StationHour) []models.StationHour {
	out := make([]models.StationHour, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out
}

func sortedWind(rows []models.WindHour) []models.WindHour {
	out := make([]models.WindHour, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out
}

func floorHour(ts time.Time) time.Time {
	return time.Date(ts.Year(), ts.Month(), ts.Day(), ts.Hour(), 0, 0, 0, ts.Location())
}
