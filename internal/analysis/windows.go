package analysis

import (
	"sort"
	"time"

	"github.com/Mortti11/Marjetas-project/internal/models"
)

// Default horizon around an event start for window construction.
const (
	DefaultPreHours  = 6
	DefaultPostHours = 12
)

// BuildEventWindows materializes, for every event, a complete hourly axis
// from start-preH to start+postH inclusive and left-joins the flagged
// records onto it. The axis is authoritative: hours missing from the source
// produce rows with nil observables and nil flags but populated identity
// fields. Rows are ordered by (event id, timestamp) and every event
// contributes exactly preH+postH+1 of them.
func BuildEventWindows(records []models.FlaggedRecord, events []models.Event, preH, postH int) []models.WindowRow {
	rows := []models.WindowRow{}
	if len(records) == 0 || len(events) == 0 {
		return rows
	}

	byUnix := make(map[int64]models.FlaggedRecord, len(records))
	for _, rec := range records {
		byUnix[rec.Timestamp.Unix()] = rec
	}

	for _, ev := range events {
		axisStart := ev.StartTS.Add(-time.Duration(preH) * time.Hour)
		axisEnd := ev.StartTS.Add(time.Duration(postH) * time.Hour)
		for ts := axisStart; !ts.After(axisEnd); ts = ts.Add(time.Hour) {
			row := models.WindowRow{
				EventID:   ev.EventID,
				Timestamp: ts,
				RelHour:   ts.Sub(ev.StartTS).Hours(),
				StartTS:   ev.StartTS,
				EndTS:     ev.EndTS,
			}
			if rec, ok := byUnix[ts.Unix()]; ok {
				row.RHPct = rec.RHPct
				row.DPSpreadC = rec.DPSpreadC
				row.VPDkPa = rec.VPDkPa
				row.WindSpeedKmh = rec.WindSpeedKmh
				row.WindDirectionDeg = rec.WindDirectionDeg
				row.WindGustsKmh = rec.WindGustsKmh
				row.SurfacePressureHPa = rec.SurfacePressureHPa
				row.WetOrRain = models.Bool(rec.WetOrRain)
				row.DryEnoughCity = models.Bool(rec.DryEnoughCity)
			}
			rows = append(rows, row)
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].EventID != rows[j].EventID {
			return rows[i].EventID < rows[j].EventID
		}
		return rows[i].Timestamp.Before(rows[j].Timestamp)
	})
	return rows
}
