package analysis

import (
	"github.com/Mortti11/Marjetas-project/internal/models"
)

// BuildRHHeatmap computes mean relative humidity per hour of day for every
// calendar date that has at least one event start. Dates keep their first
// appearance order in the event list. Cells with no measurements are nil,
// never an error; the hour axis is always 0..23.
func BuildRHHeatmap(records []models.HourlyRecord, events []models.Event) models.RHHeatmap {
	hm := models.RHHeatmap{
		Dates:    []string{},
		Hours:    make([]int, 24),
		RHMatrix: [][]*float64{},
	}
	for h := 0; h < 24; h++ {
		hm.Hours[h] = h
	}
	if len(records) == 0 || len(events) == 0 {
		return hm
	}

	seen := map[string]bool{}
	for _, ev := range events {
		if !seen[ev.StartDate] {
			seen[ev.StartDate] = true
			hm.Dates = append(hm.Dates, ev.StartDate)
		}
	}

	type cell struct {
		sum float64
		n   int
	}
	cells := map[string]*[24]cell{}
	for _, rec := range records {
		date := rec.Timestamp.Format("2006-01-02")
		if !seen[date] || rec.RHPct == nil {
			continue
		}
		day, ok := cells[date]
		if !ok {
			day = &[24]cell{}
			cells[date] = day
		}
		h := rec.Timestamp.Hour()
		day[h].sum += *rec.RHPct
		day[h].n++
	}

	for _, date := range hm.Dates {
		row := make([]*float64, 24)
		if day, ok := cells[date]; ok {
			for h := 0; h < 24; h++ {
				if day[h].n > 0 {
					row[h] = models.Float(day[h].sum / float64(day[h].n))
				}
			}
		}
		hm.RHMatrix = append(hm.RHMatrix, row)
	}
	return hm
}
