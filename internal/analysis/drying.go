package analysis

import (
	"sort"

	"github.com/Mortti11/Marjetas-project/internal/models"
)

// ComputeEventDryingTimes finds, per event, the first post-start window hour
// where the city drying policy holds and expresses it relative to the event
// start and end. FromEnd goes negative when drying conditions appear before
// the event's last qualifying hour; that is expected and never clamped.
// Events with no qualifying hour inside the window contribute no row at all,
// which callers must read as "undetermined within horizon", not as zero.
func ComputeEventDryingTimes(windows []models.WindowRow) []models.DryingTime {
	out := []models.DryingTime{}
	if len(windows) == 0 {
		return out
	}

	grouped := map[int][]models.WindowRow{}
	order := []int{}
	for _, row := range windows {
		if _, seen := grouped[row.EventID]; !seen {
			order = append(order, row.EventID)
		}
		grouped[row.EventID] = append(grouped[row.EventID], row)
	}
	sort.Ints(order)

	for _, id := range order {
		rows := grouped[id]
		sort.Slice(rows, func(i, j int) bool {
			return rows[i].Timestamp.Before(rows[j].Timestamp)
		})
		for _, row := range rows {
			if row.RelHour < 0 {
				continue
			}
			if row.DryEnoughCity == nil || !*row.DryEnoughCity {
				continue
			}
			fromStart := row.Timestamp.Sub(row.StartTS).Hours()
			fromEnd := row.Timestamp.Sub(row.EndTS).Hours()
			out = append(out, models.DryingTime{
				EventID:              id,
				DryingHoursFromStart: fromStart,
				DryingHoursFromEnd:   fromEnd,
				DryingHours:          fromEnd,
			})
			break
		}
	}
	return out
}

// MergeDrying joins events with their drying estimates by event id. Events
// without an estimate keep nil drying fields.
func MergeDrying(events []models.Event, drying []models.DryingTime) []models.EventWithDrying {
	byEvent := make(map[int]models.DryingTime, len(drying))
	for _, d := range drying {
		byEvent[d.EventID] = d
	}

	out := make([]models.EventWithDrying, 0, len(events))
	for _, ev := range events {
		ewd := models.EventWithDrying{Event: ev}
		if d, ok := byEvent[ev.EventID]; ok {
			ewd.DryingHoursFromStart = models.Float(d.DryingHoursFromStart)
			ewd.DryingHoursFromEnd = models.Float(d.DryingHoursFromEnd)
			ewd.DryingHours = models.Float(d.DryingHours)
		}
		out = append(out, ewd)
	}
	return out
}
