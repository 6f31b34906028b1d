package forecast

import (
	"github.com/Mortti11/Marjetas-project/internal/analysis"
	"github.com/Mortti11/Marjetas-project/internal/models"
	"github.com/Mortti11/Marjetas-project/internal/roadrisk"
)

const (
	// eventGapHours bridges forecast rain events separated by short lulls.
	eventGapHours = 4

	// postEventHours extends event windows far enough to find a drying hour
	// anywhere in a 10-day forecast. Windows clip to available data.
	postEventHours = 240
)

// Flags classifies every forecast hour.
func Flags(records []models.HourlyRecord, th analysis.Thresholds) []models.FlaggedRecord {
	return analysis.AddEnvironmentFlags(records, th)
}

// WithRisk classifies the forecast and scores each hour for slipperiness.
func WithRisk(records []models.HourlyRecord, th analysis.Thresholds) []models.RiskRow {
	return roadrisk.AddSlipperyRisk(Flags(records, th))
}

// EventsWithDrying detects rain events in the forecast and attaches drying
// estimates. Events that never reach a drying hour within the window keep
// nil drying fields.
func EventsWithDrying(records []models.HourlyRecord, th analysis.Thresholds) []models.EventWithDrying {
	events := analysis.DetectEvents(records, th.RainEventMMH, eventGapHours)
	if len(events) == 0 {
		return []models.EventWithDrying{}
	}

	flagged := analysis.AddEnvironmentFlags(records, th)
	windows := analysis.BuildEventWindows(flagged, events, 0, postEventHours)
	drying := analysis.ComputeEventDryingTimes(windows)

	return analysis.MergeDrying(events, drying)
}
