package models

import (
	"time"
)

// Event intensity buckets, classified from total precipitation.
const (
	IntensityLight    = "light"
	IntensityModerate = "moderate"
	IntensityHeavy    = "heavy"
	IntensityExtreme  = "extreme"
	IntensityUnknown  = "unknown"
)

// Event is one detected precipitation event. Ids restart at 1 on every
// segmentation run. DurationH counts the hourly rows present in the
// inclusive [StartTS, EndTS] slice, which is not the same thing as the
// elapsed wall time between the two timestamps when the source has gaps.
type Event struct {
	EventID        int       `json:"event_id"`
	StartTS        time.Time `json:"start_ts"`
	EndTS          time.Time `json:"end_ts"`
	StartDate      string    `json:"start_date"`
	DurationH      float64   `json:"duration_h"`
	MMTotal        float64   `json:"mm_total"`
	PtypeMain      string    `json:"ptype_main"`
	EventIntensity string    `json:"event_intensity"`
}

// EventWithDrying is an event joined with its drying estimate, used by the
// event-aggregate and forecast payloads. The drying fields are null when no
// post-start hour satisfied the city drying policy within the window.
type EventWithDrying struct {
	Event
	DryingHoursFromStart *float64 `json:"drying_hours_from_start"`
	DryingHoursFromEnd   *float64 `json:"drying_hours_from_end"`
	DryingHours          *float64 `json:"drying_hours"`
}

// WindowRow is one hour of an event window. The dense hourly axis is
// authoritative: rows for hours absent from the source carry nil observables
// and nil flags but always carry event identity and the signed offset.
type WindowRow struct {
	EventID            int       `json:"event_id"`
	Timestamp          time.Time `json:"timestamp"`
	RelHour            float64   `json:"rel_hour"`
	RHPct              *float64  `json:"rh_pct"`
	DPSpreadC          *float64  `json:"dp_spread_C"`
	VPDkPa             *float64  `json:"vpd_kpa"`
	WindSpeedKmh       *float64  `json:"wind_speed_kmh"`
	WindDirectionDeg   *float64  `json:"wind_direction_deg"`
	WindGustsKmh       *float64  `json:"wind_gusts_kmh"`
	SurfacePressureHPa *float64  `json:"surface_pressure_hpa"`
	WetOrRain          *bool     `json:"wet_or_rain"`
	DryEnoughCity      *bool     `json:"dry_enough_city"`
	StartTS            time.Time `json:"start_ts"`
	EndTS              time.Time `json:"end_ts"`
}

// DryingTime is the drying estimate for one event. FromEnd may be negative
// when drying conditions are met before the event's last qualifying hour.
// DryingHours is an alias of FromEnd kept for payload compatibility.
type DryingTime struct {
	EventID              int     `json:"event_id"`
	DryingHoursFromStart float64 `json:"drying_hours_from_start"`
	DryingHoursFromEnd   float64 `json:"drying_hours_from_end"`
	DryingHours          float64 `json:"drying_hours"`
}

// EnvironmentMean is the cross-event mean of each observable at one signed
// hour offset. A mean is nil when no event had a value at that offset.
type EnvironmentMean struct {
	RelHour                float64  `json:"rel_hour"`
	RHMean                 *float64 `json:"rh_mean"`
	DPSpreadMean           *float64 `json:"dp_spread_mean"`
	VPDMean                *float64 `json:"vpd_mean"`
	WindMean               *float64 `json:"wind_mean"`
	WindDirectionDegMean   *float64 `json:"wind_direction_deg_mean"`
	WindGustsKmhMean       *float64 `json:"wind_gusts_kmh_mean"`
	SurfacePressureHPaMean *float64 `json:"surface_pressure_hpa_mean"`
}

// FractionRow is the share of events wet / already dry at one hour offset.
// Offsets where every event lacked data report 0, applied after the mean.
type FractionRow struct {
	RelHour float64 `json:"rel_hour"`
	WetFrac float64 `json:"wet_frac"`
	DryFrac float64 `json:"dry_frac"`
}

// DryingStats carries the medians over events that produced a drying time.
// All three are nil when no event dried within its window.
type DryingStats struct {
	MedianDryingH          *float64 `json:"median_drying_h"`
	MedianDryingHFromStart *float64 `json:"median_drying_h_from_start"`
	MedianDryingHFromEnd   *float64 `json:"median_drying_h_from_end"`
}

// RHHeatmap is mean relative humidity by event date and hour of day.
// Hours is always 0..23; a nil cell means no data for that date and hour.
type RHHeatmap struct {
	Dates    []string     `json:"dates"`
	Hours    []int        `json:"hours"`
	RHMatrix [][]*float64 `json:"rh_matrix"`
}

// FractionsBlock pairs the per-offset wet/dry shares with the cross-event
// drying medians. Nil medians mean no event dried within its window.
type FractionsBlock struct {
	Records                []FractionRow `json:"records"`
	MedianDryingH          *float64      `json:"median_drying_h"`
	MedianDryingHFromStart *float64      `json:"median_drying_h_from_start"`
	MedianDryingHFromEnd   *float64      `json:"median_drying_h_from_end"`
}

// EventAggregates is the observed event-aggregate payload for one site and
// calendar date. Environment, Fractions and Heatmap are null when the date
// has no events; Events then stays an empty list. NEventsAll counts events
// over the whole fetched history window, NEventsDate only those starting on
// the requested date.
type EventAggregates struct {
	Site        string            `json:"site"`
	Date        string            `json:"date"`
	PreH        int               `json:"pre_h"`
	PostH       int               `json:"post_h"`
	NEventsAll  int               `json:"n_events_all"`
	NEventsDate int               `json:"n_events_date"`
	Events      []EventWithDrying `json:"events"`
	Environment []EnvironmentMean `json:"environment"`
	Fractions   *FractionsBlock   `json:"fractions"`
	Heatmap     *RHHeatmap        `json:"heatmap"`
}
