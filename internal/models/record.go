package models

import (
	"time"
)

// HourlyRecord is one hour of merged sensor/station/wind data, the unit the
// analysis pipeline operates on. Timestamps are expected to be hour-aligned
// and expressed in the site's local timezone. Numeric observables are
// pointers: nil means the value is missing and marshals as JSON null.
type HourlyRecord struct {
	Timestamp          time.Time `json:"timestamp"`
	TempC              *float64  `json:"temp_C"`
	RHPct              *float64  `json:"rh_pct"`
	DewpointC          *float64  `json:"dewpoint_C"`
	DPSpreadC          *float64  `json:"dp_spread_C"`
	VPDkPa             *float64  `json:"vpd_kpa"`
	RainMMHour         *float64  `json:"rain_mm_hour"`
	PtypeHour          string    `json:"ptype_hour"`
	WindSpeedKmh       *float64  `json:"wind_speed_kmh"`
	WindDirectionDeg   *float64  `json:"wind_direction_deg"`
	WindGustsKmh       *float64  `json:"wind_gusts_kmh"`
	SurfacePressureHPa *float64  `json:"surface_pressure_hpa"`
}

// EnvironmentFlags are the per-hour boolean conditions derived from a record
// and a threshold bundle. WetOrRain is always IsRaining OR LeafWetness.
type EnvironmentFlags struct {
	IsRaining       bool `json:"is_raining"`
	LeafWetness     bool `json:"leaf_wetness"`
	WetOrRain       bool `json:"wet_or_rain"`
	DryEnoughStrict bool `json:"dry_enough_strict"`
	DryEnoughCity   bool `json:"dry_enough_city"`
}

// FlaggedRecord is an hourly record with its derived environment flags.
type FlaggedRecord struct {
	HourlyRecord
	EnvironmentFlags
}

// Float returns a pointer to v. Convenience for building nullable fields.
func Float(v float64) *float64 {
	return &v
}

// Bool returns a pointer to v.
func Bool(v bool) *bool {
	return &v
}
