package models

import (
	"time"
)

// SensorHour is one hour from a temperature/humidity ground sensor.
type SensorHour struct {
	Timestamp time.Time `json:"timestamp"`
	TempC     *float64  `json:"temp_C"`
	RHPct     *float64  `json:"rh_pct"`
}

// StationObservation is one raw sub-hourly reading from a precipitation
// station: an accumulated rain amount since the previous reading and an
// optional coded precipitation type.
type StationObservation struct {
	Timestamp  time.Time `json:"timestamp"`
	RainMM     *float64  `json:"rain_mm"`
	PrecipCode *float64  `json:"precip_code"`
}

// StationHour is precipitation station data resampled to one hour: summed
// rain and the bucketed dominant precipitation type.
type StationHour struct {
	Timestamp  time.Time `json:"timestamp"`
	RainMMHour *float64  `json:"rain_mm_hour"`
	PtypeHour  string    `json:"ptype_hour"`
}

// WindHour is one hour from the wind/pressure reference station.
type WindHour struct {
	Timestamp          time.Time `json:"timestamp"`
	WindSpeedKmh       *float64  `json:"wind_speed_kmh"`
	WindDirectionDeg   *float64  `json:"wind_direction_deg"`
	WindGustsKmh       *float64  `json:"wind_gusts_kmh"`
	SurfacePressureHPa *float64  `json:"surface_pressure_hpa"`
}
