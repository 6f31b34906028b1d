package models

import (
	"time"
)

// Slipperiness levels mapped from the 0-100 score.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// RiskRow is a flagged record scored for road-surface slipperiness.
type RiskRow struct {
	FlaggedRecord
	SlipperyScore int    `json:"slippery_score"`
	SlipperyLevel string `json:"slippery_level"`
}

// HighRiskPeriod is a contiguous run of high-risk forecast hours. DurationH
// counts the hours in the run; runs split when consecutive high hours are
// more than one hour apart.
type HighRiskPeriod struct {
	StartTS   time.Time `json:"start_ts"`
	EndTS     time.Time `json:"end_ts"`
	DurationH float64   `json:"duration_h"`
	MaxScore  int       `json:"max_score"`
}

// RoadStats summarizes slipperiness over the 24h and 72h forecast horizons,
// measured from the earliest forecast hour.
type RoadStats struct {
	HighRiskHours24h    int              `json:"high_risk_hours_24h"`
	HighRiskHours72h    int              `json:"high_risk_hours_72h"`
	MaxSlipperyScore24h int              `json:"max_slippery_score_24h"`
	TotalEvents72h      int              `json:"total_events_72h"`
	HighRiskPeriods24h  []HighRiskPeriod `json:"high_risk_periods_24h"`
	HighRiskPeriods72h  []HighRiskPeriod `json:"high_risk_periods_72h"`
}

// RoadHour is the compact hourly view served in the road forecast summary.
type RoadHour struct {
	Timestamp     time.Time `json:"timestamp"`
	TempC         *float64  `json:"temp_C"`
	SlipperyScore int       `json:"slippery_score"`
	SlipperyLevel string    `json:"slippery_level"`
}

// RoadForecast is the full city road forecast payload.
type RoadForecast struct {
	Site        string            `json:"site"`
	GeneratedAt time.Time         `json:"generated_at"`
	Hourly      []RoadHour        `json:"hourly"`
	Events      []EventWithDrying `json:"events"`
	Stats       RoadStats         `json:"stats"`
}
