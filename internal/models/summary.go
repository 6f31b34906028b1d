package models

// DailySummary aggregates one calendar day of flagged records. With zero
// rows every numeric field is nil and the counters are zero.
type DailySummary struct {
	Date           string   `json:"date"`
	Rows           int      `json:"rows"`
	TMean          *float64 `json:"T_mean"`
	TMin           *float64 `json:"T_min"`
	TMax           *float64 `json:"T_max"`
	RHMean         *float64 `json:"RH_mean"`
	RHMin          *float64 `json:"RH_min"`
	RHMax          *float64 `json:"RH_max"`
	RainTotalMM    *float64 `json:"rain_total_mm"`
	RainHours      *int     `json:"rain_hours"`
	WetHours       *int     `json:"wet_hours"`
	DryCityHours   *int     `json:"dry_city_hours"`
	DryStrictHours *int     `json:"dry_strict_hours"`
}

// PeriodSummary is one row of a daily/weekly/monthly roll-up. Period is the
// bucket key: YYYY-MM-DD for D and W (the Monday), YYYY-MM for M.
type PeriodSummary struct {
	Period      string   `json:"timestamp"`
	Rows        int      `json:"rows"`
	TMean       *float64 `json:"T_mean"`
	VPDMean     *float64 `json:"VPD_mean"`
	RH90Pct     *float64 `json:"RH90_pct"`
	RainTotalMM float64  `json:"rain_total_mm"`
	RainHours   int      `json:"rain_hours"`
}
