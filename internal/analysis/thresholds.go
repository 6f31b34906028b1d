// Package analysis implements the hourly environmental analysis core: flag
// classification, precipitation event segmentation, event windows, drying
// time estimation, cross-event aggregation and the humidity heatmap. Every
// function is a pure transformation; inputs are never mutated.
package analysis

// DryPolicy is one drying policy: a record is "dry enough" under the policy
// when rain <= RainMaxMMH, RH <= RHMaxPct, dewpoint spread >= DPSpreadMinC,
// VPD >= VPDMinKPa and wind >= WindMinKmh all hold at once.
type DryPolicy struct {
	RainMaxMMH   float64 `json:"rain_max_mm_h"`
	RHMaxPct     float64 `json:"rh_max_pct"`
	DPSpreadMinC float64 `json:"dp_spread_min_C"`
	VPDMinKPa    float64 `json:"vpd_min_kpa"`
	WindMinKmh   float64 `json:"wind_min_kmh"`
}

// Thresholds bundles the cutoffs consumed by the flag classifier and the
// event segmenter. The zero value is not meaningful; start from
// DefaultThresholds and override fields per call. Values, not pointers, so a
// bundle can never be shared mutable state between concurrent analyses.
type Thresholds struct {
	RainEventMMH        float64   `json:"rain_event_mm_h"`
	LeafWetRHPct        float64   `json:"leaf_wet_rh_pct"`
	LeafWetDPSpreadMaxC float64   `json:"leaf_wet_dp_spread_max_C"`
	DryStrict           DryPolicy `json:"dry_strict"`
	DryCity             DryPolicy `json:"dry_city"`
}

// DefaultThresholds returns the standard bundle tuned for the Jyvaskyla
// sensor network.
func DefaultThresholds() Thresholds {
	return Thresholds{
		RainEventMMH:        0.2,
		LeafWetRHPct:        90.0,
		LeafWetDPSpreadMaxC: 2.0,
		DryStrict: DryPolicy{
			RainMaxMMH:   0.0,
			RHMaxPct:     75.0,
			DPSpreadMinC: 2.0,
			VPDMinKPa:    0.6,
			WindMinKmh:   2.0,
		},
		DryCity: DryPolicy{
			RainMaxMMH:   0.02,
			RHMaxPct:     88.0,
			DPSpreadMinC: 1.0,
			VPDMinKPa:    0.3,
			WindMinKmh:   1.0,
		},
	}
}
