package models

// Precipitation type labels produced by the station resampler and the
// forecast adapter. PtypeNoData doubles as the "unknown/none" sentinel.
const (
	PtypeRain   = "Rain"
	PtypeSnow   = "Snow"
	PtypeMix    = "Mix"
	PtypeDry    = "Dry"
	PtypeOther  = "Other"
	PtypeNoData = "NoData"
)

// IsPrecipitating reports whether the label counts as active precipitation
// for event detection and the raining flag.
func IsPrecipitating(ptype string) bool {
	switch ptype {
	case PtypeRain, PtypeMix, PtypeSnow:
		return true
	}
	return false
}
