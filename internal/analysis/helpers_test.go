package analysis

import (
	"time"

	"github.com/Mortti11/Marjetas-project/internal/models"
)

var testBase = time.Date(2023, 7, 28, 0, 0, 0, 0, time.UTC)

// hourAt returns the test-series timestamp at the given hour offset.
func hourAt(h int) time.Time {
	return testBase.Add(time.Duration(h) * time.Hour)
}

// wetHour builds a raining record: enough rain and a precipitating type to
// both qualify for segmentation and raise is_raining.
func wetHour(h int, rain float64) models.HourlyRecord {
	return models.HourlyRecord{
		Timestamp:    hourAt(h),
		TempC:        models.Float(12.0),
		RHPct:        models.Float(96.0),
		DewpointC:    models.Float(11.4),
		DPSpreadC:    models.Float(0.6),
		VPDkPa:       models.Float(0.06),
		RainMMHour:   models.Float(rain),
		PtypeHour:    models.PtypeRain,
		WindSpeedKmh: models.Float(4.0),
	}
}

// dryHour builds a record satisfying both drying policies: no rain, low RH,
// wide spread, strong VPD and enough wind.
func dryHour(h int) models.HourlyRecord {
	return models.HourlyRecord{
		Timestamp:    hourAt(h),
		TempC:        models.Float(18.0),
		RHPct:        models.Float(55.0),
		DewpointC:    models.Float(8.9),
		DPSpreadC:    models.Float(9.1),
		VPDkPa:       models.Float(0.95),
		RainMMHour:   models.Float(0.0),
		PtypeHour:    models.PtypeDry,
		WindSpeedKmh: models.Float(6.0),
	}
}

// dampHour builds a record that is neither wet nor dry enough: humid, small
// spread, weak VPD, but no rain.
func dampHour(h int) models.HourlyRecord {
	return models.HourlyRecord{
		Timestamp:    hourAt(h),
		TempC:        models.Float(14.0),
		RHPct:        models.Float(89.0),
		DewpointC:    models.Float(12.2),
		DPSpreadC:    models.Float(1.8),
		VPDkPa:       models.Float(0.18),
		RainMMHour:   models.Float(0.0),
		PtypeHour:    models.PtypeDry,
		WindSpeedKmh: models.Float(2.0),
	}
}

// flagAll is shorthand for classifying with the default bundle.
func flagAll(records []models.HourlyRecord) []models.FlaggedRecord {
	return AddEnvironmentFlags(records, DefaultThresholds())
}
