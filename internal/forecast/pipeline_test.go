package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mortti11/Marjetas-project/internal/analysis"
	"github.com/Mortti11/Marjetas-project/internal/models"
)

var pipelineBase = time.Date(2023, 7, 28, 0, 0, 0, 0, time.UTC)

func forecastHour(h int, temp, rh, spread, vpd, rain, wind float64, ptype string) models.HourlyRecord {
	return models.HourlyRecord{
		Timestamp:    pipelineBase.Add(time.Duration(h) * time.Hour),
		TempC:        models.Float(temp),
		RHPct:        models.Float(rh),
		DPSpreadC:    models.Float(spread),
		VPDkPa:       models.Float(vpd),
		RainMMHour:   models.Float(rain),
		WindSpeedKmh: models.Float(wind),
		PtypeHour:    ptype,
	}
}

func rainyForecastDay() []models.HourlyRecord {
	var records []models.HourlyRecord
	for h := 0; h < 3; h++ {
		records = append(records, forecastHour(h, 12.0, 96.0, 0.6, 0.06, 1.0, 4.0, models.PtypeRain))
	}
	for h := 3; h < 10; h++ {
		records = append(records, forecastHour(h, 14.0, 89.0, 1.8, 0.18, 0.0, 2.0, models.PtypeNoData))
	}
	records = append(records, forecastHour(10, 18.0, 55.0, 9.1, 0.95, 0.0, 6.0, models.PtypeNoData))
	return records
}

func TestFlagsClassifiesWithDefaults(t *testing.T) {
	flagged := Flags(rainyForecastDay(), analysis.DefaultThresholds())

	require.Len(t, flagged, 11)
	assert.True(t, flagged[0].IsRaining)
	assert.True(t, flagged[0].WetOrRain)
	assert.False(t, flagged[0].DryEnoughCity)
	assert.False(t, flagged[5].WetOrRain)
	assert.False(t, flagged[5].DryEnoughCity, "damp hour misses the city humidity cutoff")
	assert.True(t, flagged[10].DryEnoughCity)
	assert.True(t, flagged[10].DryEnoughStrict)
}

func TestWithRiskScoresFreezingCommute(t *testing.T) {
	records := []models.HourlyRecord{
		forecastHour(15, -1.0, 80.0, 3.0, 0.2, 1.0, 5.0, models.PtypeRain),
		forecastHour(16, -1.0, 80.0, 3.0, 0.2, 0.0, 5.0, models.PtypeNoData),
	}

	rows := WithRisk(records, analysis.DefaultThresholds())

	require.Len(t, rows, 2)
	assert.Equal(t, 60, rows[0].SlipperyScore, "freezing plus wet outside commute hours")
	assert.Equal(t, models.RiskMedium, rows[0].SlipperyLevel)
	assert.Equal(t, 70, rows[1].SlipperyScore, "freezing commute hour right after rain")
	assert.Equal(t, models.RiskHigh, rows[1].SlipperyLevel)
}

func TestEventsWithDryingMergesEstimates(t *testing.T) {
	events := EventsWithDrying(rainyForecastDay(), analysis.DefaultThresholds())

	require.Len(t, events, 1)
	ev := events[0]
	assert.Equal(t, 1, ev.EventID)
	assert.True(t, ev.StartTS.Equal(pipelineBase))
	assert.True(t, ev.EndTS.Equal(pipelineBase.Add(2*time.Hour)))
	assert.Equal(t, 3.0, ev.DurationH)
	assert.InDelta(t, 3.0, ev.MMTotal, 1e-9)
	assert.Equal(t, models.PtypeRain, ev.PtypeMain)
	assert.Equal(t, models.IntensityLight, ev.EventIntensity)

	require.NotNil(t, ev.DryingHoursFromStart)
	assert.Equal(t, 10.0, *ev.DryingHoursFromStart)
	require.NotNil(t, ev.DryingHoursFromEnd)
	assert.Equal(t, 8.0, *ev.DryingHoursFromEnd)
	require.NotNil(t, ev.DryingHours)
	assert.Equal(t, 8.0, *ev.DryingHours)
}

func TestEventsWithDryingKeepsNilWhenNeverDry(t *testing.T) {
	records := rainyForecastDay()[:10] // drop the drying hour

	events := EventsWithDrying(records, analysis.DefaultThresholds())

	require.Len(t, events, 1)
	assert.Nil(t, events[0].DryingHours)
	assert.Nil(t, events[0].DryingHoursFromStart)
	assert.Nil(t, events[0].DryingHoursFromEnd)
}

func TestEventsWithDryingNoEvents(t *testing.T) {
	records := []models.HourlyRecord{
		forecastHour(0, 18.0, 55.0, 9.1, 0.95, 0.0, 6.0, models.PtypeNoData),
	}

	events := EventsWithDrying(records, analysis.DefaultThresholds())

	assert.NotNil(t, events)
	assert.Empty(t, events)
}
