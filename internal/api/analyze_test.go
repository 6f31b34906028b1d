package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mortti11/Marjetas-project/internal/analysis"
	"github.com/Mortti11/Marjetas-project/internal/models"
)

var apiBase = time.Date(2023, 7, 28, 0, 0, 0, 0, time.UTC)

// recordAt builds one hourly record h hours after apiBase. The wet variant
// rains and sits at saturation, the dry variant satisfies both drying
// policies.
func recordAt(h int, wet bool) models.HourlyRecord {
	rec := models.HourlyRecord{
		Timestamp:          apiBase.Add(time.Duration(h) * time.Hour),
		WindSpeedKmh:       models.Float(8.0),
		WindDirectionDeg:   models.Float(200.0),
		SurfacePressureHPa: models.Float(1012.0),
	}
	if wet {
		rec.TempC = models.Float(12.0)
		rec.RHPct = models.Float(96.0)
		rec.DewpointC = models.Float(11.4)
		rec.DPSpreadC = models.Float(0.6)
		rec.VPDkPa = models.Float(0.06)
		rec.RainMMHour = models.Float(1.0)
		rec.PtypeHour = models.PtypeRain
		return rec
	}
	rec.TempC = models.Float(18.0)
	rec.RHPct = models.Float(55.0)
	rec.DewpointC = models.Float(8.9)
	rec.DPSpreadC = models.Float(9.1)
	rec.VPDkPa = models.Float(0.93)
	rec.RainMMHour = models.Float(0.0)
	rec.PtypeHour = models.PtypeNoData
	return rec
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}, out interface{}) int {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

func TestAnalyzeFlagsRoundTrip(t *testing.T) {
	app := testApp(&stubAnalyzer{})

	var flagged []models.FlaggedRecord
	status := postJSON(t, app, "/api/v1/analyze/flags", fiber.Map{
		"records": []models.HourlyRecord{recordAt(0, true), recordAt(1, false)},
	}, &flagged)

	assert.Equal(t, http.StatusOK, status)
	require.Len(t, flagged, 2)
	assert.True(t, flagged[0].IsRaining)
	assert.True(t, flagged[0].LeafWetness)
	assert.True(t, flagged[0].WetOrRain)
	assert.False(t, flagged[0].DryEnoughCity)
	assert.False(t, flagged[1].IsRaining)
	assert.True(t, flagged[1].DryEnoughCity)
	assert.True(t, flagged[1].DryEnoughStrict)
}

func TestAnalyzeFlagsThresholdOverride(t *testing.T) {
	app := testApp(&stubAnalyzer{})

	th := analysis.DefaultThresholds()
	th.RainEventMMH = 5.0

	var flagged []models.FlaggedRecord
	status := postJSON(t, app, "/api/v1/analyze/flags", fiber.Map{
		"records":    []models.HourlyRecord{recordAt(0, true)},
		"thresholds": th,
	}, &flagged)

	assert.Equal(t, http.StatusOK, status)
	require.Len(t, flagged, 1)
	assert.False(t, flagged[0].IsRaining, "1.0 mm/h stays under the raised threshold")
	assert.True(t, flagged[0].LeafWetness)
}

func TestAnalyzeFlagsMalformedBody(t *testing.T) {
	app := testApp(&stubAnalyzer{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze/flags", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, false, body["success"])
}

func TestAnalyzeEventsSegments(t *testing.T) {
	app := testApp(&stubAnalyzer{})

	var events []models.Event
	status := postJSON(t, app, "/api/v1/analyze/events", fiber.Map{
		"records": []models.HourlyRecord{recordAt(0, true), recordAt(1, true), recordAt(2, false)},
	}, &events)

	assert.Equal(t, http.StatusOK, status)
	require.Len(t, events, 1)
	assert.Equal(t, 1, events[0].EventID)
	assert.Equal(t, "2023-07-28", events[0].StartDate)
	assert.InDelta(t, 2.0, events[0].DurationH, 1e-9)
	assert.InDelta(t, 2.0, events[0].MMTotal, 1e-9)
}

func TestAnalyzeEventsRainThresholdOverride(t *testing.T) {
	app := testApp(&stubAnalyzer{})

	quiet := recordAt(0, true)
	quiet.PtypeHour = models.PtypeNoData

	var events []models.Event
	status := postJSON(t, app, "/api/v1/analyze/events", fiber.Map{
		"records":        []models.HourlyRecord{quiet},
		"rain_threshold": 5.0,
	}, &events)

	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, events)
}

func TestAnalyzeEventAggregates(t *testing.T) {
	app := testApp(&stubAnalyzer{})

	var agg models.EventAggregates
	status := postJSON(t, app, "/api/v1/analyze/event-aggregates", fiber.Map{
		"records": []models.HourlyRecord{
			recordAt(0, true), recordAt(1, true), recordAt(2, false), recordAt(3, false),
		},
		"date":   "2023-07-28",
		"pre_h":  1,
		"post_h": 3,
	}, &agg)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, agg.NEventsAll)
	assert.Equal(t, 1, agg.NEventsDate)
	require.Len(t, agg.Events, 1)
	assert.InDelta(t, 2.0, agg.Events[0].DurationH, 1e-9)
	require.NotNil(t, agg.Events[0].DryingHoursFromStart)
	assert.InDelta(t, 2.0, *agg.Events[0].DryingHoursFromStart, 1e-9)
	require.NotNil(t, agg.Events[0].DryingHoursFromEnd)
	assert.InDelta(t, 1.0, *agg.Events[0].DryingHoursFromEnd, 1e-9)

	require.Len(t, agg.Environment, 5)
	assert.InDelta(t, -1.0, agg.Environment[0].RelHour, 1e-9)

	require.NotNil(t, agg.Fractions)
	assert.Len(t, agg.Fractions.Records, 5)
	require.NotNil(t, agg.Fractions.MedianDryingHFromEnd)
	assert.InDelta(t, 1.0, *agg.Fractions.MedianDryingHFromEnd, 1e-9)

	require.NotNil(t, agg.Heatmap)
	assert.Equal(t, []string{"2023-07-28"}, agg.Heatmap.Dates)
	assert.Len(t, agg.Heatmap.Hours, 24)
}

func TestAnalyzeEventAggregatesRejectsBadDate(t *testing.T) {
	app := testApp(&stubAnalyzer{})

	var body map[string]interface{}
	status := postJSON(t, app, "/api/v1/analyze/event-aggregates", fiber.Map{
		"records": []models.HourlyRecord{recordAt(0, true)},
		"date":    "soon",
	}, &body)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
}

func TestAnalyzeDaily(t *testing.T) {
	app := testApp(&stubAnalyzer{})

	var body struct {
		Date    string                 `json:"date"`
		Summary models.DailySummary    `json:"summary"`
		Hourly  []models.FlaggedRecord `json:"hourly"`
	}
	status := postJSON(t, app, "/api/v1/analyze/daily", fiber.Map{
		"records": []models.HourlyRecord{
			recordAt(0, true), recordAt(1, false), recordAt(30, false),
		},
		"date": "2023-07-28",
	}, &body)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "2023-07-28", body.Date)
	assert.Equal(t, 2, body.Summary.Rows, "the next-day row stays out of the summary")
	require.NotNil(t, body.Summary.RainTotalMM)
	assert.InDelta(t, 1.0, *body.Summary.RainTotalMM, 1e-9)
	assert.Len(t, body.Hourly, 2)
}

func TestAnalyzeRoadRisk(t *testing.T) {
	app := testApp(&stubAnalyzer{})

	var rows []models.RiskRow
	status := postJSON(t, app, "/api/v1/analyze/road-risk", fiber.Map{
		"records": []models.HourlyRecord{recordAt(0, true), recordAt(1, false)},
	}, &rows)

	assert.Equal(t, http.StatusOK, status)
	require.Len(t, rows, 2)
	assert.Equal(t, 30, rows[0].SlipperyScore)
	assert.Equal(t, models.RiskLow, rows[0].SlipperyLevel)
	assert.Equal(t, 30, rows[1].SlipperyScore, "wet history carries into the following hour")
}

func TestAnalyzeTimeseries(t *testing.T) {
	app := testApp(&stubAnalyzer{})

	var rows []models.PeriodSummary
	status := postJSON(t, app, "/api/v1/analyze/timeseries", fiber.Map{
		"records": []models.HourlyRecord{recordAt(0, true), recordAt(1, false)},
		"freq":    "D",
	}, &rows)

	assert.Equal(t, http.StatusOK, status)
	require.Len(t, rows, 1)
	assert.Equal(t, "2023-07-28", rows[0].Period)
	assert.Equal(t, 2, rows[0].Rows)
	assert.InDelta(t, 1.0, rows[0].RainTotalMM, 1e-9)
	assert.Equal(t, 1, rows[0].RainHours)
}

func TestAnalyzeTimeseriesInvalidFreq(t *testing.T) {
	app := testApp(&stubAnalyzer{})

	var body map[string]interface{}
	status := postJSON(t, app, "/api/v1/analyze/timeseries", fiber.Map{
		"records": []models.HourlyRecord{recordAt(0, true)},
		"freq":    "H",
	}, &body)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["error"], "invalid freq")
}

func TestBuildPairEndpoint(t *testing.T) {
	app := testApp(&stubAnalyzer{})

	var records []models.HourlyRecord
	status := postJSON(t, app, "/api/v1/pair/build", fiber.Map{
		"sensor": []models.SensorHour{
			{Timestamp: apiBase, TempC: models.Float(20.0), RHPct: models.Float(80.0)},
			{Timestamp: apiBase.Add(time.Hour), TempC: models.Float(21.0), RHPct: models.Float(70.0)},
		},
		"station": []models.StationHour{
			{Timestamp: apiBase, RainMMHour: models.Float(0.4), PtypeHour: models.PtypeRain},
		},
	}, &records)

	assert.Equal(t, http.StatusOK, status)
	require.Len(t, records, 2)
	require.NotNil(t, records[0].RainMMHour)
	assert.InDelta(t, 0.4, *records[0].RainMMHour, 1e-9)
	assert.Equal(t, models.PtypeRain, records[0].PtypeHour)
	assert.NotNil(t, records[0].DewpointC)
	assert.Nil(t, records[1].RainMMHour)
	assert.Equal(t, models.PtypeNoData, records[1].PtypeHour)
	require.NotNil(t, records[0].WindSpeedKmh, "no wind stream pins wind speed to zero")
	assert.InDelta(t, 0.0, *records[0].WindSpeedKmh, 1e-9)
}

func TestStationHourlyEndpoint(t *testing.T) {
	app := testApp(&stubAnalyzer{})

	var hours []models.StationHour
	status := postJSON(t, app, "/api/v1/station/hourly", fiber.Map{
		"observations": []models.StationObservation{
			{Timestamp: apiBase.Add(10 * time.Minute), RainMM: models.Float(0.2), PrecipCode: models.Float(60)},
			{Timestamp: apiBase.Add(20 * time.Minute), RainMM: models.Float(0.3), PrecipCode: models.Float(60)},
		},
	}, &hours)

	assert.Equal(t, http.StatusOK, status)
	require.Len(t, hours, 1)
	assert.True(t, hours[0].Timestamp.Equal(apiBase))
	require.NotNil(t, hours[0].RainMMHour)
	assert.InDelta(t, 0.5, *hours[0].RainMMHour, 1e-9)
	assert.Equal(t, models.PtypeRain, hours[0].PtypeHour)
}
