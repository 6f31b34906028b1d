package api

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Mortti11/Marjetas-project/internal/analysis"
	"github.com/Mortti11/Marjetas-project/internal/models"
	"github.com/Mortti11/Marjetas-project/internal/pairing"
	"github.com/Mortti11/Marjetas-project/internal/roadrisk"
	"github.com/Mortti11/Marjetas-project/internal/timeseries"
)

// recordsRequest is the common body of the stateless analysis endpoints.
// Thresholds, when present, replace the configured bundle wholesale.
type recordsRequest struct {
	Records    []models.HourlyRecord `json:"records"`
	Thresholds *analysis.Thresholds  `json:"thresholds"`
}

type eventsRequest struct {
	recordsRequest
	RainThreshold *float64 `json:"rain_threshold"`
	MaxGapHours   *int     `json:"max_gap_hours"`
}

type aggregatesRequest struct {
	recordsRequest
	Date  string `json:"date"`
	PreH  *int   `json:"pre_h"`
	PostH *int   `json:"post_h"`
}

type dailyRequest struct {
	recordsRequest
	Date string `json:"date"`
}

type timeseriesRequest struct {
	Records []models.HourlyRecord `json:"records"`
	Freq    string                `json:"freq"`
}

type pairRequest struct {
	Sensor  []models.SensorHour  `json:"sensor"`
	Station []models.StationHour `json:"station"`
	Wind    []models.WindHour    `json:"wind"`
}

type stationRequest struct {
	Observations []models.StationObservation `json:"observations"`
}

// AnalyzeFlags handles POST /api/v1/analyze/flags
func (h *Handler) AnalyzeFlags(c *fiber.Ctx) error {
	var req recordsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	return c.JSON(analysis.AddEnvironmentFlags(req.Records, h.thresholds(req.Thresholds)))
}

// AnalyzeEvents handles POST /api/v1/analyze/events
func (h *Handler) AnalyzeEvents(c *fiber.Ctx) error {
	var req eventsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	th := h.thresholds(req.Thresholds)
	rainThreshold := th.RainEventMMH
	if req.RainThreshold != nil {
		rainThreshold = *req.RainThreshold
	}
	maxGap := analysis.DefaultMaxGapHours
	if req.MaxGapHours != nil {
		maxGap = *req.MaxGapHours
	}

	return c.JSON(analysis.DetectEvents(req.Records, rainThreshold, maxGap))
}

// AnalyzeEventAggregates handles POST /api/v1/analyze/event-aggregates
func (h *Handler) AnalyzeEventAggregates(c *fiber.Ctx) error {
	var req aggregatesRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if _, err := time.Parse(dateLayout, req.Date); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
	}

	preH := analysis.DefaultPreHours
	if req.PreH != nil {
		preH = *req.PreH
	}
	postH := analysis.DefaultPostHours
	if req.PostH != nil {
		postH = *req.PostH
	}

	agg := analysis.BuildEventAggregates(req.Records, req.Date, preH, postH, h.thresholds(req.Thresholds))
	return c.JSON(agg)
}

// AnalyzeDaily handles POST /api/v1/analyze/daily
func (h *Handler) AnalyzeDaily(c *fiber.Ctx) error {
	var req dailyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if _, err := time.Parse(dateLayout, req.Date); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
	}

	flagged := analysis.AddEnvironmentFlags(req.Records, h.thresholds(req.Thresholds))

	hourly := make([]models.FlaggedRecord, 0, len(flagged))
	for _, rec := range flagged {
		if rec.Timestamp.Format(dateLayout) == req.Date {
			hourly = append(hourly, rec)
		}
	}

	return c.JSON(fiber.Map{
		"date":    req.Date,
		"summary": analysis.ComputeDailySummary(flagged, req.Date),
		"hourly":  hourly,
	})
}

// AnalyzeRoadRisk handles POST /api/v1/analyze/road-risk
func (h *Handler) AnalyzeRoadRisk(c *fiber.Ctx) error {
	var req recordsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	flagged := analysis.AddEnvironmentFlags(req.Records, h.thresholds(req.Thresholds))
	return c.JSON(roadrisk.AddSlipperyRisk(flagged))
}

// AnalyzeTimeseries handles POST /api/v1/analyze/timeseries
func (h *Handler) AnalyzeTimeseries(c *fiber.Ctx) error {
	var req timeseriesRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	summaries, err := timeseries.AggregateByPeriod(req.Records, req.Freq)
	if err != nil {
		return err
	}
	return c.JSON(summaries)
}

// BuildPair handles POST /api/v1/pair/build
func (h *Handler) BuildPair(c *fiber.Ctx) error {
	var req pairRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	return c.JSON(pairing.BuildPairHourly(req.Sensor, req.Station, req.Wind))
}

// StationHourly handles POST /api/v1/station/hourly
func (h *Handler) StationHourly(c *fiber.Ctx) error {
	var req stationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	return c.JSON(timeseries.ResampleHourly(req.Observations))
}
