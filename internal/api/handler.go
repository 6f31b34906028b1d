package api

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Mortti11/Marjetas-project/internal/analysis"
	"github.com/Mortti11/Marjetas-project/internal/config"
	"github.com/Mortti11/Marjetas-project/internal/models"
	"github.com/Mortti11/Marjetas-project/internal/physics"
)

const dateLayout = "2006-01-02"

var startTime = time.Now()

// Analyzer is the service surface the upstream-backed handlers consume.
type Analyzer interface {
	ForecastRisk(ctx context.Context, site config.Site) ([]models.RiskRow, error)
	ForecastEvents(ctx context.Context, site config.Site) ([]models.EventWithDrying, error)
	RoadForecast(ctx context.Context, site config.Site) (*models.RoadForecast, error)
	EventAggregates(ctx context.Context, site config.Site, date string, preH, postH int) (*models.EventAggregates, error)
	GetLastRefreshTime() time.Time
	GetStats() map[string]interface{}
}

type Handler struct {
	analyzer Analyzer
	cfg      *config.Config
	logger   *zap.Logger
}

func NewHandler(analyzer Analyzer, cfg *config.Config, logger *zap.Logger) *Handler {
	return &Handler{
		analyzer: analyzer,
		cfg:      cfg,
		logger:   logger,
	}
}

// GetHealth handles GET /health
func (h *Handler) GetHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":       "healthy",
		"timestamp":    time.Now(),
		"last_refresh": h.analyzer.GetLastRefreshTime(),
		"uptime":       time.Since(startTime).String(),
		"stats":        h.analyzer.GetStats(),
	})
}

// GetSites handles GET /api/v1/sites
func (h *Handler) GetSites(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"sites": h.cfg.Sites,
	})
}

// GetDewpoint handles GET /api/v1/physics/dewpoint
func (h *Handler) GetDewpoint(c *fiber.Ctx) error {
	temp, err := strconv.ParseFloat(c.Query("temp_c"), 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "temp_c parameter must be a number")
	}
	rh, err := strconv.ParseFloat(c.Query("rh"), 64)
	if err != nil || rh <= 0 || rh > 100 {
		return fiber.NewError(fiber.StatusBadRequest, "rh parameter must be in (0, 100]")
	}

	return c.JSON(fiber.Map{
		"temp_c":     temp,
		"rh_pct":     rh,
		"dewpoint_c": physics.DewpointC(temp, rh),
	})
}

// GetForecastHourly handles GET /api/v1/forecast/hourly
func (h *Handler) GetForecastHourly(c *fiber.Ctx) error {
	site, err := h.site(c)
	if err != nil {
		return err
	}

	rows, err := h.analyzer.ForecastRisk(c.Context(), site)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"site":   site.Name,
		"hourly": rows,
	})
}

// GetForecastEvents handles GET /api/v1/forecast/events
func (h *Handler) GetForecastEvents(c *fiber.Ctx) error {
	site, err := h.site(c)
	if err != nil {
		return err
	}

	events, err := h.analyzer.ForecastEvents(c.Context(), site)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"site":   site.Name,
		"events": events,
	})
}

// GetRoadSummary handles GET /api/v1/forecast/road-summary
func (h *Handler) GetRoadSummary(c *fiber.Ctx) error {
	site, err := h.site(c)
	if err != nil {
		return err
	}

	road, err := h.analyzer.RoadForecast(c.Context(), site)
	if err != nil {
		return err
	}

	return c.JSON(road)
}

// GetObservedEventAggregates handles GET /api/v1/observed/event-aggregates
func (h *Handler) GetObservedEventAggregates(c *fiber.Ctx) error {
	site, err := h.site(c)
	if err != nil {
		return err
	}

	date := c.Query("date")
	if _, err := time.Parse(dateLayout, date); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "date parameter must be YYYY-MM-DD")
	}

	preH, err := queryInt(c, "pre_h", analysis.DefaultPreHours)
	if err != nil {
		return err
	}
	postH, err := queryInt(c, "post_h", analysis.DefaultPostHours)
	if err != nil {
		return err
	}

	h.logger.Info("Building observed event aggregates",
		zap.String("site", site.Name),
		zap.String("date", date),
		zap.Int("pre_h", preH),
		zap.Int("post_h", postH))

	agg, err := h.analyzer.EventAggregates(c.Context(), site, date, preH, postH)
	if err != nil {
		return err
	}

	return c.JSON(agg)
}

// site resolves the site query parameter, defaulting to the first configured
// site when omitted.
func (h *Handler) site(c *fiber.Ctx) (config.Site, error) {
	name := c.Query("site")
	if name == "" {
		return h.cfg.Sites[0], nil
	}
	site, ok := h.cfg.SiteByName(name)
	if !ok {
		return config.Site{}, fiber.NewError(fiber.StatusNotFound, "unknown site: "+name)
	}
	return site, nil
}

// thresholds applies a request-supplied bundle over the configured defaults.
func (h *Handler) thresholds(override *analysis.Thresholds) analysis.Thresholds {
	if override != nil {
		return *override
	}
	return h.cfg.Thresholds
}

func queryInt(c *fiber.Ctx, key string, defaultValue int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, key+" parameter must be a non-negative integer")
	}
	return v, nil
}
