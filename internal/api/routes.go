package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"github.com/Mortti11/Marjetas-project/internal/services"
	"github.com/Mortti11/Marjetas-project/internal/timeseries"
)

func SetupRoutes(app *fiber.App, handler *Handler) {
	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,OPTIONS",
	}))

	app.Use(logger.New(logger.Config{
		Format:     "${time} ${pid} ${locals:requestid} ${status} - ${method} ${path}\n",
		TimeFormat: time.RFC3339,
	}))

	// Liveness
	app.Get("/health", handler.GetHealth)

	// API v1 routes
	api := app.Group("/api/v1")

	api.Get("/sites", handler.GetSites)
	api.Get("/physics/dewpoint", handler.GetDewpoint)

	// Stateless analysis over uploaded records
	analyze := api.Group("/analyze")
	analyze.Post("/flags", handler.AnalyzeFlags)
	analyze.Post("/events", handler.AnalyzeEvents)
	analyze.Post("/event-aggregates", handler.AnalyzeEventAggregates)
	analyze.Post("/daily", handler.AnalyzeDaily)
	analyze.Post("/road-risk", handler.AnalyzeRoadRisk)
	analyze.Post("/timeseries", handler.AnalyzeTimeseries)

	api.Post("/pair/build", handler.BuildPair)
	api.Post("/station/hourly", handler.StationHourly)

	// Upstream-backed routes
	forecast := api.Group("/forecast")
	forecast.Get("/hourly", handler.GetForecastHourly)
	forecast.Get("/events", handler.GetForecastEvents)
	forecast.Get("/road-summary", handler.GetRoadSummary)

	api.Get("/observed/event-aggregates", handler.GetObservedEventAggregates)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "endpoint not found",
			"success": false,
			"path":    c.Path(),
		})
	})
}

// ErrorHandler maps handler and service errors onto the JSON error envelope.
// Wired into fiber.Config by main.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
	case errors.Is(err, services.ErrUpstream):
		code = fiber.StatusBadGateway
	case errors.Is(err, timeseries.ErrInvalidFreq):
		code = fiber.StatusBadRequest
	}

	zap.L().Warn("Request failed",
		zap.String("path", c.Path()),
		zap.Int("status", code),
		zap.Error(err))

	return c.Status(code).JSON(fiber.Map{
		"error":   err.Error(),
		"success": false,
	})
}
