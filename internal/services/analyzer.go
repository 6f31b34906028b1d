package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Mortti11/Marjetas-project/internal/analysis"
	"github.com/Mortti11/Marjetas-project/internal/config"
	"github.com/Mortti11/Marjetas-project/internal/forecast"
	"github.com/Mortti11/Marjetas-project/internal/models"
	"github.com/Mortti11/Marjetas-project/internal/roadrisk"
	"github.com/Mortti11/Marjetas-project/pkg/client"
)

const dateLayout = "2006-01-02"

// ErrUpstream marks Open-Meteo failures so the API layer can answer 502
// instead of a generic 500.
var ErrUpstream = errors.New("upstream data source unavailable")

type ForecastSource interface {
	GetHourlyForecast(ctx context.Context, lat, lon float64, timezone string, days int) (*client.ForecastResponse, error)
}

type HistorySource interface {
	GetHourlyHistory(ctx context.Context, lat, lon float64, timezone, startDate, endDate string) (*client.ArchiveResponse, error)
}

// Analyzer owns the upstream-backed flows: fetching and adapting hourly
// data, road forecast summaries and observed event aggregates. Pure
// request-shaped analysis (the POST endpoints) goes straight to the
// analysis packages and does not pass through here.
type Analyzer struct {
	forecastSource ForecastSource
	historySource  HistorySource
	cache          *AnalysisCache
	cfg            *config.Config
	logger         *zap.Logger
	mu             sync.RWMutex
	lastRefresh    time.Time
	successCount   int
	failureCount   int
}

func NewAnalyzer(cfg *config.Config, logger *zap.Logger) *Analyzer {
	clientConfig := client.ClientConfig{
		Timeout:        cfg.Client.Timeout,
		MaxRetries:     cfg.Retry.MaxRetries,
		RetryDelay:     cfg.Retry.Delay,
		Multiplier:     cfg.Retry.Multiplier,
		BreakerTimeout: cfg.CircuitBreaker.Timeout,
	}

	return &Analyzer{
		forecastSource: client.NewOpenMeteoClient(clientConfig, logger),
		historySource:  client.NewArchiveClient(clientConfig, logger),
		cache:          NewAnalysisCache(cfg.Cache.Duration, cfg.Cache.MaxSize, logger),
		cfg:            cfg,
		logger:         logger,
	}
}

// Stop terminates the cache janitor.
func (a *Analyzer) Stop() {
	a.cache.Stop()
}

// ForecastRecords returns the adapted hourly forecast for a site, cached.
func (a *Analyzer) ForecastRecords(ctx context.Context, site config.Site) ([]models.HourlyRecord, error) {
	if records, ok := a.cache.GetForecast(site.Name); ok {
		return records, nil
	}
	return a.fetchForecast(ctx, site)
}

func (a *Analyzer) fetchForecast(ctx context.Context, site config.Site) ([]models.HourlyRecord, error) {
	resp, err := a.forecastSource.GetHourlyForecast(ctx, site.Lat, site.Lon, site.Timezone, a.cfg.Forecast.Days)
	if err != nil {
		a.logger.Error("Forecast fetch failed",
			zap.String("site", site.Name),
			zap.Error(err))
		return nil, fmt.Errorf("forecast for %s: %w", site.Name, ErrUpstream)
	}

	records := forecast.Adapt(resp.Hourly, site.Location())
	a.cache.SetForecast(site.Name, records)

	a.logger.Info("Forecast fetched",
		zap.String("site", site.Name),
		zap.Int("hours", len(records)))

	return records, nil
}

// ForecastEvents detects rain events in the site's forecast with drying
// estimates attached.
func (a *Analyzer) ForecastEvents(ctx context.Context, site config.Site) ([]models.EventWithDrying, error) {
	records, err := a.ForecastRecords(ctx, site)
	if err != nil {
		return nil, err
	}
	return forecast.EventsWithDrying(records, a.cfg.Thresholds), nil
}

// ForecastRisk scores the site's forecast hours for slipperiness.
func (a *Analyzer) ForecastRisk(ctx context.Context, site config.Site) ([]models.RiskRow, error) {
	records, err := a.ForecastRecords(ctx, site)
	if err != nil {
		return nil, err
	}
	return forecast.WithRisk(records, a.cfg.Thresholds), nil
}

// RoadForecast returns the road summary for a site, building it on demand
// when the scheduler has not populated the cache yet.
func (a *Analyzer) RoadForecast(ctx context.Context, site config.Site) (*models.RoadForecast, error) {
	if road, ok := a.cache.GetRoadForecast(site.Name); ok {
		return road, nil
	}

	records, err := a.ForecastRecords(ctx, site)
	if err != nil {
		return nil, err
	}

	road := a.buildRoadForecast(site, records)
	a.cache.SetRoadForecast(site.Name, road)
	return road, nil
}

// buildRoadForecast scores the forecast and assembles the summary payload.
// GeneratedAt pins to the first forecast hour so repeated builds over the
// same data agree; an empty forecast falls back to the build time.
func (a *Analyzer) buildRoadForecast(site config.Site, records []models.HourlyRecord) *models.RoadForecast {
	th := a.cfg.Thresholds
	rows := forecast.WithRisk(records, th)
	events := forecast.EventsWithDrying(records, th)

	hourly := make([]models.RoadHour, 0, len(rows))
	for _, row := range rows {
		hourly = append(hourly, models.RoadHour{
			Timestamp:     row.Timestamp,
			TempC:         row.TempC,
			SlipperyScore: row.SlipperyScore,
			SlipperyLevel: row.SlipperyLevel,
		})
	}

	generatedAt := time.Now()
	if len(rows) > 0 {
		generatedAt = rows[0].Timestamp
	}

	return &models.RoadForecast{
		Site:        site.Name,
		GeneratedAt: generatedAt,
		Hourly:      hourly,
		Events:      events,
		Stats:       roadrisk.ComputeRoadStats(rows, events),
	}
}

// HistoryRecords returns adapted observed hours covering the date plus the
// configured padding on both sides, cached per range.
func (a *Analyzer) HistoryRecords(ctx context.Context, site config.Site, date string) ([]models.HourlyRecord, error) {
	loc := site.Location()
	day, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}

	pad := a.cfg.Forecast.ArchivePadDays
	startDate := day.AddDate(0, 0, -pad).Format(dateLayout)
	endDate := day.AddDate(0, 0, pad).Format(dateLayout)

	if records, ok := a.cache.GetHistory(site.Name, startDate, endDate); ok {
		return records, nil
	}

	resp, err := a.historySource.GetHourlyHistory(ctx, site.Lat, site.Lon, site.Timezone, startDate, endDate)
	if err != nil {
		a.logger.Error("History fetch failed",
			zap.String("site", site.Name),
			zap.String("start", startDate),
			zap.String("end", endDate),
			zap.Error(err))
		return nil, fmt.Errorf("history for %s: %w", site.Name, ErrUpstream)
	}

	records := forecast.Adapt(resp.Hourly, loc)
	a.cache.SetHistory(site.Name, startDate, endDate, records)

	return records, nil
}

// EventAggregates builds the observed event-aggregate payload for one site
// and calendar date.
func (a *Analyzer) EventAggregates(ctx context.Context, site config.Site, date string, preH, postH int) (*models.EventAggregates, error) {
	records, err := a.HistoryRecords(ctx, site, date)
	if err != nil {
		return nil, err
	}

	payload := analysis.BuildEventAggregates(records, date, preH, postH, a.cfg.Thresholds)
	payload.Site = site.Name
	return &payload, nil
}

// RefreshAll rebuilds every site's forecast artifacts concurrently,
// bypassing cached forecasts. The scheduler drives this.
func (a *Analyzer) RefreshAll(ctx context.Context) error {
	a.mu.Lock()
	a.lastRefresh = time.Now()
	a.mu.Unlock()

	var wg sync.WaitGroup
	errs := make(chan error, len(a.cfg.Sites))

	start := time.Now()

	for _, site := range a.cfg.Sites {
		wg.Add(1)
		go func(site config.Site) {
			defer wg.Done()

			if err := a.refreshSite(ctx, site); err != nil {
				a.logger.Error("Failed to refresh site",
					zap.String("site", site.Name),
					zap.Error(err))
				errs <- err
				a.mu.Lock()
				a.failureCount++
				a.mu.Unlock()
			} else {
				a.mu.Lock()
				a.successCount++
				a.mu.Unlock()
			}
		}(site)
	}

	wg.Wait()
	close(errs)

	a.logger.Info("Site refresh completed",
		zap.Int("sites", len(a.cfg.Sites)),
		zap.Duration("duration", time.Since(start)))

	for err := range errs {
		if err != nil {
			return fmt.Errorf("some sites failed to refresh")
		}
	}

	return nil
}

func (a *Analyzer) refreshSite(ctx context.Context, site config.Site) error {
	records, err := a.fetchForecast(ctx, site)
	if err != nil {
		return err
	}
	a.cache.SetRoadForecast(site.Name, a.buildRoadForecast(site, records))
	return nil
}

func (a *Analyzer) GetLastRefreshTime() time.Time {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastRefresh
}

func (a *Analyzer) GetStats() map[string]interface{} {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return map[string]interface{}{
		"sites":         len(a.cfg.Sites),
		"success_count": a.successCount,
		"failure_count": a.failureCount,
		"last_refresh":  a.lastRefresh,
		"cache":         a.cache.GetStats(),
	}
}
