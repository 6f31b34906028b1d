package services

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Mortti11/Marjetas-project/internal/models"
)

type CacheItem struct {
	Data      interface{}
	ExpiresAt time.Time
}

// AnalysisCache holds the per-site artifacts that are expensive to rebuild:
// adapted forecast records, road forecast summaries and observed history
// windows. Entries expire after the default duration and a janitor sweeps
// them out once a minute.
type AnalysisCache struct {
	mu              sync.RWMutex
	forecasts       map[string]CacheItem // site -> []models.HourlyRecord
	roadForecasts   map[string]CacheItem // site -> *models.RoadForecast
	history         map[string]CacheItem // site|start|end -> []models.HourlyRecord
	logger          *zap.Logger
	defaultDuration time.Duration
	maxSize         int
	cleanupInterval time.Duration
	stopCleanup     chan bool
}

func NewAnalysisCache(defaultDuration time.Duration, maxSize int, logger *zap.Logger) *AnalysisCache {
	cache := &AnalysisCache{
		forecasts:       make(map[string]CacheItem),
		roadForecasts:   make(map[string]CacheItem),
		history:         make(map[string]CacheItem),
		logger:          logger,
		defaultDuration: defaultDuration,
		maxSize:         maxSize,
		cleanupInterval: time.Minute,
		stopCleanup:     make(chan bool),
	}

	go cache.startCleanup()

	return cache
}

func (c *AnalysisCache) SetForecast(site string, records []models.HourlyRecord) {
	c.set(c.forecasts, "forecast", site, records)
}

func (c *AnalysisCache) GetForecast(site string) ([]models.HourlyRecord, bool) {
	data, ok := c.get(c.forecasts, site)
	if !ok {
		return nil, false
	}
	records, ok := data.([]models.HourlyRecord)
	return records, ok
}

func (c *AnalysisCache) SetRoadForecast(site string, road *models.RoadForecast) {
	c.set(c.roadForecasts, "road_forecast", site, road)
}

func (c *AnalysisCache) GetRoadForecast(site string) (*models.RoadForecast, bool) {
	data, ok := c.get(c.roadForecasts, site)
	if !ok {
		return nil, false
	}
	road, ok := data.(*models.RoadForecast)
	return road, ok
}

func (c *AnalysisCache) SetHistory(site, startDate, endDate string, records []models.HourlyRecord) {
	c.set(c.history, "history", historyKey(site, startDate, endDate), records)
}

func (c *AnalysisCache) GetHistory(site, startDate, endDate string) ([]models.HourlyRecord, bool) {
	data, ok := c.get(c.history, historyKey(site, startDate, endDate))
	if !ok {
		return nil, false
	}
	records, ok := data.([]models.HourlyRecord)
	return records, ok
}

func historyKey(site, startDate, endDate string) string {
	return fmt.Sprintf("%s|%s|%s", site, startDate, endDate)
}

func (c *AnalysisCache) set(items map[string]CacheItem, what, key string, data interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Evict if this store is too large
	if len(items) >= c.maxSize {
		c.evictOldest(items, what)
	}

	expiresAt := time.Now().Add(c.defaultDuration)
	items[key] = CacheItem{
		Data:      data,
		ExpiresAt: expiresAt,
	}

	c.logger.Debug("Cached item",
		zap.String("cache", what),
		zap.String("key", key),
		zap.Time("expires_at", expiresAt))
}

func (c *AnalysisCache) get(items map[string]CacheItem, key string) (interface{}, bool) {
	c.mu.RLock()
	item, exists := items[key]
	c.mu.RUnlock()

	if !exists {
		return nil, false
	}

	if time.Now().After(item.ExpiresAt) {
		c.mu.Lock()
		delete(items, key)
		c.mu.Unlock()
		return nil, false
	}

	return item.Data, true
}

func (c *AnalysisCache) evictOldest(items map[string]CacheItem, what string) {
	var oldestKey string
	var oldestTime time.Time

	for key, item := range items {
		if oldestKey == "" || item.ExpiresAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = item.ExpiresAt
		}
	}

	if oldestKey != "" {
		delete(items, oldestKey)
		c.logger.Debug("Evicted oldest cache item",
			zap.String("cache", what),
			zap.String("key", oldestKey))
	}
}

func (c *AnalysisCache) startCleanup() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stopCleanup:
			return
		}
	}
}

func (c *AnalysisCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	expiredCount := 0

	for _, items := range []map[string]CacheItem{c.forecasts, c.roadForecasts, c.history} {
		for key, item := range items {
			if now.After(item.ExpiresAt) {
				delete(items, key)
				expiredCount++
			}
		}
	}

	if expiredCount > 0 {
		c.logger.Debug("Cleaned expired cache items",
			zap.Int("count", expiredCount))
	}
}

func (c *AnalysisCache) Stop() {
	close(c.stopCleanup)
}

func (c *AnalysisCache) GetStats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return map[string]interface{}{
		"forecast_items":      len(c.forecasts),
		"road_forecast_items": len(c.roadForecasts),
		"history_items":       len(c.history),
		"max_size":            c.maxSize,
		"default_duration":    c.defaultDuration.String(),
	}
}
