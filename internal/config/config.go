package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Mortti11/Marjetas-project/internal/analysis"
)

// Site is one analysis location. All timestamps produced for a site are
// expressed in its IANA timezone.
type Site struct {
	Name     string  `json:"name"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Timezone string  `json:"timezone"`
}

// Location resolves the site's timezone. Entries are validated when the
// config is parsed, so a failure here means the tz database changed
// underneath the process; UTC is the fallback.
func (s Site) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

type Config struct {
	Server struct {
		Port         string
		ReadTimeout  time.Duration
		WriteTimeout time.Duration
		LogLevel     string
	}

	Sites []Site

	Forecast struct {
		Days           int
		ArchivePadDays int
	}

	Scheduler struct {
		RefreshInterval time.Duration
	}

	Cache struct {
		Duration time.Duration
		MaxSize  int
	}

	Client struct {
		Timeout time.Duration
	}

	CircuitBreaker struct {
		Timeout time.Duration
	}

	Retry struct {
		MaxRetries int
		Delay      time.Duration
		Multiplier float64
	}

	Thresholds analysis.Thresholds
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		zap.L().Info("No .env file found, using environment variables")
	}

	cfg := &Config{}

	// Server configuration
	cfg.Server.Port = getEnv("FIBER_PORT", "8080")
	cfg.Server.ReadTimeout = parseDuration(getEnv("FIBER_READ_TIMEOUT", "10s"))
	cfg.Server.WriteTimeout = parseDuration(getEnv("FIBER_WRITE_TIMEOUT", "10s"))
	cfg.Server.LogLevel = getEnv("LOG_LEVEL", "info")

	// Analysis sites, semicolon-separated name:lat:lon:timezone entries
	cfg.Sites = parseSites(getEnv("SITES", "jyvaskyla:62.2415:25.7209:Europe/Helsinki"))

	// Forecast configuration
	cfg.Forecast.Days = parseInt(getEnv("FORECAST_DAYS", "10"))
	cfg.Forecast.ArchivePadDays = parseInt(getEnv("ARCHIVE_PAD_DAYS", "2"))

	// Scheduler configuration
	cfg.Scheduler.RefreshInterval = parseDuration(getEnv("REFRESH_INTERVAL", "30m"))

	// Cache configuration
	cfg.Cache.Duration = parseDuration(getEnv("CACHE_DURATION", "10m"))
	cfg.Cache.MaxSize = parseInt(getEnv("MAX_CACHE_SIZE", "1000"))

	// Upstream HTTP configuration
	cfg.Client.Timeout = parseDuration(getEnv("HTTP_TIMEOUT", "30s"))
	cfg.CircuitBreaker.Timeout = parseDuration(getEnv("CIRCUIT_BREAKER_TIMEOUT", "30s"))
	cfg.Retry.MaxRetries = parseInt(getEnv("MAX_RETRIES", "3"))
	cfg.Retry.Delay = parseDuration(getEnv("RETRY_DELAY", "1s"))
	cfg.Retry.Multiplier = parseFloat(getEnv("RETRY_MULTIPLIER", "2"))

	// Analysis thresholds
	cfg.Thresholds = loadThresholds()

	return cfg, nil
}

// SiteByName resolves a configured site, matching case-insensitively.
func (c *Config) SiteByName(name string) (Site, bool) {
	for _, s := range c.Sites {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return Site{}, false
}

// parseSites parses the SITES value. Malformed entries are skipped with a
// warning; when nothing survives, the Jyvaskyla default is used so the
// service always has at least one site.
func parseSites(value string) []Site {
	var sites []Site
	for _, entry := range strings.Split(value, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, ":")
		if len(parts) != 4 {
			zap.L().Warn("Skipping malformed site entry", zap.String("entry", entry))
			continue
		}
		lat, latErr := strconv.ParseFloat(parts[1], 64)
		lon, lonErr := strconv.ParseFloat(parts[2], 64)
		if latErr != nil || lonErr != nil {
			zap.L().Warn("Skipping site with bad coordinates", zap.String("entry", entry))
			continue
		}
		if _, err := time.LoadLocation(parts[3]); err != nil {
			zap.L().Warn("Skipping site with unknown timezone",
				zap.String("entry", entry),
				zap.Error(err))
			continue
		}
		sites = append(sites, Site{
			Name:     strings.ToLower(parts[0]),
			Lat:      lat,
			Lon:      lon,
			Timezone: parts[3],
		})
	}

	if len(sites) == 0 {
		sites = []Site{{Name: "jyvaskyla", Lat: 62.2415, Lon: 25.7209, Timezone: "Europe/Helsinki"}}
	}
	return sites
}

// loadThresholds starts from the standard bundle and applies per-field env
// overrides, so a deployment can tune single cutoffs without restating the
// rest.
func loadThresholds() analysis.Thresholds {
	th := analysis.DefaultThresholds()

	overrideFloat(&th.RainEventMMH, "RAIN_EVENT_MM_H")
	overrideFloat(&th.LeafWetRHPct, "LEAF_WET_RH_PCT")
	overrideFloat(&th.LeafWetDPSpreadMaxC, "LEAF_WET_DP_SPREAD_MAX_C")

	overrideFloat(&th.DryStrict.RainMaxMMH, "DRY_STRICT_RAIN_MAX_MM_H")
	overrideFloat(&th.DryStrict.RHMaxPct, "DRY_STRICT_RH_MAX_PCT")
	overrideFloat(&th.DryStrict.DPSpreadMinC, "DRY_STRICT_DP_SPREAD_MIN_C")
	overrideFloat(&th.DryStrict.VPDMinKPa, "DRY_STRICT_VPD_MIN_KPA")
	overrideFloat(&th.DryStrict.WindMinKmh, "DRY_STRICT_WIND_MIN_KMH")

	overrideFloat(&th.DryCity.RainMaxMMH, "DRY_CITY_RAIN_MAX_MM_H")
	overrideFloat(&th.DryCity.RHMaxPct, "DRY_CITY_RH_MAX_PCT")
	overrideFloat(&th.DryCity.DPSpreadMinC, "DRY_CITY_DP_SPREAD_MIN_C")
	overrideFloat(&th.DryCity.VPDMinKPa, "DRY_CITY_VPD_MIN_KPA")
	overrideFloat(&th.DryCity.WindMinKmh, "DRY_CITY_WIND_MIN_KMH")

	return th
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// overrideFloat replaces *target when the env var is set and parses; a value
// that does not parse keeps the default rather than zeroing the cutoff.
func overrideFloat(target *float64, key string) {
	value := os.Getenv(key)
	if value == "" {
		return
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		zap.L().Warn("Failed to parse float override",
			zap.String("key", key),
			zap.String("value", value),
			zap.Error(err))
		return
	}
	*target = f
}

func parseDuration(value string) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		zap.L().Warn("Failed to parse duration", zap.String("value", value), zap.Error(err))
		return 0
	}
	return duration
}

func parseInt(value string) int {
	intValue, err := strconv.Atoi(value)
	if err != nil {
		zap.L().Warn("Failed to parse int", zap.String("value", value), zap.Error(err))
		return 0
	}
	return intValue
}

func parseFloat(value string) float64 {
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		zap.L().Warn("Failed to parse float", zap.String("value", value), zap.Error(err))
		return 0
	}
	return floatValue
}
