package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// hourlyVars is the variable set requested from both the forecast and the
// archive endpoints. These are the legacy Open-Meteo names; the API keeps
// serving them alongside the newer snake_case aliases, and the response
// keys match the request spelling.
var hourlyVars = []string{
	"temperature_2m",
	"relativehumidity_2m",
	"dewpoint_2m",
	"precipitation",
	"rain",
	"snowfall",
	"weathercode",
	"windspeed_10m",
	"winddirection_10m",
	"surface_pressure",
}

// HourlySeries is the hourly block of an Open-Meteo response: one parallel
// array per variable, aligned with Time. Values are pointers because the
// API encodes missing hours as JSON null.
type HourlySeries struct {
	Time               []string   `json:"time"`
	Temperature2M      []*float64 `json:"temperature_2m"`
	RelativeHumidity2M []*float64 `json:"relativehumidity_2m"`
	Dewpoint2M         []*float64 `json:"dewpoint_2m"`
	Precipitation      []*float64 `json:"precipitation"`
	Rain               []*float64 `json:"rain"`
	Snowfall           []*float64 `json:"snowfall"`
	WeatherCode        []*float64 `json:"weathercode"`
	WindSpeed10M       []*float64 `json:"windspeed_10m"`
	WindDirection10M   []*float64 `json:"winddirection_10m"`
	SurfacePressure    []*float64 `json:"surface_pressure"`
}

type ForecastResponse struct {
	Latitude  float64      `json:"latitude"`
	Longitude float64      `json:"longitude"`
	Timezone  string       `json:"timezone"`
	Hourly    HourlySeries `json:"hourly"`
}

type OpenMeteoClient struct {
	*BaseClient
	baseURL string
}

func NewOpenMeteoClient(config ClientConfig, logger *zap.Logger) *OpenMeteoClient {
	return &OpenMeteoClient{
		BaseClient: NewBaseClient("openmeteo", config, logger),
		baseURL:    "https://api.open-meteo.com/v1",
	}
}

// GetHourlyForecast fetches the hourly forecast for one site. Passing the
// timezone makes Open-Meteo return wall-clock times in that zone, so the
// response can be parsed directly into site-local timestamps.
func (c *OpenMeteoClient) GetHourlyForecast(ctx context.Context, lat, lon float64, timezone string, days int) (*ForecastResponse, error) {
	url := fmt.Sprintf("%s/forecast?latitude=%.4f&longitude=%.4f&hourly=%s&forecast_days=%d&timezone=%s",
		c.baseURL, lat, lon, strings.Join(hourlyVars, ","), days, timezone)

	data, err := c.GetWithRetry(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch hourly forecast: %w", err)
	}

	var response ForecastResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to parse forecast response: %w", err)
	}

	return &response, nil
}
