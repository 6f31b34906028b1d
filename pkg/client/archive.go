package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ArchiveClient talks to the Open-Meteo ERA5 archive, the source of observed
// history for the station analysis endpoints. Separate host, separate
// circuit breaker.
type ArchiveClient struct {
	*BaseClient
	baseURL string
}

type ArchiveResponse struct {
	Latitude  float64      `json:"latitude"`
	Longitude float64      `json:"longitude"`
	Timezone  string       `json:"timezone"`
	Hourly    HourlySeries `json:"hourly"`
}

func NewArchiveClient(config ClientConfig, logger *zap.Logger) *ArchiveClient {
	return &ArchiveClient{
		BaseClient: NewBaseClient("openmeteo-archive", config, logger),
		baseURL:    "https://archive-api.open-meteo.com/v1",
	}
}

// GetHourlyHistory fetches observed hours for the inclusive date range.
// Dates are YYYY-MM-DD interpreted in the requested timezone.
func (c *ArchiveClient) GetHourlyHistory(ctx context.Context, lat, lon float64, timezone, startDate, endDate string) (*ArchiveResponse, error) {
	url := fmt.Sprintf("%s/archive?latitude=%.4f&longitude=%.4f&hourly=%s&start_date=%s&end_date=%s&timezone=%s",
		c.baseURL, lat, lon, strings.Join(hourlyVars, ","), startDate, endDate, timezone)

	data, err := c.GetWithRetry(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch hourly history: %w", err)
	}

	var response ArchiveResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to parse archive response: %w", err)
	}

	return &response, nil
}
