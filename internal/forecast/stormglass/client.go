// Package stormglass implements the forecast provider interface against the
// Storm Glass marine weather API.
package stormglass

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/sailwatch/sailwatch/internal/forecast"
	"github.com/sailwatch/sailwatch/internal/provider/resilience"
	"github.com/sailwatch/sailwatch/pkg/geo"
)

const (
	// ProviderName identifies this forecast provider.
	ProviderName = "stormglass"

	// DefaultBaseURL is the Storm Glass API base URL.
	DefaultBaseURL = "https://api.stormglass.io/v2"

	// metersPerSecondToKnots converts the API's m/s wind speeds.
	metersPerSecondToKnots = 1.9438444924406
)

// ClientConfig holds configuration for the Storm Glass client.
type ClientConfig struct {
	// APIKey is the Storm Glass API key (required).
	APIKey string

	// BaseURL is the API base URL (optional).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional). If nil, uses a
	// resilient client with defaults.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a Storm Glass API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new Storm Glass client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// pointResponse is the Storm Glass weather/point response shape. Each
// parameter carries per-source values; "sg" is the merged Storm Glass value.
type pointResponse struct {
	Hours []struct {
		Time          time.Time          `json:"time"`
		WindSpeed     map[string]float64 `json:"windSpeed"`
		WindDirection map[string]float64 `json:"windDirection"`
		Gust          map[string]float64 `json:"gust"`
		WaveHeight    map[string]float64 `json:"waveHeight"`
	} `json:"hours"`
}

// Forecast fetches hourly marine forecasts for a location.
func (c *Client) Forecast(ctx context.Context, pos geo.Position, horizon time.Duration) ([]forecast.Sample, error) {
	if c.apiKey == "" {
		return nil, forecast.ErrMissingCredentials
	}
	if !pos.Valid() {
		return nil, forecast.ErrInvalidCoordinates
	}

	start := time.Now().UTC()
	end := start.Add(horizon)

	url := fmt.Sprintf("%s/weather/point?lat=%.6f&lng=%.6f&params=windSpeed,windDirection,gust,waveHeight&start=%d&end=%d",
		c.baseURL, pos.Lat, pos.Lon, start.Unix(), end.Unix())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", forecast.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusPaymentRequired:
		return nil, forecast.ErrMissingCredentials
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d", forecast.ErrProviderUnavailable, resp.StatusCode)
	}

	var body pointResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", forecast.ErrMalformedResponse, err)
	}
	if len(body.Hours) == 0 {
		return nil, forecast.ErrMalformedResponse
	}

	samples := make([]forecast.Sample, 0, len(body.Hours))
	for _, h := range body.Hours {
		samples = append(samples, forecast.Sample{
			Time:             h.Time,
			WindSpeedKts:     h.WindSpeed["sg"] * metersPerSecondToKnots,
			WindDirectionDeg: h.WindDirection["sg"],
			GustKts:          h.Gust["sg"] * metersPerSecondToKnots,
			WaveHeightM:      h.WaveHeight["sg"],
		})
	}

	c.logger.Debug().
		Float64("lat", pos.Lat).
		Float64("lon", pos.Lon).
		Int("hours", len(samples)).
		Msg("fetched stormglass forecast")

	return samples, nil
}
