package stormglass_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sailwatch/sailwatch/internal/forecast"
	"github.com/sailwatch/sailwatch/internal/forecast/stormglass"
	"github.com/sailwatch/sailwatch/pkg/geo"
)

const pointBody = `{
	"hours": [
		{
			"time": "2026-08-27T12:00:00+00:00",
			"windSpeed": {"sg": 10.0},
			"windDirection": {"sg": 225.0},
			"gust": {"sg": 15.0},
			"waveHeight": {"sg": 2.1}
		},
		{
			"time": "2026-08-27T13:00:00+00:00",
			"windSpeed": {"sg": 12.0},
			"windDirection": {"sg": 230.0},
			"gust": {"sg": 14.0},
			"waveHeight": {"sg": 2.4}
		}
	]
}`

func TestClient_Forecast(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/weather/point", r.URL.Path)
		assert.Equal(t, "windSpeed,windDirection,gust,waveHeight", r.URL.Query().Get("params"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(pointBody))
	}))
	defer server.Close()

	client := stormglass.NewClient(stormglass.ClientConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Logger:  zerolog.Nop(),
	})

	samples, err := client.Forecast(context.Background(), geo.Position{Lat: 52.4, Lon: 4.9}, 24*time.Hour)
	require.NoError(t, err)
	require.Len(t, samples, 2)

	assert.Equal(t, "test-key", gotAuth)
	// 10 m/s is 19.44 knots.
	assert.InDelta(t, 19.44, samples[0].WindSpeedKts, 0.01)
	assert.Equal(t, 225.0, samples[0].WindDirectionDeg)
	assert.InDelta(t, 29.16, samples[0].GustKts, 0.01)
	assert.Equal(t, 2.1, samples[0].WaveHeightM)
}

func TestClient_Forecast_MissingAPIKey(t *testing.T) {
	client := stormglass.NewClient(stormglass.ClientConfig{Logger: zerolog.Nop()})

	_, err := client.Forecast(context.Background(), geo.Position{Lat: 52.4, Lon: 4.9}, time.Hour)
	assert.ErrorIs(t, err, forecast.ErrMissingCredentials)
}

func TestClient_Forecast_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := stormglass.NewClient(stormglass.ClientConfig{
		APIKey:  "expired",
		BaseURL: server.URL,
		Logger:  zerolog.Nop(),
	})

	_, err := client.Forecast(context.Background(), geo.Position{Lat: 52.4, Lon: 4.9}, time.Hour)
	assert.ErrorIs(t, err, forecast.ErrMissingCredentials)
}

func TestClient_Forecast_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"hours": `))
	}))
	defer server.Close()

	client := stormglass.NewClient(stormglass.ClientConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Logger:  zerolog.Nop(),
	})

	_, err := client.Forecast(context.Background(), geo.Position{Lat: 52.4, Lon: 4.9}, time.Hour)
	assert.ErrorIs(t, err, forecast.ErrMalformedResponse)
}

func TestClient_Forecast_EmptyHours(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"hours": []}`))
	}))
	defer server.Close()

	client := stormglass.NewClient(stormglass.ClientConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Logger:  zerolog.Nop(),
	})

	_, err := client.Forecast(context.Background(), geo.Position{Lat: 52.4, Lon: 4.9}, time.Hour)
	assert.ErrorIs(t, err, forecast.ErrMalformedResponse)
}

func TestClient_Forecast_InvalidCoordinates(t *testing.T) {
	client := stormglass.NewClient(stormglass.ClientConfig{
		APIKey: "test-key",
		Logger: zerolog.Nop(),
	})

	_, err := client.Forecast(context.Background(), geo.Position{Lat: -91, Lon: 0}, time.Hour)
	assert.ErrorIs(t, err, forecast.ErrInvalidCoordinates)
}
