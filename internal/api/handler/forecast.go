package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/sailwatch/sailwatch/internal/api/response"
	"github.com/sailwatch/sailwatch/internal/forecast"
	"github.com/sailwatch/sailwatch/pkg/geo"
)

// ForecastHandler handles direct marine forecast queries.
type ForecastHandler struct {
	svc *forecast.Service
}

// NewForecastHandler creates a new ForecastHandler.
func NewForecastHandler(svc *forecast.Service) *ForecastHandler {
	return &ForecastHandler{svc: svc}
}

// Forecast handles GET /v1/forecast?lat=&lon=&days= - hourly marine forecast
// samples for a position.
func (h *ForecastHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	lat, ok := floatQuery(w, r, "lat")
	if !ok {
		return
	}
	lon, ok := floatQuery(w, r, "lon")
	if !ok {
		return
	}

	days := 3
	if raw := r.URL.Query().Get("days"); raw != "" {
		d, ok := floatQuery(w, r, "days")
		if !ok {
			return
		}
		days = int(d)
		if days < 1 || days > 10 {
			response.BadRequest(w, r, "days must be between 1 and 10", nil)
			return
		}
	}

	samples, err := h.svc.Forecast(r.Context(), geo.Position{Lat: lat, Lon: lon}, time.Duration(days)*24*time.Hour)
	if err != nil {
		switch {
		case errors.Is(err, forecast.ErrInvalidCoordinates):
			response.BadRequest(w, r, err.Error(), nil)
		case errors.Is(err, forecast.ErrMissingCredentials),
			errors.Is(err, forecast.ErrProviderUnavailable),
			errors.Is(err, forecast.ErrMalformedResponse):
			response.ServiceUnavailable(w, r, "forecast provider unavailable")
		default:
			response.InternalError(w, r, "failed to fetch forecast")
		}
		return
	}

	response.JSON(w, r, http.StatusOK, samples)
}
