package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/sailwatch/sailwatch/internal/api/models"
	"github.com/sailwatch/sailwatch/internal/api/response"
	"github.com/sailwatch/sailwatch/internal/monitor"
	"github.com/sailwatch/sailwatch/internal/route"
	"github.com/sailwatch/sailwatch/pkg/geo"
)

// MonitorHandler handles route monitoring endpoints.
type MonitorHandler struct {
	svc     *monitor.Service
	tracker *route.Tracker
	store   route.Store
}

// NewMonitorHandler creates a new MonitorHandler.
func NewMonitorHandler(svc *monitor.Service, tracker *route.Tracker, store route.Store) *MonitorHandler {
	return &MonitorHandler{svc: svc, tracker: tracker, store: store}
}

// Start handles POST /v1/monitor/start - begin scheduled monitoring from a
// vessel position. Starting while running replaces the existing schedule.
func (h *MonitorHandler) Start(w http.ResponseWriter, r *http.Request) {
	var input models.MonitorStartRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if input.RouteID != "" {
		rt, err := h.store.GetRoute(r.Context(), input.RouteID)
		if err != nil {
			if errors.Is(err, route.ErrRouteNotFound) {
				response.NotFound(w, r, "route not found")
				return
			}
			response.InternalError(w, r, "failed to load route")
			return
		}
		h.tracker.SetRoute(rt)
	}

	if err := h.svc.Start(r.Context(), geo.Position{Lat: input.Lat, Lon: input.Lon}); err != nil {
		if errors.Is(err, monitor.ErrInvalidPosition) {
			response.BadRequest(w, r, err.Error(), []models.FieldError{
				{Field: "lat", Message: "must be within -90 to 90"},
				{Field: "lon", Message: "must be within -180 to 180"},
			})
			return
		}
		response.InternalError(w, r, "failed to start monitoring")
		return
	}

	response.JSON(w, r, http.StatusOK, models.MonitorStatusResponse{Running: true})
}

// Stop handles POST /v1/monitor/stop - cancel the monitoring schedule.
// Stopping when not running is a no-op.
func (h *MonitorHandler) Stop(w http.ResponseWriter, r *http.Request) {
	h.svc.Stop()
	response.JSON(w, r, http.StatusOK, models.MonitorStatusResponse{Running: false})
}

// Status handles GET /v1/monitor/status - whether the schedule is active.
func (h *MonitorHandler) Status(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, models.MonitorStatusResponse{Running: h.svc.Running()})
}

// Alerts handles GET /v1/monitor/alerts - the alert set from the most recent
// cycle.
func (h *MonitorHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, h.svc.Alerts())
}

// History handles GET /v1/monitor/history?limit= - forecast history entries,
// newest first.
func (h *MonitorHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			response.BadRequest(w, r, "limit must be a non-negative integer", []models.FieldError{
				{Field: "limit", Message: "must be a non-negative integer"},
			})
			return
		}
		limit = v
	}
	response.JSON(w, r, http.StatusOK, h.svc.History(limit))
}

// GetConfig handles GET /v1/monitor/config - the active monitoring
// configuration.
func (h *MonitorHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, h.svc.Config())
}

// UpdateConfig handles PUT /v1/monitor/config - partial configuration update.
// Omitted fields keep their current values.
func (h *MonitorHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var input monitor.ConfigUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	cfg, err := h.svc.UpdateConfig(input)
	if err != nil {
		if errors.Is(err, monitor.ErrInvalidConfig) {
			response.BadRequest(w, r, err.Error(), nil)
			return
		}
		response.InternalError(w, r, "failed to update config")
		return
	}

	response.JSON(w, r, http.StatusOK, cfg)
}

// RecordObservation handles POST /v1/monitor/observations - attach actual
// conditions to the most recent unmatched forecast entry.
func (h *MonitorHandler) RecordObservation(w http.ResponseWriter, r *http.Request) {
	var input monitor.Observation
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if !h.svc.RecordActualConditions(input) {
		response.Conflict(w, r, "no forecast entry awaiting an observation")
		return
	}

	response.NoContent(w, r)
}

// Accuracy handles GET /v1/monitor/accuracy - mean absolute forecast error
// over paired entries.
func (h *MonitorHandler) Accuracy(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.Accuracy()
	if err != nil {
		if errors.Is(err, monitor.ErrNoObservations) {
			response.NotFound(w, r, "no recorded observations to compare against")
			return
		}
		response.InternalError(w, r, "failed to compute accuracy")
		return
	}
	response.JSON(w, r, http.StatusOK, report)
}
