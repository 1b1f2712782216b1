package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sailwatch/sailwatch/internal/api/models"
	"github.com/sailwatch/sailwatch/internal/api/response"
	"github.com/sailwatch/sailwatch/internal/nav"
	"github.com/sailwatch/sailwatch/internal/route"
	"github.com/sailwatch/sailwatch/internal/sail"
	"github.com/sailwatch/sailwatch/pkg/geo"
)

// NavigationHandler handles live navigation endpoints.
type NavigationHandler struct {
	nav     *nav.Service
	tracker *route.Tracker
	store   route.Store
}

// NewNavigationHandler creates a new NavigationHandler.
func NewNavigationHandler(navSvc *nav.Service, tracker *route.Tracker, store route.Store) *NavigationHandler {
	return &NavigationHandler{nav: navSvc, tracker: tracker, store: store}
}

// Guidance handles POST /v1/navigation/guidance - course, ETA, and sail
// recommendation for the next waypoint.
func (h *NavigationHandler) Guidance(w http.ResponseWriter, r *http.Request) {
	var input models.GuidanceRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	sample := nav.SensorSample{
		Position:  geo.Position{Lat: input.Sensor.Lat, Lon: input.Sensor.Lon},
		SpeedKts:  input.Sensor.SpeedKts,
		Timestamp: input.Sensor.Timestamp,
	}
	wind := nav.Wind{SpeedKts: input.Wind.SpeedKts, AngleDeg: input.Wind.AngleDeg}

	mode := sail.Mode(input.Mode)
	if input.Mode == "" {
		mode = sail.ModeSpeed
	}

	var tide *nav.Tide
	if input.Tide != nil {
		tide = &nav.Tide{SpeedKts: input.Tide.SpeedKts, DirectionDeg: input.Tide.DirectionDeg}
	}

	guidance, err := h.nav.Guidance(sample, wind, mode, tide)
	if err != nil {
		switch {
		case errors.Is(err, route.ErrNoActiveRoute):
			response.Conflict(w, r, "no active route to navigate")
		case errors.Is(err, sail.ErrInvalidWindSpeed),
			errors.Is(err, sail.ErrInvalidWindAngle),
			errors.Is(err, sail.ErrInvalidMode):
			response.BadRequest(w, r, err.Error(), nil)
		default:
			response.InternalError(w, r, "failed to compute guidance")
		}
		return
	}

	response.JSON(w, r, http.StatusOK, guidance)
}

// positionUpdateResponse reports the tracker state after a position fix.
type positionUpdateResponse struct {
	State   route.State         `json:"state"`
	Arrival *route.ArrivalEvent `json:"arrival,omitempty"`
}

// UpdatePosition handles POST /v1/navigation/position - feed the tracker one
// position fix.
func (h *NavigationHandler) UpdatePosition(w http.ResponseWriter, r *http.Request) {
	var input models.PositionUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	event, err := h.nav.UpdatePosition(nav.SensorSample{
		Position:  geo.Position{Lat: input.Lat, Lon: input.Lon},
		SpeedKts:  input.SpeedKts,
		Timestamp: input.Timestamp,
	})
	if err != nil {
		if errors.Is(err, route.ErrInvalidSample) {
			response.BadRequest(w, r, err.Error(), []models.FieldError{
				{Field: "lat", Message: "must be within -90 to 90"},
				{Field: "lon", Message: "must be within -180 to 180"},
			})
			return
		}
		response.InternalError(w, r, "failed to update position")
		return
	}

	response.JSON(w, r, http.StatusOK, positionUpdateResponse{
		State:   h.tracker.State(),
		Arrival: event,
	})
}

// Progress handles GET /v1/navigation/progress - route completion summary.
func (h *NavigationHandler) Progress(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, h.nav.Progress())
}

// ActivateRoute handles PUT /v1/navigation/route - load a stored route onto
// the tracker.
func (h *NavigationHandler) ActivateRoute(w http.ResponseWriter, r *http.Request) {
	var input models.ActivateRouteRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	if input.RouteID == "" {
		response.BadRequest(w, r, "routeId is required", []models.FieldError{
			{Field: "routeId", Message: "required"},
		})
		return
	}

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
	response.JSON(w, r, http.StatusOK, rt)
}

// ActiveRoute handles GET /v1/navigation/route - the route currently being
// tracked.
func (h *NavigationHandler) ActiveRoute(w http.ResponseWriter, r *http.Request) {
	rt := h.tracker.ActiveRoute()
	if rt == nil {
		response.NotFound(w, r, "no active route")
		return
	}
	response.JSON(w, r, http.StatusOK, rt)
}
