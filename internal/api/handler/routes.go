package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sailwatch/sailwatch/internal/api/response"
	"github.com/sailwatch/sailwatch/internal/route"
)

// RoutesHandler handles stored route endpoints.
type RoutesHandler struct {
	store route.Store
}

// NewRoutesHandler creates a new RoutesHandler.
func NewRoutesHandler(store route.Store) *RoutesHandler {
	return &RoutesHandler{store: store}
}

// ListRoutes handles GET /v1/routes - all stored routes.
func (h *RoutesHandler) ListRoutes(w http.ResponseWriter, r *http.Request) {
	routes, err := h.store.ListRoutes(r.Context())
	if err != nil {
		response.InternalError(w, r, "failed to list routes")
		return
	}
	response.JSON(w, r, http.StatusOK, routes)
}

// GetRoute handles GET /v1/routes/{routeId} - one stored route.
func (h *RoutesHandler) GetRoute(w http.ResponseWriter, r *http.Request) {
	routeID := chi.URLParam(r, "routeId")
	if routeID == "" {
		response.BadRequest(w, r, "routeId is required", nil)
		return
	}

	rt, err := h.store.GetRoute(r.Context(), routeID)
	if err != nil {
		if errors.Is(err, route.ErrRouteNotFound) {
			response.NotFound(w, r, "route not found")
			return
		}
		response.InternalError(w, r, "failed to load route")
		return
	}

	response.JSON(w, r, http.StatusOK, rt)
}
