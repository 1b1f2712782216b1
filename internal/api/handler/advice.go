package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/sailwatch/sailwatch/internal/api/models"
	"github.com/sailwatch/sailwatch/internal/api/response"
	"github.com/sailwatch/sailwatch/internal/polar"
	"github.com/sailwatch/sailwatch/internal/sail"
)

// AdviceHandler handles sail advice and polar queries.
type AdviceHandler struct {
	advisor *sail.Advisor
	model   *polar.Model
}

// NewAdviceHandler creates a new AdviceHandler.
func NewAdviceHandler(advisor *sail.Advisor, model *polar.Model) *AdviceHandler {
	return &AdviceHandler{advisor: advisor, model: model}
}

// Recommend handles POST /v1/advice - sail recommendation for one wind
// condition.
func (h *AdviceHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var input models.AdviceRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	mode := sail.Mode(input.Mode)
	if input.Mode == "" {
		mode = sail.ModeSpeed
	}

	rec, err := h.advisor.Recommend(input.WindSpeedKts, input.WindAngleDeg, mode)
	if err != nil {
		switch {
		case errors.Is(err, sail.ErrInvalidWindSpeed):
			response.BadRequest(w, r, err.Error(), []models.FieldError{
				{Field: "windSpeedKts", Message: "must be a non-negative number"},
			})
		case errors.Is(err, sail.ErrInvalidWindAngle):
			response.BadRequest(w, r, err.Error(), []models.FieldError{
				{Field: "windAngleDeg", Message: "must be within 0-360"},
			})
		case errors.Is(err, sail.ErrInvalidMode):
			response.BadRequest(w, r, err.Error(), []models.FieldError{
				{Field: "mode", Message: "must be speed or comfort"},
			})
		default:
			response.InternalError(w, r, "failed to compute recommendation")
		}
		return
	}

	response.JSON(w, r, http.StatusOK, rec)
}

// PolarSpeed handles GET /v1/polar/speed - predicted boat speed for a wind
// condition, optionally pinned to a named sail configuration.
func (h *AdviceHandler) PolarSpeed(w http.ResponseWriter, r *http.Request) {
	tws, twa, ok := windQuery(w, r)
	if !ok {
		return
	}
	config := r.URL.Query().Get("config")

	speed, err := h.model.SpeedAt(tws, twa, config)
	if err != nil {
		if errors.Is(err, polar.ErrConfigNotFound) {
			response.NotFound(w, r, "no sail configuration matches the query")
			return
		}
		response.BadRequest(w, r, err.Error(), nil)
		return
	}

	response.JSON(w, r, http.StatusOK, models.PolarSpeedResponse{
		WindSpeedKts: tws,
		WindAngleDeg: twa,
		SailConfig:   config,
		SpeedKts:     speed,
	})
}

// PolarTargets handles GET /v1/polar/targets - optimal upwind and downwind
// VMG angles for a wind speed.
func (h *AdviceHandler) PolarTargets(w http.ResponseWriter, r *http.Request) {
	tws, ok := floatQuery(w, r, "windSpeedKts")
	if !ok {
		return
	}
	config := r.URL.Query().Get("config")

	targets, err := h.model.OptimalVMG(tws, config)
	if err != nil {
		if errors.Is(err, polar.ErrConfigNotFound) {
			response.NotFound(w, r, "no sail configuration matches the query")
			return
		}
		response.BadRequest(w, r, err.Error(), nil)
		return
	}

	response.JSON(w, r, http.StatusOK, targets)
}

func windQuery(w http.ResponseWriter, r *http.Request) (tws, twa float64, ok bool) {
	tws, ok = floatQuery(w, r, "windSpeedKts")
	if !ok {
		return 0, 0, false
	}
	twa, ok = floatQuery(w, r, "windAngleDeg")
	if !ok {
		return 0, 0, false
	}
	return tws, twa, true
}

func floatQuery(w http.ResponseWriter, r *http.Request, name string) (float64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		response.BadRequest(w, r, name+" is required", []models.FieldError{
			{Field: name, Message: "required"},
		})
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		response.BadRequest(w, r, name+" must be a number", []models.FieldError{
			{Field: name, Message: "must be a number"},
		})
		return 0, false
	}
	return v, true
}
