package models

import "time"

// SensorReading is the vessel state reported by the instruments.
type SensorReading struct {
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	SpeedKts  float64   `json:"speedKts"`
	Timestamp time.Time `json:"timestamp"`
}

// WindReading is the observed true wind.
type WindReading struct {
	SpeedKts float64 `json:"speedKts"`
	AngleDeg float64 `json:"angleDeg"`
}

// TideReading is the current set and drift, when known.
type TideReading struct {
	SpeedKts     float64 `json:"speedKts"`
	DirectionDeg float64 `json:"directionDeg"`
}

// GuidanceRequest asks for navigation guidance to the next waypoint.
type GuidanceRequest struct {
	Sensor SensorReading `json:"sensor"`
	Wind   WindReading   `json:"wind"`
	Mode   string        `json:"mode"`
	Tide   *TideReading  `json:"tide,omitempty"`
}

// PositionUpdateRequest feeds one position fix into the tracker.
type PositionUpdateRequest struct {
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	SpeedKts  float64   `json:"speedKts"`
	Timestamp time.Time `json:"timestamp"`
}

// ActivateRouteRequest selects the stored route to track.
type ActivateRouteRequest struct {
	RouteID string `json:"routeId"`
}
