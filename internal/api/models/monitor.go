package models

// MonitorStartRequest begins monitoring from a vessel position. RouteID is
// optional; when set, the stored route is activated in the tracker first.
type MonitorStartRequest struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	RouteID string  `json:"routeId,omitempty"`
}

// MonitorStatusResponse reports whether the monitoring schedule is active.
type MonitorStatusResponse struct {
	Running bool `json:"running"`
}
