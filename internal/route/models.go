// Package route holds route and waypoint models and the stateful tracker
// that follows a vessel along a planned route.
package route

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/sailwatch/sailwatch/pkg/geo"
)

// Route errors.
var (
	ErrRouteNotFound    = errors.New("route not found")
	ErrWaypointNotFound = errors.New("waypoint not found")
	ErrInvalidWaypoint  = errors.New("waypoint coordinates out of range")
)

// Waypoint is a single mark on a route. Waypoints are owned exclusively by
// their Route; Sequence is unique and monotonic within it.
type Waypoint struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Lat       float64    `json:"lat"`
	Lon       float64    `json:"lon"`
	Sequence  int        `json:"sequence"`
	Arrived   bool       `json:"arrived"`
	ArrivedAt *time.Time `json:"arrivedAt,omitempty"`
}

// Position returns the waypoint's coordinates.
func (w *Waypoint) Position() geo.Position {
	return geo.Position{Lat: w.Lat, Lon: w.Lon}
}

// Route is an ordered sequence of waypoints.
type Route struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Waypoints    []Waypoint `json:"waypoints"`
	LastModified time.Time  `json:"lastModified"`
}

// NewRoute creates an empty named route.
func NewRoute(name string) *Route {
	return &Route{
		ID:           "rte_" + uuid.New().String()[:22],
		Name:         name,
		LastModified: time.Now(),
	}
}

// AddWaypoint appends a waypoint at the end of the route.
func (r *Route) AddWaypoint(name string, lat, lon float64) (*Waypoint, error) {
	if !(geo.Position{Lat: lat, Lon: lon}).Valid() {
		return nil, ErrInvalidWaypoint
	}

	wp := Waypoint{
		ID:       "wpt_" + uuid.New().String()[:22],
		Name:     name,
		Lat:      lat,
		Lon:      lon,
		Sequence: len(r.Waypoints),
	}
	r.Waypoints = append(r.Waypoints, wp)
	r.LastModified = time.Now()
	return &r.Waypoints[len(r.Waypoints)-1], nil
}

// EditWaypoint updates the name and coordinates of a waypoint by ID.
func (r *Route) EditWaypoint(id, name string, lat, lon float64) error {
	if !(geo.Position{Lat: lat, Lon: lon}).Valid() {
		return ErrInvalidWaypoint
	}
	for i := range r.Waypoints {
		if r.Waypoints[i].ID == id {
			r.Waypoints[i].Name = name
			r.Waypoints[i].Lat = lat
			r.Waypoints[i].Lon = lon
			r.LastModified = time.Now()
			return nil
		}
	}
	return ErrWaypointNotFound
}

// RemoveWaypoint deletes a waypoint by ID and renumbers the remainder.
func (r *Route) RemoveWaypoint(id string) error {
	for i := range r.Waypoints {
		if r.Waypoints[i].ID == id {
			r.Waypoints = append(r.Waypoints[:i], r.Waypoints[i+1:]...)
			r.renumber()
			r.LastModified = time.Now()
			return nil
		}
	}
	return ErrWaypointNotFound
}

// Reorder rearranges the waypoints to match the given ID order. Every
// existing waypoint must appear exactly once.
func (r *Route) Reorder(ids []string) error {
	if len(ids) != len(r.Waypoints) {
		return ErrWaypointNotFound
	}

	byID := make(map[string]Waypoint, len(r.Waypoints))
	for _, wp := range r.Waypoints {
		byID[wp.ID] = wp
	}

	reordered := make([]Waypoint, 0, len(ids))
	for _, id := range ids {
		wp, ok := byID[id]
		if !ok {
			return ErrWaypointNotFound
		}
		delete(byID, id)
		reordered = append(reordered, wp)
	}

	r.Waypoints = reordered
	r.renumber()
	r.LastModified = time.Now()
	return nil
}

// TotalDistanceNm returns the sum of leg distances along the route.
func (r *Route) TotalDistanceNm() float64 {
	total := 0.0
	for i := 1; i < len(r.Waypoints); i++ {
		total += geo.DistanceNm(r.Waypoints[i-1].Position(), r.Waypoints[i].Position())
	}
	return total
}

func (r *Route) renumber() {
	for i := range r.Waypoints {
		r.Waypoints[i].Sequence = i
	}
}
