// Package nav combines the tracker, polar model, and sail advisor into the
// navigation guidance surface used by the API.
package nav

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/sailwatch/sailwatch/internal/route"
	"github.com/sailwatch/sailwatch/internal/sail"
	"github.com/sailwatch/sailwatch/pkg/geo"
)

// SensorSample is one reading from the vessel's instruments.
type SensorSample struct {
	Position  geo.Position `json:"position"`
	SpeedKts  float64      `json:"speedKts"`
	Timestamp time.Time    `json:"timestamp"`
}

// Wind is the true wind as observed on board.
type Wind struct {
	SpeedKts float64 `json:"speedKts"`
	AngleDeg float64 `json:"angleDeg"`
}

// Tide is a current set and drift, when known.
type Tide struct {
	SpeedKts     float64 `json:"speedKts"`
	DirectionDeg float64 `json:"directionDeg"`
}

// Guidance is everything the helm needs for the next leg: where to steer,
// what ground track to expect, when the waypoint arrives, and what sails to
// fly.
type Guidance struct {
	Waypoint           route.Waypoint      `json:"waypoint"`
	DistanceNm         float64             `json:"distanceNm"`
	BearingDeg         float64             `json:"bearingDeg"`
	GroundCourseDeg    float64             `json:"groundCourseDeg"`
	SpeedOverGroundKts float64             `json:"speedOverGroundKts"`
	ETAMinutes         float64             `json:"etaMinutes"`
	Recommendation     sail.Recommendation `json:"recommendation"`
}

// Progress summarizes how far along the active route the vessel is.
type Progress struct {
	State              route.State     `json:"state"`
	NextWaypoint       *route.Waypoint `json:"nextWaypoint,omitempty"`
	WaypointsRemaining int             `json:"waypointsRemaining"`
	DistanceTraveledNm float64         `json:"distanceTraveledNm"`
	AverageSpeedKts    float64         `json:"averageSpeedKts"`
	Complete           bool            `json:"complete"`
}

// ServiceConfig holds configuration for the navigation service.
type ServiceConfig struct {
	// Tracker supplies the active route and position history.
	Tracker *route.Tracker

	// Advisor produces sail recommendations.
	Advisor *sail.Advisor

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service answers navigation queries against the active route.
type Service struct {
	tracker *route.Tracker
	advisor *sail.Advisor
	logger  zerolog.Logger
}

// NewService creates a new navigation service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		tracker: cfg.Tracker,
		advisor: cfg.Advisor,
		logger:  cfg.Logger,
	}
}

// Guidance computes the course to the next waypoint, the expected ground
// track once the tide is applied, the ETA, and a sail recommendation for the
// observed wind. Returns route.ErrNoActiveRoute when nothing is being
// tracked.
func (s *Service) Guidance(sample SensorSample, wind Wind, mode sail.Mode, tide *Tide) (*Guidance, error) {
	wp, err := s.tracker.NextWaypoint()
	if err != nil {
		return nil, err
	}

	wpPos := wp.Position()
	dist := geo.DistanceNm(sample.Position, wpPos)
	bearing := geo.BearingDeg(sample.Position, wpPos)

	track := geo.GroundTrack{CourseDeg: bearing, SpeedKts: sample.SpeedKts}
	if tide != nil {
		track = geo.CourseWithCurrent(bearing, sample.SpeedKts, tide.SpeedKts, tide.DirectionDeg)
	}

	rec, err := s.advisor.Recommend(wind.SpeedKts, wind.AngleDeg, mode)
	if err != nil {
		return nil, err
	}

	g := &Guidance{
		Waypoint:           *wp,
		DistanceNm:         dist,
		BearingDeg:         bearing,
		GroundCourseDeg:    track.CourseDeg,
		SpeedOverGroundKts: track.SpeedKts,
		ETAMinutes:         geo.ETAMinutes(dist, track.SpeedKts),
		Recommendation:     rec,
	}

	s.logger.Debug().
		Str("waypoint", wp.Name).
		Float64("distance_nm", dist).
		Float64("bearing_deg", bearing).
		Float64("eta_min", g.ETAMinutes).
		Msg("computed guidance")

	return g, nil
}

// UpdatePosition feeds a sensor sample into the tracker and returns the
// arrival event, if the sample reached the next waypoint.
func (s *Service) UpdatePosition(sample SensorSample) (*route.ArrivalEvent, error) {
	speed := sample.SpeedKts
	event, err := s.tracker.Update(route.PositionSample{
		Position:  sample.Position,
		SpeedKts:  &speed,
		Timestamp: sample.Timestamp,
	})
	if err != nil {
		return nil, err
	}

	if event != nil {
		s.logger.Info().
			Str("waypoint", event.Waypoint.Name).
			Bool("route_complete", event.RouteComplete).
			Msg("waypoint reached")
	}
	return event, nil
}

// Progress reports route completion state over a 60-minute speed window.
func (s *Service) Progress() Progress {
	p := Progress{
		State:              s.tracker.State(),
		WaypointsRemaining: len(s.tracker.RemainingWaypoints()),
		DistanceTraveledNm: s.tracker.DistanceTraveled(),
		AverageSpeedKts:    s.tracker.AverageSpeed(time.Hour),
		Complete:           s.tracker.IsComplete(),
	}
	if wp, err := s.tracker.NextWaypoint(); err == nil {
		p.NextWaypoint = wp
	}
	return p
}
