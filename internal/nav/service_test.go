package nav_test

import (
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sailwatch/sailwatch/internal/nav"
	"github.com/sailwatch/sailwatch/internal/polar"
	"github.com/sailwatch/sailwatch/internal/route"
	"github.com/sailwatch/sailwatch/internal/sail"
	"github.com/sailwatch/sailwatch/pkg/geo"
)

func latOffsetForNm(nm float64) float64 {
	return nm / geo.EarthRadiusNm * 180 / math.Pi
}

func testService(t *testing.T, r *route.Route) (*nav.Service, *route.Tracker) {
	t.Helper()

	model, err := polar.NewModel([]polar.SailConfig{
		{
			Label:     "all-purpose",
			WindRange: polar.WindRange{MinKts: 0, MaxKts: 40},
			Curves: []polar.Curve{
				{
					TWSKts: 10,
					Points: []polar.Point{
						{TWADeg: 60, SpeedKts: 7.0},
						{TWADeg: 90, SpeedKts: 8.0},
					},
				},
				{
					TWSKts: 20,
					Points: []polar.Point{
						{TWADeg: 60, SpeedKts: 8.0},
						{TWADeg: 90, SpeedKts: 9.5},
					},
				},
			},
		},
	})
	require.NoError(t, err)

	tracker := route.NewTracker()
	if r != nil {
		tracker.SetRoute(r)
	}

	svc := nav.NewService(nav.ServiceConfig{
		Tracker: tracker,
		Advisor: sail.NewAdvisor(model),
		Logger:  zerolog.Nop(),
	})
	return svc, tracker
}

func northboundRoute(t *testing.T, from geo.Position, legNm float64) *route.Route {
	t.Helper()
	r := route.NewRoute("north run")
	_, err := r.AddWaypoint("mark", from.Lat+latOffsetForNm(legNm), from.Lon)
	require.NoError(t, err)
	return r
}

func TestGuidance(t *testing.T) {
	vessel := geo.Position{Lat: 50.0, Lon: -4.0}
	svc, _ := testService(t, northboundRoute(t, vessel, 12))

	sample := nav.SensorSample{Position: vessel, SpeedKts: 6, Timestamp: time.Now()}
	g, err := svc.Guidance(sample, nav.Wind{SpeedKts: 15, AngleDeg: 75}, sail.ModeSpeed, nil)
	require.NoError(t, err)

	assert.Equal(t, "mark", g.Waypoint.Name)
	assert.InDelta(t, 12.0, g.DistanceNm, 0.01)
	assert.InDelta(t, 0.0, g.BearingDeg, 0.01)

	// No tide: ground track matches the bearing and boat speed.
	assert.InDelta(t, 0.0, g.GroundCourseDeg, 0.01)
	assert.Equal(t, 6.0, g.SpeedOverGroundKts)
	assert.InDelta(t, 120.0, g.ETAMinutes, 0.2)

	assert.True(t, g.Recommendation.ExpectedSpeedKts > 0)
	assert.Equal(t, 85, g.Recommendation.Confidence)
}

func TestGuidance_WithTide(t *testing.T) {
	vessel := geo.Position{Lat: 50.0, Lon: -4.0}
	svc, _ := testService(t, northboundRoute(t, vessel, 12))

	sample := nav.SensorSample{Position: vessel, SpeedKts: 6, Timestamp: time.Now()}

	// A 2-knot current setting north pushes the boat along its course.
	tide := &nav.Tide{SpeedKts: 2, DirectionDeg: 0}
	g, err := svc.Guidance(sample, nav.Wind{SpeedKts: 15, AngleDeg: 75}, sail.ModeSpeed, tide)
	require.NoError(t, err)

	assert.InDelta(t, 8.0, g.SpeedOverGroundKts, 1e-9)
	assert.InDelta(t, 0.0, g.GroundCourseDeg, 1e-9)
	assert.InDelta(t, 90.0, g.ETAMinutes, 0.2)
}

func TestGuidance_NoActiveRoute(t *testing.T) {
	svc, _ := testService(t, nil)

	sample := nav.SensorSample{Position: geo.Position{Lat: 50, Lon: -4}, SpeedKts: 6, Timestamp: time.Now()}
	_, err := svc.Guidance(sample, nav.Wind{SpeedKts: 10, AngleDeg: 90}, sail.ModeSpeed, nil)
	assert.ErrorIs(t, err, route.ErrNoActiveRoute)
}

func TestGuidance_InvalidWind(t *testing.T) {
	vessel := geo.Position{Lat: 50.0, Lon: -4.0}
	svc, _ := testService(t, northboundRoute(t, vessel, 12))

	sample := nav.SensorSample{Position: vessel, SpeedKts: 6, Timestamp: time.Now()}
	_, err := svc.Guidance(sample, nav.Wind{SpeedKts: -3, AngleDeg: 75}, sail.ModeSpeed, nil)
	assert.ErrorIs(t, err, sail.ErrInvalidWindSpeed)
}

func TestUpdatePosition_ArrivalAndProgress(t *testing.T) {
	vessel := geo.Position{Lat: 50.0, Lon: -4.0}
	svc, _ := testService(t, northboundRoute(t, vessel, 12))

	p := svc.Progress()
	assert.Equal(t, route.StateTracking, p.State)
	assert.Equal(t, 1, p.WaypointsRemaining)
	require.NotNil(t, p.NextWaypoint)
	assert.False(t, p.Complete)

	event, err := svc.UpdatePosition(nav.SensorSample{Position: vessel, SpeedKts: 6, Timestamp: time.Now()})
	require.NoError(t, err)
	assert.Nil(t, event)

	// Arriving within the waypoint radius completes the single-leg route.
	arrival := geo.Position{Lat: vessel.Lat + latOffsetForNm(12), Lon: vessel.Lon}
	event, err = svc.UpdatePosition(nav.SensorSample{Position: arrival, SpeedKts: 6, Timestamp: time.Now()})
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, "mark", event.Waypoint.Name)
	assert.True(t, event.RouteComplete)

	p = svc.Progress()
	assert.Equal(t, route.StateComplete, p.State)
	assert.True(t, p.Complete)
	assert.Equal(t, 0, p.WaypointsRemaining)
	assert.Nil(t, p.NextWaypoint)
	assert.InDelta(t, 12.0, p.DistanceTraveledNm, 0.01)
}
