package route

import (
	"errors"
	"sync"
	"time"

	"github.com/sailwatch/sailwatch/pkg/geo"
)

// Tracker errors.
var (
	ErrNoActiveRoute = errors.New("no active route")
	ErrInvalidSample = errors.New("position sample coordinates out of range")
)

const (
	// ArrivalThresholdNm is the fixed radius for declaring a waypoint
	// reached. Must stay at 0.1 nm.
	ArrivalThresholdNm = 0.1

	// historyCapacity bounds the position-history ring buffer.
	historyCapacity = 100
)

// State is the tracker's lifecycle state.
type State string

const (
	StateInactive State = "inactive"
	StateTracking State = "tracking"
	StateComplete State = "complete"
)

// PositionSample is one vessel position observation. SpeedKts is optional;
// samples without it are excluded from average-speed queries.
type PositionSample struct {
	Position  geo.Position `json:"position"`
	SpeedKts  *float64     `json:"speedKts,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// ArrivalEvent reports a waypoint being reached during an update.
type ArrivalEvent struct {
	Waypoint      Waypoint     `json:"waypoint"`
	At            time.Time    `json:"at"`
	Position      geo.Position `json:"position"`
	RouteComplete bool         `json:"routeComplete"`
}

// Tracker follows progress along a multi-waypoint route. All state is owned
// by the tracker and mutated only through its methods.
type Tracker struct {
	mu      sync.Mutex
	state   State
	route   *Route
	next    int
	history []PositionSample
}

// NewTracker creates a tracker in the Inactive state.
func NewTracker() *Tracker {
	return &Tracker{state: StateInactive}
}

// SetRoute activates a route: arrival flags are reset, the pointer moves to
// the first waypoint, and position history is cleared. A route without
// waypoints leaves the tracker Inactive. Any previously active route is
// discarded.
func (t *Tracker) SetRoute(r *Route) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.history = nil
	t.next = 0

	if r == nil || len(r.Waypoints) == 0 {
		t.route = nil
		t.state = StateInactive
		return
	}

	active := cloneRoute(r)
	for i := range active.Waypoints {
		active.Waypoints[i].Arrived = false
		active.Waypoints[i].ArrivedAt = nil
	}

	t.route = active
	t.state = StateTracking
}

// Update records a position sample and, while tracking, checks the pointed-to
// waypoint for arrival. At most one waypoint is marked per update. Returns a
// non-nil ArrivalEvent when a waypoint was reached.
func (t *Tracker) Update(sample PositionSample) (*ArrivalEvent, error) {
	if !sample.Position.Valid() {
		return nil, ErrInvalidSample
	}
	if sample.Timestamp.IsZero() {
		sample.Timestamp = time.Now()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.history = append(t.history, sample)
	if len(t.history) > historyCapacity {
		t.history = t.history[len(t.history)-historyCapacity:]
	}

	if t.state != StateTracking {
		return nil, nil
	}

	wp := &t.route.Waypoints[t.next]
	if geo.DistanceNm(sample.Position, wp.Position()) > ArrivalThresholdNm {
		return nil, nil
	}

	at := sample.Timestamp
	wp.Arrived = true
	wp.ArrivedAt = &at
	t.next++

	event := &ArrivalEvent{
		Waypoint: *wp,
		At:       at,
		Position: sample.Position,
	}

	if t.next >= len(t.route.Waypoints) {
		t.state = StateComplete
		event.RouteComplete = true
	}

	return event, nil
}

// State returns the current lifecycle state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// IsComplete reports whether every waypoint has been reached.
func (t *Tracker) IsComplete() bool {
	return t.State() == StateComplete
}

// ActiveRoute returns a copy of the active route, or nil when Inactive.
func (t *Tracker) ActiveRoute() *Route {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.route == nil {
		return nil
	}
	return cloneRoute(t.route)
}

// NextWaypoint returns the waypoint the tracker is currently steering for.
func (t *Tracker) NextWaypoint() (*Waypoint, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateTracking {
		return nil, ErrNoActiveRoute
	}
	wp := t.route.Waypoints[t.next]
	return &wp, nil
}

// RemainingWaypoints returns the unarrived waypoints in route order.
func (t *Tracker) RemainingWaypoints() []Waypoint {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.route == nil || t.state != StateTracking {
		return nil
	}
	remaining := make([]Waypoint, len(t.route.Waypoints)-t.next)
	copy(remaining, t.route.Waypoints[t.next:])
	return remaining
}

// LastPosition returns the most recent recorded position.
func (t *Tracker) LastPosition() (geo.Position, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.history) == 0 {
		return geo.Position{}, false
	}
	return t.history[len(t.history)-1].Position, true
}

// AverageSpeed returns the mean of speed samples recorded within the window,
// ignoring entries without a speed. Returns 0 when no samples qualify.
func (t *Tracker) AverageSpeed(window time.Duration) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := time.Now().Add(-window)
	sum, n := 0.0, 0
	for _, s := range t.history {
		if s.SpeedKts == nil || s.Timestamp.Before(cutoff) {
			continue
		}
		sum += *s.SpeedKts
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// DistanceTraveled sums the haversine distances between consecutive history
// entries.
func (t *Tracker) DistanceTraveled() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	total := 0.0
	for i := 1; i < len(t.history); i++ {
		total += geo.DistanceNm(t.history[i-1].Position, t.history[i].Position)
	}
	return total
}

// Reset returns the tracker to Inactive and discards all state.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.state = StateInactive
	t.route = nil
	t.next = 0
	t.history = nil
}
