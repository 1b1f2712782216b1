package polar

import "errors"

// Polar errors.
var (
	ErrConfigNotFound = errors.New("no matching sail configuration")
	ErrEmptyModel     = errors.New("polar model has no sail configurations")
	ErrEmptyCurve     = errors.New("polar curve has no points")
)

// Point is one entry on a polar curve: boat speed and VMG at a true wind
// angle. Angles are absolute 0-360 degrees, not folded to 0-180. Immutable
// once loaded.
type Point struct {
	TWADeg   float64 `json:"twa"`
	SpeedKts float64 `json:"speed"`
	VMGKts   float64 `json:"vmg"`
}

// Curve holds the performance points for a single true wind speed, sorted by
// angle with unique angles.
type Curve struct {
	TWSKts float64 `json:"tws"`
	Points []Point `json:"points"`
}

// WindRange is the wind-speed band a sail configuration applies to.
type WindRange struct {
	MinKts float64 `json:"min"`
	MaxKts float64 `json:"max"`
}

// Contains reports whether tws falls within the range (inclusive).
func (r WindRange) Contains(tws float64) bool {
	return tws >= r.MinKts && tws <= r.MaxKts
}

// Midpoint returns the center of the range.
func (r WindRange) Midpoint() float64 {
	return (r.MinKts + r.MaxKts) / 2
}

// SailConfig is a named sail plan with its performance curves, ordered by
// true wind speed.
type SailConfig struct {
	Label     string    `json:"label"`
	WindRange WindRange `json:"windRange"`
	Curves    []Curve   `json:"curves"`
}

// Target is an optimal VMG point on a curve.
type Target struct {
	AngleDeg float64 `json:"angle"`
	SpeedKts float64 `json:"speed"`
	VMGKts   float64 `json:"vmg"`
}

// VMGTargets holds the best upwind and downwind VMG angles for a wind speed.
type VMGTargets struct {
	Upwind   Target `json:"upwind"`
	Downwind Target `json:"downwind"`
}
