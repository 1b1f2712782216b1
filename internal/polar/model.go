// Package polar converts a vessel's polar performance table into speed and
// VMG predictions for arbitrary wind conditions.
package polar

import (
	"math"
	"sort"
)

// Model owns an ordered set of sail configurations and answers speed/VMG
// queries by bilinear interpolation over the non-uniform TWS/TWA grid.
// Queries outside the grid clamp to the nearest edge; there is no
// extrapolation.
type Model struct {
	configs []SailConfig
}

// NewModel builds a Model from sail configurations. Curves are sorted by
// wind speed and points by angle so lookups can binary-search.
func NewModel(configs []SailConfig) (*Model, error) {
	if len(configs) == 0 {
		return nil, ErrEmptyModel
	}

	cfgs := make([]SailConfig, len(configs))
	copy(cfgs, configs)

	for i := range cfgs {
		if len(cfgs[i].Curves) == 0 {
			return nil, ErrEmptyCurve
		}
		curves := make([]Curve, len(cfgs[i].Curves))
		copy(curves, cfgs[i].Curves)
		sort.Slice(curves, func(a, b int) bool { return curves[a].TWSKts < curves[b].TWSKts })
		for j := range curves {
			if len(curves[j].Points) == 0 {
				return nil, ErrEmptyCurve
			}
			pts := make([]Point, len(curves[j].Points))
			copy(pts, curves[j].Points)
			sort.Slice(pts, func(a, b int) bool { return pts[a].TWADeg < pts[b].TWADeg })
			curves[j].Points = pts
		}
		cfgs[i].Curves = curves
	}

	return &Model{configs: cfgs}, nil
}

// Configs returns the sail configuration labels in order.
func (m *Model) Configs() []string {
	labels := make([]string, len(m.configs))
	for i, c := range m.configs {
		labels[i] = c.Label
	}
	return labels
}

// SpeedAt predicts boat speed in knots for the given true wind speed and
// angle. An empty label selects the configuration whose wind range contains
// the query, falling back to the closest range midpoint. Out-of-range
// numeric input clamps to the grid edge and never fails.
func (m *Model) SpeedAt(tws, twa float64, label string) (float64, error) {
	cfg, err := m.selectConfig(tws, label)
	if err != nil {
		return 0, err
	}
	speed, _ := interpolate(cfg.Curves, tws, normalizeAngle(twa))
	return speed, nil
}

// VMGAt predicts the signed VMG in knots for the given conditions.
func (m *Model) VMGAt(tws, twa float64, label string) (float64, error) {
	cfg, err := m.selectConfig(tws, label)
	if err != nil {
		return 0, err
	}
	_, vmg := interpolate(cfg.Curves, tws, normalizeAngle(twa))
	return vmg, nil
}

// OptimalVMG scans the curve nearest to tws and returns the best upwind
// target (max VMG among angles below 90) and downwind target (most negative
// VMG among angles above 90).
func (m *Model) OptimalVMG(tws float64, label string) (VMGTargets, error) {
	cfg, err := m.selectConfig(tws, label)
	if err != nil {
		return VMGTargets{}, err
	}

	curve := nearestCurve(cfg.Curves, tws)

	var targets VMGTargets
	upSet, downSet := false, false
	for _, p := range curve.Points {
		if p.TWADeg < 90 {
			if !upSet || p.VMGKts > targets.Upwind.VMGKts {
				targets.Upwind = Target{AngleDeg: p.TWADeg, SpeedKts: p.SpeedKts, VMGKts: p.VMGKts}
				upSet = true
			}
		}
		if p.TWADeg > 90 {
			if !downSet || p.VMGKts < targets.Downwind.VMGKts {
				targets.Downwind = Target{AngleDeg: p.TWADeg, SpeedKts: p.SpeedKts, VMGKts: p.VMGKts}
				downSet = true
			}
		}
	}

	return targets, nil
}

// selectConfig resolves the sail configuration for a query. With a label it
// must match exactly; otherwise the entry whose wind range contains tws wins,
// and failing that the entry with the closest range midpoint.
func (m *Model) selectConfig(tws float64, label string) (*SailConfig, error) {
	if len(m.configs) == 0 {
		return nil, ErrConfigNotFound
	}

	if label != "" {
		for i := range m.configs {
			if m.configs[i].Label == label {
				return &m.configs[i], nil
			}
		}
		return nil, ErrConfigNotFound
	}

	for i := range m.configs {
		if m.configs[i].WindRange.Contains(tws) {
			return &m.configs[i], nil
		}
	}

	best := 0
	bestDist := math.Abs(m.configs[0].WindRange.Midpoint() - tws)
	for i := 1; i < len(m.configs); i++ {
		d := math.Abs(m.configs[i].WindRange.Midpoint() - tws)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return &m.configs[best], nil
}

// interpolate performs the two-stage interpolation: angle within each
// enclosing curve, then wind speed across the two curve results. A single
// curve skips the wind-speed stage. Exact grid hits degenerate to lookups.
func interpolate(curves []Curve, tws, twa float64) (speed, vmg float64) {
	lo, hi, frac := enclosingCurves(curves, tws)

	sLo, vLo := interpolateAngle(curves[lo].Points, twa)
	if lo == hi {
		return sLo, vLo
	}
	sHi, vHi := interpolateAngle(curves[hi].Points, twa)

	return sLo + (sHi-sLo)*frac, vLo + (vHi-vLo)*frac
}

// enclosingCurves finds the curve indices below and above tws plus the blend
// fraction. Queries outside the grid clamp to the edge curve (frac 0).
func enclosingCurves(curves []Curve, tws float64) (lo, hi int, frac float64) {
	n := len(curves)
	if n == 1 || tws <= curves[0].TWSKts {
		return 0, 0, 0
	}
	if tws >= curves[n-1].TWSKts {
		return n - 1, n - 1, 0
	}

	hi = sort.Search(n, func(i int) bool { return curves[i].TWSKts >= tws })
	lo = hi - 1
	if curves[hi].TWSKts == tws {
		return hi, hi, 0
	}
	frac = (tws - curves[lo].TWSKts) / (curves[hi].TWSKts - curves[lo].TWSKts)
	return lo, hi, frac
}

// interpolateAngle linearly interpolates speed and VMG by angle between the
// two enclosing points, clamping outside the curve's angle span.
func interpolateAngle(points []Point, twa float64) (speed, vmg float64) {
	n := len(points)
	if n == 1 || twa <= points[0].TWADeg {
		return points[0].SpeedKts, points[0].VMGKts
	}
	if twa >= points[n-1].TWADeg {
		return points[n-1].SpeedKts, points[n-1].VMGKts
	}

	hi := sort.Search(n, func(i int) bool { return points[i].TWADeg >= twa })
	if points[hi].TWADeg == twa {
		return points[hi].SpeedKts, points[hi].VMGKts
	}
	lo := hi - 1
	frac := (twa - points[lo].TWADeg) / (points[hi].TWADeg - points[lo].TWADeg)

	speed = points[lo].SpeedKts + (points[hi].SpeedKts-points[lo].SpeedKts)*frac
	vmg = points[lo].VMGKts + (points[hi].VMGKts-points[lo].VMGKts)*frac
	return speed, vmg
}

func nearestCurve(curves []Curve, tws float64) *Curve {
	best := 0
	bestDist := math.Abs(curves[0].TWSKts - tws)
	for i := 1; i < len(curves); i++ {
		d := math.Abs(curves[i].TWSKts - tws)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return &curves[best]
}

// normalizeAngle folds numeric input into [0, 360) without rejecting it.
func normalizeAngle(twa float64) float64 {
	if math.IsNaN(twa) {
		return 0
	}
	a := math.Mod(twa, 360)
	if a < 0 {
		a += 360
	}
	return a
}
