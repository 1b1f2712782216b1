// Package sail derives discrete sail-plan recommendations from wind
// conditions and the vessel's polar model.
package sail

import (
	"fmt"
	"math"

	"github.com/sailwatch/sailwatch/internal/polar"
)

// Advisor maps wind conditions to a sail plan via a fixed decision table of
// wind-speed bands and points of sail. It is a pure function of its inputs
// plus the polar table: no state, no side effects.
type Advisor struct {
	polar *polar.Model
}

// NewAdvisor creates an Advisor over the given polar model.
func NewAdvisor(model *polar.Model) *Advisor {
	return &Advisor{polar: model}
}

// choice is one cell of the decision table.
type choice struct {
	plan       Plan
	multiplier float64
	desc       string
}

// Recommend returns the sail plan, expected speed, and confidence for the
// given true wind speed (knots) and true wind angle (degrees, 0-360).
func (a *Advisor) Recommend(tws, twa float64, mode Mode) (Recommendation, error) {
	if math.IsNaN(tws) || math.IsInf(tws, 0) || tws < 0 {
		return Recommendation{}, ErrInvalidWindSpeed
	}
	if math.IsNaN(twa) || twa < 0 || twa > 360 {
		return Recommendation{}, ErrInvalidWindAngle
	}
	if mode != ModeSpeed && mode != ModeComfort {
		return Recommendation{}, ErrInvalidMode
	}

	band := BandFor(tws)
	point := PointOfSailFor(twa)
	c := decide(band, point, mode)

	raw, err := a.polar.SpeedAt(tws, twa, "")
	if err != nil {
		return Recommendation{}, err
	}

	confidence := 85
	if tws <= 4 {
		// Near-calm predictions carry much more model uncertainty.
		confidence = 65
	}

	return Recommendation{
		Plan:             c.plan,
		ExpectedSpeedKts: math.Round(raw*c.multiplier*10) / 10,
		Description:      fmt.Sprintf("%s (%s wind, %s)", c.desc, band, point),
		Confidence:       confidence,
	}, nil
}

// BandFor buckets a true wind speed into its band. Band boundaries are
// inclusive at the top: 15.0 knots is moderate, not strong.
func BandFor(tws float64) Band {
	switch {
	case tws < 4:
		return BandVeryLight
	case tws <= 8:
		return BandLight
	case tws <= 15:
		return BandModerate
	case tws <= 25:
		return BandStrong
	case tws <= 35:
		return BandHeavy
	default:
		return BandStorm
	}
}

// PointOfSailFor buckets a true wind angle. Angles above 180 fold onto the
// opposite tack.
func PointOfSailFor(twa float64) PointOfSail {
	a := twa
	if a > 180 {
		a = 360 - a
	}
	switch {
	case a < 60:
		return PointUpwind
	case a < 90:
		return PointCloseReach
	case a < 120:
		return PointBeamReach
	case a < 150:
		return PointBroadReach
	default:
		return PointRunning
	}
}

var (
	planMainJib   = Plan{Main: true, Jib: true}
	planCodeZero  = Plan{Main: true, CodeZero: true}
	planAsym      = Plan{Main: true, Asymmetrical: true}
	planSpinnaker = Plan{Main: true, Spinnaker: true}
	planStorm     = Plan{Main: true, StormJib: true}
)

// decide is the fixed decision table. Every (band, point, mode) combination
// maps to exactly one plan and multiplier in [0.6, 1.25].
func decide(band Band, point PointOfSail, mode Mode) choice {
	if band == BandStorm {
		return choice{planStorm, 0.6, "Storm jib with deep-reefed main"}
	}

	speed := mode == ModeSpeed

	switch band {
	case BandVeryLight:
		switch point {
		case PointUpwind:
			return pick(speed,
				choice{planMainJib, 0.7, "Full main and genoa, sheets eased for flow"},
				choice{planMainJib, 0.65, "Full main and genoa, conservative trim"})
		case PointCloseReach:
			return pick(speed,
				choice{planCodeZero, 0.9, "Code zero to build apparent wind"},
				choice{planMainJib, 0.7, "Full main and genoa"})
		case PointBeamReach:
			return pick(speed,
				choice{planCodeZero, 0.95, "Code zero on a beam reach"},
				choice{planMainJib, 0.75, "Full main and genoa"})
		case PointBroadReach:
			return pick(speed,
				choice{planAsym, 0.9, "Asymmetrical to keep way on"},
				choice{planMainJib, 0.7, "Full main and poled-out genoa"})
		default: // running
			return pick(speed,
				choice{planAsym, 0.85, "Asymmetrical, sailing hot angles downwind"},
				choice{planMainJib, 0.65, "Full main and poled-out genoa"})
		}

	case BandLight:
		switch point {
		case PointUpwind:
			return pick(speed,
				choice{planMainJib, 1.0, "Full main and genoa, close hauled"},
				choice{planMainJib, 0.95, "Full main and genoa, footing slightly"})
		case PointCloseReach:
			return pick(speed,
				choice{planCodeZero, 1.15, "Code zero reaching"},
				choice{planMainJib, 1.0, "Full main and genoa"})
		case PointBeamReach:
			return pick(speed,
				choice{planCodeZero, 1.2, "Code zero at maximum power"},
				choice{planMainJib, 1.0, "Full main and genoa"})
		case PointBroadReach:
			return pick(speed,
				choice{planAsym, 1.2, "Asymmetrical on a broad reach"},
				choice{planMainJib, 0.95, "Full main and genoa"})
		default:
			return pick(speed,
				choice{planSpinnaker, 1.15, "Symmetric spinnaker, square run"},
				choice{planMainJib, 0.9, "Wing-on-wing main and genoa"})
		}

	case BandModerate:
		switch point {
		case PointUpwind:
			return pick(speed,
				choice{planMainJib, 1.05, "Full main and jib, powered up"},
				choice{planMainJib, 1.0, "Full main and jib"})
		case PointCloseReach:
			return pick(speed,
				choice{planMainJib, 1.1, "Full main and jib, cracked off"},
				choice{planMainJib, 1.05, "Full main and jib"})
		case PointBeamReach:
			return pick(speed,
				choice{planCodeZero, 1.15, "Code zero on a fast beam reach"},
				choice{planMainJib, 1.05, "Full main and jib"})
		case PointBroadReach:
			return pick(speed,
				choice{planAsym, 1.25, "Asymmetrical, ideal angle and pressure"},
				choice{planMainJib, 1.0, "Full main and jib"})
		default:
			return pick(speed,
				choice{planSpinnaker, 1.25, "Spinnaker run in ideal pressure"},
				choice{planMainJib, 0.95, "Wing-on-wing main and jib"})
		}

	case BandStrong:
		switch point {
		case PointUpwind:
			return pick(speed,
				choice{planMainJib, 1.0, "Flattened main and jib, traveler down"},
				choice{planMainJib, 0.85, "Reefed main and partial jib"})
		case PointCloseReach:
			return pick(speed,
				choice{planMainJib, 1.05, "Main and jib, depowered"},
				choice{planMainJib, 0.9, "Reefed main and jib"})
		case PointBeamReach:
			return pick(speed,
				choice{planMainJib, 1.1, "Main and jib, fast reaching"},
				choice{planMainJib, 0.95, "Reefed main and jib"})
		case PointBroadReach:
			return pick(speed,
				choice{planAsym, 1.15, "Asymmetrical, crew on the rail"},
				choice{planMainJib, 0.95, "Main and jib, eased"})
		default:
			return pick(speed,
				choice{planSpinnaker, 1.1, "Spinnaker with active trim"},
				choice{planMainJib, 0.9, "Wing-on-wing, preventer rigged"})
		}

	default: // heavy
		switch point {
		case PointUpwind:
			return pick(speed,
				choice{planMainJib, 0.85, "Double-reefed main and small jib"},
				choice{planStorm, 0.7, "Storm jib and deep-reefed main"})
		case PointCloseReach:
			return pick(speed,
				choice{planMainJib, 0.9, "Double-reefed main and small jib"},
				choice{planStorm, 0.75, "Storm jib and deep-reefed main"})
		case PointBeamReach:
			return pick(speed,
				choice{planMainJib, 0.95, "Reefed main and small jib"},
				choice{planStorm, 0.8, "Storm jib and reefed main"})
		case PointBroadReach:
			return pick(speed,
				choice{planMainJib, 0.95, "Reefed main, jib only partially unrolled"},
				choice{planStorm, 0.8, "Storm jib and reefed main"})
		default:
			return pick(speed,
				choice{planMainJib, 0.9, "Deep-reefed main, running off"},
				choice{planStorm, 0.75, "Storm jib, running off"})
		}
	}
}

func pick(speed bool, fast, comfortable choice) choice {
	if speed {
		return fast
	}
	return comfortable
}
