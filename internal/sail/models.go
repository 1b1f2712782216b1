package sail

import "errors"

// Advisor errors.
var (
	ErrInvalidWindSpeed = errors.New("wind speed must be a non-negative number")
	ErrInvalidWindAngle = errors.New("wind angle must be within 0-360 degrees")
	ErrInvalidMode      = errors.New("unknown advisor mode")
)

// Mode selects the recommendation objective.
type Mode string

const (
	// ModeSpeed optimizes for boat speed.
	ModeSpeed Mode = "speed"

	// ModeComfort trades speed for a flatter, drier ride.
	ModeComfort Mode = "comfort"
)

// Plan is the discrete sail-flag combination being recommended.
type Plan struct {
	Main         bool `json:"main"`
	Jib          bool `json:"jib"`
	Asymmetrical bool `json:"asymmetrical"`
	Spinnaker    bool `json:"spinnaker"`
	CodeZero     bool `json:"codeZero"`
	StormJib     bool `json:"stormJib"`
}

// Recommendation is the advisor output for one wind condition.
type Recommendation struct {
	Plan             Plan    `json:"sailPlan"`
	ExpectedSpeedKts float64 `json:"expectedSpeedKts"`
	Description      string  `json:"description"`
	Confidence       int     `json:"confidence"`
}

// Band is a wind-speed band of the decision procedure.
type Band string

const (
	BandVeryLight Band = "very-light" // < 4 kn
	BandLight     Band = "light"      // 4-8 kn
	BandModerate  Band = "moderate"   // 8-15 kn
	BandStrong    Band = "strong"     // 15-25 kn
	BandHeavy     Band = "heavy"      // 25-35 kn
	BandStorm     Band = "storm"      // > 35 kn
)

// PointOfSail is the angle bucket of the decision procedure, on the folded
// 0-180 angle.
type PointOfSail string

const (
	PointUpwind     PointOfSail = "upwind"      // < 60
	PointCloseReach PointOfSail = "close-reach" // < 90
	PointBeamReach  PointOfSail = "beam-reach"  // < 120
	PointBroadReach PointOfSail = "broad-reach" // < 150
	PointRunning    PointOfSail = "running"     // >= 150
)
