package forecast

import (
	"errors"
	"time"
)

// Forecast errors.
var (
	ErrMissingCredentials  = errors.New("forecast provider credentials missing")
	ErrProviderUnavailable = errors.New("forecast provider unavailable")
	ErrMalformedResponse   = errors.New("malformed forecast response")
	ErrInvalidCoordinates  = errors.New("invalid coordinates")
)

// Sample is one forecast data point at a location and time. Wind speeds are
// knots, wave height meters.
type Sample struct {
	Time             time.Time `json:"time"`
	WindSpeedKts     float64   `json:"windSpeedKts"`
	WindDirectionDeg float64   `json:"windDirectionDeg"`
	GustKts          float64   `json:"gustKts"`
	WaveHeightM      float64   `json:"waveHeightM"`
}

// Worst folds a set of samples into the harshest conditions they contain:
// the maximum wind, the gust paired with the largest gust-over-sustained
// excess, and the maximum wave height. Returns false when the slice is
// empty.
func Worst(samples []Sample) (Sample, bool) {
	if len(samples) == 0 {
		return Sample{}, false
	}

	worst := samples[0]
	gustExcess := worst.GustKts - worst.WindSpeedKts
	for _, s := range samples[1:] {
		if s.WindSpeedKts > worst.WindSpeedKts {
			worst.Time = s.Time
			worst.WindSpeedKts = s.WindSpeedKts
			worst.WindDirectionDeg = s.WindDirectionDeg
		}
		if s.GustKts-s.WindSpeedKts > gustExcess {
			gustExcess = s.GustKts - s.WindSpeedKts
		}
		if s.WaveHeightM > worst.WaveHeightM {
			worst.WaveHeightM = s.WaveHeightM
		}
	}
	worst.GustKts = worst.WindSpeedKts + gustExcess
	return worst, true
}
