package monitor

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/sailwatch/sailwatch/internal/forecast"
	"github.com/sailwatch/sailwatch/pkg/geo"
)

// Observation is a set of conditions actually measured on board, recorded
// against a forecast for later accuracy comparison.
type Observation struct {
	Time             time.Time `json:"time"`
	WindSpeedKts     float64   `json:"windSpeedKts"`
	WindDirectionDeg float64   `json:"windDirectionDeg"`
	WaveHeightM      float64   `json:"waveHeightM"`
}

// HistoryEntry pairs a forecast sample taken during a monitoring cycle with
// the conditions later observed there, once recorded.
type HistoryEntry struct {
	ID         string          `json:"id"`
	RecordedAt time.Time       `json:"recordedAt"`
	Location   geo.Position    `json:"location"`
	Forecast   forecast.Sample `json:"forecast"`
	Actual     *Observation    `json:"actual,omitempty"`
}

func newHistoryEntry(loc geo.Position, sample forecast.Sample, now time.Time) HistoryEntry {
	return HistoryEntry{
		ID:         "obs_" + uuid.New().String()[:22],
		RecordedAt: now,
		Location:   loc,
		Forecast:   sample,
	}
}

// AccuracyReport summarizes forecast error over all entries with recorded
// observations.
type AccuracyReport struct {
	// Samples is the number of forecast/observation pairs compared.
	Samples int `json:"samples"`

	// WindSpeedMAEKts is the mean absolute wind speed error in knots.
	WindSpeedMAEKts float64 `json:"windSpeedMaeKts"`

	// WindDirectionMAEDeg is the mean absolute wind direction error in
	// degrees, folded onto the shorter arc.
	WindDirectionMAEDeg float64 `json:"windDirectionMaeDeg"`
}

// accuracyOver computes the mean absolute error across the paired entries.
func accuracyOver(entries []HistoryEntry) (AccuracyReport, error) {
	var report AccuracyReport
	var speedErr, dirErr float64

	for _, e := range entries {
		if e.Actual == nil {
			continue
		}
		report.Samples++
		speedErr += math.Abs(e.Forecast.WindSpeedKts - e.Actual.WindSpeedKts)
		dirErr += angularError(e.Forecast.WindDirectionDeg, e.Actual.WindDirectionDeg)
	}

	if report.Samples == 0 {
		return AccuracyReport{}, ErrNoObservations
	}

	report.WindSpeedMAEKts = speedErr / float64(report.Samples)
	report.WindDirectionMAEDeg = dirErr / float64(report.Samples)
	return report, nil
}

// angularError returns the absolute difference between two bearings along the
// shorter arc.
func angularError(a, b float64) float64 {
	diff := math.Abs(geo.NormalizeDeg(a) - geo.NormalizeDeg(b))
	if diff > 180 {
		diff = 360 - diff
	}
	return diff
}
