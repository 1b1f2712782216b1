package monitor

import (
	"fmt"
	"time"

	"github.com/sailwatch/sailwatch/internal/forecast"
	"github.com/sailwatch/sailwatch/pkg/geo"
)

const (
	// stormWindKts is the sustained wind above which a storm alert fires
	// when storm avoidance is on.
	stormWindKts = 40.0

	// squallGustExcessKts is the gust-over-sustained margin that marks a
	// squall risk.
	squallGustExcessKts = 15.0

	// planningSpeedKts is the conservative boat speed assumed for arrival
	// time estimates.
	planningSpeedKts = 6.0

	// segmentSampleSpacingNm is the spacing of extra forecast samples along
	// the leg to the next waypoint.
	segmentSampleSpacingNm = 50.0

	daylightStartHour = 6
	daylightEndHour   = 18
)

// severityForRatio grades a threshold exceedance by how far the observed
// value overshoots the limit.
func severityForRatio(observed, threshold float64) Severity {
	ratio := observed / threshold
	switch {
	case ratio >= 2.0:
		return SeverityCritical
	case ratio >= 1.5:
		return SeverityHigh
	case ratio >= 1.2:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// evaluateSample checks one forecast sample against the configured limits and
// returns every alert it triggers.
func evaluateSample(cfg Config, sample forecast.Sample, loc geo.Position, distNm float64, now time.Time) []Alert {
	var alerts []Alert

	if sample.WindSpeedKts > cfg.MaxWindKts {
		alerts = append(alerts, newAlert(
			KindHighWind,
			severityForRatio(sample.WindSpeedKts, cfg.MaxWindKts),
			loc, distNm,
			fmt.Sprintf("forecast wind %.0f kn exceeds the %.0f kn limit", sample.WindSpeedKts, cfg.MaxWindKts),
			"consider delaying departure or routing around the affected area",
			now,
		))
	}

	if sample.WaveHeightM > cfg.MaxWaveHeightM {
		alerts = append(alerts, newAlert(
			KindHighWaves,
			severityForRatio(sample.WaveHeightM, cfg.MaxWaveHeightM),
			loc, distNm,
			fmt.Sprintf("forecast waves %.1f m exceed the %.1f m limit", sample.WaveHeightM, cfg.MaxWaveHeightM),
			"expect heavy seas; secure the boat and brief the crew",
			now,
		))
	}

	if cfg.AvoidStorms && sample.WindSpeedKts > stormWindKts {
		alerts = append(alerts, newAlert(
			KindStorm,
			SeverityCritical,
			loc, distNm,
			fmt.Sprintf("storm-force wind of %.0f kn forecast", sample.WindSpeedKts),
			"seek shelter; do not proceed through this area",
			now,
		))
	}

	if excess := sample.GustKts - sample.WindSpeedKts; excess > squallGustExcessKts {
		alerts = append(alerts, newAlert(
			KindSquall,
			severityForRatio(excess, squallGustExcessKts),
			loc, distNm,
			fmt.Sprintf("gusts %.0f kn over sustained wind indicate squall activity", excess),
			"shorten sail early and watch for rapidly building cells",
			now,
		))
	}

	return alerts
}

// evaluateDaylightArrival estimates the arrival time at the final waypoint at
// a fixed planning speed and alerts when the local arrival hour falls outside
// daylight.
func evaluateDaylightArrival(loc geo.Position, remainingNm float64, now time.Time) *Alert {
	hoursToGo := remainingNm / planningSpeedKts
	eta := now.Add(time.Duration(hoursToGo * float64(time.Hour)))

	hour := eta.Local().Hour()
	if hour >= daylightStartHour && hour < daylightEndHour {
		return nil
	}

	alert := newAlert(
		KindDaylightArrival,
		SeverityMedium,
		loc, remainingNm,
		fmt.Sprintf("estimated arrival at %s local is outside daylight hours", eta.Local().Format("15:04")),
		"slow down or adjust departure to arrive between 06:00 and 18:00",
		now,
	)
	return &alert
}
