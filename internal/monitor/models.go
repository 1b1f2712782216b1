// Package monitor runs periodic forecast checks along the remaining route and
// raises alerts when conditions exceed the configured limits.
package monitor

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/sailwatch/sailwatch/pkg/geo"
)

// Monitoring errors.
var (
	ErrInvalidConfig   = errors.New("invalid monitoring config")
	ErrInvalidPosition = errors.New("invalid vessel position")
	ErrNoObservations  = errors.New("no recorded observations to compare against")
)

// Kind classifies an alert.
type Kind string

// Alert kinds.
const (
	KindStorm           Kind = "storm"
	KindHighWind        Kind = "highWind"
	KindHighWaves       Kind = "highWaves"
	KindSquall          Kind = "squall"
	KindDaylightArrival Kind = "daylightArrival"
)

// Severity grades an alert. Severities are totally ordered via Rank.
type Severity string

// Alert severities, mildest first.
const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Rank returns the ordering position of a severity; higher is worse. Unknown
// severities rank below low.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	default:
		return 0
	}
}

// AtLeast reports whether s is as severe as other.
func (s Severity) AtLeast(other Severity) bool {
	return s.Rank() >= other.Rank()
}

// Alert is one weather warning raised by a monitoring cycle. Alerts are
// immutable once created; the current alert set is replaced wholesale every
// cycle.
type Alert struct {
	ID                   string       `json:"id"`
	CreatedAt            time.Time    `json:"createdAt"`
	Kind                 Kind         `json:"kind"`
	Severity             Severity     `json:"severity"`
	Location             geo.Position `json:"location"`
	DistanceFromVesselNm float64      `json:"distanceFromVesselNm"`
	Message              string       `json:"message"`
	Recommendation       string       `json:"recommendation"`
}

func newAlert(kind Kind, severity Severity, loc geo.Position, distNm float64, msg, rec string, now time.Time) Alert {
	return Alert{
		ID:                   "alt_" + uuid.New().String()[:22],
		CreatedAt:            now,
		Kind:                 kind,
		Severity:             severity,
		Location:             loc,
		DistanceFromVesselNm: distNm,
		Message:              msg,
		Recommendation:       rec,
	}
}

// Dispatcher delivers alerts to one notification channel. Dispatch failures
// are non-fatal to the monitoring cycle.
type Dispatcher interface {
	// Dispatch delivers a single alert.
	Dispatch(ctx context.Context, alert *Alert) error

	// Channel identifies the delivery channel for logging.
	Channel() string
}
