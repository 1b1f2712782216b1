package monitor

import (
	"fmt"
	"time"
)

// Config is an immutable monitoring configuration value. Build modified
// copies with WithUpdates rather than mutating fields in place.
type Config struct {
	// Interval between monitoring cycles.
	Interval time.Duration `json:"interval"`

	// ForecastHorizonDays is how far ahead each forecast query looks.
	ForecastHorizonDays int `json:"forecastHorizonDays"`

	// MaxWindKts is the sustained wind limit in knots.
	MaxWindKts float64 `json:"maxWindKts"`

	// MaxWaveHeightM is the wave height limit in meters.
	MaxWaveHeightM float64 `json:"maxWaveHeightM"`

	// AvoidStorms raises a critical storm alert for winds above 40 knots.
	AvoidStorms bool `json:"avoidStorms"`

	// RequireDaylightArrival flags destination arrivals outside 06:00-18:00
	// local time.
	RequireDaylightArrival bool `json:"requireDaylightArrival"`

	// NotifyPush enables the push notification channel.
	NotifyPush bool `json:"notifyPush"`

	// NotifySMS enables the SMS notification channel.
	NotifySMS bool `json:"notifySms"`
}

// DefaultConfig returns conservative cruising defaults.
func DefaultConfig() Config {
	return Config{
		Interval:               6 * time.Hour,
		ForecastHorizonDays:    3,
		MaxWindKts:             30,
		MaxWaveHeightM:         3.0,
		AvoidStorms:            true,
		RequireDaylightArrival: false,
		NotifyPush:             true,
		NotifySMS:              false,
	}
}

// Validate checks the configuration invariants.
func (c Config) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive, got %s", ErrInvalidConfig, c.Interval)
	}
	if c.ForecastHorizonDays <= 0 {
		return fmt.Errorf("%w: forecast horizon must be positive, got %d days", ErrInvalidConfig, c.ForecastHorizonDays)
	}
	if c.MaxWindKts <= 0 {
		return fmt.Errorf("%w: max wind must be positive, got %.1f kn", ErrInvalidConfig, c.MaxWindKts)
	}
	if c.MaxWaveHeightM <= 0 {
		return fmt.Errorf("%w: max wave height must be positive, got %.1f m", ErrInvalidConfig, c.MaxWaveHeightM)
	}
	return nil
}

// Horizon returns the forecast horizon as a duration.
func (c Config) Horizon() time.Duration {
	return time.Duration(c.ForecastHorizonDays) * 24 * time.Hour
}

// ConfigUpdate carries a partial configuration change; nil fields keep their
// current values.
type ConfigUpdate struct {
	Interval               *time.Duration `json:"interval,omitempty"`
	ForecastHorizonDays    *int           `json:"forecastHorizonDays,omitempty"`
	MaxWindKts             *float64       `json:"maxWindKts,omitempty"`
	MaxWaveHeightM         *float64       `json:"maxWaveHeightM,omitempty"`
	AvoidStorms            *bool          `json:"avoidStorms,omitempty"`
	RequireDaylightArrival *bool          `json:"requireDaylightArrival,omitempty"`
	NotifyPush             *bool          `json:"notifyPush,omitempty"`
	NotifySMS              *bool          `json:"notifySms,omitempty"`
}

// WithUpdates returns a copy of c with the non-nil update fields applied. The
// receiver is never modified. The result is validated before being returned.
func (c Config) WithUpdates(u ConfigUpdate) (Config, error) {
	next := c
	if u.Interval != nil {
		next.Interval = *u.Interval
	}
	if u.ForecastHorizonDays != nil {
		next.ForecastHorizonDays = *u.ForecastHorizonDays
	}
	if u.MaxWindKts != nil {
		next.MaxWindKts = *u.MaxWindKts
	}
	if u.MaxWaveHeightM != nil {
		next.MaxWaveHeightM = *u.MaxWaveHeightM
	}
	if u.AvoidStorms != nil {
		next.AvoidStorms = *u.AvoidStorms
	}
	if u.RequireDaylightArrival != nil {
		next.RequireDaylightArrival = *u.RequireDaylightArrival
	}
	if u.NotifyPush != nil {
		next.NotifyPush = *u.NotifyPush
	}
	if u.NotifySMS != nil {
		next.NotifySMS = *u.NotifySMS
	}
	if err := next.Validate(); err != nil {
		return Config{}, err
	}
	return next, nil
}
