package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sailwatch/sailwatch/internal/forecast"
	"github.com/sailwatch/sailwatch/internal/route"
	"github.com/sailwatch/sailwatch/pkg/geo"
)

// ForecastSource supplies forecast samples for a location. *forecast.Service
// satisfies it.
type ForecastSource interface {
	Forecast(ctx context.Context, pos geo.Position, horizon time.Duration) ([]forecast.Sample, error)
}

// ServiceConfig holds configuration for the monitoring service.
type ServiceConfig struct {
	// Tracker supplies the remaining-route view.
	Tracker *route.Tracker

	// Forecast is the forecast source queried each cycle.
	Forecast ForecastSource

	// Push is the push notification dispatcher (optional).
	Push Dispatcher

	// SMS is the SMS notification dispatcher (optional).
	SMS Dispatcher

	// Config is the initial monitoring configuration (default:
	// DefaultConfig).
	Config Config

	// Logger for service operations.
	Logger zerolog.Logger

	// CycleTimeout bounds one monitoring cycle (default: 2 minutes).
	CycleTimeout time.Duration
}

// Service owns the monitoring schedule, the current alert set, and the
// forecast history. Alerts and history are mutated only by the service;
// callers read copies.
type Service struct {
	tracker      *route.Tracker
	source       ForecastSource
	push         Dispatcher
	sms          Dispatcher
	logger       zerolog.Logger
	cycleTimeout time.Duration

	mu       sync.Mutex
	cfg      Config
	alerts   []Alert
	history  []HistoryEntry
	schedule *schedule
}

// schedule is a cancellable handle on the periodic check loop. Cancel is
// idempotent.
type schedule struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func (s *schedule) Cancel() {
	s.once.Do(s.cancel)
}

// NewService creates a new monitoring service.
func NewService(cfg ServiceConfig) (*Service, error) {
	conf := cfg.Config
	if conf == (Config{}) {
		conf = DefaultConfig()
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	cycleTimeout := cfg.CycleTimeout
	if cycleTimeout == 0 {
		cycleTimeout = 2 * time.Minute
	}

	return &Service{
		tracker:      cfg.Tracker,
		source:       cfg.Forecast,
		push:         cfg.Push,
		sms:          cfg.SMS,
		logger:       cfg.Logger,
		cycleTimeout: cycleTimeout,
		cfg:          conf,
	}, nil
}

// Start begins monitoring from the given vessel position. Any previous
// schedule is cancelled first, so calling Start while running replaces the
// schedule rather than erroring. One check runs immediately before Start
// returns; later checks fire every configured interval until Stop.
func (s *Service) Start(ctx context.Context, pos geo.Position) error {
	if !pos.Valid() {
		return ErrInvalidPosition
	}

	s.mu.Lock()
	if s.schedule != nil {
		s.schedule.Cancel()
		s.schedule = nil
	}
	interval := s.cfg.Interval

	// The schedule outlives the Start call, so it is not tied to the
	// caller's context. Stop is the only way to end it.
	loopCtx, cancel := context.WithCancel(context.Background())
	sched := &schedule{cancel: cancel, done: make(chan struct{})}
	s.schedule = sched
	s.mu.Unlock()

	s.logger.Info().
		Float64("lat", pos.Lat).
		Float64("lon", pos.Lon).
		Dur("interval", interval).
		Msg("monitoring started")

	s.runCycle(ctx, pos)

	go func() {
		defer close(sched.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
				s.runCycle(loopCtx, pos)
			}
		}
	}()

	return nil
}

// Stop cancels the monitoring schedule. It is safe to call when monitoring is
// not running and safe to call repeatedly. An in-flight cycle is never
// interrupted; Stop only prevents the next one.
func (s *Service) Stop() {
	s.mu.Lock()
	sched := s.schedule
	s.schedule = nil
	s.mu.Unlock()

	if sched == nil {
		return
	}
	sched.Cancel()
	s.logger.Info().Msg("monitoring stopped")
}

// Running reports whether a monitoring schedule is active.
func (s *Service) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schedule != nil
}

// samplePoint is one location a cycle queries, tagged with its distance from
// the vessel.
type samplePoint struct {
	pos    geo.Position
	distNm float64
}

// runCycle performs one full monitoring pass: sample forecasts along the
// remaining route, evaluate thresholds, replace the alert set, and dispatch.
// The cycle runs under its own deadline so a Stop during the pass does not
// abort it.
func (s *Service) runCycle(parent context.Context, startPos geo.Position) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), s.cycleTimeout)
	defer cancel()

	s.mu.Lock()
	cfg := s.cfg
	s.mu.Unlock()

	now := time.Now()

	// Prefer the tracker's latest fix over the position monitoring was
	// started from.
	pos := startPos
	if last, ok := s.tracker.LastPosition(); ok {
		pos = last
	}

	points := s.collectSamplePoints(pos)

	var alerts []Alert
	var entries []HistoryEntry
	failed := 0

	for _, pt := range points {
		samples, err := s.source.Forecast(ctx, pt.pos, cfg.Horizon())
		if err != nil {
			failed++
			s.logger.Warn().Err(err).
				Float64("lat", pt.pos.Lat).
				Float64("lon", pt.pos.Lon).
				Msg("forecast failed for sampled point, skipping")
			continue
		}

		worst, ok := forecast.Worst(samples)
		if !ok {
			continue
		}

		entries = append(entries, newHistoryEntry(pt.pos, worst, now))
		alerts = append(alerts, evaluateSample(cfg, worst, pt.pos, pt.distNm, now)...)
	}

	if cfg.RequireDaylightArrival {
		if final, remainingNm, ok := s.finalWaypoint(pos); ok {
			if alert := evaluateDaylightArrival(final, remainingNm, now); alert != nil {
				alerts = append(alerts, *alert)
			}
		}
	}

	s.mu.Lock()
	s.alerts = alerts
	s.history = append(s.history, entries...)
	s.mu.Unlock()

	s.logger.Info().
		Int("points", len(points)).
		Int("failed", failed).
		Int("alerts", len(alerts)).
		Msg("monitoring cycle completed")

	for i := range alerts {
		s.dispatch(ctx, cfg, &alerts[i])
	}
}

// collectSamplePoints returns the vessel position, every unarrived waypoint,
// and intermediate points spaced along the straight-line leg to the next
// waypoint. Intermediate points interpolate lat/lon linearly; over a 50 nm
// spacing the divergence from the great circle is negligible.
func (s *Service) collectSamplePoints(pos geo.Position) []samplePoint {
	points := []samplePoint{{pos: pos, distNm: 0}}

	remaining := s.tracker.RemainingWaypoints()
	for _, wp := range remaining {
		wpPos := wp.Position()
		points = append(points, samplePoint{
			pos:    wpPos,
			distNm: geo.DistanceNm(pos, wpPos),
		})
	}

	if len(remaining) > 0 {
		next := remaining[0].Position()
		legNm := geo.DistanceNm(pos, next)
		for d := segmentSampleSpacingNm; d < legNm; d += segmentSampleSpacingNm {
			points = append(points, samplePoint{
				pos:    geo.Interpolate(pos, next, d/legNm),
				distNm: d,
			})
		}
	}

	return points
}

// finalWaypoint returns the last unarrived waypoint and the distance to it
// along the remaining route.
func (s *Service) finalWaypoint(pos geo.Position) (geo.Position, float64, bool) {
	remaining := s.tracker.RemainingWaypoints()
	if len(remaining) == 0 {
		return geo.Position{}, 0, false
	}

	total := geo.DistanceNm(pos, remaining[0].Position())
	for i := 1; i < len(remaining); i++ {
		total += geo.DistanceNm(remaining[i-1].Position(), remaining[i].Position())
	}
	return remaining[len(remaining)-1].Position(), total, true
}

// dispatch delivers one alert to every enabled channel. Failures are logged
// and otherwise ignored.
func (s *Service) dispatch(ctx context.Context, cfg Config, alert *Alert) {
	var dispatchers []Dispatcher
	if cfg.NotifyPush && s.push != nil {
		dispatchers = append(dispatchers, s.push)
	}
	if cfg.NotifySMS && s.sms != nil {
		dispatchers = append(dispatchers, s.sms)
	}

	for _, d := range dispatchers {
		if err := d.Dispatch(ctx, alert); err != nil {
			s.logger.Error().Err(err).
				Str("channel", d.Channel()).
				Str("alert_id", alert.ID).
				Str("kind", string(alert.Kind)).
				Msg("failed to dispatch alert")
			continue
		}
		s.logger.Debug().
			Str("channel", d.Channel()).
			Str("alert_id", alert.ID).
			Str("kind", string(alert.Kind)).
			Str("severity", string(alert.Severity)).
			Msg("alert dispatched")
	}
}

// Alerts returns a copy of the current alert set.
func (s *Service) Alerts() []Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Alert, len(s.alerts))
	copy(out, s.alerts)
	return out
}

// History returns forecast history entries newest-first. A limit of zero or
// less returns everything.
func (s *Service) History(limit int) []HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]HistoryEntry, 0, len(s.history))
	for i := len(s.history) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, s.history[i])
	}
	return out
}

// RecordActualConditions attaches an observation to the most recent history
// entry that does not have one yet. Returns false when every entry already
// has an observation or there is no history.
func (s *Service) RecordActualConditions(obs Observation) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.history) - 1; i >= 0; i-- {
		if s.history[i].Actual == nil {
			o := obs
			if o.Time.IsZero() {
				o.Time = time.Now()
			}
			s.history[i].Actual = &o
			return true
		}
	}
	return false
}

// Accuracy reports mean absolute forecast error over all history entries
// with recorded observations.
func (s *Service) Accuracy() (AccuracyReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return accuracyOver(s.history)
}

// Config returns the current monitoring configuration.
func (s *Service) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// UpdateConfig applies a partial configuration update. Threshold changes take
// effect on the next cycle; an interval change takes effect the next time
// Start is called.
func (s *Service) UpdateConfig(u ConfigUpdate) (Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.cfg.WithUpdates(u)
	if err != nil {
		return Config{}, err
	}
	s.cfg = next
	return next, nil
}
