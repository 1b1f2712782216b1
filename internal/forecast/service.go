// Package forecast provides marine weather forecasts along a route through a
// narrow provider interface, with grid-cell caching in front of the
// provider.
package forecast

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sailwatch/sailwatch/pkg/geo"
)

// Provider is the external forecast source consumed by the engine.
type Provider interface {
	// Forecast returns hourly samples for a location covering the horizon.
	Forecast(ctx context.Context, pos geo.Position, horizon time.Duration) ([]Sample, error)

	// Name identifies the provider for logging.
	Name() string
}

// ServiceConfig holds configuration for the forecast service.
type ServiceConfig struct {
	// Provider is the forecast data provider.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long to cache forecasts (default: 30 minutes).
	// Marine forecasts update on multi-hour model cycles, so a generous
	// cache is acceptable.
	CacheTTL time.Duration

	// CacheGridSize is the cache grid cell size in degrees (default: 0.25,
	// roughly 15 nm at the equator). Points within the same cell share a
	// cached forecast.
	CacheGridSize float64
}

// Service answers forecast queries with caching. Monitoring cycles sample
// the same waypoints repeatedly; the grid cache keeps provider traffic
// proportional to the route, not to the cycle count.
type Service struct {
	provider      Provider
	logger        zerolog.Logger
	cacheTTL      time.Duration
	cacheGridSize float64

	mu    sync.RWMutex
	cache map[string]*cachedForecast
}

type cachedForecast struct {
	samples   []Sample
	expiresAt time.Time
}

// NewService creates a new forecast service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 30 * time.Minute
	}

	cacheGridSize := cfg.CacheGridSize
	if cacheGridSize == 0 {
		cacheGridSize = 0.25
	}

	return &Service{
		provider:      cfg.Provider,
		logger:        cfg.Logger,
		cacheTTL:      cacheTTL,
		cacheGridSize: cacheGridSize,
		cache:         make(map[string]*cachedForecast),
	}
}

// Name returns the underlying provider name.
func (s *Service) Name() string {
	return s.provider.Name()
}

// Forecast returns forecast samples for a location, from cache when fresh.
func (s *Service) Forecast(ctx context.Context, pos geo.Position, horizon time.Duration) ([]Sample, error) {
	if !pos.Valid() {
		return nil, ErrInvalidCoordinates
	}

	key := s.cacheKey(pos)

	s.mu.RLock()
	if cached, ok := s.cache[key]; ok && time.Now().Before(cached.expiresAt) {
		s.mu.RUnlock()
		return cached.samples, nil
	}
	s.mu.RUnlock()

	return s.fetch(ctx, pos, horizon, key)
}

func (s *Service) fetch(ctx context.Context, pos geo.Position, horizon time.Duration, key string) ([]Sample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check under the write lock.
	if cached, ok := s.cache[key]; ok && time.Now().Before(cached.expiresAt) {
		return cached.samples, nil
	}

	s.logger.Debug().
		Float64("lat", pos.Lat).
		Float64("lon", pos.Lon).
		Str("provider", s.provider.Name()).
		Msg("fetching forecast from provider")

	samples, err := s.provider.Forecast(ctx, pos, horizon)
	if err != nil {
		s.logger.Error().Err(err).
			Float64("lat", pos.Lat).
			Float64("lon", pos.Lon).
			Msg("failed to fetch forecast")
		return nil, err
	}

	s.cache[key] = &cachedForecast{
		samples:   samples,
		expiresAt: time.Now().Add(s.cacheTTL),
	}

	return samples, nil
}

// InvalidateCache clears all cached forecasts.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*cachedForecast)
}

// cacheKey quantizes a position onto the cache grid.
func (s *Service) cacheKey(pos geo.Position) string {
	gridLat := math.Floor(pos.Lat/s.cacheGridSize) * s.cacheGridSize
	gridLon := math.Floor(pos.Lon/s.cacheGridSize) * s.cacheGridSize
	return fmt.Sprintf("%.2f:%.2f", gridLat, gridLon)
}
