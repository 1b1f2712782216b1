package route

import (
	"context"
	"sync"
)

// InMemoryStore is an in-memory Store for tests and single-node deployments
// without a database.
type InMemoryStore struct {
	mu     sync.RWMutex
	routes map[string]*Route
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{routes: make(map[string]*Route)}
}

// Put stores or replaces a route. Intended for seeding and tests.
func (s *InMemoryStore) Put(r *Route) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cpy := cloneRoute(r)
	s.routes[r.ID] = cpy
}

// GetRoute retrieves a route by ID.
func (s *InMemoryStore) GetRoute(_ context.Context, id string) (*Route, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.routes[id]
	if !ok {
		return nil, ErrRouteNotFound
	}
	return cloneRoute(r), nil
}

// ListRoutes returns all stored routes.
func (s *InMemoryStore) ListRoutes(_ context.Context) ([]*Route, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	routes := make([]*Route, 0, len(s.routes))
	for _, r := range s.routes {
		routes = append(routes, cloneRoute(r))
	}
	return routes, nil
}

func cloneRoute(r *Route) *Route {
	cpy := *r
	cpy.Waypoints = make([]Waypoint, len(r.Waypoints))
	copy(cpy.Waypoints, r.Waypoints)
	return &cpy
}
