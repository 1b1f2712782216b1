package route

import "context"

// Store supplies stored routes to the engine. The engine reads routes and
// never writes back; persistence of edits belongs to the owning layer.
type Store interface {
	// GetRoute retrieves a route by ID, returning ErrRouteNotFound when it
	// does not exist.
	GetRoute(ctx context.Context, id string) (*Route, error)

	// ListRoutes returns all stored routes.
	ListRoutes(ctx context.Context) ([]*Route, error)
}
