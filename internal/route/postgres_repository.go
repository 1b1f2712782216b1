package route

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is a read-only PostgreSQL implementation of Store. Route
// editing happens in the planning layer; the engine only loads.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL route store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// GetRoute retrieves a route with its waypoints ordered by sequence.
func (s *PostgresStore) GetRoute(ctx context.Context, id string) (*Route, error) {
	query := `
		SELECT id, name, last_modified
		FROM routes
		WHERE id = $1
	`

	var route Route
	err := s.pool.QueryRow(ctx, query, id).Scan(&route.ID, &route.Name, &route.LastModified)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRouteNotFound
		}
		return nil, fmt.Errorf("querying route: %w", err)
	}

	waypoints, err := s.loadWaypoints(ctx, id)
	if err != nil {
		return nil, err
	}
	route.Waypoints = waypoints

	return &route, nil
}

// ListRoutes returns all stored routes with their waypoints.
func (s *PostgresStore) ListRoutes(ctx context.Context) ([]*Route, error) {
	query := `
		SELECT id, name, last_modified
		FROM routes
		ORDER BY last_modified DESC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing routes: %w", err)
	}
	defer rows.Close()

	var routes []*Route
	for rows.Next() {
		var route Route
		if err := rows.Scan(&route.ID, &route.Name, &route.LastModified); err != nil {
			return nil, fmt.Errorf("scanning route: %w", err)
		}
		routes = append(routes, &route)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, route := range routes {
		waypoints, err := s.loadWaypoints(ctx, route.ID)
		if err != nil {
			return nil, err
		}
		route.Waypoints = waypoints
	}

	return routes, nil
}

func (s *PostgresStore) loadWaypoints(ctx context.Context, routeID string) ([]Waypoint, error) {
	query := `
		SELECT id, name, lat, lon, sequence
		FROM waypoints
		WHERE route_id = $1
		ORDER BY sequence ASC
	`

	rows, err := s.pool.Query(ctx, query, routeID)
	if err != nil {
		return nil, fmt.Errorf("querying waypoints: %w", err)
	}
	defer rows.Close()

	var waypoints []Waypoint
	for rows.Next() {
		var wp Waypoint
		if err := rows.Scan(&wp.ID, &wp.Name, &wp.Lat, &wp.Lon, &wp.Sequence); err != nil {
			return nil, fmt.Errorf("scanning waypoint: %w", err)
		}
		waypoints = append(waypoints, wp)
	}
	return waypoints, rows.Err()
}
