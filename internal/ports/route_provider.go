package ports

import (
	"context"
	"hazard-route-service/internal/domain"
)

// Contract for an external service that computes a route through ordered coordinates.
type RouteProvider interface {
	// Short identifier used in logs and on the resulting Route.
	Name() string
	// Return a fully populated Route, or an error. An empty result must be
	// reported as domain.ErrNoRoute rather than a zero Route.
	ComputeRoute(ctx context.Context, waypoints []domain.Coordinates) (*domain.Route, error)
}
