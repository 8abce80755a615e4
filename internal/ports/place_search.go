package ports

import (
	"context"
	"hazard-route-service/internal/domain"
)

// Port: a boundary for the curated local place database.
type PlaceSearcher interface {
	// Return places whose name matches the query, best match first.
	SearchPlaces(ctx context.Context, query string, limit int) ([]domain.Candidate, error)
}
