package ports

import (
	"context"
	"hazard-route-service/internal/domain"
)

// Contract for resolving free-text addresses to coordinate candidates.
type Geocoder interface {
	Geocode(ctx context.Context, query string, limit int) ([]domain.Candidate, error)
}

// Persistent cache of geocoder results keyed by normalized query text.
// A miss is reported as ok=false with a nil error.
type GeocodeCache interface {
	Get(ctx context.Context, query string) (_ []domain.Candidate, ok bool, err error)
	Put(ctx context.Context, query string, candidates []domain.Candidate) error
}
