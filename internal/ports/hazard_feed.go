package ports

import (
	"context"
	"hazard-route-service/internal/domain"
)

// Contract for the crowd-sourced hazard report feed.
type HazardFeed interface {
	// Return reports within bufferKm of any sample point.
	ReportsAlong(ctx context.Context, samples []domain.Coordinates, bufferKm float64) ([]domain.HazardReport, error)
}
