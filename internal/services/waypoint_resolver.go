package services

import (
	"context"
	"fmt"
	"strings"

	"hazard-route-service/internal/domain"
	"hazard-route-service/internal/platform/logger"
	"hazard-route-service/internal/platform/obs"
	"hazard-route-service/internal/ports"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// MaxCandidates caps the combined candidate list.
	MaxCandidates = 8
	// Number of results requested from the external geocoder.
	externalLimit = 5
)

// WaypointResolver turns free text into ranked coordinate candidates by
// querying the local place search and the external geocoder concurrently.
// Either source may be nil.
type WaypointResolver struct {
	local    ports.PlaceSearcher
	external ports.Geocoder
}

func NewWaypointResolver(local ports.PlaceSearcher, external ports.Geocoder) *WaypointResolver {
	return &WaypointResolver{local: local, external: external}
}

// Resolve returns local results first, then external ones, capped at
// MaxCandidates. A failing source is dropped silently; domain.ErrWaypointNotFound
// is returned only when neither source yields a usable candidate.
func (r *WaypointResolver) Resolve(ctx context.Context, query string) (_ []domain.Candidate, err error) {
	defer obs.Time(ctx, "resolver.Resolve")(&err)

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("resolve: empty query: %w", domain.ErrInvalidWaypoints)
	}

	var (
		g                errgroup.Group
		local, external  []domain.Candidate
		localErr, extErr error
	)

	// Neither lookup may cancel the other, so the group has no shared context.
	if r.local != nil {
		g.Go(func() error {
			local, localErr = r.local.SearchPlaces(ctx, query, MaxCandidates)
			return nil
		})
	}
	if r.external != nil {
		g.Go(func() error {
			external, extErr = r.external.Geocode(ctx, query, externalLimit)
			return nil
		})
	}
	_ = g.Wait()

	if localErr != nil {
		logger.Debug("local place search failed", zap.String("query", query), zap.Error(localErr))
		local = nil
	}
	if extErr != nil {
		logger.Debug("external geocoder failed", zap.String("query", query), zap.Error(extErr))
		external = nil
	}

	out := make([]domain.Candidate, 0, MaxCandidates)
	for _, list := range [][]domain.Candidate{local, external} {
		for _, c := range list {
			if len(out) == MaxCandidates {
				break
			}
			if !c.HasCoords() {
				continue
			}
			out = append(out, c)
		}
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("resolve %q: %w", query, domain.ErrWaypointNotFound)
	}
	return out, nil
}
