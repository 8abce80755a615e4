package services

import (
	"context"
	"fmt"

	"hazard-route-service/internal/domain"
	"hazard-route-service/internal/platform/obs"
	"hazard-route-service/internal/ports"
)

const (
	SampleStride    = 10
	MaxSamples      = 20
	DefaultBufferKm = 2.0
)

// SampleRoute picks every SampleStride-th vertex of the polyline plus the
// final vertex, keeping at most MaxSamples points. The final vertex always
// survives the cap.
func SampleRoute(geometry []domain.Coordinates) []domain.Coordinates {
	n := len(geometry)
	if n == 0 {
		return nil
	}

	samples := make([]domain.Coordinates, 0, MaxSamples)
	for i := 0; i < n; i += SampleStride {
		samples = append(samples, geometry[i])
	}
	if (n-1)%SampleStride != 0 {
		samples = append(samples, geometry[n-1])
	}

	if len(samples) > MaxSamples {
		samples = append(samples[:MaxSamples-1], geometry[n-1])
	}
	return samples
}

// TrafficSampler queries the hazard feed along a route.
type TrafficSampler struct {
	feed     ports.HazardFeed
	bufferKm float64
}

func NewTrafficSampler(feed ports.HazardFeed, bufferKm float64) *TrafficSampler {
	if bufferKm <= 0 {
		bufferKm = DefaultBufferKm
	}
	return &TrafficSampler{feed: feed, bufferKm: bufferKm}
}

// SampleHazards always returns a usable (possibly empty) report list. The
// second value is non-nil when the feed could not be queried; it wraps
// domain.ErrTrafficDataUnavailable and is informational only.
func (s *TrafficSampler) SampleHazards(ctx context.Context, route *domain.Route) (_ []domain.HazardReport, degraded error) {
	defer obs.Time(ctx, "sampler.SampleHazards")(&degraded)

	if route == nil {
		return []domain.HazardReport{}, nil
	}
	samples := SampleRoute(route.Geometry)
	if len(samples) == 0 {
		return []domain.HazardReport{}, nil
	}

	if s == nil || s.feed == nil {
		return []domain.HazardReport{}, fmt.Errorf("sample hazards: no hazard feed configured: %w", domain.ErrTrafficDataUnavailable)
	}

	reports, err := s.feed.ReportsAlong(ctx, samples, s.bufferKm)
	if err != nil {
		return []domain.HazardReport{}, fmt.Errorf("sample hazards: %w: %w", domain.ErrTrafficDataUnavailable, err)
	}
	if reports == nil {
		reports = []domain.HazardReport{}
	}
	return reports, nil
}
