package routing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hazard-route-service/internal/domain"
	"hazard-route-service/internal/platform/httpx"
	"hazard-route-service/internal/platform/obs"
)

type orsDirectionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
}

type orsDirectionsResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Summary struct {
				Distance float64 `json:"distance"`
				Duration float64 `json:"duration"`
			} `json:"summary"`
			Segments []struct {
				Steps []struct {
					Instruction string  `json:"instruction"`
					Distance    float64 `json:"distance"`
				} `json:"steps"`
			} `json:"segments"`
		} `json:"properties"`
	} `json:"features"`
}

// ORSProvider computes routes with the OpenRouteService directions endpoint
// (GeoJSON flavour). It is the heavier fallback behind OSRM.
type ORSProvider struct {
	client *httpx.Client
}

// NewORSProvider expects baseURL to include the profile,
// e.g. https://api.openrouteservice.org/v2/directions/driving-car.
func NewORSProvider(baseURL, apiKey string, timeout time.Duration) (*ORSProvider, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	return &ORSProvider{
		client: httpx.NewClient(baseURL, timeout).WithHeader("Authorization", apiKey),
	}, nil
}

func (o *ORSProvider) Name() string { return "ors" }

func (o *ORSProvider) ComputeRoute(
	ctx context.Context,
	waypoints []domain.Coordinates,
) (_ *domain.Route, err error) {
	defer obs.Time(ctx, "ors.ComputeRoute")(&err)

	if len(waypoints) < 2 {
		return nil, fmt.Errorf("ors route: %w", domain.ErrInvalidWaypoints)
	}

	body := orsDirectionsRequest{Coordinates: make([][]float64, 0, len(waypoints))}
	for _, w := range waypoints {
		body.Coordinates = append(body.Coordinates, w.CoordsToList())
	}

	var decoded orsDirectionsResponse
	if err := o.client.PostJSON(ctx, "/geojson", body, &decoded); err != nil {
		return nil, fmt.Errorf("ors directions request: %w", err)
	}

	if len(decoded.Features) == 0 {
		return nil, fmt.Errorf("ors route: %w", domain.ErrNoRoute)
	}

	f := decoded.Features[0]

	geometry := make([]domain.Coordinates, 0, len(f.Geometry.Coordinates))
	for i, pair := range f.Geometry.Coordinates {
		c, err := domain.CoordinatesFromList(pair)
		if err != nil {
			return nil, fmt.Errorf("ors geometry vertex %d: %w", i, err)
		}
		geometry = append(geometry, c)
	}

	// Segments are optional; a route without them narrates nothing.
	steps := []domain.Step{}
	for _, seg := range f.Properties.Segments {
		for _, s := range seg.Steps {
			steps = append(steps, domain.Step{
				Instruction:    s.Instruction,
				DistanceMeters: s.Distance,
			})
		}
	}

	return &domain.Route{
		Provider:        "ors",
		Geometry:        geometry,
		DistanceMeters:  f.Properties.Summary.Distance,
		DurationSeconds: f.Properties.Summary.Duration,
		Steps:           steps,
	}, nil
}
