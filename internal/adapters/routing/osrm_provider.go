package routing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hazard-route-service/internal/domain"
	"hazard-route-service/internal/platform/httpx"
	"hazard-route-service/internal/platform/obs"
)

type osrmResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Routes  []osrmRoute `json:"routes"`
}

type osrmRoute struct {
	Geometry struct {
		Coordinates [][]float64 `json:"coordinates"`
	} `json:"geometry"`
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
	Legs     []struct {
		Steps []osrmStep `json:"steps"`
	} `json:"legs"`
}

type osrmStep struct {
	Distance float64 `json:"distance"`
	Name     string  `json:"name"`
	Ref      string  `json:"ref"`
	Maneuver struct {
		Type     string `json:"type"`
		Modifier string `json:"modifier"`
		Exit     int    `json:"exit"`
	} `json:"maneuver"`
}

// OSRMProvider computes routes with an OSRM HTTP server (/route/v1).
// OSRM steps carry maneuvers, not text; instructions are synthesized here.
type OSRMProvider struct {
	client  *httpx.Client
	profile string
}

func NewOSRMProvider(baseURL string, timeout time.Duration) *OSRMProvider {
	return &OSRMProvider{
		client:  httpx.NewClient(baseURL, timeout),
		profile: "driving",
	}
}

func (o *OSRMProvider) Name() string { return "osrm" }

func (o *OSRMProvider) ComputeRoute(
	ctx context.Context,
	waypoints []domain.Coordinates,
) (_ *domain.Route, err error) {
	defer obs.Time(ctx, "osrm.ComputeRoute")(&err)

	if len(waypoints) < 2 {
		return nil, fmt.Errorf("osrm route: %w", domain.ErrInvalidWaypoints)
	}

	coords := make([]string, 0, len(waypoints))
	for _, w := range waypoints {
		coords = append(coords, w.String())
	}
	path := fmt.Sprintf("/route/v1/%s/%s", o.profile, strings.Join(coords, ";"))

	var decoded osrmResponse
	query := map[string]string{
		"geometries": "geojson",
		"steps":      "true",
		"overview":   "full",
	}
	if err := o.client.GetJSON(ctx, path, query, &decoded); err != nil {
		return nil, fmt.Errorf("osrm route request: %w", err)
	}

	if decoded.Code != "Ok" || len(decoded.Routes) == 0 {
		return nil, fmt.Errorf("osrm route: code=%q %s: %w", decoded.Code, decoded.Message, domain.ErrNoRoute)
	}

	return normalizeOSRM(decoded.Routes[0])
}

func normalizeOSRM(r osrmRoute) (*domain.Route, error) {
	geometry := make([]domain.Coordinates, 0, len(r.Geometry.Coordinates))
	for i, pair := range r.Geometry.Coordinates {
		c, err := domain.CoordinatesFromList(pair)
		if err != nil {
			return nil, fmt.Errorf("osrm geometry vertex %d: %w", i, err)
		}
		geometry = append(geometry, c)
	}

	steps := []domain.Step{}
	for li, leg := range r.Legs {
		final := li == len(r.Legs)-1
		for _, s := range leg.Steps {
			steps = append(steps, domain.Step{
				Instruction:    osrmInstruction(s, li, final),
				DistanceMeters: s.Distance,
			})
		}
	}

	return &domain.Route{
		Provider:        "osrm",
		Geometry:        geometry,
		DistanceMeters:  r.Distance,
		DurationSeconds: r.Duration,
		Steps:           steps,
	}, nil
}

func osrmInstruction(s osrmStep, leg int, finalLeg bool) string {
	road := s.Name
	if road == "" {
		road = s.Ref
	}
	onto := ""
	if road != "" {
		onto = " onto " + road
	}
	dir := s.Maneuver.Modifier

	switch s.Maneuver.Type {
	case "depart":
		if road == "" {
			return "Start driving"
		}
		return "Start on " + road
	case "arrive":
		if finalLeg {
			return "You have arrived at your destination"
		}
		return "You have arrived at waypoint " + domain.SlotLabel(leg+1)
	case "roundabout", "rotary":
		if s.Maneuver.Exit > 0 {
			return fmt.Sprintf("At the roundabout, take exit %d%s", s.Maneuver.Exit, onto)
		}
		return "Enter the roundabout" + onto
	case "exit roundabout", "exit rotary":
		return "Exit the roundabout" + onto
	case "merge":
		return "Merge" + onto
	case "on ramp":
		return "Take the ramp" + onto
	case "off ramp":
		return "Take the exit" + onto
	case "fork":
		return fmt.Sprintf("Keep %s at the fork%s", orDefault(dir, "straight"), onto)
	case "end of road":
		return fmt.Sprintf("At the end of the road, turn %s%s", orDefault(dir, "ahead"), onto)
	case "new name", "continue":
		if road == "" {
			return "Continue " + orDefault(dir, "straight")
		}
		return "Continue on " + road
	}

	switch dir {
	case "", "straight":
		return "Go straight" + onto
	case "uturn":
		return "Make a U-turn" + onto
	}
	return "Turn " + dir + onto
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
