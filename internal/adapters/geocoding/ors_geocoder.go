package geocoding

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"hazard-route-service/internal/domain"
	"hazard-route-service/internal/platform/httpx"
	"hazard-route-service/internal/platform/obs"
)

type orsGeocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Label string `json:"label"`
			Layer string `json:"layer"`
		} `json:"properties"`
	} `json:"features"`
}

// ORSGeocoder resolves addresses with OpenRouteService /geocode/search.
type ORSGeocoder struct {
	client *httpx.Client
}

func NewORSGeocoder(baseURL, apiKey string, timeout time.Duration) (*ORSGeocoder, error) {
	if apiKey == "" {
		return nil, errors.New("ors geocoder: missing api key")
	}
	return &ORSGeocoder{
		client: httpx.NewClient(baseURL, timeout).WithHeader("Authorization", apiKey),
	}, nil
}

func (g *ORSGeocoder) Geocode(
	ctx context.Context,
	query string,
	limit int,
) (_ []domain.Candidate, err error) {
	defer obs.Time(ctx, "ors.Geocode")(&err)

	var decoded orsGeocodeResponse
	params := map[string]string{
		"text": strings.Join(strings.Fields(query), " "),
		"size": strconv.Itoa(limit),
	}
	if err := g.client.GetJSON(ctx, "/geocode/search", params, &decoded); err != nil {
		return nil, fmt.Errorf("geocode %q: %w", query, err)
	}

	out := make([]domain.Candidate, 0, len(decoded.Features))
	for _, f := range decoded.Features {
		c := domain.Candidate{
			Name:   f.Properties.Label,
			Kind:   f.Properties.Layer,
			Origin: domain.OriginExternalGeocoder,
		}
		// GeoJSON order is lon, lat.
		if coords := f.Geometry.Coordinates; len(coords) == 2 {
			lon, lat := coords[0], coords[1]
			c.Lon, c.Lat = &lon, &lat
		}
		out = append(out, c)
	}
	return out, nil
}
