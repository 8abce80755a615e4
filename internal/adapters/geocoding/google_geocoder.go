package geocoding

import (
	"context"
	"fmt"
	"strings"

	"hazard-route-service/internal/domain"
	"hazard-route-service/internal/platform/obs"

	"googlemaps.github.io/maps"
)

// GoogleGeocoder resolves addresses with the Google Maps Geocoding API.
type GoogleGeocoder struct {
	client *maps.Client
}

// NewGoogleGeocoder builds a client for apiKey. baseURL overrides the
// Google endpoint and is only set in tests.
func NewGoogleGeocoder(apiKey, baseURL string) (*GoogleGeocoder, error) {
	opts := []maps.ClientOption{maps.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, maps.WithBaseURL(baseURL))
	}

	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("google geocoder: %w", err)
	}
	return &GoogleGeocoder{client: client}, nil
}

func (g *GoogleGeocoder) Geocode(
	ctx context.Context,
	query string,
	limit int,
) (_ []domain.Candidate, err error) {
	defer obs.Time(ctx, "google.Geocode")(&err)

	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{Address: query})
	if err != nil {
		return nil, fmt.Errorf("geocode %q: %w", query, err)
	}

	out := make([]domain.Candidate, 0, len(results))
	for _, r := range results {
		if limit > 0 && len(out) >= limit {
			break
		}
		lon, lat := r.Geometry.Location.Lng, r.Geometry.Location.Lat
		out = append(out, domain.Candidate{
			Name:   r.FormattedAddress,
			Kind:   strings.Join(r.Types, ","),
			Lon:    &lon,
			Lat:    &lat,
			Origin: domain.OriginExternalGeocoder,
		})
	}
	return out, nil
}
