package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"hazard-route-service/internal/domain"
	"hazard-route-service/internal/platform/httpx"
	"hazard-route-service/internal/platform/obs"
)

// looseFloat accepts a JSON number or a numeric string; Nominatim sends strings.
type looseFloat struct {
	v *float64
}

func (f *looseFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("parse coordinate %q: %w", s, err)
	}
	f.v = &v
	return nil
}

type nominatimResult struct {
	DisplayName string     `json:"display_name"`
	Lat         looseFloat `json:"lat"`
	Lon         looseFloat `json:"lon"`
	Type        string     `json:"type"`
}

// NominatimGeocoder resolves unstructured addresses with a Nominatim-compatible /search endpoint.
type NominatimGeocoder struct {
	client *httpx.Client
}

func NewNominatimGeocoder(baseURL string, timeout time.Duration) *NominatimGeocoder {
	return &NominatimGeocoder{
		client: httpx.NewClient(baseURL, timeout).WithHeader("User-Agent", "hazard-route-service"),
	}
}

func (g *NominatimGeocoder) Geocode(
	ctx context.Context,
	query string,
	limit int,
) (_ []domain.Candidate, err error) {
	defer obs.Time(ctx, "nominatim.Geocode")(&err)

	var decoded []nominatimResult
	params := map[string]string{
		"q":      query,
		"limit":  strconv.Itoa(limit),
		"format": "json",
	}
	if err := g.client.GetJSON(ctx, "/search", params, &decoded); err != nil {
		return nil, fmt.Errorf("geocode %q: %w", query, err)
	}

	out := make([]domain.Candidate, 0, len(decoded))
	for _, r := range decoded {
		out = append(out, domain.Candidate{
			Name:   r.DisplayName,
			Kind:   r.Type,
			Lon:    r.Lon.v,
			Lat:    r.Lat.v,
			Origin: domain.OriginExternalGeocoder,
		})
	}
	return out, nil
}

var _ json.Unmarshaler = (*looseFloat)(nil)
