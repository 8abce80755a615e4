package places

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"hazard-route-service/internal/domain"
	"hazard-route-service/internal/platform/httpx"
	"hazard-route-service/internal/platform/obs"
)

type placeResult struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Lng  *float64 `json:"lng"`
	Lat  *float64 `json:"lat"`
	Type string   `json:"type"`
}

// HTTPPlaceSearch queries a remote curated-place service (GET /search?q=).
type HTTPPlaceSearch struct {
	client *httpx.Client
}

func NewHTTPPlaceSearch(baseURL string, timeout time.Duration) *HTTPPlaceSearch {
	return &HTTPPlaceSearch{client: httpx.NewClient(baseURL, timeout)}
}

func (s *HTTPPlaceSearch) SearchPlaces(
	ctx context.Context,
	query string,
	limit int,
) (_ []domain.Candidate, err error) {
	defer obs.Time(ctx, "places.SearchPlaces")(&err)

	var decoded []placeResult
	params := map[string]string{"q": query, "limit": strconv.Itoa(limit)}
	if err := s.client.GetJSON(ctx, "/search", params, &decoded); err != nil {
		return nil, fmt.Errorf("search places %q: %w", query, err)
	}

	out := make([]domain.Candidate, 0, len(decoded))
	for _, p := range decoded {
		out = append(out, domain.Candidate{
			Name:   p.Name,
			Kind:   p.Type,
			Lon:    p.Lng,
			Lat:    p.Lat,
			Origin: domain.OriginLocalSearch,
		})
	}
	return out, nil
}
