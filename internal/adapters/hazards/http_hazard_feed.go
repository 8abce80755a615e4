package hazards

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

type reportJSON struct {
	ReportType      string  `json:"report_type"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	Severity        int     `json:"severity"`
	ConfidenceScore int     `json:"confidence_score"`
	VerifiedCount   int     `json:"verified_count"`
	ReceivedAt      string  `json:"received_at"`
}

type reportsResponse struct {
	Reports []reportJSON `json:"reports"`
}

// HTTPHazardFeed queries the crowd-sourced report service for reports near a set of points.
type HTTPHazardFeed struct {
	client *httpx.Client
}

func NewHTTPHazardFeed(baseURL string, timeout time.Duration) (*HTTPHazardFeed, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("hazard feed: base URL is required")
	}
	return &HTTPHazardFeed{client: httpx.NewClient(baseURL, timeout)}, nil
}

func (f *HTTPHazardFeed) ReportsAlong(
	ctx context.Context,
	samples []domain.Coordinates,
	bufferKm float64,
) (_ []domain.HazardReport, err error) {
	defer obs.Time(ctx, "hazards.ReportsAlong")(&err)

	if len(samples) == 0 {
		return nil, errors.New("reports along: no sample points")
	}

	points := make([]string, len(samples))
	for i, c := range samples {
		points[i] = c.String()
	}

	var out reportsResponse
	err = f.client.GetJSON(ctx, "/reports/route", map[string]string{
		"waypoints": strings.Join(points, ";"),
		"buffer_km": strconv.FormatFloat(bufferKm, 'f', -1, 64),
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("reports along: %w", err)
	}

	reports := make([]domain.HazardReport, 0, len(out.Reports))
	for _, r := range out.Reports {
		reports = append(reports, toDomain(r))
	}
	return reports, nil
}

func toDomain(r reportJSON) domain.HazardReport {
	cat, ok := domain.ParseHazardCategory(r.ReportType)
	if !ok {
		cat = domain.HazardCategory(strings.ToLower(strings.TrimSpace(r.ReportType)))
	}

	return domain.HazardReport{
		Category:      cat,
		Coords:        domain.Coordinates{Lon: r.Longitude, Lat: r.Latitude},
		Severity:      r.Severity,
		Confidence:    r.ConfidenceScore,
		VerifiedCount: r.VerifiedCount,
		ReceivedAt:    parseTime(r.ReceivedAt),
	}
}

// The feed has emitted both RFC 3339 and naive ISO timestamps; naive ones are UTC.
func parseTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
