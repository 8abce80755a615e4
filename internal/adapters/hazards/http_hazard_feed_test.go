package hazards

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hazard-route-service/internal/domain"
	"hazard-route-service/internal/platform/httpx"
)

func TestReportsAlong(t *testing.T) {
	var gotWaypoints, gotBuffer string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reports/route" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotWaypoints = r.URL.Query().Get("waypoints")
		gotBuffer = r.URL.Query().Get("buffer_km")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"reports":[
			{"report_type":"JAM","latitude":52.5,"longitude":13.4,"severity":3,"confidence_score":-2,"verified_count":4,"received_at":"2024-05-01T10:00:00Z"},
			{"report_type":"road_hazard","latitude":52.6,"longitude":13.5,"severity":9,"confidence_score":1,"verified_count":0,"received_at":"2024-05-01T10:05:00.123456"},
			{"report_type":"alien-landing","latitude":0,"longitude":0,"severity":1}
		]}`))
	}))
	defer srv.Close()

	feed, err := NewHTTPHazardFeed(srv.URL, time.Second)
	if err != nil {
		t.Fatal(err)
	}

	samples := []domain.Coordinates{{Lon: 13.4, Lat: 52.5}, {Lon: 13.5, Lat: 52.6}}
	got, err := feed.ReportsAlong(context.Background(), samples, 2)
	if err != nil {
		t.Fatalf("ReportsAlong() err = %v", err)
	}

	if gotWaypoints != "13.400000,52.500000;13.500000,52.600000" {
		t.Errorf("waypoints = %q", gotWaypoints)
	}
	if gotBuffer != "2" {
		t.Errorf("buffer_km = %q", gotBuffer)
	}

	if len(got) != 3 {
		t.Fatalf("got %d reports, want 3", len(got))
	}
	if got[0].Category != domain.HazardJam || got[0].Confidence != -2 || got[0].VerifiedCount != 4 {
		t.Errorf("report[0] = %+v", got[0])
	}
	if !got[0].ReceivedAt.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("received_at = %v", got[0].ReceivedAt)
	}
	if got[1].Category != domain.HazardRoadHazard || got[1].ClampedSeverity() != 5 {
		t.Errorf("report[1] = %+v", got[1])
	}
	if got[1].ReceivedAt.IsZero() {
		t.Error("naive timestamp should parse")
	}
	if got[2].Category != "alien-landing" {
		t.Errorf("unknown category = %q", got[2].Category)
	}
}

func TestReportsAlongErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	feed, _ := NewHTTPHazardFeed(srv.URL, time.Second)

	_, err := feed.ReportsAlong(context.Background(), []domain.Coordinates{{Lon: 1, Lat: 2}}, 2)
	var se *httpx.StatusError
	if !errors.As(err, &se) || se.Code != http.StatusServiceUnavailable {
		t.Fatalf("err = %v, want StatusError 503", err)
	}

	if _, err := feed.ReportsAlong(context.Background(), nil, 2); err == nil {
		t.Error("expected error for empty samples")
	}

	if _, err := NewHTTPHazardFeed(" ", time.Second); err == nil {
		t.Error("expected error for empty base URL")
	}
}
