package places

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hazard-route-service/internal/domain"
)

func TestHTTPPlaceSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") != "castle" {
			t.Errorf("q = %q", r.URL.Query().Get("q"))
		}
		w.Write([]byte(`[
			{"id":"p1","name":"Edinburgh Castle","lng":-3.2009,"lat":55.9486,"type":"castle"},
			{"id":"p2","name":"Lost Castle","lng":null,"lat":null,"type":"ruin"}
		]`))
	}))
	defer srv.Close()

	s := NewHTTPPlaceSearch(srv.URL, time.Second)
	got, err := s.SearchPlaces(context.Background(), "castle", 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2", len(got))
	}
	if got[0].Origin != domain.OriginLocalSearch || !got[0].HasCoords() {
		t.Errorf("first = %+v", got[0])
	}
	if got[1].HasCoords() {
		t.Errorf("second should have no coordinates")
	}
}
