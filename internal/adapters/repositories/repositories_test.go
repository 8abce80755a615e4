package repositories

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"hazard-route-service/internal/domain"
	"hazard-route-service/internal/platform/db"
)

const seedJSON = `[
  {"place_id": "p1", "name": "Central Station", "kind": "station", "lng": 13.369, "lat": 52.525},
  {"place_id": "p2", "name": "Station Road Depot", "kind": "depot", "lng": 13.401, "lat": 52.510},
  {"place_id": "p3", "name": "Old Town Hall", "kind": "landmark", "lng": 13.408, "lat": 52.518},
  {"place_id": "p4", "name": "Unmapped Station Annex", "kind": "station"}
]`

func openSeeded(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.OpenSqlite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := InitSchema(conn); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	path := filepath.Join(t.TempDir(), "places.json")
	if err := os.WriteFile(path, []byte(seedJSON), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	if err := SeedFromJSON(conn, DialectSQLite, path); err != nil {
		t.Fatalf("seed: %v", err)
	}
	// Seeding twice must not fail.
	if err := SeedFromJSON(conn, DialectSQLite, path); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	return conn
}

func TestSearchPlacesRanksPrefixFirst(t *testing.T) {
	repo := NewSqlitePlaceRepository(openSeeded(t))

	got, err := repo.SearchPlaces(context.Background(), "station", 10)
	if err != nil {
		t.Fatalf("SearchPlaces() err = %v", err)
	}

	want := []string{"Station Road Depot", "Central Station", "Unmapped Station Annex"}
	if len(got) != len(want) {
		t.Fatalf("got %d results, want %d: %+v", len(got), len(want), got)
	}
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("result[%d] = %q, want %q", i, got[i].Name, name)
		}
		if got[i].Origin != domain.OriginLocalSearch {
			t.Errorf("result[%d] origin = %q", i, got[i].Origin)
		}
	}
	if got[2].HasCoords() {
		t.Errorf("unmapped place should have no coordinates")
	}
	if !got[0].HasCoords() || *got[0].Lon != 13.401 {
		t.Errorf("depot coords = %v,%v", got[0].Lon, got[0].Lat)
	}
}

func TestSearchPlacesLimitAndEscaping(t *testing.T) {
	repo := NewSqlitePlaceRepository(openSeeded(t))
	ctx := context.Background()

	got, err := repo.SearchPlaces(ctx, "STATION", 1)
	if err != nil {
		t.Fatalf("SearchPlaces() err = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("limit ignored: got %d", len(got))
	}

	got, err = repo.SearchPlaces(ctx, "%", 10)
	if err != nil {
		t.Fatalf("SearchPlaces() err = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("wildcard should be literal, got %d results", len(got))
	}

	if _, err := repo.SearchPlaces(ctx, "  ", 10); err == nil {
		t.Error("expected error for empty query")
	}
}

func TestSeedFromJSONRejectsInvalid(t *testing.T) {
	conn, err := db.OpenSqlite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer conn.Close()
	if err := InitSchema(conn); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	cases := map[string]string{
		"missing id":   `[{"name": "x"}]`,
		"missing name": `[{"place_id": "a"}]`,
		"half coords":  `[{"place_id": "a", "name": "x", "lng": 1}]`,
		"bad json":     `{`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "seed.json")
			if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
				t.Fatal(err)
			}
			if err := SeedFromJSON(conn, DialectSQLite, path); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestDialectBind(t *testing.T) {
	if got := DialectSQLite.bind(3); got != "?" {
		t.Errorf("sqlite bind = %q", got)
	}
	if got := DialectPostgres.bind(3); got != "$3" {
		t.Errorf("postgres bind = %q", got)
	}
}
