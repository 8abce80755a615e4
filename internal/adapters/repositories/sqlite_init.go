package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Dialect selects the bind-parameter style of the target database.
type Dialect int

const (
	DialectSQLite Dialect = iota
	DialectPostgres
)

func (d Dialect) bind(n int) string {
	if d == DialectPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// Initialize the database schema. The statements are valid for both SQLite and Postgres.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createPlacesQuery := `
	CREATE TABLE IF NOT EXISTS places (
		place_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		kind TEXT NOT NULL DEFAULT '',
		lon DOUBLE PRECISION,
		lat DOUBLE PRECISION
	);
	`

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
        query TEXT NOT NULL,
        rank INTEGER NOT NULL,
        name TEXT NOT NULL,
        kind TEXT NOT NULL DEFAULT '',
        lon DOUBLE PRECISION,
        lat DOUBLE PRECISION,
        PRIMARY KEY (query, rank)
    );
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_places_name
    ON places(name);
	`

	statements := []string{
		createPlacesQuery,
		createGeocodeCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type PlaceSeed struct {
	PlaceID string   `json:"place_id"`
	Name    string   `json:"name"`
	Kind    string   `json:"kind"`
	Lon     *float64 `json:"lng"`
	Lat     *float64 `json:"lat"`
}

// Populate the places table from a JSON file. Existing rows with the same id are replaced.
func SeedFromJSON(db *sql.DB, dialect Dialect, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed places: read %q: %w", jsonPath, err)
	}

	var data []PlaceSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed places: parse json: %w", err)
	}

	rows := make([]PlaceSeed, 0, len(data))
	for i, item := range data {
		id := strings.TrimSpace(item.PlaceID)
		if id == "" {
			return fmt.Errorf("seed places: item at index %d: place_id cannot be empty", i+1)
		}

		name := strings.TrimSpace(item.Name)
		if name == "" {
			return fmt.Errorf("seed places: item %q: name cannot be empty", id)
		}

		if (item.Lon == nil) != (item.Lat == nil) {
			return fmt.Errorf("seed places: item %q: lng and lat must both be set or both be empty", id)
		}
		rows = append(rows, PlaceSeed{PlaceID: id, Name: name, Kind: strings.TrimSpace(item.Kind), Lon: item.Lon, Lat: item.Lat})
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed places: begin tx: %w", err)
	}
	defer tx.Rollback()

	query := fmt.Sprintf(`
	INSERT INTO places (
		place_id,
		name,
		kind,
		lon,
		lat
	)
	VALUES (%s, %s, %s, %s, %s)
	ON CONFLICT (place_id) DO UPDATE SET
		name = excluded.name,
		kind = excluded.kind,
		lon = excluded.lon,
		lat = excluded.lat;
	`, dialect.bind(1), dialect.bind(2), dialect.bind(3), dialect.bind(4), dialect.bind(5))
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed places: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range rows {
		if _, err := stmt.Exec(p.PlaceID, p.Name, p.Kind, nullable(p.Lon), nullable(p.Lat)); err != nil {
			return fmt.Errorf("seed places: insert place_id=%s: %w", p.PlaceID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed places: commit tx: %w", err)
	}

	return nil
}

func nullable(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
