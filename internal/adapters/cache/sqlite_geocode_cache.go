package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"hazard-route-service/internal/domain"
)

// SQLite backed cache mapping normalized query text to geocoder candidates.
// Query keys are expected to be normalized by the caller.
type SqliteGeocodeCache struct {
	DB *sql.DB
}

func NewSqliteGeocodeCache(db *sql.DB) *SqliteGeocodeCache {
	return &SqliteGeocodeCache{DB: db}
}

// Fetch cached candidates for a query, in rank order.
func (s *SqliteGeocodeCache) Get(ctx context.Context, query string) ([]domain.Candidate, bool, error) {
	if s.DB == nil {
		return nil, false, errors.New("geocode cache: db is nil")
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, false, errors.New("get geocode cache: query must not be empty")
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT
        name,
        kind,
        lon,
        lat
    FROM geocode_cache
    WHERE query = ?
    ORDER BY rank;
	`, query)
	if err != nil {
		return nil, false, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}
	defer rows.Close()

	out, err := scanCandidates(rows)
	if err != nil {
		return nil, false, err
	}
	return out, len(out) > 0, nil
}

// Store the candidate list for a query, replacing any previous entry.
func (s *SqliteGeocodeCache) Put(ctx context.Context, query string, candidates []domain.Candidate) error {
	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return errors.New("insert geocode cache: empty query key")
	}

	if len(candidates) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert geocode cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM geocode_cache WHERE query = ?;`, query); err != nil {
		return fmt.Errorf("insert geocode cache: clear previous: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO geocode_cache (
        query,
        rank,
        name,
        kind,
        lon,
        lat
    )
    VALUES (?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("insert geocode cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for i, c := range candidates {
		if _, err := stmt.ExecContext(ctx, query, i, c.Name, c.Kind, nullFloat(c.Lon), nullFloat(c.Lat)); err != nil {
			return fmt.Errorf("insert geocode cache query=%q rank=%d: %w", query, i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert geocode cache commit: %w", err)
	}

	return nil
}
