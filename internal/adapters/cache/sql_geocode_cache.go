package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"hazard-route-service/internal/domain"
	"hazard-route-service/internal/platform/obs"
)

// SQLGeocodeCache is a Postgres-backed cache mapping query text to geocoder candidates.
type SQLGeocodeCache struct {
	DB *sql.DB
}

func NewSQLGeocodeCache(db *sql.DB) *SQLGeocodeCache {
	return &SQLGeocodeCache{DB: db}
}

// Fetch cached candidates for a normalized query, in rank order.
func (s *SQLGeocodeCache) Get(
	ctx context.Context,
	query string,
) (_ []domain.Candidate, _ bool, err error) {
	defer obs.Time(ctx, "geocode.cache.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("geocode cache: db is nil")
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, false, errors.New("get geocode cache: query must not be empty")
	}

	q := `
	SELECT name, kind, lon, lat
    FROM geocode_cache
    WHERE query = $1
    ORDER BY rank;
	`

	rows, err := s.DB.QueryContext(ctx, q, query)
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
func (s *SQLGeocodeCache) Put(ctx context.Context, query string, candidates []domain.Candidate) error {
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

	if _, err := tx.ExecContext(ctx, `DELETE FROM geocode_cache WHERE query = $1;`, query); err != nil {
		return fmt.Errorf("insert geocode cache: clear previous: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO geocode_cache (query, rank, name, kind, lon, lat)
    VALUES ($1, $2, $3, $4, $5, $6);
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

func scanCandidates(rows *sql.Rows) ([]domain.Candidate, error) {
	out := make([]domain.Candidate, 0, 8)
	for rows.Next() {
		var name, kind string
		var lon, lat sql.NullFloat64
		if err := rows.Scan(&name, &kind, &lon, &lat); err != nil {
			return nil, fmt.Errorf("get geocode cache: scan rows: %w", err)
		}
		out = append(out, domain.Candidate{
			Name:   name,
			Kind:   kind,
			Lon:    floatPtr(lon),
			Lat:    floatPtr(lat),
			Origin: domain.OriginExternalGeocoder,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get geocode cache: row iteration: %w", err)
	}
	return out, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
