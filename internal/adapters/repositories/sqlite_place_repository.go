package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"hazard-route-service/internal/domain"
	"hazard-route-service/internal/platform/obs"
)

// SQL-backed implementation of the PlaceSearcher port over the curated places table.
type SqlitePlaceRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewSqlitePlaceRepository(db *sql.DB) *SqlitePlaceRepository {
	return &SqlitePlaceRepository{DB: db, Dialect: DialectSQLite}
}

// SearchPlaces returns places whose name contains query, case-insensitively.
// Prefix matches rank ahead of infix matches; ties are ordered by name.
func (s *SqlitePlaceRepository) SearchPlaces(
	ctx context.Context,
	query string,
	limit int,
) (_ []domain.Candidate, err error) {
	defer obs.Time(ctx, "places.sqlite.Search")(&err)

	if s.DB == nil {
		return nil, errors.New("sqlite place repository: DB is nil")
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, errors.New("search places: query must not be empty")
	}
	if limit <= 0 {
		limit = 8
	}

	escaped := escapeLike(query)
	q := fmt.Sprintf(`
	SELECT
		name,
		kind,
		lon,
		lat
	FROM places
	WHERE lower(name) LIKE %s ESCAPE '\'
	ORDER BY
		CASE WHEN lower(name) LIKE %s ESCAPE '\' THEN 0 ELSE 1 END,
		name
	LIMIT %s;
	`, s.Dialect.bind(1), s.Dialect.bind(2), s.Dialect.bind(3))

	rows, err := s.DB.QueryContext(ctx, q, "%"+escaped+"%", escaped+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("search places: query places table: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Candidate, 0, limit)
	for rows.Next() {
		var name, kind string
		var lon, lat sql.NullFloat64
		if err := rows.Scan(&name, &kind, &lon, &lat); err != nil {
			return nil, fmt.Errorf("search places: scan row: %w", err)
		}

		c := domain.Candidate{Name: name, Kind: kind, Origin: domain.OriginLocalSearch}
		if lon.Valid && lat.Valid {
			lo, la := lon.Float64, lat.Float64
			c.Lon, c.Lat = &lo, &la
		}
		out = append(out, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search places: row iteration: %w", err)
	}

	return out, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
