package geocoding

import (
	"context"
	"fmt"
	"strings"

	"hazard-route-service/internal/domain"
	"hazard-route-service/internal/platform/logger"
	"hazard-route-service/internal/ports"

	"go.uber.org/zap"
)

// CachingGeocoder checks a persistent cache before delegating to the
// wrapped geocoder. Cache failures never fail the lookup.
type CachingGeocoder struct {
	next  ports.Geocoder
	cache ports.GeocodeCache
}

func NewCachingGeocoder(next ports.Geocoder, cache ports.GeocodeCache) *CachingGeocoder {
	return &CachingGeocoder{next: next, cache: cache}
}

// Normalize collapses whitespace and case so equivalent queries share a cache key.
func Normalize(q string) string {
	return strings.ToLower(strings.Join(strings.Fields(q), " "))
}

func (c *CachingGeocoder) Geocode(ctx context.Context, query string, limit int) ([]domain.Candidate, error) {
	key := Normalize(query)
	if key == "" {
		return []domain.Candidate{}, nil
	}

	if c.cache != nil {
		hits, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			logger.Warn("geocode cache read failed", zap.String("query", key), zap.Error(err))
		} else if ok {
			if limit > 0 && len(hits) > limit {
				hits = hits[:limit]
			}
			return hits, nil
		}
	}

	fresh, err := c.next.Geocode(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("caching geocoder: %w", err)
	}

	// Empty answers are not cached so a later retry can still find the address.
	if c.cache != nil && len(fresh) > 0 {
		if err := c.cache.Put(ctx, key, fresh); err != nil {
			logger.Warn("geocode cache write failed", zap.String("query", key), zap.Error(err))
		}
	}

	return fresh, nil
}
