package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"hazard-route-service/internal/domain"
	"hazard-route-service/internal/platform/obs"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "geocode:"

type redisCandidate struct {
	Name string   `json:"name"`
	Kind string   `json:"kind"`
	Lon  *float64 `json:"lon,omitempty"`
	Lat  *float64 `json:"lat,omitempty"`
}

// RedisGeocodeCache stores candidate lists as JSON strings with a TTL.
type RedisGeocodeCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisGeocodeCache(rdb *redis.Client, ttl time.Duration) *RedisGeocodeCache {
	return &RedisGeocodeCache{rdb: rdb, ttl: ttl}
}

// OpenRedis parses a redis:// URL and verifies the connection.
func OpenRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("open redis: parse url: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("open redis: ping: %w", err)
	}
	return rdb, nil
}

func (c *RedisGeocodeCache) Get(ctx context.Context, query string) (_ []domain.Candidate, _ bool, err error) {
	defer obs.Time(ctx, "geocode.redis.Get")(&err)

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, false, errors.New("get geocode cache: query must not be empty")
	}

	raw, err := c.rdb.Get(ctx, redisKeyPrefix+query).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get geocode cache: %w", err)
	}

	var stored []redisCandidate
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, false, fmt.Errorf("get geocode cache: decode %q: %w", query, err)
	}

	out := make([]domain.Candidate, 0, len(stored))
	for _, s := range stored {
		out = append(out, domain.Candidate{
			Name:   s.Name,
			Kind:   s.Kind,
			Lon:    s.Lon,
			Lat:    s.Lat,
			Origin: domain.OriginExternalGeocoder,
		})
	}
	return out, len(out) > 0, nil
}

func (c *RedisGeocodeCache) Put(ctx context.Context, query string, candidates []domain.Candidate) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return errors.New("insert geocode cache: empty query key")
	}
	if len(candidates) == 0 {
		return nil
	}

	stored := make([]redisCandidate, 0, len(candidates))
	for _, cand := range candidates {
		stored = append(stored, redisCandidate{Name: cand.Name, Kind: cand.Kind, Lon: cand.Lon, Lat: cand.Lat})
	}

	payload, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("insert geocode cache: encode: %w", err)
	}

	if err := c.rdb.Set(ctx, redisKeyPrefix+query, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("insert geocode cache: %w", err)
	}
	return nil
}
