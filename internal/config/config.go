package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration for the server.
type Config struct {
	Port           string
	LogLevel       string
	DevLog         bool
	AllowedOrigins []string

	// Storage
	DBPath      string
	DatabaseURL string
	RedisURL    string
	SeedPath    string

	// Waypoint resolution
	PlacesURL        string
	Geocoder         string
	GeocoderURL      string
	GoogleMapsAPIKey string
	GeocodeCacheTTL  time.Duration

	// Route providers, in fallback order
	OSRMURL          string
	ORSURL           string
	ORSAPIKey        string
	ORSGeocodeURL    string
	PrimaryTimeout   time.Duration
	SecondaryTimeout time.Duration

	// Traffic
	HazardFeedURL      string
	HazardTimeout      time.Duration
	TrafficRefreshSpec string

	// Narration
	NarrationURL    string
	OpenAIAPIKey    string
	OpenAIModel     string
	SpeechWordPause time.Duration

	PolicyPath     string
	SessionIdleTTL time.Duration
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:           Get("PORT", "8080"),
		LogLevel:       Get("LOG_LEVEL", "info"),
		DevLog:         GetBool("LOG_DEV", false),
		AllowedOrigins: GetList("CORS_ORIGINS", nil),

		DBPath:      Get("DB_PATH", "data/app.db"),
		DatabaseURL: Get("DATABASE_URL", ""),
		RedisURL:    Get("REDIS_URL", ""),
		SeedPath:    Get("SEED_PATH", "data/seeds/places.json"),

		PlacesURL:        Get("PLACES_URL", ""),
		Geocoder:         Get("GEOCODER", "nominatim"),
		GeocoderURL:      Get("GEOCODER_URL", "https://nominatim.openstreetmap.org"),
		GoogleMapsAPIKey: Get("GOOGLE_MAPS_API_KEY", ""),
		GeocodeCacheTTL:  GetDuration("GEOCODE_CACHE_TTL", 24*time.Hour),

		OSRMURL:          Get("OSRM_URL", "https://router.project-osrm.org"),
		ORSURL:           Get("ORS_URL", "https://api.openrouteservice.org/v2/directions/driving-car"),
		ORSAPIKey:        Get("ORS_API_KEY", ""),
		ORSGeocodeURL:    Get("ORS_GEOCODE_URL", "https://api.openrouteservice.org"),
		PrimaryTimeout:   GetDuration("PRIMARY_TIMEOUT", 10*time.Second),
		SecondaryTimeout: GetDuration("SECONDARY_TIMEOUT", 15*time.Second),

		HazardFeedURL:      Get("HAZARD_FEED_URL", ""),
		HazardTimeout:      GetDuration("HAZARD_TIMEOUT", 5*time.Second),
		TrafficRefreshSpec: Get("TRAFFIC_REFRESH_SPEC", "@every 2m"),

		NarrationURL:    Get("NARRATION_URL", ""),
		OpenAIAPIKey:    Get("OPENAI_API_KEY", ""),
		OpenAIModel:     Get("OPENAI_MODEL", "gpt-4o-mini"),
		SpeechWordPause: GetDuration("SPEECH_WORD_PAUSE", 300*time.Millisecond),

		PolicyPath:     Get("POLICY_PATH", ""),
		SessionIdleTTL: GetDuration("SESSION_IDLE_TTL", 30*time.Minute),
	}
}

func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// GetList splits a comma-separated value, dropping empty entries.
func GetList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func GetInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func GetBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// GetDuration accepts Go duration strings ("15s") or a bare number of seconds.
func GetDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
