package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hazard-route-service/internal/adapters/cache"
	"hazard-route-service/internal/adapters/geocoding"
	"hazard-route-service/internal/adapters/hazards"
	"hazard-route-service/internal/adapters/narration"
	"hazard-route-service/internal/adapters/places"
	"hazard-route-service/internal/adapters/repositories"
	"hazard-route-service/internal/adapters/routing"
	"hazard-route-service/internal/api"
	"hazard-route-service/internal/config"
	"hazard-route-service/internal/jobs"
	"hazard-route-service/internal/platform/db"
	"hazard-route-service/internal/platform/logger"
	"hazard-route-service/internal/ports"
	"hazard-route-service/internal/services"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// main is the application composition root.
// It wires concrete adapters (SQLite, OSRM, ORS, hazard feed) behind ports and starts the HTTP server.
func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	if err := logger.Init(cfg.LogLevel, cfg.DevLog); err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if envErr != nil {
		logger.Info("No .env file found (using environment variables)")
	}

	if err := run(cfg); err != nil {
		logger.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	policy, err := config.LoadPolicy(cfg.PolicyPath)
	if err != nil {
		return err
	}

	sqlite, err := db.OpenSqlite(cfg.DBPath)
	if err != nil {
		return err
	}
	defer sqlite.Close()

	// Initialize schema and seed curated places on startup for local runs.
	if err := initAndSeed(sqlite, cfg.SeedPath); err != nil {
		return err
	}

	resolver, closeCache, err := buildResolver(ctx, cfg, sqlite)
	if err != nil {
		return err
	}
	defer closeCache()

	router, err := buildProviderChain(cfg)
	if err != nil {
		return err
	}

	var sampler *services.TrafficSampler
	if cfg.HazardFeedURL != "" {
		feed, err := hazards.NewHTTPHazardFeed(cfg.HazardFeedURL, cfg.HazardTimeout)
		if err != nil {
			return err
		}
		sampler = services.NewTrafficSampler(feed, services.DefaultBufferKm)
	} else {
		logger.Warn("HAZARD_FEED_URL not set; delay estimates will use the base ETA")
	}

	styler, err := buildStyler(cfg)
	if err != nil {
		return err
	}

	registry := services.NewSessionRegistry(services.SessionDeps{
		Router:    router,
		Sampler:   sampler,
		Estimator: services.NewDelayEstimator(policy.Delays),
		Speaker:   narration.NewLogSpeaker(cfg.SpeechWordPause),
		Styler:    styler,
		Policy:    policy,
	})

	scheduler, err := jobs.Schedule(ctx, registry, cfg.TrafficRefreshSpec, cfg.SessionIdleTTL)
	if err != nil {
		return err
	}
	scheduler.Start()
	defer func() { <-scheduler.Stop().Done() }()

	// Timeouts are tuned for the worst-case fallback chain (primary + secondary timeouts).
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(resolver, registry, cfg.AllowedOrigins),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.PrimaryTimeout + cfg.SecondaryTimeout + 30*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", zap.String("addr", srv.Addr), zap.String("providers", router.Name()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func initAndSeed(conn *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if _, err := os.Stat(seedPath); errors.Is(err, os.ErrNotExist) {
		logger.Info("no place seed file, skipping", zap.String("path", seedPath))
		return nil
	}
	if err := repositories.SeedFromJSON(conn, repositories.DialectSQLite, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}

// buildResolver wires local place search and the cached external geocoder.
// The returned func releases the cache backend.
func buildResolver(ctx context.Context, cfg *config.Config, sqlite *sql.DB) (*services.WaypointResolver, func(), error) {
	var local ports.PlaceSearcher
	if cfg.PlacesURL != "" {
		local = places.NewHTTPPlaceSearch(cfg.PlacesURL, cfg.PrimaryTimeout)
	} else {
		local = repositories.NewSqlitePlaceRepository(sqlite)
	}

	var external ports.Geocoder
	switch cfg.Geocoder {
	case "google":
		g, err := geocoding.NewGoogleGeocoder(cfg.GoogleMapsAPIKey, "")
		if err != nil {
			return nil, nil, err
		}
		external = g
	case "ors":
		g, err := geocoding.NewORSGeocoder(cfg.ORSGeocodeURL, cfg.ORSAPIKey, cfg.PrimaryTimeout)
		if err != nil {
			return nil, nil, err
		}
		external = g
	case "nominatim", "":
		external = geocoding.NewNominatimGeocoder(cfg.GeocoderURL, cfg.PrimaryTimeout)
	default:
		return nil, nil, fmt.Errorf("unknown GEOCODER %q", cfg.Geocoder)
	}

	geoCache, closeCache, err := buildGeocodeCache(ctx, cfg, sqlite)
	if err != nil {
		return nil, nil, err
	}

	resolver := services.NewWaypointResolver(local, geocoding.NewCachingGeocoder(external, geoCache))
	return resolver, closeCache, nil
}

// Redis wins over Postgres, which wins over the local SQLite file.
func buildGeocodeCache(ctx context.Context, cfg *config.Config, sqlite *sql.DB) (ports.GeocodeCache, func(), error) {
	switch {
	case cfg.RedisURL != "":
		rdb, err := cache.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("geocode cache: redis")
		return cache.NewRedisGeocodeCache(rdb, cfg.GeocodeCacheTTL), func() { _ = rdb.Close() }, nil

	case cfg.DatabaseURL != "":
		pg, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := repositories.InitSchema(pg); err != nil {
			_ = pg.Close()
			return nil, nil, err
		}
		logger.Info("geocode cache: postgres")
		return cache.NewSQLGeocodeCache(pg), func() { _ = pg.Close() }, nil
	}

	logger.Info("geocode cache: sqlite", zap.String("path", cfg.DBPath))
	return cache.NewSqliteGeocodeCache(sqlite), func() {}, nil
}

// Providers are tried in list order; appending a step adds a fallback.
func buildProviderChain(cfg *config.Config) (*services.ProviderChain, error) {
	steps := []services.ProviderStep{
		{Provider: routing.NewOSRMProvider(cfg.OSRMURL, cfg.PrimaryTimeout), Timeout: cfg.PrimaryTimeout},
	}

	if cfg.ORSAPIKey != "" {
		ors, err := routing.NewORSProvider(cfg.ORSURL, cfg.ORSAPIKey, cfg.SecondaryTimeout)
		if err != nil {
			return nil, err
		}
		steps = append(steps, services.ProviderStep{Provider: ors, Timeout: cfg.SecondaryTimeout})
	} else {
		logger.Warn("ORS_API_KEY not set; running without a secondary route provider")
	}

	return services.NewProviderChain(steps...), nil
}

func buildStyler(cfg *config.Config) (ports.InstructionStyler, error) {
	switch {
	case cfg.OpenAIAPIKey != "":
		return narration.NewOpenAIStyler(cfg.OpenAIAPIKey, cfg.OpenAIModel, "")
	case cfg.NarrationURL != "":
		return narration.NewHTTPStyler(cfg.NarrationURL, cfg.PrimaryTimeout), nil
	}
	return nil, nil
}
