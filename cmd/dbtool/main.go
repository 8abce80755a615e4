package main

import (
	"database/sql"
	"flag"
	"log"
	"strings"

	"hazard-route-service/internal/adapters/repositories"
	"hazard-route-service/internal/config"
	"hazard-route-service/internal/platform/db"
	"hazard-route-service/internal/platform/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// dbtool initializes the schema and seeds curated places. It targets Postgres
// when DATABASE_URL is set and the local SQLite file otherwise.
func main() {
	envErr := godotenv.Load()

	seedPath := flag.String("seed", config.Get("SEED_PATH", "data/seeds/places.json"), "places seed JSON")
	schemaOnly := flag.Bool("schema-only", false, "create tables without seeding")
	flag.Parse()

	if err := logger.Init(config.Get("LOG_LEVEL", "info"), true); err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if envErr != nil {
		logger.Info("No .env file found (using environment variables)")
	}

	var (
		conn    *sql.DB
		dialect repositories.Dialect
		err     error
	)
	if databaseURL := strings.TrimSpace(config.Get("DATABASE_URL", "")); databaseURL != "" {
		conn, err = db.Open(databaseURL)
		dialect = repositories.DialectPostgres
	} else {
		conn, err = db.OpenSqlite(config.Get("DB_PATH", "data/app.db"))
		dialect = repositories.DialectSQLite
	}
	if err != nil {
		logger.L().Fatal("open database", zap.Error(err))
	}
	defer conn.Close()

	if err := initAndSeed(conn, dialect, *seedPath, *schemaOnly); err != nil {
		logger.L().Fatal("dbtool failed", zap.Error(err))
	}
}

func initAndSeed(conn *sql.DB, dialect repositories.Dialect, seedPath string, schemaOnly bool) error {
	logger.Info("Initializing database schema...")
	if err := repositories.InitSchema(conn); err != nil {
		return err
	}
	logger.Info("Schema ready.")

	if schemaOnly {
		return nil
	}

	logger.Info("Seeding places...", zap.String("path", seedPath))
	if err := repositories.SeedFromJSON(conn, dialect, seedPath); err != nil {
		return err
	}
	logger.Info("Seeding complete.")

	return nil
}
