package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"vibework/backend/internal/config"
	"vibework/backend/internal/db"
	"vibework/backend/internal/logging"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	defer database.Close()

	if err := db.RunMigrations(database, db.MigrationsFrom(cfg.MigrationsDir)); err != nil {
		log.Fatal().Err(err).Msg("run migrations")
	}

	log.Info().Str("path", cfg.DBPath).Msg("migrations applied successfully")
}
