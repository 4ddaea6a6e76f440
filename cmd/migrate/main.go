package main

import (
	"context"
	"embed"
	"sort"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"marketplace-backend/internal/config"
	"marketplace-backend/internal/infrastructure/database"
	"marketplace-backend/pkg/logger"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Applies the SQL files under migrations/ in lexical order. Statements
// are written to be re-runnable, so there is no version bookkeeping.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Init(cfg.App.Environment)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db := database.NewPostgresDB(cfg.Database)
	if err := db.Connect(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer db.Close()

	entries, err := migrationFiles.ReadDir("migrations")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read migrations")
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		sql, err := migrationFiles.ReadFile("migrations/" + entry.Name())
		if err != nil {
			log.Fatal().Err(err).Str("file", entry.Name()).Msg("failed to read migration")
		}
		if _, err := db.Pool.Exec(ctx, string(sql)); err != nil {
			log.Fatal().Err(err).Str("file", entry.Name()).Msg("migration failed")
		}
		log.Info().Str("file", entry.Name()).Msg("migration applied")
	}

	log.Info().Msg("migrations completed")
}
