package main

import (
	"context"
	"flag"
	"time"

	"github.com/rs/zerolog/log"

	"schoolboard/internal/config"
	"schoolboard/internal/logger"
	"schoolboard/internal/store"
)

// Applies the schema and seeds grade levels.
func main() {
	levels := flag.Int("grades", 10, "number of grade levels to seed")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := store.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	defer db.Close()

	if err := store.Migrate(ctx, db.Client); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	added, err := store.SeedGrades(ctx, db.Client, *levels)
	if err != nil {
		log.Fatal().Err(err).Msg("seeding grades failed")
	}
	log.Info().Int("grades_added", added).Msg("migration complete")
}
