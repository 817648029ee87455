package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/nekogravitycat/barber-booking-backend/internal/config"
	"github.com/nekogravitycat/barber-booking-backend/internal/db"
	"github.com/nekogravitycat/barber-booking-backend/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log := logger.New("info", false)
		log.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.New(cfg.LogLevel, cfg.IsProduction())
	ctx = log.WithContext(ctx)

	pool, err := db.NewPool(ctx, cfg.DBDSN, 1)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to db")
	}
	defer pool.Close()

	applied, err := db.Migrate(ctx, pool)
	if err != nil {
		log.Error().Err(err).Msg("migration failed")
		pool.Close()
		os.Exit(1)
	}

	log.Info().Int("applied", len(applied)).Msg("migrations up to date")
}
