// signage-migrate converts a legacy schedule database in place.
//
// It runs the same schema migrations and schedule data migration the
// server runs at startup, then exits. Useful for upgrading a site's
// database ahead of a server rollout, or for verifying a backup restores
// cleanly.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/nordbad/signage-core/migrations"

	"github.com/nordbad/signage-core/internal/infrastructure/config"
	"github.com/nordbad/signage-core/internal/infrastructure/database"
	"github.com/nordbad/signage-core/internal/infrastructure/logging"
	"github.com/nordbad/signage-core/internal/schedule"
)

var version = "dev" // set at build time via ldflags

const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	configPath := defaultConfigPath
	if path := os.Getenv("SIGNAGE_CONFIG"); path != "" {
		configPath = path
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logging.New(cfg.Logging, version)
	log.Info("starting schedule migration", "database", cfg.Database.Path)

	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("running schema migrations: %w", err)
	}

	store := schedule.NewSQLiteStore(db.DB)
	if err := schedule.NewMigrator(store, log).Run(ctx); err != nil {
		return fmt.Errorf("migrating schedule data: %w", err)
	}

	active, err := store.GetActive(ctx)
	if err != nil {
		return fmt.Errorf("reading active schedule: %w", err)
	}
	log.Info("migration complete", "active_version", active.Version)
	return nil
}
