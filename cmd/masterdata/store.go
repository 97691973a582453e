package main

import (
	"context"
	"fmt"

	"github.com/nerrad567/masterdata-core/internal/api"
	"github.com/nerrad567/masterdata-core/internal/infrastructure/config"
	"github.com/nerrad567/masterdata-core/internal/infrastructure/database"
	"github.com/nerrad567/masterdata-core/internal/infrastructure/logging"
	"github.com/nerrad567/masterdata-core/internal/machine"
)

// recordStore is a store holding both machines and their history rows.
type recordStore interface {
	machine.Store
	machine.HistoryStore
}

// openedStore is the record store chosen by database.driver.
type openedStore struct {
	records recordStore

	// health is nil for stores without a connection to check.
	health api.HealthChecker
	close  func() error
}

// openStore opens the record store named by cfg.Driver. The sqlite driver
// also applies pending migrations.
func openStore(ctx context.Context, cfg config.DatabaseConfig, log *logging.Logger) (*openedStore, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := openMigratedDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		log.Info("database connected", "driver", cfg.Driver, "path", db.Path())
		return &openedStore{
			records: machine.NewSQLiteRepository(db.DB),
			health:  db,
			close:   db.Close,
		}, nil

	case config.DriverBadger:
		repo, err := machine.NewBadgerRepository(cfg.BadgerPath)
		if err != nil {
			return nil, err
		}
		log.Info("database connected", "driver", cfg.Driver, "path", cfg.BadgerPath)
		return &openedStore{records: repo, close: repo.Close}, nil

	case config.DriverMemory:
		log.Warn("using in-memory store, records are lost on shutdown")
		return &openedStore{
			records: machine.NewMemoryRepository(),
			close:   func() error { return nil },
		}, nil

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// openMigratedDB opens the SQLite database and brings its schema up to date.
func openMigratedDB(ctx context.Context, cfg config.DatabaseConfig) (*database.DB, error) {
	db, err := database.Open(database.ConfigFrom(cfg))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, nil
}
