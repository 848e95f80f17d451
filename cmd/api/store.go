package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/baharkarakas/rentacar-backend/internal/config"
	"github.com/baharkarakas/rentacar-backend/internal/db"
	"github.com/baharkarakas/rentacar-backend/internal/logger"
	repo "github.com/baharkarakas/rentacar-backend/internal/repository"
	"github.com/baharkarakas/rentacar-backend/internal/repository/mongodb"
	"github.com/baharkarakas/rentacar-backend/internal/repository/postgres"
)

// boot loads config, installs the default logger and opens the store
// selected by DB_DRIVER. With migrate set, SQL migrations are applied first;
// Mongo indexes are always ensured.
func boot(ctx context.Context, migrate bool) (config.Config, repo.Store, error) {
	cfg := config.Load()
	slog.SetDefault(logger.New(cfg.Env))

	switch cfg.DBDriver {
	case "mongo", "mongodb":
		client, err := db.NewMongo(ctx, cfg.MongoURI)
		if err != nil {
			return cfg, nil, err
		}
		// Unique email and (user, car) review indexes back the duplicate
		// checks, so they are ensured on every boot. Creation is idempotent.
		if err := db.EnsureIndexes(ctx, client.Database(cfg.MongoDB)); err != nil {
			_ = client.Disconnect(ctx)
			return cfg, nil, fmt.Errorf("ensure indexes: %w", err)
		}
		return cfg, mongodb.NewStore(client, cfg.MongoDB), nil

	case "postgres", "":
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return cfg, nil, err
		}
		if migrate {
			if err := db.RunMigrations(ctx, pool); err != nil {
				pool.Close()
				return cfg, nil, fmt.Errorf("migrations: %w", err)
			}
		}
		return cfg, postgres.NewStore(pool), nil
	}
	return cfg, nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
}
