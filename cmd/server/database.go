package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskmanagement-api/internal/config"
	"github.com/phrazzld/taskmanagement-api/internal/platform/database"
)

// setupAppDatabase establishes a connection to the configured database,
// configures the connection pool and applies the tasks schema.
func setupAppDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sql.DB, database.Dialect, error) {
	dialect, err := database.DialectFor(cfg.Database.Driver)
	if err != nil {
		return nil, database.Dialect{}, err
	}

	db, err := database.Open(ctx, dialect, cfg.Database, logger)
	if err != nil {
		return nil, database.Dialect{}, fmt.Errorf("failed to open database: %w", err)
	}

	if err := database.ApplySchema(ctx, db, dialect, logger); err != nil {
		_ = db.Close()
		return nil, database.Dialect{}, fmt.Errorf("failed to prepare schema: %w", err)
	}

	logger.Info("Database ready", slog.String("driver", dialect.Name))
	return db, dialect, nil
}
