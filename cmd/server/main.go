// Package main implements the entry point for the task management API
// server, which serves CRUD and paginated listing over task items stored
// in an embedded SQLite file or an external PostgreSQL/MySQL database.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/phrazzld/taskmanagement-api/internal/config"
	"github.com/phrazzld/taskmanagement-api/internal/platform/logger"
)

// main is the entry point for the taskmanagement-api server.
func main() {
	if err := run(context.Background()); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// run wires the application together and serves until a shutdown signal
// arrives.
func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("Server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.Bool("docs_enabled", cfg.Server.DocsEnabled),
		slog.String("database_driver", cfg.Database.Driver))

	app, err := newApplication(ctx, cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
