package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*/*.sql
var migrationFS embed.FS

// ApplySchema creates the tasks schema for dialect if it is not there yet.
// It runs the dialect's embedded goose files up to the latest version and
// is safe to call on every start.
func ApplySchema(ctx context.Context, db *sql.DB, dialect Dialect, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	fsys, err := fs.Sub(migrationFS, "migrations/"+dialect.Name)
	if err != nil {
		return fmt.Errorf("locate %s schema files: %w", dialect.Name, err)
	}

	provider, err := goose.NewProvider(dialect.Goose, db, fsys)
	if err != nil {
		return fmt.Errorf("create schema provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	for _, r := range results {
		logger.Info("applied schema version",
			slog.Int64("version", r.Source.Version),
			slog.String("file", r.Source.Path),
			slog.Duration("duration", r.Duration))
	}

	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	logger.Debug("schema up to date",
		slog.String("driver", dialect.Name),
		slog.Int64("version", version))
	return nil
}
