package testdb

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/phrazzld/taskmanagement-api/internal/config"
	"github.com/phrazzld/taskmanagement-api/internal/platform/database"
	"github.com/stretchr/testify/require"
)

// TestTimeout bounds fixture setup.
const TestTimeout = 10 * time.Second

// Environment variables selecting an external test database.
const (
	DriverEnvVar = "TASKS_TEST_DATABASE_DRIVER"
	URLEnvVar    = "TASKS_TEST_DATABASE_URL"
)

// IsExternalDatabase reports whether tests target an external server
// rather than a temporary SQLite file.
func IsExternalDatabase() bool {
	return os.Getenv(DriverEnvVar) != "" && os.Getenv(URLEnvVar) != ""
}

// Config returns the database configuration Open would use for t.
func Config(t *testing.T) config.DatabaseConfig {
	t.Helper()

	if IsExternalDatabase() {
		return config.DatabaseConfig{
			Driver:       os.Getenv(DriverEnvVar),
			URL:          os.Getenv(URLEnvVar),
			MaxOpenConns: 4,
			MaxIdleConns: 2,
		}
	}

	return config.DatabaseConfig{
		Driver:       database.DriverSQLite,
		URL:          filepath.Join(t.TempDir(), "tasks.db"),
		MaxOpenConns: 4,
		MaxIdleConns: 2,
	}
}

// Open returns a connection with the tasks schema applied. The connection
// is closed when the test finishes.
func Open(t *testing.T) (*sql.DB, database.Dialect) {
	t.Helper()

	cfg := Config(t)
	dialect, err := database.DialectFor(cfg.Driver)
	require.NoError(t, err, "unsupported test database driver")

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	db, err := database.Open(ctx, dialect, cfg, logger)
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("failed to close test database: %v", err)
		}
	})

	require.NoError(t, database.ApplySchema(ctx, db, dialect, logger), "failed to apply schema")
	return db, dialect
}

// WithTx runs fn inside a transaction that is always rolled back, after
// clearing the tasks table inside that transaction.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.Begin()
	require.NoError(t, err, "Failed to begin transaction")

	defer func() {
		err := tx.Rollback()
		// sql.ErrTxDone is expected if fn already finished the transaction
		if err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("Warning: failed to rollback transaction: %v", err)
		}
	}()

	_, err = tx.Exec("DELETE FROM tasks")
	require.NoError(t, err, "Failed to clear tasks table")

	fn(t, tx)
}
