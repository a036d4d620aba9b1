package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/taskmanagement-api/internal/store"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// PostgreSQL error codes
const (
	notNullViolationCode    = "23502"
	checkViolationCode      = "23514"
	stringTruncationCode    = "22001"
	invalidTextEncodingCode = "22021"
)

// MySQL error numbers
const (
	mysqlBadNullError        uint16 = 1048
	mysqlDataTooLong         uint16 = 1406
	mysqlCheckConstraintFail uint16 = 3819
)

// MapError maps a driver error to the store error it represents.
// It wraps the original error to preserve context for logging. Errors
// without a specific mapping are returned unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	if IsConstraintViolation(err) {
		return fmt.Errorf("%w: constraint violation: %v", store.ErrInvalidEntity, err)
	}

	return err
}

// IsConstraintViolation reports whether err is a row-level constraint
// failure (not null, check, value too long) from any supported engine.
func IsConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case notNullViolationCode, checkViolationCode, stringTruncationCode, invalidTextEncodingCode:
			return true
		}
		return false
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlBadNullError, mysqlDataTooLong, mysqlCheckConstraintFail:
			return true
		}
		return false
	}

	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_NOTNULL, sqlite3lib.SQLITE_CONSTRAINT_CHECK:
			return true
		}
	}

	return false
}

// CheckRowsAffected examines the number of rows affected by a write that
// targeted exactly one row. If none was affected it returns
// store.ErrConcurrencyConflict: the row was there when the caller decided
// to write, and it is not there now.
func CheckRowsAffected(result sql.Result, entityName string) error {
	if result == nil {
		return fmt.Errorf("nil result provided to CheckRowsAffected")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		if entityName == "" {
			return store.ErrConcurrencyConflict
		}
		return fmt.Errorf("%w: no %s row affected", store.ErrConcurrencyConflict, entityName)
	}

	return nil
}
