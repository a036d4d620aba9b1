package database

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/pressly/goose/v3"
)

// Supported driver names, as accepted in config.DatabaseConfig.Driver.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// sqlitePragmas are appended to file DSNs that carry no query string.
// Transactions begin IMMEDIATE so a read-then-write transaction waits on
// busy_timeout for the write lock instead of failing with SQLITE_BUSY.
const sqlitePragmas = "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_txlock=immediate"

// Dialect captures the differences between the supported engines that
// the task store has to care about.
type Dialect struct {
	// Name is the configured driver name and the migrations subdirectory.
	Name string

	// DriverName is the database/sql driver registered by the engine's package.
	DriverName string

	// Goose is the goose dialect used to bootstrap the schema.
	Goose goose.Dialect

	// NumberedPlaceholders selects $1, $2, ... instead of ?.
	NumberedPlaceholders bool

	// ReturningID means inserts read the new key with RETURNING id instead
	// of sql.Result.LastInsertId.
	ReturningID bool
}

var dialects = map[string]Dialect{
	DriverSQLite: {
		Name:       DriverSQLite,
		DriverName: "sqlite",
		Goose:      goose.DialectSQLite3,
	},
	DriverPostgres: {
		Name:                 DriverPostgres,
		DriverName:           "pgx",
		Goose:                goose.DialectPostgres,
		NumberedPlaceholders: true,
		ReturningID:          true,
	},
	DriverMySQL: {
		Name:       DriverMySQL,
		DriverName: "mysql",
		Goose:      goose.DialectMySQL,
	},
}

// DialectFor returns the Dialect registered under driver.
func DialectFor(driver string) (Dialect, error) {
	d, ok := dialects[strings.ToLower(strings.TrimSpace(driver))]
	if !ok {
		return Dialect{}, fmt.Errorf("unsupported database driver %q", driver)
	}
	return d, nil
}

// Rebind rewrites ? placeholders for dialects that number them.
// Queries in this package never contain a literal question mark.
func (d Dialect) Rebind(query string) string {
	if !d.NumberedPlaceholders {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// DSN turns a configured connection string into one the driver accepts.
//
// SQLite accepts a bare file path or the "Data Source=<file>" form and
// gets busy-timeout/WAL pragmas and immediate transaction locking unless
// the caller supplied a query string.
// MySQL always gets clientFoundRows so an UPDATE that matches a row but
// changes nothing still reports it as affected.
func (d Dialect) DSN(url string) (string, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return "", fmt.Errorf("database url is required")
	}

	switch d.Name {
	case DriverSQLite:
		return sqliteDSN(url), nil
	case DriverMySQL:
		cfg, err := mysql.ParseDSN(url)
		if err != nil {
			return "", fmt.Errorf("invalid mysql dsn: %w", err)
		}
		cfg.ClientFoundRows = true
		return cfg.FormatDSN(), nil
	default:
		return url, nil
	}
}

func sqliteDSN(url string) string {
	const prefix = "data source="
	if strings.HasPrefix(strings.ToLower(url), prefix) {
		url = strings.TrimSpace(url[len(prefix):])
	}
	url = strings.TrimSuffix(url, ";")

	if url == ":memory:" || strings.Contains(url, "?") {
		return url
	}
	return url + "?" + sqlitePragmas
}
