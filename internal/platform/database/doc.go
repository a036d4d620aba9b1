// Package database provides the relational implementation of the
// internal/store interfaces. It opens the configured engine (embedded
// SQLite by default, PostgreSQL or MySQL otherwise), bootstraps the tasks
// schema from embedded SQL files, normalises driver errors into store
// errors, and implements store.TaskStore on top of database/sql.
package database
