// Package store defines the persistence contract for task items.
// These interfaces keep the HTTP and service layers independent of the
// relational engine behind them; implementations live in
// internal/platform/database.
package store
