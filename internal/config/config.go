package config

import "time"

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error fatal"`

	// DocsEnabled serves the OpenAPI document at /swagger/v1/swagger.json.
	DocsEnabled bool `mapstructure:"docs_enabled"`
}

// DatabaseConfig selects the relational engine and how to reach it.
// URL is the driver-specific connection string; for sqlite it is a file
// path, optionally written as "Data Source=<file>".
type DatabaseConfig struct {
	Driver                 string `mapstructure:"driver"                    validate:"required,oneof=sqlite postgres mysql"`
	URL                    string `mapstructure:"url"                       validate:"required"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"            validate:"gte=0"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"            validate:"gte=0"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes" validate:"gte=0"`
}

// ConnMaxLifetime returns ConnMaxLifetimeMinutes as a duration.
func (c DatabaseConfig) ConnMaxLifetime() time.Duration {
	return time.Duration(c.ConnMaxLifetimeMinutes) * time.Minute
}
