// Package config handles configuration loading, parsing, and validation
// from configuration files and TASKS_-prefixed environment variables. It provides
// type-safe access to the settings needed by the server and the database layer.
package config
