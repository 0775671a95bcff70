// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Dataset  DatasetConfig
	UI       UIConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// DatasetConfig describes where the store directory comes from.
type DatasetConfig struct {
	// Source is a path, file://, http(s)://, s3:// or postgres:// location.
	// A trailing .lz4 on the path marks an lz4-compressed payload.
	Source string `env:"DATASET_SOURCE" envAlt:"STORE_DATA_URL" default:"StoreDirectory_Stores.csv"`

	// SchemaFile is an optional YAML column mapping
	SchemaFile string `env:"SCHEMA_FILE"`

	// MaxBytes caps the decoded dataset size (default: 64MB)
	MaxBytes int64 `env:"DATASET_MAX_BYTES" default:"67108864"`

	// FetchTimeout bounds a single load attempt (default: 30s)
	FetchTimeout time.Duration `env:"DATASET_FETCH_TIMEOUT" default:"30s"`

	// SnapshotTable is read for postgres:// sources (default: store_directory_snapshots)
	SnapshotTable string `env:"DATASET_SNAPSHOT_TABLE" default:"store_directory_snapshots"`
}

// UIConfig holds browser-facing settings.
type UIConfig struct {
	// Title is shown in the page header
	Title string `env:"UI_TITLE" default:"Store Directory"`

	// SearchDebounce delays the search request while typing (default: 300ms)
	SearchDebounce time.Duration `env:"UI_SEARCH_DEBOUNCE" default:"300ms"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 300)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"300"`

	// ReloadLimit is requests per minute for the reload endpoint (default: 5)
	ReloadLimit int `env:"RATE_LIMIT_RELOAD" default:"5"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey protects the reload endpoint (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted reload keys
	APIKeys []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// DebounceMillis returns the search debounce in whole milliseconds.
func (c *UIConfig) DebounceMillis() int64 {
	return c.SearchDebounce.Milliseconds()
}
