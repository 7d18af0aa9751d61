// Package config provides centralized configuration management for the
// ingestion service. Settings come from environment variables with sensible
// defaults and are validated on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Provider ProviderConfig
	Ingest   IngestConfig
	Rate     RateLimitConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading the request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing the response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`

	// TrustedProxies is a comma-separated list of proxy CIDRs whose
	// forwarding headers may be trusted
	TrustedProxies []string `env:"TRUSTED_PROXIES"`
}

// ProviderConfig holds accounting provider connection settings.
type ProviderConfig struct {
	// BaseURL is the provider API root (required when provider ingestion is used)
	BaseURL string `env:"PROVIDER_BASE_URL"`

	// Token is the bearer credential for the provider API
	Token string `env:"PROVIDER_TOKEN"`

	// Timeout is the per-request timeout for provider calls (default: 30s)
	Timeout time.Duration `env:"PROVIDER_TIMEOUT" default:"30s"`
}

// IngestConfig holds CSV ingestion settings.
type IngestConfig struct {
	// MaxFileSize is the maximum allowed upload size in bytes (default: 16MB)
	MaxFileSize int64 `env:"INGEST_MAX_FILE_SIZE" default:"16777216"`

	// DefaultDateFormat is used when an upload does not name one (default: MM/DD/YYYY)
	DefaultDateFormat string `env:"INGEST_DEFAULT_DATE_FORMAT" default:"MM/DD/YYYY"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// IngestLimit is requests per minute for ingestion endpoints (default: 10)
	IngestLimit int `env:"RATE_LIMIT_INGEST" default:"10"`
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
