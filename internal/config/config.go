// Package config provides configuration types and loading for the
// SmartFarmer admin client.
package config

import "time"

// PortalConfig is the top-level configuration.
type PortalConfig struct {
	// API configures the backend connection.
	API APIConfig `yaml:"api" mapstructure:"api"`

	// Cache configures collection caching.
	Cache CacheConfig `yaml:"cache" mapstructure:"cache"`

	// State configures persisted client state.
	State StateConfig `yaml:"state" mapstructure:"state"`

	// LogLevel sets the minimum log level.
	// Valid values: "debug", "info", "warn", "error".
	// Defaults to "info" if empty.
	LogLevel string `yaml:"log_level" mapstructure:"log_level" validate:"omitempty,oneof=debug info warn warning error"`
}

// APIConfig configures the backend connection.
type APIConfig struct {
	// BaseURL is the backend origin (e.g. "https://api.smartfarmer.example").
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"required,url"`

	// Timeout is the per-request timeout (e.g. "15s").
	// Defaults to "15s" if not specified.
	Timeout string `yaml:"timeout" mapstructure:"timeout" validate:"omitempty"`
}

// CacheConfig configures collection caching.
type CacheConfig struct {
	// TTL is how long a fetched collection stays fresh (e.g. "3m").
	// Defaults to "3m", matching the portal's staleness window.
	TTL string `yaml:"ttl" mapstructure:"ttl" validate:"omitempty"`
}

// StateConfig configures persisted client state.
type StateConfig struct {
	// Path is the state file (or SQLite database) location.
	// Defaults to "~/.smartfarmer/state.json" (or state.db for sqlite).
	Path string `yaml:"path" mapstructure:"path"`

	// Backend selects the persistence backend: "file" or "sqlite".
	// Defaults to "file".
	Backend string `yaml:"backend" mapstructure:"backend" validate:"omitempty,oneof=file sqlite"`
}

// SetDefaults applies sensible default values to the configuration.
func (c *PortalConfig) SetDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.API.Timeout == "" {
		c.API.Timeout = "15s"
	}
	if c.Cache.TTL == "" {
		c.Cache.TTL = "3m"
	}
	if c.State.Backend == "" {
		c.State.Backend = "file"
	}
}

// APITimeout returns the parsed request timeout.
func (c *PortalConfig) APITimeout() time.Duration {
	return parseDurationOr(c.API.Timeout, 15*time.Second)
}

// CacheTTL returns the parsed freshness window.
func (c *PortalConfig) CacheTTL() time.Duration {
	return parseDurationOr(c.Cache.TTL, 3*time.Minute)
}

func parseDurationOr(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return fallback
}
