// Package config provides configuration management for the odds tracker.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	OddsAPI   OddsAPIConfig   `mapstructure:"odds_api" validate:"required"`
	Collector CollectorConfig `mapstructure:"collector" validate:"required"`
	Movers    MoversConfig    `mapstructure:"movers" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host" validate:"required"`
	Port           int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required"`
	User           string `mapstructure:"user" validate:"required"`
	Password       string `mapstructure:"password" validate:"required"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"required,gt=0"`
}

// LeagueConfig maps an upstream sport key to the display name persisted with
// each snapshot (e.g. soccer_epl -> EPL).
type LeagueConfig struct {
	Key  string `mapstructure:"key" validate:"required"`
	Name string `mapstructure:"name" validate:"required"`
}

// OddsAPIConfig represents the upstream odds API configuration
type OddsAPIConfig struct {
	BaseURL            string         `mapstructure:"base_url" validate:"required,url"`
	APIKey             string         `mapstructure:"api_key" validate:"required"`
	Regions            string         `mapstructure:"regions" validate:"required"`
	ReferenceBookmaker string         `mapstructure:"reference_bookmaker" validate:"required"`
	Leagues            []LeagueConfig `mapstructure:"leagues" validate:"required,min=1,dive"`
	RateLimitPerSecond float64        `mapstructure:"rate_limit_per_second" validate:"gt=0"`
}

// CollectorConfig represents the polling collector configuration
type CollectorConfig struct {
	IntervalMinutes     int `mapstructure:"interval_minutes" validate:"required,gt=0"`
	FetchTimeoutSeconds int `mapstructure:"fetch_timeout_seconds" validate:"required,gt=0"`
}

// MoversConfig represents movement and ranking defaults
type MoversConfig struct {
	DefaultWindowHours int  `mapstructure:"default_window_hours" validate:"required,gt=0"`
	Limit              int  `mapstructure:"limit" validate:"required,gt=0"`
	GracePeriodHours   int  `mapstructure:"grace_period_hours" validate:"gte=0"`
	UseNoVig           bool `mapstructure:"use_no_vig"`
	CacheTTLSeconds    int  `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// CollectInterval returns the polling interval as a duration
func (c *Config) CollectInterval() time.Duration {
	return time.Duration(c.Collector.IntervalMinutes) * time.Minute
}

// FetchTimeout returns the per-league fetch timeout as a duration
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Collector.FetchTimeoutSeconds) * time.Second
}

// DefaultWindow returns the default movement window as a duration
func (c *Config) DefaultWindow() time.Duration {
	return time.Duration(c.Movers.DefaultWindowHours) * time.Hour
}

// GracePeriod returns how long after kickoff a market is still ranked
func (c *Config) GracePeriod() time.Duration {
	return time.Duration(c.Movers.GracePeriodHours) * time.Hour
}
