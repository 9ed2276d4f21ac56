// Package config provides configuration management for the ski ratings application.
package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Config represents the complete application configuration
type Config struct {
	App         AppConfig          `mapstructure:"app" validate:"required"`
	Rating      RatingConfig       `mapstructure:"rating" validate:"required"`
	Disciplines []DisciplineConfig `mapstructure:"disciplines" validate:"required,min=1,dive"`
	Database    DatabaseConfig     `mapstructure:"database"`
	SQLite      SQLiteConfig       `mapstructure:"sqlite"`
	Schedule    ScheduleConfig     `mapstructure:"schedule"`
	Metrics     MetricsConfig      `mapstructure:"metrics"`
	Cache       CacheConfig        `mapstructure:"cache"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// RatingConfig represents the constants of the rating engine
type RatingConfig struct {
	Baseline       float64 `mapstructure:"baseline" validate:"gt=0"`
	LogisticBase   float64 `mapstructure:"logistic_base" validate:"gt=1"`
	Spread         float64 `mapstructure:"spread" validate:"gt=0"`
	SeasonDiscount float64 `mapstructure:"season_discount" validate:"gt=0,lte=1"`
	KMin           float64 `mapstructure:"k_min" validate:"gt=0"`
	KMax           float64 `mapstructure:"k_max" validate:"gt=0"`
	KFallback      float64 `mapstructure:"k_fallback" validate:"gt=0"`
}

// DisciplineConfig describes where one discipline's history is read from and
// where its rating history is written to
type DisciplineConfig struct {
	Name            string `mapstructure:"name" validate:"required"`
	Source          string `mapstructure:"source" validate:"required,oneof=csv postgres"`
	ResultsPath     string `mapstructure:"results_path" validate:"required_if=Source csv"`
	GroundTruthPath string `mapstructure:"ground_truth_path"`
	Output          string `mapstructure:"output" validate:"required,oneof=csv postgres sqlite"`
	OutputPath      string `mapstructure:"output_path" validate:"required_if=Output csv"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
}

// SQLiteConfig represents the SQLite output database
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// ScheduleConfig represents recurring recomputation
type ScheduleConfig struct {
	Cron              string `mapstructure:"cron"`
	RunTimeoutMinutes int    `mapstructure:"run_timeout_minutes" validate:"omitempty,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Port         int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Path         string `mapstructure:"path"`
	TextfilePath string `mapstructure:"textfile_path"`
}

// CacheConfig represents caching of loaded input tables
type CacheConfig struct {
	GroundTruthTTLSeconds int `mapstructure:"ground_truth_ttl_seconds" validate:"gte=0"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// UsesPostgres reports whether any discipline reads from or writes to PostgreSQL
func (c *Config) UsesPostgres() bool {
	for _, d := range c.Disciplines {
		if d.Source == "postgres" || d.Output == "postgres" {
			return true
		}
	}
	return false
}

// UsesSQLite reports whether any discipline writes to SQLite
func (c *Config) UsesSQLite() bool {
	for _, d := range c.Disciplines {
		if d.Output == "sqlite" {
			return true
		}
	}
	return false
}

// Discipline returns the named discipline configuration
func (c *Config) Discipline(name string) (DisciplineConfig, bool) {
	for _, d := range c.Disciplines {
		if d.Name == name {
			return d, true
		}
	}
	return DisciplineConfig{}, false
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

// ParseDSN builds a DatabaseConfig from a postgres:// URL
func ParseDSN(dsn string) (*DatabaseConfig, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid database dsn: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return nil, fmt.Errorf("invalid database dsn scheme %q", u.Scheme)
	}

	cfg := &DatabaseConfig{
		Host:           u.Hostname(),
		Port:           5432,
		Name:           strings.TrimPrefix(u.Path, "/"),
		SSLMode:        "disable",
		MaxConnections: 4,
	}
	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid database port %q: %w", p, err)
		}
		cfg.Port = port
	}
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Password, _ = u.User.Password()
	}
	if mode := u.Query().Get("sslmode"); mode != "" {
		cfg.SSLMode = mode
	}
	return cfg, nil
}
