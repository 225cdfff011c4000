// Package config loads application configuration from defaults, an optional
// YAML file and environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// FileEnvVar names the environment variable pointing at an optional YAML config file.
const FileEnvVar = "BANK_CONFIG_FILE"

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	Database DatabaseConfig
	App      AppConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	URL             string
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	ConnMaxLifetime time.Duration
	MaxOpenConns    int
	MaxIdleConns    int
}

// AppConfig holds ledger-specific configuration
type AppConfig struct {
	MaxAllocationAttempts int
	BcryptCost            int
	IdempotencyTTL        time.Duration
	JanitorInterval       time.Duration
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

var defaults = map[string]any{
	"server.port":          "8080",
	"server.read_timeout":  "15s",
	"server.write_timeout": "15s",
	"server.idle_timeout":  "60s",

	"database.url":               "",
	"database.host":              "localhost",
	"database.port":              "5432",
	"database.user":              "postgres",
	"database.password":          "postgres",
	"database.name":              "bank",
	"database.sslmode":           "disable",
	"database.max_open_conns":    25,
	"database.max_idle_conns":    5,
	"database.conn_max_lifetime": "5m",

	"app.max_allocation_attempts": 64,
	"app.bcrypt_cost":             10,
	"app.idempotency_ttl":         "24h",
	"app.janitor_interval":        "1h",

	"logger.level":  "info",
	"logger.format": "json",
}

// envKeys maps the supported environment variables onto config paths.
var envKeys = map[string]string{
	"PORT":                    "server.port",
	"SERVER_READ_TIMEOUT":     "server.read_timeout",
	"SERVER_WRITE_TIMEOUT":    "server.write_timeout",
	"SERVER_IDLE_TIMEOUT":     "server.idle_timeout",
	"DB_URL":                  "database.url",
	"DB_HOST":                 "database.host",
	"DB_PORT":                 "database.port",
	"DB_USER":                 "database.user",
	"DB_PASSWORD":             "database.password",
	"DB_NAME":                 "database.name",
	"DB_SSLMODE":              "database.sslmode",
	"DB_MAX_OPEN_CONNS":       "database.max_open_conns",
	"DB_MAX_IDLE_CONNS":       "database.max_idle_conns",
	"DB_CONN_MAX_LIFETIME":    "database.conn_max_lifetime",
	"MAX_ALLOCATION_ATTEMPTS": "app.max_allocation_attempts",
	"BCRYPT_COST":             "app.bcrypt_cost",
	"IDEMPOTENCY_TTL":         "app.idempotency_ttl",
	"IDEMPOTENCY_JANITOR":     "app.janitor_interval",
	"LOG_LEVEL":               "logger.level",
	"LOG_FORMAT":              "logger.format",
}

// Load loads configuration. Sources are applied in order: built-in defaults,
// the YAML file named by BANK_CONFIG_FILE (if set), then environment variables.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load config defaults: %w", err)
	}

	if path := os.Getenv(FileEnvVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", func(key string) string {
		return envKeys[key]
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         k.String("server.port"),
			ReadTimeout:  k.Duration("server.read_timeout"),
			WriteTimeout: k.Duration("server.write_timeout"),
			IdleTimeout:  k.Duration("server.idle_timeout"),
		},
		Database: DatabaseConfig{
			URL:             k.String("database.url"),
			Host:            k.String("database.host"),
			Port:            k.String("database.port"),
			User:            k.String("database.user"),
			Password:        k.String("database.password"),
			DBName:          k.String("database.name"),
			SSLMode:         k.String("database.sslmode"),
			MaxOpenConns:    k.Int("database.max_open_conns"),
			MaxIdleConns:    k.Int("database.max_idle_conns"),
			ConnMaxLifetime: k.Duration("database.conn_max_lifetime"),
		},
		App: AppConfig{
			MaxAllocationAttempts: k.Int("app.max_allocation_attempts"),
			BcryptCost:            k.Int("app.bcrypt_cost"),
			IdempotencyTTL:        k.Duration("app.idempotency_ttl"),
			JanitorInterval:       k.Duration("app.janitor_interval"),
		},
		Logger: LoggerConfig{
			Level:  strings.ToLower(k.String("logger.level")),
			Format: strings.ToLower(k.String("logger.format")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port cannot be empty")
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 || c.Server.IdleTimeout <= 0 {
		return fmt.Errorf("server timeouts must be positive durations")
	}

	if c.Database.URL == "" {
		if c.Database.Host == "" {
			return fmt.Errorf("database host cannot be empty")
		}
		if c.Database.DBName == "" {
			return fmt.Errorf("database name cannot be empty")
		}
	}

	if c.App.MaxAllocationAttempts < 1 {
		return fmt.Errorf("max allocation attempts must be at least 1, got %d", c.App.MaxAllocationAttempts)
	}
	if c.App.BcryptCost < 4 || c.App.BcryptCost > 31 {
		return fmt.Errorf("bcrypt cost must be between 4 and 31, got %d", c.App.BcryptCost)
	}
	if c.App.IdempotencyTTL <= 0 {
		return fmt.Errorf("idempotency TTL must be positive")
	}
	if c.App.JanitorInterval <= 0 {
		return fmt.Errorf("janitor interval must be positive")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}
	if c.Logger.Format != "json" && c.Logger.Format != "text" {
		return fmt.Errorf("invalid log format: %s (must be json or text)", c.Logger.Format)
	}

	return nil
}

// DSN returns the PostgreSQL connection string. An explicit URL wins over
// the individual fields.
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}
