// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config loads application configuration from environment
// variables, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"tailwindplay/internal/database"
	"tailwindplay/internal/preview"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host    string
	Port    string
	Env     string // "development", "production", "testing"
	BaseURL string // absolute URL used in share links and QR codes

	// Snippet database
	DBDriver   string // "sqlite" or "pgx"
	SQLitePath string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache); empty host disables it
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// S3-compatible bucket for published exports; optional
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string

	// Catalog and preview
	CatalogPath     string
	ScriptURL       string
	PreviewDebounce time.Duration
	PreviewLoading  time.Duration

	// Write endpoints are limited to this many requests per minute per IP.
	ShareRateLimit int

	// Logging
	LogLevel  string // debug, info, warn, error
	LogFormat string // auto, text, json
	LogFile   string
}

// LoadDotEnv reads KEY=VALUE pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load %s: %w", path, err)
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if a value cannot be
// parsed, or if critical values are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{
		Host:    envOrDefault("APP_HOST", "0.0.0.0"),
		Port:    envOrDefault("APP_PORT", "8080"),
		Env:     envOrDefault("APP_ENV", "development"),
		BaseURL: os.Getenv("APP_BASE_URL"),

		DBDriver:   envOrDefault("DB_DRIVER", database.DriverSQLite),
		SQLitePath: envOrDefault("SQLITE_PATH", "tailwindplay.db"),
		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "tailwindplay"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "tailwindplay"),

		ValkeyHost:     os.Getenv("VALKEY_HOST"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "us-east-1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),

		CatalogPath: os.Getenv("CATALOG_PATH"),
		ScriptURL:   envOrDefault("TAILWIND_SCRIPT_URL", preview.DefaultScriptURL),

		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "auto"),
		LogFile:   os.Getenv("LOG_FILE"),
	}

	if cfg.DBDriver == "postgres" {
		cfg.DBDriver = database.DriverPostgres
	}
	if _, err := database.Dialect(cfg.DBDriver); err != nil {
		return nil, fmt.Errorf("DB_DRIVER: %w", err)
	}

	var err error
	if cfg.PreviewDebounce, err = envMillis("PREVIEW_DEBOUNCE_MS", preview.DefaultDebounce); err != nil {
		return nil, err
	}
	if cfg.PreviewDebounce > preview.MaxDebounce {
		return nil, fmt.Errorf("PREVIEW_DEBOUNCE_MS must be at most %d", preview.MaxDebounce.Milliseconds())
	}
	if cfg.PreviewLoading, err = envMillis("PREVIEW_LOADING_MS", preview.DefaultLoadingDelay); err != nil {
		return nil, err
	}
	if cfg.ShareRateLimit, err = envInt("SHARE_RATE_LIMIT", 10); err != nil {
		return nil, err
	}

	switch cfg.LogFormat {
	case "auto", "text", "json":
	default:
		return nil, fmt.Errorf("LOG_FORMAT must be auto, text or json, got %q", cfg.LogFormat)
	}

	if cfg.Env == "production" {
		if cfg.DBDriver == database.DriverPostgres && cfg.DBPassword == "changeme" {
			return nil, errors.New("POSTGRES_PASSWORD must be set in production")
		}
		if cfg.BaseURL == "" {
			return nil, errors.New("APP_BASE_URL must be set in production")
		}
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:" + cfg.Port
	}

	return cfg, nil
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == database.DriverSQLite {
		return c.SQLitePath
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// ValkeyEnabled reports whether a Valkey host is configured.
func (c *Config) ValkeyEnabled() bool {
	return c.ValkeyHost != ""
}

// PreviewOptions returns the default options for new playground sessions.
func (c *Config) PreviewOptions() preview.Options {
	opts := preview.DefaultOptions()
	opts.DebounceWindow = c.PreviewDebounce
	opts.LoadingDelay = c.PreviewLoading
	opts.ScriptURL = c.ScriptURL
	return opts
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer, got %q", key, v)
	}
	return n, nil
}

func envMillis(key string, fallback time.Duration) (time.Duration, error) {
	n, err := envInt(key, int(fallback.Milliseconds()))
	if err != nil {
		return 0, err
	}
	return time.Duration(n) * time.Millisecond, nil
}
