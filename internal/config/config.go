package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	Database DatabaseConfig
	App      AppConfig
	Punch    PunchConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	Store          string
	AllowedOrigins []string
}

// PunchConfig controls the device punch inbox job.
type PunchConfig struct {
	SyncInterval time.Duration
	BatchSize    int
	Workers      int
}

// Load reads .env when present, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
		slog.Warn("No .env file found, using environment variables")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	maxConns, err := strconv.ParseInt(getEnv("DB_MAX_CONNS", "25"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	minConns, err := strconv.ParseInt(getEnv("DB_MIN_CONNS", "5"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "hris_shift_engine"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(maxConns),
		MinConns: int32(minConns),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Store:          strings.ToLower(getEnv("APP_STORE", StorePostgres)),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}

	// Punch inbox configuration
	syncInterval, err := time.ParseDuration(getEnv("PUNCH_SYNC_INTERVAL", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid PUNCH_SYNC_INTERVAL: %w", err)
	}
	batchSize, err := strconv.Atoi(getEnv("PUNCH_BATCH_SIZE", "500"))
	if err != nil {
		return nil, fmt.Errorf("invalid PUNCH_BATCH_SIZE: %w", err)
	}
	workers, err := strconv.Atoi(getEnv("PUNCH_WORKERS", "4"))
	if err != nil {
		return nil, fmt.Errorf("invalid PUNCH_WORKERS: %w", err)
	}

	config.Punch = PunchConfig{
		SyncInterval: syncInterval,
		BatchSize:    batchSize,
		Workers:      workers,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.App.Store {
	case StorePostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
		if c.Database.MaxConns <= 0 {
			return fmt.Errorf("DB_MAX_CONNS must be positive")
		}
		if c.Database.MinConns < 0 || c.Database.MinConns > c.Database.MaxConns {
			return fmt.Errorf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("APP_STORE must be %q or %q, got %q", StorePostgres, StoreMemory, c.App.Store)
	}

	if c.Punch.SyncInterval <= 0 {
		return fmt.Errorf("PUNCH_SYNC_INTERVAL must be positive")
	}
	if c.Punch.BatchSize <= 0 {
		return fmt.Errorf("PUNCH_BATCH_SIZE must be positive")
	}
	if c.Punch.Workers <= 0 {
		return fmt.Errorf("PUNCH_WORKERS must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
