package config

import (
	"os"
	"strconv"
	"time"
)

// Store drivers.
const (
	StoreMemory   = "memory"
	StoreBadger   = "badger"
	StorePostgres = "postgres"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string
	BaseURL    string

	// Preference store
	StoreDriver      string // memory, badger or postgres
	DatabaseURL      string
	BadgerPath       string        // empty opens an in-memory database
	BadgerGCInterval time.Duration // 0 disables value-log GC

	// Session
	SessionSecret string // Used for signing cookies (min 32 chars)
	SessionIdle   time.Duration
	RedisURL      string // Optional session storage; in-process memory when empty

	// CORS
	CORSOrigins string // Comma-separated allowed origins

	// Rate limiting (requests per minute per IP)
	RateLimitMax int

	// Picker
	DefaultAdventure float64

	// Logging
	LogLevel  string
	LogFormat string

	// Presets file
	ConfigFile string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:              getEnv("ENV", "development"),
		ServerAddr:       getEnv("SERVER_ADDR", ":3000"),
		BaseURL:          getEnv("BASE_URL", "http://localhost:3000"),
		StoreDriver:      getEnv("STORE_DRIVER", StoreMemory),
		DatabaseURL:      getEnv("DATABASE_URL", "postgres://localhost:5432/pickwise?sslmode=disable"),
		BadgerPath:       getEnv("BADGER_PATH", "./data/badger"),
		BadgerGCInterval: getDuration("BADGER_GC_INTERVAL", 10*time.Minute),
		SessionSecret:    getEnv("SESSION_SECRET", "change-me-in-production-min-32-chars"),
		SessionIdle:      getDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute),
		RedisURL:         getEnv("REDIS_URL", ""),
		CORSOrigins:      getEnv("CORS_ORIGINS", ""),
		RateLimitMax:     getInt("RATE_LIMIT_MAX", 100),
		DefaultAdventure: getFloat("DEFAULT_ADVENTURE", 0.30),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "json"),
		ConfigFile:       getEnv("CONFIG_FILE", "config.yaml"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}
