package app

import (
	"log"
	"os"
	"strings"

	"github.com/huntboard/backend/src/service"
)

type AppConfig struct {
	// =========================== REQUIRED ===========================

	// Database configuration (required). A postgres:// DSN selects the
	// Postgres driver with SQL migrations; any other value is treated
	// as a SQLite file path.
	DSN *string

	// =========================== OPTIONAL ===========================

	// Redis configuration; empty disables the summary cache
	RedisAddr *string

	// Logging configuration
	LogLevel *string

	// HTTP server configuration
	Port *string

	// CORS configuration
	AllowOrigins *[]string

	// Migration configuration (Postgres deployments only)
	MigrationPath *string

	// World-time API used to stamp challenge start times.
	// The special value "local" selects the system clock directly.
	TimeAPIURL *string
}

func NewAppConfig() *AppConfig {
	config := &AppConfig{}

	// Load required configuration
	loadRequiredConfig(config)

	// Load optional configuration with defaults
	loadOptionalConfig(config)

	return config
}

// loadRequiredConfig loads all required configuration values and fails fast if any are missing
func loadRequiredConfig(config *AppConfig) {
	// Database URL (required)
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		log.Fatalf("REQUIRED: DB_URL not set in environment")
	}
	config.DSN = &dsn

	// CORS origins (required in production, optional in development)
	loadCORSConfig(config)
}

// loadOptionalConfig loads all optional configuration values with sensible defaults
func loadOptionalConfig(config *AppConfig) {
	// Redis URL (default: disabled)
	redisAddr := os.Getenv("REDIS_URL")
	config.RedisAddr = &redisAddr

	// HTTP server port (default: 8080)
	port := getEnvWithDefault("PORT", "8080")
	config.Port = &port

	// Log level (default: debug)
	// Available levels: "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled"
	logLevel := getEnvWithDefault("LOG_LEVEL", "debug")
	config.LogLevel = &logLevel

	// Migration path (default: file://migrations)
	migrationPath := getEnvWithDefault("MIGRATION_PATH", "file://migrations")
	config.MigrationPath = &migrationPath

	// World-time API URL (default: reference deployment's timezone service)
	timeAPIURL := getEnvWithDefault("TIME_API_URL", service.DefaultTimeAPIURL)
	config.TimeAPIURL = &timeAPIURL
}

// loadCORSConfig handles CORS origins configuration with environment-specific behavior
func loadCORSConfig(config *AppConfig) {
	allowOriginsStr := os.Getenv("ALLOW_ORIGINS")
	var allowOrigins []string

	if allowOriginsStr != "" {
		// Parse comma-separated origins
		origins := strings.Split(allowOriginsStr, ",")
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowOrigins = append(allowOrigins, origin)
			}
		}
	} else {
		// Handle missing ALLOW_ORIGINS based on environment
		environment := os.Getenv("ENVIRONMENT")
		if environment == "development" || environment == "dev" {
			// Default to localhost in development
			allowOrigins = []string{"http://localhost:5173"}
		} else {
			log.Fatalf("REQUIRED: ALLOW_ORIGINS not set in environment (required in production)")
		}
	}

	config.AllowOrigins = &allowOrigins
}

// getEnvWithDefault returns environment variable value or default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
