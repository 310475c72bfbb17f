package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Env       string
	Port      string
	JWTSecret string

	// Fallback credentials for the AI capability when the workspace
	// settings carry no key of their own.
	GeminiAPIKey string
	GeminiModel  string

	Storage  StorageConfig
	Database DatabaseConfig
	Admin    AdminConfig
}

// StorageConfig selects and parameterizes the snapshot backend.
type StorageConfig struct {
	Driver   string // "file" or "postgres"
	DataDir  string
	MaxBytes int64 // quota for the file backend, 0 = unlimited
}

// DatabaseConfig holds PostgreSQL connection settings for the
// "postgres" storage driver.
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
}

// AdminConfig is the single bootstrap account of the HTTP surface.
type AdminConfig struct {
	Email    string
	Password string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return &Config{
		Env:          getEnv("APP_ENV", "development"),
		Port:         getEnv("PORT", "3210"),
		JWTSecret:    jwtSecret,
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		Storage: StorageConfig{
			Driver:   getEnv("STORAGE_DRIVER", "file"),
			DataDir:  getEnv("DATA_DIR", "./data"),
			MaxBytes: getEnvInt64("STORAGE_QUOTA_BYTES", 0),
		},
		Database: DatabaseConfig{
			Host:     getEnv("PG_HOST", "localhost"),
			Port:     getEnv("PG_PORT", "5432"),
			Username: getEnv("PG_USERNAME", "postgres"),
			Password: os.Getenv("PG_PASSWORD"),
			Database: getEnv("PG_DATABASE", "conformis"),
		},
		Admin: AdminConfig{
			Email:    getEnv("ADMIN_EMAIL", "admin@conformis.local"),
			Password: getEnv("ADMIN_PASSWORD", "changeme"),
		},
	}, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}
