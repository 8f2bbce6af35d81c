// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir        string // Base directory for the draws database, artifacts and caches (always absolute)
	Port           int
	LogLevel       string
	DevMode        bool
	ScrapeBaseURL       string // Results site base URL, game and year are appended per request
	UpdateSchedule      string // Cron expression (with seconds) for the update run
	MaintenanceSchedule string // Cron expression (with seconds) for database maintenance
	ObjectStore         ObjectStoreConfig
}

// ObjectStoreConfig holds S3-compatible object store settings for artifact sync.
// Sync is disabled when Bucket is empty.
type ObjectStoreConfig struct {
	Enabled         bool
	Endpoint        string // Custom endpoint for S3-compatible stores (empty = AWS)
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
}

// Load reads configuration from environment variables.
// A .env file is loaded first if present; explicit environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dataDir := getEnv("DATA_DIR", "./data")

	// Always resolve to absolute path and ensure the directory exists
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	objectStore := ObjectStoreConfig{
		Enabled:         getEnvAsBool("SYNC_ENABLED", false),
		Endpoint:        getEnv("S3_ENDPOINT", ""),
		Region:          getEnv("S3_REGION", "auto"),
		Bucket:          getEnv("S3_BUCKET", ""),
		AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
	}
	if objectStore.Bucket == "" {
		objectStore.Enabled = false
	}

	cfg := &Config{
		DataDir:       absDataDir,
		Port:          getEnvAsInt("PORT", 8080),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DevMode:       getEnvAsBool("DEV_MODE", false),
		ScrapeBaseURL: getEnv("SCRAPE_BASE_URL", "https://www.lottery.net"),
		// Default: every day at 06:00 UTC (draw results are posted overnight)
		UpdateSchedule: getEnv("UPDATE_SCHEDULE", "0 0 6 * * *"),
		// Default: Sundays at 05:00 UTC, before the daily update
		MaintenanceSchedule: getEnv("MAINTENANCE_SCHEDULE", "0 0 5 * * 0"),
		ObjectStore:         objectStore,
	}

	return cfg, nil
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvAsInt retrieves an environment variable as an integer with a fallback default
func getEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

// getEnvAsBool retrieves an environment variable as a boolean with a fallback default
func getEnvAsBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
