package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration.
type Config struct {
	ServerPort     int
	DatabasePath   string
	UploadDir      string
	FrontendOrigin string
	SessionSecret  string
	SessionTTL     time.Duration
	RedisAddr      string // empty means in-memory sessions
}

// Load loads configuration from environment variables or sets defaults.
func Load() (*Config, error) {
	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	ttlStr := getEnv("SESSION_TTL_HOURS", "24")
	ttlHours, err := strconv.Atoi(ttlStr)
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort:     port,
		DatabasePath:   getEnv("DATABASE_PATH", "./nestaway.db"),
		UploadDir:      getEnv("UPLOAD_DIR", "./static/uploads"),
		FrontendOrigin: getEnv("FRONTEND_ORIGIN", "http://localhost:3000"),
		SessionSecret:  getEnv("SESSION_SECRET", "nestaway-dev-secret"),
		SessionTTL:     time.Duration(ttlHours) * time.Hour,
		RedisAddr:      getEnv("REDIS_ADDR", ""),
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
