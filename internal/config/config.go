package config

import (
	"os"
	"strconv"
	"time"
)

const (
	defaultBaseURL = "http://localhost:8000"
	defaultDBPath  = "buddy.db"
	defaultTimeout = 10 * time.Second
)

type Config struct {
	BaseURL        string
	DBPath         string
	RequestTimeout time.Duration
}

// NewConfig reads configuration from environment variables, falling back to
// local-development defaults.
func NewConfig() *Config {
	return &Config{
		BaseURL:        getEnv("AGENT_BASE_URL", defaultBaseURL),
		DBPath:         getEnv("BUDDY_DB_PATH", defaultDBPath),
		RequestTimeout: getEnvSeconds("AGENT_TIMEOUT_SECONDS", defaultTimeout),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvSeconds(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return fallback
	}
	return time.Duration(n) * time.Second
}
