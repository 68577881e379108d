// Package config loads process configuration from the environment, with a
// best-effort .env file preload for local development.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every tunable the process reads at startup.
type Config struct {
	HTTPPort    string
	HistoryFile string

	CatalogBaseURL  string
	Genre           string
	DiscoveryType   string
	Format          string
	RecommendedType string
	RequestTimeout  time.Duration

	OperatorUsername string
	OperatorPassword string
	JWTSecret        string
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first if present; its absence is not an
// error, since this service is expected to run unattended under process
// managers that set the environment directly.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		// A malformed .env is worth a stderr note, but never fatal.
		os.Stderr.WriteString("config: .env present but could not be parsed: " + err.Error() + "\n")
	}

	return &Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		HistoryFile: getEnv("HISTORY_FILE", "./data/history.json"),

		CatalogBaseURL:  getEnv("CATALOG_BASE_URL", "https://bandcamp.com/api/discover/3"),
		Genre:           getEnv("GENRE", "all"),
		DiscoveryType:   getEnv("DISCOVERY_TYPE", "top"),
		Format:          getEnv("FORMAT", "all"),
		RecommendedType: getEnv("RECOMMENDED_TYPE", "most"),
		RequestTimeout:  getEnvAsDuration("REQUEST_TIMEOUT", 10*time.Second),

		OperatorUsername: getEnv("OPERATOR_USERNAME", "operator"),
		OperatorPassword: getEnv("OPERATOR_PASSWORD", "change-me-in-production-please"),
		JWTSecret:        getEnv("JWT_SECRET", "change-me-in-production-please"),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	if valueStr, exists := os.LookupEnv(name); exists {
		if seconds, err := strconv.Atoi(valueStr); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultVal
}
