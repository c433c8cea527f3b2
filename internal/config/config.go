package config

import (
	"os"
)

// Config holds application configuration, loaded from environment
// variables with development defaults
type Config struct {
	Port            string
	DBPath          string
	JWTSecret       string
	BoundaryURL     string
	DigitransitKey  string
	DigitransitURL  string
	TripDataDir     string
	RateLimitPerMin int
}

// Load reads configuration from the environment
func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", ":8080"),
		DBPath:          getEnv("DB_PATH", "./data/bikeviz.db"),
		JWTSecret:       getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		BoundaryURL:     getEnv("BOUNDARY_URL", "https://raw.githubusercontent.com/avainio/bikeviz-data/main/helsinki-boundary.geojson"),
		DigitransitKey:  getEnv("DIGITRANSIT_SUBSCRIPTION_KEY", ""),
		DigitransitURL:  getEnv("DIGITRANSIT_URL", ""),
		TripDataDir:     getEnv("TRIP_DATA_DIR", "./data/trips"),
		RateLimitPerMin: 300,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
