package config

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Addr            string
	DBPath          string
	Latitude        float64 // fallback origin latitude
	Longitude       float64 // fallback origin longitude
	RefreshInterval time.Duration
	MockMode        bool
	SeedPath        string // optional external seed file overriding the embedded one
	Debug           bool
}

// Load parses command line flags and environment variables to populate Config.
// A .env file is honored if present; flags take precedence over environment
// variables.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set directly.")
	}

	cfg := &Config{}

	// Defaults and Environment Variables
	cfg.Addr = getEnv("STOREMAP_ADDR", ":8080")
	cfg.DBPath = getEnv("STOREMAP_DB", getDefaultDBPath())
	cfg.Latitude = getEnvFloat("STOREMAP_LAT", 48.8566)
	cfg.Longitude = getEnvFloat("STOREMAP_LNG", 2.3522)
	cfg.MockMode = getEnvBool("STOREMAP_MOCK", false)
	cfg.SeedPath = getEnv("STOREMAP_SEED", "")
	refreshSecs := int(getEnvFloat("STOREMAP_REFRESH", 30))

	// Command Line Flags (Override Env)
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP server address")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to SQLite database")
	flag.Float64Var(&cfg.Latitude, "lat", cfg.Latitude, "Fallback origin latitude")
	flag.Float64Var(&cfg.Longitude, "lng", cfg.Longitude, "Fallback origin longitude")
	flag.BoolVar(&cfg.MockMode, "mock", cfg.MockMode, "Run with a simulated live feed")
	flag.StringVar(&cfg.SeedPath, "seed", cfg.SeedPath, "Path to a seed file overriding the embedded dataset")
	flag.IntVar(&refreshSecs, "refresh", refreshSecs, "Live refresh interval in seconds")
	flag.BoolVar(&cfg.Debug, "debug", false, "Enable verbose debug logging")

	flag.Parse()

	if refreshSecs < 1 {
		refreshSecs = 1
	}
	cfg.RefreshInterval = time.Duration(refreshSecs) * time.Second

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

// getDefaultDBPath returns the default database path in user's home directory.
// Creates the directory if it doesn't exist.
func getDefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Printf("Warning: Could not get user home directory, using current dir: %v", err)
		return "storemap.db"
	}

	dir := filepath.Join(home, ".storemap")
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("Warning: Could not create .storemap directory, using current dir: %v", err)
		return "storemap.db"
	}

	return filepath.Join(dir, "storemap.db")
}
