package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr         string
	RedisURL           string
	SQLitePath         string
	Workers            int
	WorkerPollInterval time.Duration
	CacheTTL           time.Duration
	Timezone           string

	LitersBaseURL            string
	LitersElementID          string
	LitersMissingPlaceholder string
	LitersTimeout            time.Duration
	LitersMetricsFile        string

	PprofAddr string
	LogLevel  string
	LogFormat string
}

// Load reads the configuration from the environment. A .env file in the
// working directory, when present, is applied first without overriding
// variables already set.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		ListenAddr:         getenv("LISTEN_ADDR", ":8080"),
		RedisURL:           getenv("REDIS_URL", ""),
		SQLitePath:         getenv("SQLITE_PATH", ""),
		Workers:            getint("WORKERS", 2),
		WorkerPollInterval: getduration("WORKER_POLL_INTERVAL", time.Second),
		CacheTTL:           getduration("CACHE_TTL", 5*time.Second),
		Timezone:           getenv("TIMEZONE", "Local"),

		LitersBaseURL:            getenv("LITERS_BASE_URL", "http://localhost:8080"),
		LitersElementID:          getenv("LITERS_ELEMENT_ID", "litros-distribuidos"),
		LitersMissingPlaceholder: getenv("LITERS_MISSING_PLACEHOLDER", ""),
		LitersTimeout:            getduration("LITERS_TIMEOUT", 0),
		LitersMetricsFile:        getenv("LITERS_METRICS_FILE", ""),

		PprofAddr: getenv("PPROF_ADDR", ""),
		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "console"),
	}
}

// Location resolves Timezone, falling back to the local zone.
func (c Config) Location() *time.Location {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			return d
		}
	}
	return fallback
}
