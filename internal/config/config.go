package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	defaultEnv              = "dev"
	defaultDBPath           = "./lca.db"
	defaultPort             = "8080"
	defaultLogLevel         = "info"
	defaultLogFormat        = "console"
	defaultRateLimitRPS     = 5.0
	defaultRateLimitBurst   = 10
	defaultBatchConcurrency = 4
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env       string
	DBPath    string
	Port      string
	LogLevel  string
	LogFormat string

	// SimulatedLatency delays each estimate to mimic a remote backend.
	SimulatedLatency time.Duration
	RateLimitRPS     float64
	RateLimitBurst   int
	BatchConcurrency int

	// Warnings collects problems found while loading. Values that failed to
	// parse are replaced by their defaults.
	Warnings []string
}

// IsDev reports whether the service runs in a development environment.
func (c Config) IsDev() bool {
	return c.Env == "dev" || c.Env == "development"
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: a missing .env is fine, production injects real env vars.
	var warnings []string
	if err := loadDotEnv(".env"); err != nil {
		warnings = append(warnings, fmt.Sprintf("read .env: %v", err))
	}

	cfg := Config{
		Env:       stringOr("APP_ENV", defaultEnv),
		DBPath:    stringOr("DB_PATH", defaultDBPath),
		Port:      stringOr("PORT", defaultPort),
		LogLevel:  stringOr("LOG_LEVEL", defaultLogLevel),
		LogFormat: stringOr("LOG_FORMAT", defaultLogFormat),
	}

	var err error
	if cfg.SimulatedLatency, err = durationOr("SIMULATED_LATENCY", 0); err != nil {
		warnings = append(warnings, err.Error())
	}
	if cfg.RateLimitRPS, err = positiveFloatOr("RATE_LIMIT_RPS", defaultRateLimitRPS); err != nil {
		warnings = append(warnings, err.Error())
	}
	if cfg.RateLimitBurst, err = positiveIntOr("RATE_LIMIT_BURST", defaultRateLimitBurst); err != nil {
		warnings = append(warnings, err.Error())
	}
	if cfg.BatchConcurrency, err = positiveIntOr("BATCH_CONCURRENCY", defaultBatchConcurrency); err != nil {
		warnings = append(warnings, err.Error())
	}

	cfg.Warnings = warnings
	return cfg
}

func stringOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return fallback, fmt.Errorf("%s=%q is not a non-negative duration, using %s", key, raw, fallback)
	}
	return d, nil
}

func positiveFloatOr(key string, fallback float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		return fallback, fmt.Errorf("%s=%q must be a number greater than 0, using %v", key, raw, fallback)
	}
	return v, nil
}

func positiveIntOr(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback, fmt.Errorf("%s=%q must be an integer greater than 0, using %d", key, raw, fallback)
	}
	return v, nil
}
