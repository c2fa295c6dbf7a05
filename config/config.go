package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

// Config holds all application configuration
type Config struct {
	// HTTP
	Port int

	// Storage
	DBPath string

	// Cache; empty RedisAddr selects the in-memory cache
	RedisAddr string
	CacheTTL  time.Duration

	// Defaults applied when a request leaves them out
	DefaultPrecision int
	DefaultScale     int

	// Upper bound on periods per request; a schedule holds one record per period
	MaxPeriods int

	LogLevel string
}

// Load reads configuration from environment variables, falling back to
// defaults for anything unset.
func Load() (*Config, error) {
	cfg := &Config{
		Port:             8080,
		DBPath:           "schedules.db",
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		CacheTTL:         10 * time.Minute,
		DefaultPrecision: 2,
		DefaultScale:     10,
		MaxPeriods:       1200,
		LogLevel:         "info",
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Port = port
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid CACHE_TTL %q: %w", v, err)
		}
		cfg.CacheTTL = ttl
	}
	if v := os.Getenv("DEFAULT_PRECISION"); v != "" {
		precision, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid DEFAULT_PRECISION %q: %w", v, err)
		}
		cfg.DefaultPrecision = precision
	}
	if v := os.Getenv("DEFAULT_SCALE"); v != "" {
		scale, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid DEFAULT_SCALE %q: %w", v, err)
		}
		cfg.DefaultScale = scale
	}
	if v := os.Getenv("MAX_PERIODS"); v != "" {
		maxPeriods, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid MAX_PERIODS %q: %w", v, err)
		}
		cfg.MaxPeriods = maxPeriods
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	if c.DefaultPrecision < 0 {
		return fmt.Errorf("default precision can't be negative: %d", c.DefaultPrecision)
	}
	if c.DefaultScale < 0 {
		return fmt.Errorf("default scale can't be negative: %d", c.DefaultScale)
	}
	if c.MaxPeriods <= 0 {
		return fmt.Errorf("max periods must be positive: %d", c.MaxPeriods)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	return nil
}

// ConfigureLogging applies the log level and formatter.
func (c *Config) ConfigureLogging() {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
}
