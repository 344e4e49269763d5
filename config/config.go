package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config struct to hold the configuration settings
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	NATS          NATSConfig          `yaml:"nats"`
	HTTP          HTTPConfig          `yaml:"http"`
	Observability ObservabilityConfig `yaml:"observability"`
	Scoring       ScoringConfig       `yaml:"scoring"`
	Stats         StatsConfig         `yaml:"stats"`
	Queue         QueueConfig         `yaml:"queue"`
	RateLimit     RateLimitConfig     `yaml:"rate_limit"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// NATSConfig holds NATS configuration.
type NATSConfig struct {
	URL              string `yaml:"url"`
	NKeySeed         string `yaml:"nkey_seed"`
	QueueGroup       string `yaml:"queue_group"`
	SubscribersCount int    `yaml:"subscribers_count"`
}

// HTTPConfig holds the read API listener settings.
type HTTPConfig struct {
	Address        string   `yaml:"address"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	RequestsPerSec float64  `yaml:"requests_per_sec"`
	Burst          int      `yaml:"burst"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	MetricsAddress string `yaml:"metrics_address"`
	Environment    string `yaml:"environment"`
	LogLevel       string `yaml:"log_level"`
}

// ScoringConfig controls the recalculation trigger.
type ScoringConfig struct {
	// Timezone is the IANA zone used to take calendar dates of workouts.
	Timezone             string `yaml:"timezone"`
	RecomputeConcurrency int    `yaml:"recompute_concurrency"`
}

// StatsConfig controls the aggregation engine.
type StatsConfig struct {
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// QueueConfig sizes the river queues.
type QueueConfig struct {
	MaxWorkers int `yaml:"max_workers"`
}

// RateLimitConfig holds the activity provider quota.
type RateLimitConfig struct {
	Per15Min int `yaml:"per_15min"`
	PerDay   int `yaml:"per_day"`
}

// Location resolves the scoring time zone, defaulting to UTC.
func (c ScoringConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid scoring timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// LoadConfig loads the configuration from a YAML file.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		// If the file is not found, try loading from environment variables
		return loadConfigFromEnv()
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}

// loadConfigFromEnv loads the configuration from environment variables.
func loadConfigFromEnv() (*Config, error) {
	var cfg Config

	cfg.Postgres.DSN = os.Getenv("DATABASE_URL")
	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}

	cfg.NATS.URL = os.Getenv("NATS_URL")
	if cfg.NATS.URL == "" {
		return nil, fmt.Errorf("NATS_URL environment variable not set")
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("NATS_NKEY_SEED"); v != "" {
		cfg.NATS.NKeySeed = v
	}
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("METRICS_ADDRESS"); v != "" {
		cfg.Observability.MetricsAddress = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("SCORING_TIMEZONE"); v != "" {
		cfg.Scoring.Timezone = v
	}
	if v := os.Getenv("RECOMPUTE_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scoring.RecomputeConcurrency = n
		}
	}
	if v := os.Getenv("STATS_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Stats.CacheTTL = d
		}
	}
	if v := os.Getenv("QUEUE_MAX_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Queue.MaxWorkers = n
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.HTTP.Address == "" {
		cfg.HTTP.Address = ":8080"
	}
	if cfg.HTTP.RequestsPerSec <= 0 {
		cfg.HTTP.RequestsPerSec = 10
	}
	if cfg.HTTP.Burst <= 0 {
		cfg.HTTP.Burst = 20
	}
	if cfg.NATS.QueueGroup == "" {
		cfg.NATS.QueueGroup = "fitcomp"
	}
	if cfg.Scoring.RecomputeConcurrency <= 0 {
		cfg.Scoring.RecomputeConcurrency = 8
	}
	if cfg.Stats.CacheTTL == 0 {
		cfg.Stats.CacheTTL = 30 * time.Second
	}
	if cfg.Queue.MaxWorkers <= 0 {
		cfg.Queue.MaxWorkers = 10
	}
	if cfg.RateLimit.Per15Min <= 0 {
		cfg.RateLimit.Per15Min = 100
	}
	if cfg.RateLimit.PerDay <= 0 {
		cfg.RateLimit.PerDay = 1000
	}
}
