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
	Postgres PostgresConfig `yaml:"postgres"`
	NATS     NATSConfig     `yaml:"nats"`
	HTTP     HTTPConfig     `yaml:"http"`
	Import   ImportConfig   `yaml:"import"`
	Refresh  RefreshConfig  `yaml:"refresh"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// NATSConfig holds NATS configuration. An empty URL disables event publishing.
type NATSConfig struct {
	URL string `yaml:"url"`
}

// HTTPConfig holds the HTTP listener configuration.
type HTTPConfig struct {
	Address string `yaml:"address"`
}

// ImportConfig holds tunables for the import pipeline.
type ImportConfig struct {
	// ExcludedAliases are registration aliases that must never be used for
	// competitor matching (placeholder and test entries in the source system).
	ExcludedAliases []int64 `yaml:"excluded_aliases"`
	// CaseSensitiveNames controls whether competitor name lookups compare
	// first/last names case-sensitively.
	CaseSensitiveNames bool `yaml:"case_sensitive_names"`
}

// RefreshConfig holds the background ranking refresh configuration.
type RefreshConfig struct {
	// Interval between staleness sweeps. Zero disables the background worker.
	Interval time.Duration `yaml:"interval"`
}

// MetricsConfig holds the Prometheus endpoint configuration.
type MetricsConfig struct {
	Address string `yaml:"address"`
}

// LoadConfig loads the configuration from a YAML file.
func LoadConfig(filename string) (*Config, error) {
	// Try reading configuration from the file first
	data, err := os.ReadFile(filename)
	if err != nil {
		// If the file is not found, try loading from environment variables
		return loadConfigFromEnv()
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.applyDefaults()

	// --- OVERRIDE WITH ENV VARS IF PRESENT ---
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("METRICS_ADDRESS"); v != "" {
		cfg.Metrics.Address = v
	}
	if v := os.Getenv("IMPORT_EXCLUDED_ALIASES"); v != "" {
		aliases, err := parseAliasList(v)
		if err != nil {
			return nil, fmt.Errorf("invalid IMPORT_EXCLUDED_ALIASES value: %w", err)
		}
		cfg.Import.ExcludedAliases = aliases
	}
	if v := os.Getenv("IMPORT_CASE_SENSITIVE_NAMES"); v != "" {
		cfg.Import.CaseSensitiveNames = v == "true"
	}
	if v := os.Getenv("REFRESH_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REFRESH_INTERVAL value: %w", err)
		}
		cfg.Refresh.Interval = d
	}

	return &cfg, nil
}

// loadConfigFromEnv loads the configuration from environment variables.
func loadConfigFromEnv() (*Config, error) {
	var cfg Config

	cfg.Postgres.DSN = os.Getenv("DATABASE_URL")
	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}

	cfg.NATS.URL = os.Getenv("NATS_URL") // optional; empty disables event publishing
	cfg.HTTP.Address = os.Getenv("HTTP_ADDRESS")
	cfg.Metrics.Address = os.Getenv("METRICS_ADDRESS") // optional; empty disables metrics

	if v := os.Getenv("IMPORT_EXCLUDED_ALIASES"); v != "" {
		aliases, err := parseAliasList(v)
		if err != nil {
			return nil, fmt.Errorf("invalid IMPORT_EXCLUDED_ALIASES value: %w", err)
		}
		cfg.Import.ExcludedAliases = aliases
	}
	cfg.Import.CaseSensitiveNames = os.Getenv("IMPORT_CASE_SENSITIVE_NAMES") == "true"

	if v := os.Getenv("REFRESH_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REFRESH_INTERVAL value: %w", err)
		}
		cfg.Refresh.Interval = d
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults fills fields that have a sensible default when unset.
func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.Import.ExcludedAliases == nil {
		// Alias 0 is the source system's placeholder for "no registration".
		c.Import.ExcludedAliases = []int64{0}
	}
}

// parseAliasList parses a comma-separated list of integer aliases.
func parseAliasList(s string) ([]int64, error) {
	parts := strings.Split(s, ",")
	aliases := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("alias %q is not an integer: %w", p, err)
		}
		aliases = append(aliases, n)
	}
	return aliases, nil
}
