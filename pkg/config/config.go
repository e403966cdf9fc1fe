// Package config loads the search server configuration from a YAML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Search  SearchConfig  `yaml:"search"`
	History HistoryConfig `yaml:"history"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Kafka   KafkaConfig   `yaml:"kafka"`
}

// SearchConfig controls the engine: stop words, result cap and the relevance
// tolerance used when ordering by rating.
type SearchConfig struct {
	StopWords        []string `yaml:"stopWords"`
	MaxResults       int      `yaml:"maxResults"`
	RelevanceEpsilon float64  `yaml:"relevanceEpsilon"`
	PageSize         int      `yaml:"pageSize"`
}

// HistoryConfig sizes the request-history window.
type HistoryConfig struct {
	Window int `yaml:"window"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus metrics server.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// KafkaConfig holds the brokers and topic analytics events are published to.
type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Search: SearchConfig{
			StopWords:        []string{},
			MaxResults:       5,
			RelevanceEpsilon: 1e-6,
			PageSize:         2,
		},
		History: HistoryConfig{
			Window: 1440,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
		},
		Kafka: KafkaConfig{
			Enabled: false,
			Brokers: []string{"localhost:9092"},
			Topic:   "search-analytics",
		},
	}
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	if c.Search.MaxResults <= 0 {
		return fmt.Errorf("search.maxResults must be positive, got %d", c.Search.MaxResults)
	}
	if c.Search.RelevanceEpsilon < 0 {
		return fmt.Errorf("search.relevanceEpsilon must not be negative, got %g", c.Search.RelevanceEpsilon)
	}
	if c.Search.PageSize <= 0 {
		return fmt.Errorf("search.pageSize must be positive, got %d", c.Search.PageSize)
	}
	if c.History.Window <= 0 {
		return fmt.Errorf("history.window must be positive, got %d", c.History.Window)
	}
	if c.Kafka.Enabled && (len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "") {
		return fmt.Errorf("kafka is enabled but brokers or topic are missing")
	}
	return nil
}

// applyEnvOverrides reads SS_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SS_SEARCH_STOP_WORDS"); v != "" {
		cfg.Search.StopWords = strings.Fields(v)
	}
	if v := os.Getenv("SS_SEARCH_MAX_RESULTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Search.MaxResults = n
		}
	}
	if v := os.Getenv("SS_SEARCH_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Search.PageSize = n
		}
	}
	if v := os.Getenv("SS_HISTORY_WINDOW"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.History.Window = n
		}
	}
	if v := os.Getenv("SS_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SS_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("SS_METRICS_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
	if v := os.Getenv("SS_METRICS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Metrics.Port = port
		}
	}
	if v := os.Getenv("SS_KAFKA_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Kafka.Enabled = b
		}
	}
	if v := os.Getenv("SS_KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("SS_KAFKA_TOPIC"); v != "" {
		cfg.Kafka.Topic = v
	}
}
