// Package config loads service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Adityahash12/agent-api-adapter/internal/match"
)

// Config holds all runtime configuration.
type Config struct {
	Service       ServiceConfig
	Matching      MatchingConfig
	Observability ObservabilityConfig
}

// ServiceConfig holds HTTP transport settings.
type ServiceConfig struct {
	Port            string
	MaxBodyBytes    int64
	ShutdownTimeout time.Duration
}

// MatchingConfig holds mapping inference and schema settings.
type MatchingConfig struct {
	Scorer          string
	SchemaCacheSize int
}

// ObservabilityConfig holds logging and metrics settings.
type ObservabilityConfig struct {
	LogLevel       string
	LogFormat      string
	MetricsEnabled bool
}

// Defaults.
const (
	DefaultPort            = "3000"
	DefaultMaxBodyBytes    = 1 << 20
	DefaultShutdownTimeout = 10 * time.Second
	DefaultScorer          = "jaro-winkler"
	DefaultSchemaCacheSize = 128
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "json"
)

// Load reads configuration from the environment, after loading any .env
// files given (missing files are ignored). Invalid values fall back to
// their defaults; the returned error lists every value and .env file that
// was rejected.
func Load(envFiles ...string) (*Config, error) {
	var errs []error

	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}

		if err := godotenv.Load(f); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", f, err))
		}
	}

	cfg := &Config{
		Service: ServiceConfig{
			Port:            envOrDefault("PORT", DefaultPort),
			MaxBodyBytes:    envInt64OrDefault("MAX_BODY_BYTES", DefaultMaxBodyBytes, &errs),
			ShutdownTimeout: envDurationOrDefault("SHUTDOWN_TIMEOUT", DefaultShutdownTimeout, &errs),
		},
		Matching: MatchingConfig{
			Scorer:          envOrDefault("MATCH_SCORER", DefaultScorer),
			SchemaCacheSize: int(envInt64OrDefault("SCHEMA_CACHE_SIZE", DefaultSchemaCacheSize, &errs)),
		},
		Observability: ObservabilityConfig{
			LogLevel:       strings.ToLower(envOrDefault("LOG_LEVEL", DefaultLogLevel)),
			LogFormat:      strings.ToLower(envOrDefault("LOG_FORMAT", DefaultLogFormat)),
			MetricsEnabled: envBoolOrDefault("METRICS_ENABLED", true, &errs),
		},
	}

	if _, err := match.ScorerByName(cfg.Matching.Scorer); err != nil {
		errs = append(errs, fmt.Errorf("MATCH_SCORER: %w", err))
		cfg.Matching.Scorer = DefaultScorer
	}

	switch cfg.Observability.LogFormat {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT: unsupported format %q", cfg.Observability.LogFormat))
		cfg.Observability.LogFormat = DefaultLogFormat
	}

	return cfg, errors.Join(errs...)
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	if strings.Contains(c.Service.Port, ":") {
		return c.Service.Port
	}

	return ":" + c.Service.Port
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

func envInt64OrDefault(key string, def int64, errs *[]error) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		*errs = append(*errs, fmt.Errorf("%s: expected a positive integer, got %q", key, v))
		return def
	}

	return n
}

func envDurationOrDefault(key string, def time.Duration, errs *[]error) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		*errs = append(*errs, fmt.Errorf("%s: expected a positive duration, got %q", key, v))
		return def
	}

	return d
}

func envBoolOrDefault(key string, def bool, errs *[]error) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: expected a boolean, got %q", key, v))
		return def
	}

	return b
}
