package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/miradorstack/fleetview/internal/transport"
)

// Config captures the settings for the fleetview client, CLI and local mock.
type Config struct {
	API        APIConfig        `yaml:"api"`
	Resilience ResilienceConfig `yaml:"resilience"`
	Logging    LoggingConfig    `yaml:"logging"`
	Server     ServerConfig     `yaml:"server"`
	Watch      WatchConfig      `yaml:"watch"`
	Mock       MockConfig       `yaml:"mock"`
}

// APIConfig locates the fleet API.
type APIConfig struct {
	BaseURL   string        `yaml:"baseURL"`
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"userAgent"`
}

// ResilienceConfig enables the optional transport decorators. All are off by default.
type ResilienceConfig struct {
	Retry     RetryConfig `yaml:"retry"`
	Dedupe    bool        `yaml:"dedupe"`
	RateLimit float64     `yaml:"rateLimit"`
	Burst     int         `yaml:"burst"`
}

// RetryConfig configures exponential backoff for idempotent reads.
type RetryConfig struct {
	MaxRetries int           `yaml:"maxRetries"`
	BaseDelay  time.Duration `yaml:"baseDelay"`
	MaxDelay   time.Duration `yaml:"maxDelay"`
	Multiplier float64       `yaml:"multiplier"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// ServerConfig controls the metrics listener used by long-running commands.
type ServerConfig struct {
	MetricsAddress  string        `yaml:"metricsAddress"`
	GracefulTimeout time.Duration `yaml:"gracefulTimeout"`
}

// WatchConfig controls the summary polling loop.
type WatchConfig struct {
	Interval time.Duration `yaml:"interval"`
	// Local aggregates robots and tasks on the client instead of calling /summary.
	Local bool `yaml:"local"`
}

// MockConfig configures the local mock fleet API.
type MockConfig struct {
	Address    string        `yaml:"address"`
	Prefix     string        `yaml:"prefix"`
	BriefTTL   time.Duration `yaml:"briefTTL"`
	InsightTTL time.Duration `yaml:"insightTTL"`
}

// Load initialises Config from a YAML file and optional environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("FLEETVIEW_CONFIG")
	}

	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found: %w", path, err)
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings that cannot work.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("api.baseURL is required")
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}
	if c.Resilience.Retry.MaxRetries < 0 {
		return fmt.Errorf("resilience.retry.maxRetries must not be negative")
	}
	if c.Resilience.RateLimit < 0 {
		return fmt.Errorf("resilience.rateLimit must not be negative")
	}
	if c.Watch.Interval <= 0 {
		return fmt.Errorf("watch.interval must be positive")
	}
	return nil
}

// TransportResilience converts the resilience section into decorator settings.
func (c *Config) TransportResilience() transport.Resilience {
	r := transport.Resilience{
		Dedupe:    c.Resilience.Dedupe,
		RateLimit: c.Resilience.RateLimit,
		Burst:     c.Resilience.Burst,
	}
	if c.Resilience.Retry.MaxRetries > 0 {
		r.Retry = &transport.RetryPolicy{
			MaxRetries: c.Resilience.Retry.MaxRetries,
			BaseDelay:  c.Resilience.Retry.BaseDelay,
			MaxDelay:   c.Resilience.Retry.MaxDelay,
			Multiplier: c.Resilience.Retry.Multiplier,
		}
	}
	return r
}

func defaultConfig() Config {
	retry := transport.DefaultRetryPolicy()
	return Config{
		API: APIConfig{
			BaseURL:   "http://127.0.0.1:1880/api",
			Timeout:   10 * time.Second,
			UserAgent: "fleetview",
		},
		Resilience: ResilienceConfig{
			Retry: RetryConfig{
				MaxRetries: 0,
				BaseDelay:  retry.BaseDelay,
				MaxDelay:   retry.MaxDelay,
				Multiplier: retry.Multiplier,
			},
			Burst: 5,
		},
		Logging: LoggingConfig{Level: "info", JSON: false},
		Server: ServerConfig{
			MetricsAddress:  ":2112",
			GracefulTimeout: 5 * time.Second,
		},
		Watch: WatchConfig{Interval: 10 * time.Second},
		Mock: MockConfig{
			Address:    ":1880",
			Prefix:     "/api",
			BriefTTL:   10 * time.Minute,
			InsightTTL: 30 * time.Minute,
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FLEETVIEW_API_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("FLEETVIEW_API_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.API.Timeout = d
		}
	}
	if v := os.Getenv("FLEETVIEW_API_USER_AGENT"); v != "" {
		cfg.API.UserAgent = v
	}
	if v := os.Getenv("FLEETVIEW_RETRY_MAX"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Resilience.Retry.MaxRetries = n
		}
	}
	if v := os.Getenv("FLEETVIEW_RETRY_BASE_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Resilience.Retry.BaseDelay = d
		}
	}
	if v := os.Getenv("FLEETVIEW_RETRY_MAX_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Resilience.Retry.MaxDelay = d
		}
	}
	if v := os.Getenv("FLEETVIEW_DEDUPE"); v != "" {
		cfg.Resilience.Dedupe = truthy(v)
	}
	if v := os.Getenv("FLEETVIEW_RATE_LIMIT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Resilience.RateLimit = f
		}
	}
	if v := os.Getenv("FLEETVIEW_RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Resilience.Burst = n
		}
	}
	if v := os.Getenv("FLEETVIEW_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("FLEETVIEW_LOG_FORMAT"); v == "json" {
		cfg.Logging.JSON = true
	}
	if v := os.Getenv("FLEETVIEW_METRICS_ADDRESS"); v != "" {
		cfg.Server.MetricsAddress = v
	}
	if v := os.Getenv("FLEETVIEW_WATCH_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Watch.Interval = d
		}
	}
	if v := os.Getenv("FLEETVIEW_WATCH_LOCAL"); v != "" {
		cfg.Watch.Local = truthy(v)
	}
	if v := os.Getenv("FLEETVIEW_MOCK_ADDRESS"); v != "" {
		cfg.Mock.Address = v
	}
	if v := os.Getenv("FLEETVIEW_MOCK_BRIEF_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Mock.BriefTTL = d
		}
	}
	if v := os.Getenv("FLEETVIEW_MOCK_INSIGHT_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Mock.InsightTTL = d
		}
	}
}

func truthy(v string) bool {
	return strings.EqualFold(v, "true") || v == "1"
}
