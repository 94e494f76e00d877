package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Config holds application configuration values
type Config struct {
	// Logging
	LogLevel string
	JSONLog  bool

	// HTTP
	BaseURL       string
	HTTPTimeout   time.Duration
	UserAgent     string
	Proxy         string // one proxy URL, or several separated by commas
	Headers       []string
	RetryAttempts int

	// Rate Limiting
	RateLimitRPS   float64
	RateLimitBurst int

	// Crawling
	BatchSize int

	// Page cache, scoped to one process
	CacheSize int
	CacheTTL  time.Duration

	// Metrics
	PrintMetrics bool
}

// fileConfig is the on-disk shape of a config file. Zero values leave the
// corresponding setting untouched.
type fileConfig struct {
	LogLevel       string   `json:"log_level" yaml:"log_level"`
	JSONLog        bool     `json:"json_log" yaml:"json_log"`
	BaseURL        string   `json:"base_url" yaml:"base_url"`
	Timeout        string   `json:"timeout" yaml:"timeout"`
	UserAgent      string   `json:"user_agent" yaml:"user_agent"`
	Proxy          string   `json:"proxy" yaml:"proxy"`
	Headers        []string `json:"headers" yaml:"headers"`
	RetryAttempts  int      `json:"retry_attempts" yaml:"retry_attempts"`
	RateLimitRPS   float64  `json:"rate_limit_rps" yaml:"rate_limit_rps"`
	RateLimitBurst int      `json:"rate_limit_burst" yaml:"rate_limit_burst"`
	BatchSize      int      `json:"batch_size" yaml:"batch_size"`
	CacheSize      int      `json:"cache_size" yaml:"cache_size"`
	CacheTTL       string   `json:"cache_ttl" yaml:"cache_ttl"`
	Metrics        bool     `json:"metrics" yaml:"metrics"`
}

// Default returns a Config populated with the defaults
func Default() *Config {
	return &Config{
		LogLevel:       DefaultLogLevel,
		JSONLog:        DefaultJSONLog,
		BaseURL:        DefaultBaseURL,
		HTTPTimeout:    DefaultHTTPTimeout,
		UserAgent:      DefaultUserAgent,
		RetryAttempts:  DefaultRetryAttempts,
		RateLimitRPS:   DefaultRateLimitRPS,
		RateLimitBurst: DefaultRateLimitBurst,
		BatchSize:      DefaultBatchSize,
		CacheSize:      DefaultCacheSize,
		CacheTTL:       DefaultCacheTTL,
	}
}

// Load builds a Config by combining defaults, an optional config file, environment variables, and CLI flags.
// Caller should pass the root *cobra.Command so flags can be read.
func Load(cmd *cobra.Command) (*Config, error) {
	cfg := Default()

	if cmd != nil {
		if f := cmd.Flags().Lookup("config"); f != nil {
			if path := f.Value.String(); path != "" {
				if err := LoadFile(path, cfg); err != nil {
					return nil, err
				}
			}
		}
	}

	// Override from environment variables
	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv(EnvUserAgent); v != "" {
		cfg.UserAgent = v
	}
	if v := os.Getenv(EnvProxy); v != "" {
		cfg.Proxy = v
	}

	// Read CLI flags if provided
	if cmd != nil {
		if f := cmd.Flags().Lookup("user-agent"); f != nil {
			if s := f.Value.String(); s != "" {
				cfg.UserAgent = s
			}
		}
		if f := cmd.Flags().Lookup("proxy"); f != nil {
			if s := f.Value.String(); s != "" {
				cfg.Proxy = s
			}
		}
		if headers, err := cmd.Flags().GetStringArray("header"); err == nil && len(headers) > 0 {
			cfg.Headers = append(cfg.Headers, headers...)
		}
		if f := cmd.Flags().Lookup("base-url"); f != nil {
			if s := f.Value.String(); s != "" {
				cfg.BaseURL = s
			}
		}
		if f := cmd.Flags().Lookup("timeout"); f != nil {
			if s := f.Value.String(); s != "" {
				d, err := time.ParseDuration(s)
				if err != nil {
					return nil, fmt.Errorf("invalid timeout %q: %w", s, err)
				}
				cfg.HTTPTimeout = d
			}
		}
		if f := cmd.Flags().Lookup("rate"); f != nil {
			if v, err := strconv.ParseFloat(f.Value.String(), 64); err == nil && v > 0 {
				cfg.RateLimitRPS = v
			}
		}
		if f := cmd.Flags().Lookup("json"); f != nil {
			if f.Value.String() == "true" {
				cfg.JSONLog = true
			}
		}
		if f := cmd.Flags().Lookup("metrics"); f != nil {
			if f.Value.String() == "true" {
				cfg.PrintMetrics = true
			}
		}
		if f := cmd.Flags().Lookup("quiet"); f != nil {
			if f.Value.String() == "true" {
				cfg.LogLevel = "error"
			}
		}
		if f := cmd.Flags().Lookup("verbose"); f != nil {
			if f.Value.String() == "true" {
				cfg.LogLevel = "debug"
			}
		}
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// LoadFile applies a YAML or JSON config file on top of cfg.
// The format is chosen by extension; anything but .yaml/.yml is read as JSON.
func LoadFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file %s: %w", path, err)
	}
	defer file.Close()

	var fc fileConfig
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		if err := yaml.NewDecoder(file).Decode(&fc); err != nil {
			return fmt.Errorf("failed to decode YAML config file %s: %w", path, err)
		}
	} else {
		if err := json.NewDecoder(file).Decode(&fc); err != nil {
			return fmt.Errorf("failed to decode JSON config file %s: %w", path, err)
		}
	}

	return fc.apply(cfg)
}

func (fc fileConfig) apply(cfg *Config) error {
	if fc.LogLevel != "" {
		cfg.LogLevel = strings.ToLower(fc.LogLevel)
	}
	if fc.JSONLog {
		cfg.JSONLog = true
	}
	if fc.BaseURL != "" {
		cfg.BaseURL = fc.BaseURL
	}
	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", fc.Timeout, err)
		}
		cfg.HTTPTimeout = d
	}
	if fc.UserAgent != "" {
		cfg.UserAgent = fc.UserAgent
	}
	if fc.Proxy != "" {
		cfg.Proxy = fc.Proxy
	}
	if len(fc.Headers) > 0 {
		cfg.Headers = append(cfg.Headers, fc.Headers...)
	}
	if fc.RetryAttempts != 0 {
		cfg.RetryAttempts = fc.RetryAttempts
	}
	if fc.RateLimitRPS != 0 {
		cfg.RateLimitRPS = fc.RateLimitRPS
	}
	if fc.RateLimitBurst != 0 {
		cfg.RateLimitBurst = fc.RateLimitBurst
	}
	if fc.BatchSize != 0 {
		cfg.BatchSize = fc.BatchSize
	}
	if fc.CacheSize != 0 {
		cfg.CacheSize = fc.CacheSize
	}
	if fc.CacheTTL != "" {
		d, err := time.ParseDuration(fc.CacheTTL)
		if err != nil {
			return fmt.Errorf("invalid cache_ttl %q: %w", fc.CacheTTL, err)
		}
		cfg.CacheTTL = d
	}
	if fc.Metrics {
		cfg.PrintMetrics = true
	}
	return nil
}
