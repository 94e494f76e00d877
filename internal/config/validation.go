package config

import (
	"fmt"

	"github.com/law-makers/boxdiff/internal/proxy"
	"github.com/law-makers/boxdiff/internal/utils/headers"
	urlutil "github.com/law-makers/boxdiff/internal/utils/url"
)

func validate(c *Config) error {
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be > 0")
	}
	if c.BatchSize < 1 || c.BatchSize > MaxBatchSize {
		return fmt.Errorf("batch size must be between 1 and %d", MaxBatchSize)
	}
	if c.RetryAttempts < 1 || c.RetryAttempts > MaxRetryAttempts {
		return fmt.Errorf("retry attempts must be between 1 and %d", MaxRetryAttempts)
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("rate limit must be >= 0")
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache size must be >= 0")
	}
	if err := urlutil.ValidateURL(c.BaseURL); err != nil {
		return fmt.Errorf("base url %q: %w", c.BaseURL, err)
	}
	if _, err := proxy.NewPool(proxy.ParseList(c.Proxy)); err != nil {
		return err
	}
	if _, err := headers.Parse(c.Headers); err != nil {
		return err
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return nil
}
