package config

import "time"

// Default constants for application configuration
const (
	DefaultLogLevel       = "info"
	DefaultJSONLog        = false
	DefaultBaseURL        = "https://letterboxd.com"
	DefaultUserAgent      = "boxdiff/1.0 (+https://github.com/law-makers/boxdiff)"
	DefaultHTTPTimeout    = 30 * time.Second
	DefaultRateLimitRPS   = 5.0
	DefaultRateLimitBurst = 8
	DefaultRetryAttempts  = 3
	DefaultBatchSize      = 8
	MaxBatchSize          = 8
	MaxRetryAttempts      = 10
	DefaultCacheSize      = 512
	DefaultCacheTTL       = 10 * time.Minute
)

// Environment variables read by Load
const (
	EnvBaseURL   = "BOXDIFF_BASE_URL"
	EnvUserAgent = "BOXDIFF_USER_AGENT"
	EnvProxy     = "BOXDIFF_PROXY"
)
