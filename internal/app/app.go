// Package app provides the core application initialization and lifecycle management.
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/law-makers/boxdiff/internal/cache"
	"github.com/law-makers/boxdiff/internal/compare"
	"github.com/law-makers/boxdiff/internal/config"
	"github.com/law-makers/boxdiff/internal/engine"
	"github.com/law-makers/boxdiff/internal/engine/static"
	"github.com/law-makers/boxdiff/internal/metrics"
	"github.com/law-makers/boxdiff/internal/proxy"
	"github.com/law-makers/boxdiff/internal/ratelimit"
	"github.com/law-makers/boxdiff/internal/retry"
	"github.com/law-makers/boxdiff/internal/utils/headers"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Application holds all application dependencies and manages their lifecycle.
//
// It is created once at startup and shared across all CLI commands.
// Use Close() to ensure proper resource cleanup on shutdown.
type Application struct {
	Config      *config.Config
	Logger      *zerolog.Logger
	Metrics     *metrics.Metrics
	RateLimiter ratelimit.Limiter
	HTTPClient  *http.Client
	Proxies     *proxy.Pool
	Fetcher     *static.Fetcher
	Pages       *cache.PageCache
	Crawler     *engine.Crawler
	Compare     *compare.Service
	startTime   time.Time
}

// New creates and initializes a new Application with all dependencies.
//
// It performs the following initialization steps:
//   - Configures logging based on the provided config
//   - Creates the metrics registry
//   - Creates the per-host rate limiter
//   - Initializes the HTTP client with timeout and proxy
//   - Creates the fetcher, page cache, crawler and comparison service
//
// If any step fails, an error is returned and no resources are allocated.
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := initLogger(cfg, os.Stderr)

	m := metrics.New()

	rateLimiter := ratelimit.NewHostLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	logger.Debug().
		Float64("rps", cfg.RateLimitRPS).
		Int("burst", cfg.RateLimitBurst).
		Msg("Rate limiter initialized")

	proxies, err := proxy.NewPool(proxy.ParseList(cfg.Proxy))
	if err != nil {
		return nil, err
	}
	extraHeaders, err := headers.Parse(cfg.Headers)
	if err != nil {
		return nil, err
	}

	httpClient := static.NewClient(cfg.HTTPTimeout)
	logger.Debug().
		Dur("timeout", cfg.HTTPTimeout).
		Int("proxies", proxies.Len()).
		Int("extra_headers", len(extraHeaders)).
		Msg("HTTP client initialized")

	policy := retry.DefaultPolicy()
	policy.Attempts = cfg.RetryAttempts

	fetcher := static.New(httpClient, rateLimiter, policy, cfg.UserAgent, m).
		WithHeaders(extraHeaders).
		WithProxies(proxies)
	pages := cache.New(fetcher, cfg.CacheSize, cfg.CacheTTL, m)
	crawler := engine.NewCrawler(pages, cfg.BaseURL, cfg.BatchSize, m)

	app := &Application{
		Config:      cfg,
		Logger:      &logger,
		Metrics:     m,
		RateLimiter: rateLimiter,
		HTTPClient:  httpClient,
		Proxies:     proxies,
		Fetcher:     fetcher,
		Pages:       pages,
		Crawler:     crawler,
		Compare:     compare.NewService(crawler),
		startTime:   time.Now(),
	}

	logger.Info().Str("base_url", cfg.BaseURL).Msg("Application initialized successfully")
	return app, nil
}

// initLogger sets the global level and output and returns the configured logger
func initLogger(cfg *config.Config, out io.Writer) zerolog.Logger {
	logLevel := zerolog.ErrorLevel // default: suppress non-verbose info logs
	switch cfg.LogLevel {
	case "debug":
		logLevel = zerolog.DebugLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	case "error":
		logLevel = zerolog.ErrorLevel
	// Treat "info" as non-verbose (don't display info logs unless -v is used)
	default:
		logLevel = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	var logWriter io.Writer
	if cfg.JSONLog {
		logWriter = out
	} else {
		logWriter = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	logger := zerolog.New(logWriter).With().Timestamp().Logger()
	log.Logger = logger

	logger.Debug().
		Str("level", cfg.LogLevel).
		Bool("json", cfg.JSONLog).
		Msg("Logger initialized")

	return logger
}

// Close gracefully shuts down the application and all its resources.
//
// A context with a timeout should be provided to prevent indefinite blocking.
// Any errors during shutdown are logged but do not prevent other shutdown steps.
func (a *Application) Close(ctx context.Context) error {
	a.Logger.Debug().Msg("Shutting down application")

	if a.Pages != nil {
		a.Pages.Purge()
	}

	// Close HTTP client (connection pooling cleanup)
	if a.HTTPClient != nil {
		a.HTTPClient.CloseIdleConnections()
	}

	a.Logger.Debug().Dur("uptime", a.Uptime()).Msg("Application shutdown complete")
	return nil
}

// Uptime returns how long the application has been running.
func (a *Application) Uptime() time.Duration {
	return time.Since(a.startTime)
}
