package app

import (
	"bytes"
	"context"
	"testing"

	"github.com/law-makers/boxdiff/internal/config"
	"github.com/rs/zerolog"
)

func TestNew_WiresDependencies(t *testing.T) {
	cfg := config.Default()
	cfg.LogLevel = "error"

	a, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer a.Close(context.Background())

	if a.Compare == nil || a.Crawler == nil || a.Fetcher == nil || a.Pages == nil || a.Metrics == nil {
		t.Errorf("Expected all dependencies to be set: %+v", a)
	}
	if a.Crawler.BaseURL() != config.DefaultBaseURL {
		t.Errorf("Expected base URL %s, got %s", config.DefaultBaseURL, a.Crawler.BaseURL())
	}
}

func TestNew_RequiresConfig(t *testing.T) {
	if _, err := New(context.Background(), nil); err == nil {
		t.Error("Expected an error for nil config")
	}
}

func TestNew_RejectsBadProxy(t *testing.T) {
	cfg := config.Default()
	cfg.Proxy = "://nope"
	if _, err := New(context.Background(), cfg); err == nil {
		t.Error("Expected an error for an invalid proxy")
	}
}

func TestInitLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Default()
	cfg.JSONLog = true

	cfg.LogLevel = "debug"
	initLogger(cfg, &buf)
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Errorf("Expected debug level, got %s", zerolog.GlobalLevel())
	}
	if buf.Len() == 0 {
		t.Error("Expected the debug init line in JSON output")
	}

	cfg.LogLevel = "info"
	initLogger(cfg, &buf)
	if zerolog.GlobalLevel() != zerolog.ErrorLevel {
		t.Errorf("Expected info to map to error level, got %s", zerolog.GlobalLevel())
	}
}

func TestNew_ProxyRotation(t *testing.T) {
	cfg := config.Default()
	cfg.LogLevel = "error"
	cfg.Proxy = "http://p1:8080,http://p2:8080"
	cfg.Headers = []string{"Cookie: a=1"}

	a, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer a.Close(context.Background())

	if a.Proxies.Len() != 2 {
		t.Errorf("Expected 2 proxies, got %d", a.Proxies.Len())
	}
}
