package config

import (
	"os"
	"path/filepath"
	"testing"
)

// ── Load / Defaults ──

func TestLoadReturnsDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// API defaults
	if cfg.API.Host != "0.0.0.0" {
		t.Errorf("API.Host: got %q, want %q", cfg.API.Host, "0.0.0.0")
	}
	if cfg.API.Port != 8080 {
		t.Errorf("API.Port: got %d, want 8080", cfg.API.Port)
	}
	if len(cfg.API.CORSOrigins) != 1 || cfg.API.CORSOrigins[0] != "http://localhost:3000" {
		t.Errorf("API.CORSOrigins: got %v", cfg.API.CORSOrigins)
	}

	// Market data defaults
	if cfg.MarketData.FeedURL == "" {
		t.Error("MarketData.FeedURL should have a default")
	}
	if cfg.MarketData.HTMLURL == "" {
		t.Error("MarketData.HTMLURL should have a default")
	}
	if cfg.MarketData.CacheTTL != 3600 {
		t.Errorf("MarketData.CacheTTL: got %d, want 3600", cfg.MarketData.CacheTTL)
	}
	if cfg.MarketData.TimeoutSec != 15 {
		t.Errorf("MarketData.TimeoutSec: got %d, want 15", cfg.MarketData.TimeoutSec)
	}
	if cfg.MarketData.RatePerSec != 2 {
		t.Errorf("MarketData.RatePerSec: got %d, want 2", cfg.MarketData.RatePerSec)
	}

	// Calculation defaults
	if cfg.Defaults.Face != 1000.0 {
		t.Errorf("Defaults.Face: got %f, want 1000", cfg.Defaults.Face)
	}
	if cfg.Defaults.Frequency != 2 {
		t.Errorf("Defaults.Frequency: got %d, want 2", cfg.Defaults.Frequency)
	}
	if cfg.Defaults.MaxExtension != 10.0 {
		t.Errorf("Defaults.MaxExtension: got %f, want 10", cfg.Defaults.MaxExtension)
	}
	if cfg.Defaults.Samples != 100 {
		t.Errorf("Defaults.Samples: got %d, want 100", cfg.Defaults.Samples)
	}

	// Logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level: got %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Logging.Format: got %q, want %q", cfg.Logging.Format, "text")
	}
}

// ── LoadFromFile ──

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "test_config.yaml")
	content := []byte(`
api:
  host: "127.0.0.1"
  port: 9090
marketdata:
  cache_ttl: 60
  timeout_sec: 5
defaults:
  face: 100
  frequency: 4
logging:
  level: "debug"
  format: "json"
`)
	if err := os.WriteFile(cfgPath, content, 0644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := LoadFromFile(cfgPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}
	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("API.Host: got %q, want %q", cfg.API.Host, "127.0.0.1")
	}
	if cfg.API.Port != 9090 {
		t.Errorf("API.Port: got %d, want 9090", cfg.API.Port)
	}
	if cfg.MarketData.CacheTTL != 60 {
		t.Errorf("MarketData.CacheTTL: got %d, want 60", cfg.MarketData.CacheTTL)
	}
	if cfg.MarketData.TimeoutSec != 5 {
		t.Errorf("MarketData.TimeoutSec: got %d, want 5", cfg.MarketData.TimeoutSec)
	}
	if cfg.Defaults.Face != 100 {
		t.Errorf("Defaults.Face: got %f, want 100", cfg.Defaults.Face)
	}
	if cfg.Defaults.Frequency != 4 {
		t.Errorf("Defaults.Frequency: got %d, want 4", cfg.Defaults.Frequency)
	}
	// Sections absent from the file keep their defaults.
	if cfg.Defaults.Samples != 100 {
		t.Errorf("Defaults.Samples: got %d, want default 100", cfg.Defaults.Samples)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level: got %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format: got %q, want %q", cfg.Logging.Format, "json")
	}
}

func TestLoadFromFileNotFound(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("LoadFromFile() with nonexistent path should return error")
	}
}

// ── Environment overrides ──

func TestEnvOverride(t *testing.T) {
	os.Setenv("FINLAB_API_PORT", "7070")
	os.Setenv("FINLAB_LOGGING_LEVEL", "warn")
	defer func() {
		os.Unsetenv("FINLAB_API_PORT")
		os.Unsetenv("FINLAB_LOGGING_LEVEL")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.API.Port != 7070 {
		t.Errorf("API.Port: got %d, want env override 7070", cfg.API.Port)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level: got %q, want env override %q", cfg.Logging.Level, "warn")
	}
}
