// Package config handles configuration loading for finlab.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	API        APIConfig        `mapstructure:"api"        yaml:"api"`
	MarketData MarketDataConfig `mapstructure:"marketdata" yaml:"marketdata"`
	Defaults   DefaultsConfig   `mapstructure:"defaults"   yaml:"defaults"`
	Logging    LoggingConfig    `mapstructure:"logging"    yaml:"logging"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// MarketDataConfig holds Treasury yield-curve source settings.
type MarketDataConfig struct {
	FeedURL    string `mapstructure:"feed_url"    yaml:"feed_url"`
	HTMLURL    string `mapstructure:"html_url"    yaml:"html_url"`
	CacheTTL   int    `mapstructure:"cache_ttl"   yaml:"cache_ttl"`   // seconds
	TimeoutSec int    `mapstructure:"timeout_sec" yaml:"timeout_sec"` // per request
	RatePerSec int    `mapstructure:"rate_per_sec" yaml:"rate_per_sec"`
}

// DefaultsConfig holds calculation defaults applied when a request omits
// the corresponding field.
type DefaultsConfig struct {
	Face         float64 `mapstructure:"face"          yaml:"face"`
	Frequency    int     `mapstructure:"frequency"     yaml:"frequency"`
	MaxExtension float64 `mapstructure:"max_extension" yaml:"max_extension"` // immunization scan, years
	Samples      int     `mapstructure:"samples"       yaml:"samples"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.finlab/config.yaml (home directory)
//  3. /etc/finlab/config.yaml (system)
//
// Environment variables override config file values.
// Format: FINLAB_<SECTION>_<KEY>, e.g., FINLAB_API_PORT
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".finlab"))
	v.AddConfigPath("/etc/finlab")

	v.SetEnvPrefix("FINLAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found — that's fine, use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("FINLAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})

	// Market data defaults
	v.SetDefault("marketdata.feed_url", "https://home.treasury.gov/resource-center/data-chart-center/interest-rates/pages/xml?data=daily_treasury_yield_curve")
	v.SetDefault("marketdata.html_url", "https://home.treasury.gov/resource-center/data-chart-center/interest-rates/TextView?type=daily_treasury_yield_curve")
	v.SetDefault("marketdata.cache_ttl", 3600) // curve moves once a day
	v.SetDefault("marketdata.timeout_sec", 15)
	v.SetDefault("marketdata.rate_per_sec", 2)

	// Calculation defaults
	v.SetDefault("defaults.face", 1000.0)
	v.SetDefault("defaults.frequency", 2)
	v.SetDefault("defaults.max_extension", 10.0)
	v.SetDefault("defaults.samples", 100)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
