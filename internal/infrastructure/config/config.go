package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all process settings.
type Config struct {
	Desktop   DesktopConfig
	Bridge    BridgeConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// DesktopConfig selects the environment file and tenant.
type DesktopConfig struct {
	Env         string `envconfig:"DESKTOP_ENV" default:"dev"`
	Tenant      string `envconfig:"DESKTOP_TENANT"`
	TrayTooltip string `envconfig:"DESKTOP_TRAY_TOOLTIP" default:"Desktop"`
}

// BridgeConfig holds the loopback command/event transport configuration.
type BridgeConfig struct {
	Addr string `envconfig:"DESKTOP_BRIDGE_ADDR" default:"127.0.0.1:17831"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration for the bridge.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"50"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"100"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from the environment. When the
// environment holds an invalid value it returns Default together with the
// load error, for callers that can run on defaults.
func LoadOrDefault() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return Default(), err
	}
	return cfg, nil
}

// LoadDotEnv reads a .env file located next to the executable, if any.
// Variables already present in the environment are left untouched.
func LoadDotEnv() error {
	path := filepath.Join(ExecutableDir(), ".env")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return godotenv.Load(path)
}

// ExecutableDir returns the directory holding the running binary, or "."
// when it cannot be determined.
func ExecutableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Desktop: DesktopConfig{
			Env:         "dev",
			TrayTooltip: "Desktop",
		},
		Bridge: BridgeConfig{
			Addr: "127.0.0.1:17831",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 50,
			Burst:             100,
			Enabled:           true,
		},
	}
}
