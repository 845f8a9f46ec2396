// Package config provides 12-factor process settings for the desktop shell.
//
// Settings are loaded from environment variables with sensible defaults.
// A .env file placed next to the executable is read first and never
// overrides variables that are already set. CLI flags override both.
//
// Configuration Sections:
//   - Desktop: environment name, tenant override, tray tooltip
//   - Bridge: loopback address of the command/event transport
//   - Logging: log level and output format
//   - RateLimit: bridge request rate limiting
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("resolving %s.json\n", cfg.Desktop.Env)
//
// Environment Variables:
//   - DESKTOP_ENV, DESKTOP_TENANT, DESKTOP_TRAY_TOOLTIP, DESKTOP_BRIDGE_ADDR
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
package config
