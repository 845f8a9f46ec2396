// Package logging provides structured logging using uber/zap.
//
// Two modes are offered:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// The package also owns the process crash hook. CrashHook logs a panic
// with its stack and re-panics; it never recovers, so a crash still
// terminates the process.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	defer logging.CrashHook(logger)
//	logger.Info("Shell starting", zap.String("env", "dev"))
package logging
