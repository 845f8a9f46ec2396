// Package middleware provides gin middleware for the loopback bridge:
// CORS restricted to the tenant origin, rate limiting, zap request logging
// and panic recovery.
package middleware
