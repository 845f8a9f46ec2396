/*
Package monitoring provides metrics collection for the desktop shell.

# Overview

Metrics are Prometheus collectors registered on a per-instance registry so
several shells (or tests) can live in one process. The bridge exposes the
registry on /metrics.

# Features

- Bridge HTTP request metrics (latency, status)
- Command surface call metrics (duration, result code)
- Window lifecycle transitions and current visibility
- Tray events, notification deliveries, secure store operations
- Connected view count

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))

	timer := monitoring.NewTimer(metrics, "getConfig")
	defer timer.Stop("ok")
*/
package monitoring
