// Package systray binds tray.Host to the operating system.
//
// Builds with the "desktop" tag use energye/systray. Default builds get a
// headless host that records the installed tray and lets callers replay
// clicks, which keeps CI and server builds free of cgo and GUI libraries.
package systray
