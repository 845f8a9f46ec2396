// Command deskshell is the native host for the multi-tenant desktop app.
//
// Usage:
//
//	deskshell run [--env dev] [--tenant acme] [--addr 127.0.0.1:17831] [--dev]
//	deskshell config [--env dev] [--tenant acme]
//	deskshell version
//
// Settings come from the environment (DESKTOP_ENV, DESKTOP_TENANT,
// DESKTOP_BRIDGE_ADDR, LOG_LEVEL, ...) and from a .env file next to the
// binary. Flags override both.
package main
