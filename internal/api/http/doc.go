// Package http exposes the command registry over the loopback bridge.
//
// Routes:
//   - POST /invoke/:command: run a command, body is its JSON arguments
//   - GET /commands: command definitions
//   - POST /window/:action: show, hide, toggle, reload or close the main window
//   - GET /health: component status
//
// Every command response is a types.Result. The HTTP status mirrors the
// result code so generic clients can branch without parsing the body.
package http
