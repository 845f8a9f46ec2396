// Package service provides the command registry behind the bridge.
//
// The registry holds the fixed set of commands the embedded application
// may invoke, decodes and validates their arguments, and reduces every
// outcome to a types.Result with a stable error code.
//
// Components:
//   - Registry: command catalog and dispatcher
//   - Handler: interface for command implementations
//   - Commands: getConfig, notify, secure store access, auto launch, openExternal
//
// Error Codes:
//   - config_read, config_parse, no_tenant: tenant configuration failures
//   - store_unavailable: secure store poisoned or closed
//   - forward_failed: notification not delivered to the view
//   - invalid_argument, unknown_command: caller errors
//   - autolaunch_failed: OS launch entry could not be changed
//   - internal: anything else, including recovered handler panics
//
// Example Usage:
//
//	registry := service.NewRegistry(logger)
//	service.RegisterCommands(registry, deps)
//	result := registry.Invoke(ctx, "getSecureValue", []byte(`{"key":"token"}`))
package service
