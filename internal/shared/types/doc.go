// Package types provides the wire shapes shared by the command surface and
// the view event channel.
//
// Core Types:
//   - Command, Parameter: command surface definitions
//   - Result: standard response envelope for every command
//   - Frame: event pushed into the embedded view
//
// Example Usage:
//
//	return types.Success(resolved)
//	return types.Failure("no_tenant", err)
package types
