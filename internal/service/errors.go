package service

import (
	"errors"

	"github.com/GriffinCanCode/deskshell/internal/domain/notify"
	"github.com/GriffinCanCode/deskshell/internal/domain/securestore"
	"github.com/GriffinCanCode/deskshell/internal/domain/tenant"
	"github.com/GriffinCanCode/deskshell/internal/platform/autolaunch"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnknownCommand  = errors.New("unknown command")
)

// Result codes
const (
	CodeOK               = "ok"
	CodeConfigRead       = "config_read"
	CodeConfigParse      = "config_parse"
	CodeNoTenant         = "no_tenant"
	CodeStoreUnavailable = "store_unavailable"
	CodeForwardFailed    = "forward_failed"
	CodeInvalidArgument  = "invalid_argument"
	CodeUnknownCommand   = "unknown_command"
	CodeAutoLaunch       = "autolaunch_failed"
	CodeInternal         = "internal"
)

// Code maps an error to its result code
func Code(err error) string {
	switch {
	case err == nil:
		return CodeOK
	case errors.Is(err, ErrInvalidArgument):
		return CodeInvalidArgument
	case errors.Is(err, ErrUnknownCommand):
		return CodeUnknownCommand
	case errors.Is(err, tenant.ErrConfigRead):
		return CodeConfigRead
	case errors.Is(err, tenant.ErrConfigParse):
		return CodeConfigParse
	case errors.Is(err, tenant.ErrNoTenant):
		return CodeNoTenant
	case errors.Is(err, securestore.ErrStoreUnavailable):
		return CodeStoreUnavailable
	case errors.Is(err, notify.ErrForward):
		return CodeForwardFailed
	case errors.Is(err, autolaunch.ErrToggle):
		return CodeAutoLaunch
	default:
		return CodeInternal
	}
}
