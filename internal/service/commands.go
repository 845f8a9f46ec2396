package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/GriffinCanCode/deskshell/internal/domain/tenant"
	"github.com/GriffinCanCode/deskshell/internal/platform/autolaunch"
	"github.com/GriffinCanCode/deskshell/internal/platform/opener"
	"github.com/GriffinCanCode/deskshell/internal/shared/types"
	"go.uber.org/zap"
)

// Command names
const (
	CmdGetConfig         = "getConfig"
	CmdNotify            = "notify"
	CmdGetSecureValue    = "getSecureValue"
	CmdSetSecureValue    = "setSecureValue"
	CmdDeleteSecureValue = "deleteSecureValue"
	CmdGetAutoLaunch     = "getAutoLaunch"
	CmdSetAutoLaunch     = "setAutoLaunch"
	CmdOpenExternal      = "openExternal"
)

// ConfigResolver resolves the active tenant configuration
type ConfigResolver interface {
	Resolve(env, override string) (*tenant.Resolved, error)
}

// SecureStore is the process-lifetime key-value store
type SecureStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// Notifier forwards notifications into the view
type Notifier interface {
	Notify(title, body string) (string, error)
}

// URLOpener opens links outside the embedded view
type URLOpener interface {
	Open(rawURL string) error
}

// Dependencies are the collaborators the fixed commands dispatch to
type Dependencies struct {
	Config ConfigResolver
	// Env and Tenant are read once at startup and reused for every getConfig
	Env        string
	Tenant     string
	Store      SecureStore
	Notifier   Notifier
	AutoLaunch autolaunch.Manager
	Opener     URLOpener
}

type noArgs struct{}

// Pointer fields with required must be present but may be empty.

type notifyArgs struct {
	Title *string `json:"title" validate:"required"`
	Body  string  `json:"body"`
}

type keyArgs struct {
	Key *string `json:"key" validate:"required"`
}

type setValueArgs struct {
	Key   *string `json:"key" validate:"required"`
	Value *string `json:"value" validate:"required"`
}

type autoLaunchArgs struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

type openArgs struct {
	URL string `json:"url" validate:"required"`
}

// RegisterCommands registers the fixed command set
func RegisterCommands(r *Registry, deps Dependencies) error {
	if deps.AutoLaunch == nil {
		deps.AutoLaunch = autolaunch.Unsupported{}
	}

	handlers := []Handler{
		Command(r, types.Command{
			Name:        CmdGetConfig,
			Description: "Resolve the active environment and tenant",
			Returns:     "object",
		}, func(_ context.Context, _ noArgs) (interface{}, error) {
			return deps.Config.Resolve(deps.Env, deps.Tenant)
		}),

		Command(r, types.Command{
			Name:        CmdNotify,
			Description: "Show a notification in the embedded view",
			Parameters: []types.Parameter{
				{Name: "title", Type: "string", Description: "Notification title", Required: true},
				{Name: "body", Type: "string", Description: "Notification body"},
			},
			Returns: "null",
		}, func(_ context.Context, args notifyArgs) (interface{}, error) {
			_, err := deps.Notifier.Notify(*args.Title, args.Body)
			return nil, err
		}),

		Command(r, types.Command{
			Name:        CmdGetSecureValue,
			Description: "Read a value from the secure store",
			Parameters: []types.Parameter{
				{Name: "key", Type: "string", Description: "Entry key", Required: true},
			},
			Returns: "string|null",
		}, func(_ context.Context, args keyArgs) (interface{}, error) {
			value, ok, err := deps.Store.Get(*args.Key)
			if err != nil || !ok {
				return nil, err
			}
			return value, nil
		}),

		Command(r, types.Command{
			Name:        CmdSetSecureValue,
			Description: "Write a value to the secure store",
			Parameters: []types.Parameter{
				{Name: "key", Type: "string", Description: "Entry key", Required: true},
				{Name: "value", Type: "string", Description: "Entry value", Required: true},
			},
			Returns: "null",
		}, func(_ context.Context, args setValueArgs) (interface{}, error) {
			return nil, deps.Store.Set(*args.Key, *args.Value)
		}),

		Command(r, types.Command{
			Name:        CmdDeleteSecureValue,
			Description: "Remove a value from the secure store",
			Parameters: []types.Parameter{
				{Name: "key", Type: "string", Description: "Entry key", Required: true},
			},
			Returns: "null",
		}, func(_ context.Context, args keyArgs) (interface{}, error) {
			return nil, deps.Store.Delete(*args.Key)
		}),

		Command(r, types.Command{
			Name:        CmdGetAutoLaunch,
			Description: "Report whether the app launches at login",
			Returns:     "boolean",
		}, func(_ context.Context, _ noArgs) (interface{}, error) {
			// An unreadable launch entry reads as disabled
			enabled, err := deps.AutoLaunch.Enabled()
			if err != nil {
				r.logger.Warn("Failed to read launch-at-login state", zap.Error(err))
				return false, nil
			}
			return enabled, nil
		}),

		Command(r, types.Command{
			Name:        CmdSetAutoLaunch,
			Description: "Enable or disable launch at login",
			Parameters: []types.Parameter{
				{Name: "enabled", Type: "boolean", Description: "Launch at login", Required: true},
			},
			Returns: "null",
		}, func(_ context.Context, args autoLaunchArgs) (interface{}, error) {
			return nil, deps.AutoLaunch.SetEnabled(*args.Enabled)
		}),

		Command(r, types.Command{
			Name:        CmdOpenExternal,
			Description: "Open an http(s) link in the default browser",
			Parameters: []types.Parameter{
				{Name: "url", Type: "string", Description: "Absolute http or https URL", Required: true},
			},
			Returns: "null",
		}, func(_ context.Context, args openArgs) (interface{}, error) {
			err := deps.Opener.Open(args.URL)
			if errors.Is(err, opener.ErrUnsupportedURL) {
				return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
			}
			return nil, err
		}),
	}

	for _, h := range handlers {
		if err := r.Register(h); err != nil {
			return err
		}
	}
	return nil
}
