//go:build windows

package autolaunch

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/windows/registry"
)

const runKey = `Software\Microsoft\Windows\CurrentVersion\Run`

// Registry stores the launch entry under the current user's Run key
type Registry struct {
	name string
	exe  string
}

// New returns the Run key manager for appName
func New(appName string) Manager {
	exe, _ := os.Executable()
	return &Registry{name: appName, exe: exe}
}

// Enabled reports whether the Run value exists
func (r *Registry) Enabled() (bool, error) {
	key, err := registry.OpenKey(registry.CURRENT_USER, runKey, registry.QUERY_VALUE)
	if err != nil {
		return false, fmt.Errorf("%w: open registry key: %w", ErrToggle, err)
	}
	defer key.Close()

	if _, _, err := key.GetStringValue(r.name); err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("%w: read registry value: %w", ErrToggle, err)
	}
	return true, nil
}

// SetEnabled writes or removes the Run value
func (r *Registry) SetEnabled(enabled bool) error {
	if enabled && r.exe == "" {
		return fmt.Errorf("%w: executable path unknown", ErrToggle)
	}

	key, err := registry.OpenKey(registry.CURRENT_USER, runKey, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("%w: open registry key: %w", ErrToggle, err)
	}
	defer key.Close()

	if enabled {
		if err := key.SetStringValue(r.name, `"`+r.exe+`"`); err != nil {
			return fmt.Errorf("%w: set registry value: %w", ErrToggle, err)
		}
		return nil
	}

	if err := key.DeleteValue(r.name); err != nil && !errors.Is(err, registry.ErrNotExist) {
		return fmt.Errorf("%w: delete registry value: %w", ErrToggle, err)
	}
	return nil
}
