// Package autolaunch toggles launching the application at user login.
package autolaunch

import "errors"

// ErrToggle is returned when the OS launch entry cannot be read or changed
var ErrToggle = errors.New("failed to toggle auto launch")

// Manager reads and changes the launch-at-login setting
type Manager interface {
	Enabled() (bool, error)
	SetEnabled(enabled bool) error
}

// Unsupported is used on platforms without a launch-at-login binding. It
// reports disabled and accepts every change as a no-op.
type Unsupported struct{}

func (Unsupported) Enabled() (bool, error) { return false, nil }

func (Unsupported) SetEnabled(bool) error { return nil }
