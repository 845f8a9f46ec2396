package window

// Visibility of the main window
type Visibility int

const (
	Hidden Visibility = iota
	Visible
)

func (v Visibility) String() string {
	if v == Visible {
		return "visible"
	}
	return "hidden"
}

// Host is the rendering engine's handle on the main window
type Host interface {
	Show() error
	Hide() error
	Focus() error
	Reload() error
	IsVisible() (bool, error)
}

// CloseBehavior decides what a user-initiated close does
type CloseBehavior int

const (
	// HideToTray prevents the close and hides the window
	HideToTray CloseBehavior = iota
	// Terminate lets the close proceed and exits the process
	Terminate
)

func (b CloseBehavior) String() string {
	if b == HideToTray {
		return "hide_to_tray"
	}
	return "terminate"
}

// CloseOutcome reports how a close request was handled
type CloseOutcome struct {
	// Prevented is true when the host must cancel the native close
	Prevented bool
	Behavior  CloseBehavior
}

// StateChange describes one successful lifecycle transition
type StateChange struct {
	Action     string     `json:"action"`
	Visibility Visibility `json:"-"`
	Visible    bool       `json:"visible"`
}

// Observer receives state changes in the order they were applied. It runs
// under the manager lock and must not call back into the manager.
type Observer func(StateChange)
