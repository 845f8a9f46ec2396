//go:build darwin

package window

// DefaultCloseBehavior keeps the app alive in the menu bar on macOS
func DefaultCloseBehavior() CloseBehavior {
	return HideToTray
}
