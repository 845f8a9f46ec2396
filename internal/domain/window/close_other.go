//go:build !darwin

package window

// DefaultCloseBehavior exits on close
func DefaultCloseBehavior() CloseBehavior {
	return Terminate
}
