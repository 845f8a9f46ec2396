//go:build !windows

package autolaunch

// New returns Unsupported
func New(string) Manager {
	return Unsupported{}
}
