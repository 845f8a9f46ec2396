package systray

import "errors"

// ErrMainThreadRequired is returned where the tray loop may only run on
// the process main thread, which the shell keeps for the bridge.
var ErrMainThreadRequired = errors.New("tray loop requires the main thread")

// backgroundLoop reports whether the tray loop can run on its own
// goroutine. Cocoa only accepts UI calls from the main thread.
func backgroundLoop(goos string) bool {
	return goos != "darwin"
}
