// Package shell wires the desktop host together: tenant resolution, the
// secure store, the window lifecycle, the tray, the notification bridge
// and the loopback bridge that exposes commands and events to the
// embedded application.
//
// Example Usage:
//
//	sh, err := shell.New(cfg, logger, shell.Options{Version: version})
//	if err != nil {
//	    // configuration or tenant failure: exit non-zero
//	}
//	defer sh.Close()
//	err = sh.Run(ctx)
package shell
