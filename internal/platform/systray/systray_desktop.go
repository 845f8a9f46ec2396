//go:build desktop

package systray

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/GriffinCanCode/deskshell/internal/domain/tray"
	"github.com/GriffinCanCode/deskshell/internal/infrastructure/logging"
	esystray "github.com/energye/systray"
	"go.uber.org/zap"
)

// Host draws the tray with energye/systray
type Host struct {
	mu        sync.Mutex
	icon      []byte
	installed bool
	logger    *zap.Logger
}

// New creates the OS tray host
func New(icon []byte, logger *zap.Logger) tray.Host {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Host{icon: Icon(icon), logger: logger}
}

// Install starts the tray loop on its own goroutine. On darwin the loop
// would need the main thread, so Install refuses and the shell runs
// without a tray.
func (h *Host) Install(spec tray.Spec, events tray.Events) error {
	if !backgroundLoop(runtime.GOOS) {
		return fmt.Errorf("%w: %s", ErrMainThreadRequired, runtime.GOOS)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.installed {
		return errors.New("tray already installed")
	}
	h.installed = true

	go func() {
		defer logging.CrashHook(h.logger)
		esystray.Run(func() { h.onReady(spec, events) }, func() {
			h.logger.Debug("Tray loop exited")
		})
	}()
	return nil
}

// Remove stops the tray loop
func (h *Host) Remove() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.installed {
		return
	}
	h.installed = false
	esystray.Quit()
}

func (h *Host) onReady(spec tray.Spec, events tray.Events) {
	esystray.SetIcon(h.icon)
	esystray.SetTooltip(spec.Tooltip)

	// Left click toggles the window
	esystray.SetOnClick(func(menu esystray.IMenu) {
		events.IconClicked(tray.IconEvent{Button: tray.ButtonLeft, State: tray.StateUp})
	})
	esystray.SetOnRClick(func(menu esystray.IMenu) {
		events.IconClicked(tray.IconEvent{Button: tray.ButtonRight, State: tray.StateUp})
		menu.ShowMenu()
	})

	for i, item := range spec.Menu {
		if item.ID == tray.ActionQuit && i > 0 {
			esystray.AddSeparator()
		}
		id := string(item.ID)
		esystray.AddMenuItem(item.Label, item.Label).Click(func() {
			_ = events.MenuSelected(id)
		})
	}
}
