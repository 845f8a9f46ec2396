// Package viewhost is the headless main window used when the shell runs
// without a native rendering engine. The embedded view lives in the
// user's browser and is driven through the event channel.
package viewhost

import (
	"errors"
	"sync"

	"github.com/GriffinCanCode/deskshell/internal/shared/types"
	"go.uber.org/zap"
)

// ErrDestroyed is returned by every operation after Destroy
var ErrDestroyed = errors.New("window destroyed")

// Emitter pushes frames to connected views
type Emitter interface {
	Emit(frame types.Frame) error
}

// Host tracks the main window's state in memory
type Host struct {
	mu        sync.Mutex
	visible   bool
	focused   bool
	destroyed bool
	reloads   int

	emitter Emitter
	logger  *zap.Logger
}

// New creates a visible window host. emitter may be nil.
func New(emitter Emitter, logger *zap.Logger) *Host {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Host{visible: true, emitter: emitter, logger: logger}
}

func (h *Host) Show() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.destroyed {
		return ErrDestroyed
	}
	h.visible = true
	return nil
}

func (h *Host) Hide() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.destroyed {
		return ErrDestroyed
	}
	h.visible = false
	h.focused = false
	return nil
}

func (h *Host) Focus() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.destroyed {
		return ErrDestroyed
	}
	h.focused = h.visible
	return nil
}

// Reload asks connected views to reload. With no emitter it only counts.
func (h *Host) Reload() error {
	h.mu.Lock()
	if h.destroyed {
		h.mu.Unlock()
		return ErrDestroyed
	}
	h.reloads++
	h.mu.Unlock()

	if h.emitter == nil {
		return nil
	}
	if err := h.emitter.Emit(types.Frame{Event: types.EventWindowReload}); err != nil {
		h.logger.Warn("Reload not delivered to every view", zap.Error(err))
	}
	return nil
}

func (h *Host) IsVisible() (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.destroyed {
		return false, ErrDestroyed
	}
	return h.visible, nil
}

// Focused reports whether the window last received focus while visible
func (h *Host) Focused() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.focused
}

// Reloads returns the number of reloads requested
func (h *Host) Reloads() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.reloads
}

// Destroy tears the window down
func (h *Host) Destroy() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.destroyed = true
	h.visible = false
	h.focused = false
}
