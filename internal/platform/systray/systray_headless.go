//go:build !desktop

package systray

import (
	"errors"
	"sync"

	"github.com/GriffinCanCode/deskshell/internal/domain/tray"
	"go.uber.org/zap"
)

// ErrNotInstalled is returned when replaying events before Install
var ErrNotInstalled = errors.New("tray not installed")

// Host is a headless tray. It keeps the installed spec and forwards
// replayed interactions to the controller.
type Host struct {
	mu     sync.Mutex
	spec   *tray.Spec
	events tray.Events
	logger *zap.Logger
}

// New creates the headless tray host. The icon is ignored.
func New(_ []byte, logger *zap.Logger) tray.Host {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Host{logger: logger}
}

// Install records spec and events
func (h *Host) Install(spec tray.Spec, events tray.Events) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.spec != nil {
		return errors.New("tray already installed")
	}
	h.spec = &spec
	h.events = events
	h.logger.Info("Headless tray installed", zap.String("id", spec.ID), zap.Int("items", len(spec.Menu)))
	return nil
}

// Remove forgets the installed tray
func (h *Host) Remove() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.spec = nil
	h.events = nil
}

// Installed returns the installed spec, if any
func (h *Host) Installed() (tray.Spec, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.spec == nil {
		return tray.Spec{}, false
	}
	return *h.spec, true
}

// Select replays a menu selection
func (h *Host) Select(id string) error {
	events, err := h.target()
	if err != nil {
		return err
	}
	return events.MenuSelected(id)
}

// Click replays an icon click
func (h *Host) Click(ev tray.IconEvent) error {
	events, err := h.target()
	if err != nil {
		return err
	}
	events.IconClicked(ev)
	return nil
}

func (h *Host) target() (tray.Events, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.events == nil {
		return nil, ErrNotInstalled
	}
	return h.events, nil
}
