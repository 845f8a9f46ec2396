package window

import (
	"fmt"
	"sync"

	"github.com/GriffinCanCode/deskshell/internal/infrastructure/monitoring"
	"go.uber.org/zap"
)

// Actions reported to metrics and observers
const (
	ActionShow   = "show"
	ActionHide   = "hide"
	ActionReload = "reload"
	ActionToggle = "toggle"
	ActionQuit   = "quit"
	ActionClose  = "close"
)

// Manager serialises window lifecycle operations
type Manager struct {
	mu       sync.Mutex
	host     Host
	behavior CloseBehavior
	quit     func()
	quitOnce sync.Once

	logger   *zap.Logger
	metrics  *monitoring.Metrics
	observer Observer
}

// NewManager creates a manager. terminate is invoked at most once, by Quit.
func NewManager(host Host, behavior CloseBehavior, terminate func(), logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if terminate == nil {
		terminate = func() {}
	}
	return &Manager{
		host:     host,
		behavior: behavior,
		quit:     terminate,
		logger:   logger,
	}
}

// WithMetrics adds metrics tracking to the manager
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// WithObserver registers a callback for state changes
func (m *Manager) WithObserver(o Observer) *Manager {
	m.observer = o
	return m
}

// Behavior returns the configured close behavior
func (m *Manager) Behavior() CloseBehavior {
	return m.behavior
}

// Show makes the window visible and gives it focus
func (m *Manager) Show() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.finish(ActionShow, Visible, m.show())
}

// Hide hides the window without destroying it
func (m *Manager) Hide() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.finish(ActionHide, Hidden, m.hide())
}

// Reload reloads the embedded content. Visibility is unchanged.
func (m *Manager) Reload() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.host.Reload()
	return m.finish(ActionReload, m.visibility(), err)
}

// Toggle hides a visible window and shows a hidden one. The check and the
// mutation happen under the same lock.
func (m *Manager) Toggle() (Visibility, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := Visible
	var err error
	if m.visibility() == Visible {
		next = Hidden
		err = m.hide()
	} else {
		err = m.show()
	}
	return next, m.finish(ActionToggle, next, err)
}

// Visibility reports the host's current visibility. A failed query counts
// as hidden.
func (m *Manager) Visibility() Visibility {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.visibility()
}

// Quit terminates the process. Repeated calls are no-ops.
func (m *Manager) Quit() {
	m.quitOnce.Do(func() {
		m.logger.Info("Quitting application")
		if m.metrics != nil {
			m.metrics.RecordWindow(ActionQuit, nil)
		}
		m.quit()
	})
}

// HandleCloseRequest resolves a user-initiated close of the main window
func (m *Manager) HandleCloseRequest() CloseOutcome {
	outcome := CloseOutcome{Behavior: m.behavior}

	switch m.behavior {
	case HideToTray:
		outcome.Prevented = true
		if err := m.Hide(); err != nil {
			m.logger.Warn("Failed to hide window on close", zap.Error(err))
		}
	default:
		m.Quit()
	}

	m.logger.Debug("Close requested",
		zap.Stringer("behavior", m.behavior),
		zap.Bool("prevented", outcome.Prevented))
	if m.metrics != nil {
		m.metrics.RecordWindow(ActionClose, nil)
	}
	return outcome
}

// Must hold mu
func (m *Manager) show() error {
	if err := m.host.Show(); err != nil {
		return fmt.Errorf("show window: %w", err)
	}
	if err := m.host.Focus(); err != nil {
		return fmt.Errorf("focus window: %w", err)
	}
	return nil
}

// Must hold mu
func (m *Manager) hide() error {
	if err := m.host.Hide(); err != nil {
		return fmt.Errorf("hide window: %w", err)
	}
	return nil
}

// Must hold mu
func (m *Manager) visibility() Visibility {
	visible, err := m.host.IsVisible()
	if err != nil {
		m.logger.Debug("Visibility query failed", zap.Error(err))
		return Hidden
	}
	if visible {
		return Visible
	}
	return Hidden
}

// finish records the outcome and notifies the observer. Must hold mu, so
// observers see changes in the order they were applied and must not call
// back into the manager.
func (m *Manager) finish(action string, vis Visibility, err error) error {
	if m.metrics != nil {
		m.metrics.RecordWindow(action, err)
	}
	if err != nil {
		m.logger.Warn("Window operation failed", zap.String("action", action), zap.Error(err))
		return err
	}

	if m.metrics != nil {
		m.metrics.SetWindowVisible(vis == Visible)
	}
	if m.observer != nil {
		m.observer(StateChange{Action: action, Visibility: vis, Visible: vis == Visible})
	}
	return nil
}
