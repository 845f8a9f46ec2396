// Package tray maps system tray interactions onto window lifecycle operations.
package tray

import (
	"errors"
	"fmt"

	"github.com/GriffinCanCode/deskshell/internal/domain/window"
	"github.com/GriffinCanCode/deskshell/internal/infrastructure/monitoring"
	"go.uber.org/zap"
)

// ID of the single tray icon
const ID = "main-tray"

// DefaultTooltip is used when no tooltip is configured
const DefaultTooltip = "Desktop"

// ErrUnknownMenuItem is returned for menu ids outside the fixed menu
var ErrUnknownMenuItem = errors.New("unknown tray menu item")

// Action is one fixed tray menu entry
type Action string

const (
	ActionShow   Action = "show"
	ActionHide   Action = "hide"
	ActionReload Action = "reload"
	ActionQuit   Action = "quit"
)

// MenuItem is a label bound to an action id
type MenuItem struct {
	ID    Action
	Label string
}

// Menu returns the static tray menu in display order
func Menu() []MenuItem {
	return []MenuItem{
		{ID: ActionShow, Label: "Show"},
		{ID: ActionHide, Label: "Hide"},
		{ID: ActionReload, Label: "Reload"},
		{ID: ActionQuit, Label: "Quit"},
	}
}

// MouseButton of an icon click
type MouseButton int

const (
	ButtonLeft MouseButton = iota
	ButtonRight
	ButtonMiddle
)

// ButtonState of an icon click
type ButtonState int

const (
	StateDown ButtonState = iota
	StateUp
)

// IconEvent is a click on the tray icon
type IconEvent struct {
	Button MouseButton
	State  ButtonState
}

// Spec is everything a host needs to draw the tray
type Spec struct {
	ID      string
	Tooltip string
	Menu    []MenuItem
}

// Events receives tray interactions from a host's event loop
type Events interface {
	MenuSelected(id string) error
	IconClicked(ev IconEvent)
}

// Host installs the tray icon on the OS
type Host interface {
	Install(spec Spec, events Events) error
	Remove()
}

// WindowOps is the subset of window.Manager the tray drives
type WindowOps interface {
	Show() error
	Hide() error
	Reload() error
	Toggle() (window.Visibility, error)
	Quit()
}

// Options configures the controller
type Options struct {
	Tooltip string
}

// Controller dispatches tray events
type Controller struct {
	windows WindowOps
	host    Host
	opts    Options
	logger  *zap.Logger
	metrics *monitoring.Metrics
}

// NewController creates a tray controller
func NewController(windows WindowOps, host Host, opts Options, logger *zap.Logger) *Controller {
	if opts.Tooltip == "" {
		opts.Tooltip = DefaultTooltip
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		windows: windows,
		host:    host,
		opts:    opts,
		logger:  logger,
	}
}

// WithMetrics adds metrics tracking to the controller
func (c *Controller) WithMetrics(metrics *monitoring.Metrics) *Controller {
	c.metrics = metrics
	return c
}

// Spec returns the tray description handed to the host
func (c *Controller) Spec() Spec {
	return Spec{ID: ID, Tooltip: c.opts.Tooltip, Menu: Menu()}
}

// Install puts the tray on screen. Failure is logged and returned; callers
// may continue without a tray.
func (c *Controller) Install() error {
	if err := c.host.Install(c.Spec(), c); err != nil {
		c.logger.Error("Failed to install tray", zap.Error(err))
		return fmt.Errorf("install tray: %w", err)
	}
	c.logger.Info("Tray installed", zap.String("tooltip", c.opts.Tooltip))
	return nil
}

// Remove takes the tray off screen
func (c *Controller) Remove() {
	c.host.Remove()
}

// MenuSelected runs the action bound to id
func (c *Controller) MenuSelected(id string) error {
	c.record("menu", id)

	var err error
	switch Action(id) {
	case ActionShow:
		err = c.windows.Show()
	case ActionHide:
		err = c.windows.Hide()
	case ActionReload:
		err = c.windows.Reload()
	case ActionQuit:
		c.windows.Quit()
	default:
		c.logger.Warn("Ignoring unknown tray menu item", zap.String("id", id))
		return fmt.Errorf("%w: %q", ErrUnknownMenuItem, id)
	}

	if err != nil {
		c.logger.Warn("Tray action failed", zap.String("id", id), zap.Error(err))
	}
	return err
}

// IconClicked toggles the window on a left button release. Every other
// icon event is ignored.
func (c *Controller) IconClicked(ev IconEvent) {
	if ev.Button != ButtonLeft || ev.State != StateUp {
		return
	}
	c.record("icon", "left_up")

	if _, err := c.windows.Toggle(); err != nil {
		c.logger.Warn("Tray toggle failed", zap.Error(err))
	}
}

func (c *Controller) record(kind, id string) {
	if c.metrics == nil {
		return
	}
	// bound label cardinality
	switch Action(id) {
	case ActionShow, ActionHide, ActionReload, ActionQuit:
	default:
		if kind == "menu" {
			id = "unknown"
		}
	}
	c.metrics.RecordTrayEvent(kind, id)
}
