package http

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/GriffinCanCode/deskshell/internal/domain/window"
	"github.com/GriffinCanCode/deskshell/internal/service"
	"github.com/GriffinCanCode/deskshell/internal/shared/types"
	"github.com/gin-gonic/gin"
)

// maxArgsSize bounds a command's JSON arguments
const maxArgsSize = 1 << 20

// WindowControl is the window lifecycle surface the view host drives
type WindowControl interface {
	Show() error
	Hide() error
	Reload() error
	Toggle() (window.Visibility, error)
	Visibility() window.Visibility
	HandleCloseRequest() window.CloseOutcome
}

// ViewCounter reports connected views
type ViewCounter interface {
	Count() int
}

// Handlers contains all HTTP handlers
type Handlers struct {
	registry *service.Registry
	windows  WindowControl
	views    ViewCounter
	version  string
	started  time.Time
}

// NewHandlers creates a new handler set. windows and views may be nil.
func NewHandlers(registry *service.Registry, windows WindowControl, views ViewCounter, version string) *Handlers {
	return &Handlers{
		registry: registry,
		windows:  windows,
		views:    views,
		version:  version,
		started:  time.Now(),
	}
}

// Root handles the liveness probe
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "deskshell",
		"version": h.version,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	body := gin.H{
		"status":   "healthy",
		"uptime":   time.Since(h.started).Round(time.Second).String(),
		"commands": h.registry.Stats(),
	}
	if h.windows != nil {
		body["window"] = gin.H{"visibility": h.windows.Visibility().String()}
	}
	if h.views != nil {
		body["views"] = h.views.Count()
	}
	c.JSON(http.StatusOK, body)
}

// ListCommands lists the command surface
func (h *Handlers) ListCommands(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"commands": h.registry.List()})
}

// Invoke runs one command
func (h *Handlers) Invoke(c *gin.Context) {
	name := c.Param("command")

	args, err := io.ReadAll(io.LimitReader(c.Request.Body, maxArgsSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, types.Failure(service.CodeInvalidArgument, err))
		return
	}
	if len(args) > maxArgsSize {
		c.JSON(http.StatusRequestEntityTooLarge, types.Failure(service.CodeInvalidArgument, nil))
		return
	}

	result := h.registry.Invoke(c.Request.Context(), name, args)
	c.JSON(StatusFor(result), result)
}

// WindowAction applies a lifecycle action requested by the view host
func (h *Handlers) WindowAction(c *gin.Context) {
	if h.windows == nil {
		c.JSON(http.StatusNotFound, types.Failure(service.CodeUnknownCommand, nil))
		return
	}

	var err error
	switch action := c.Param("action"); action {
	case window.ActionShow:
		err = h.windows.Show()
	case window.ActionHide:
		err = h.windows.Hide()
	case window.ActionReload:
		err = h.windows.Reload()
	case window.ActionToggle:
		_, err = h.windows.Toggle()
	case window.ActionClose:
		outcome := h.windows.HandleCloseRequest()
		c.JSON(http.StatusOK, types.Success(gin.H{
			"prevented": outcome.Prevented,
			"behavior":  outcome.Behavior.String(),
		}))
		return
	default:
		c.JSON(http.StatusNotFound, types.Failure(service.CodeUnknownCommand, fmt.Errorf("%w: window %s", service.ErrUnknownCommand, action)))
		return
	}

	if err != nil {
		c.JSON(http.StatusInternalServerError, types.Failure(service.CodeInternal, err))
		return
	}
	c.JSON(http.StatusOK, types.Success(gin.H{"visibility": h.windows.Visibility().String()}))
}

// StatusFor maps a result code onto an HTTP status
func StatusFor(r *types.Result) int {
	if r.Success {
		return http.StatusOK
	}
	switch r.Code {
	case service.CodeInvalidArgument:
		return http.StatusBadRequest
	case service.CodeUnknownCommand:
		return http.StatusNotFound
	case service.CodeStoreUnavailable, service.CodeForwardFailed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
