package shell

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	apihttp "github.com/GriffinCanCode/deskshell/internal/api/http"
	"github.com/GriffinCanCode/deskshell/internal/api/middleware"
	"github.com/GriffinCanCode/deskshell/internal/api/ws"
	"github.com/GriffinCanCode/deskshell/internal/domain/notify"
	"github.com/GriffinCanCode/deskshell/internal/domain/securestore"
	"github.com/GriffinCanCode/deskshell/internal/domain/tenant"
	"github.com/GriffinCanCode/deskshell/internal/domain/tray"
	"github.com/GriffinCanCode/deskshell/internal/domain/window"
	"github.com/GriffinCanCode/deskshell/internal/infrastructure/config"
	"github.com/GriffinCanCode/deskshell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/deskshell/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/deskshell/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/deskshell/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/deskshell/internal/platform/autolaunch"
	"github.com/GriffinCanCode/deskshell/internal/platform/opener"
	"github.com/GriffinCanCode/deskshell/internal/platform/systray"
	"github.com/GriffinCanCode/deskshell/internal/platform/viewhost"
	"github.com/GriffinCanCode/deskshell/internal/service"
	"github.com/GriffinCanCode/deskshell/internal/shared/types"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// Options overrides platform collaborators, mainly for tests
type Options struct {
	// BaseDir holds the config directory. Defaults to the executable's directory.
	BaseDir    string
	Version    string
	TrayHost   tray.Host
	AutoLaunch autolaunch.Manager
	Opener     service.URLOpener
	// AppName names the launch-at-login entry
	AppName string
}

// Shell owns every component for the lifetime of the process
type Shell struct {
	cfg      *config.Config
	logger   *logging.Logger
	metrics  *monitoring.Metrics
	tracer   *tracing.Tracer
	resolved *tenant.Resolved

	store    *securestore.Store
	hub      *ws.Hub
	view     *viewhost.Host
	windows  *window.Manager
	tray     *tray.Controller
	registry *service.Registry
	router   *gin.Engine

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
	ready    chan struct{}

	quit      chan struct{}
	quitOnce  sync.Once
	closeOnce sync.Once
}

// New resolves the tenant configuration and builds every component.
// Configuration and tenant errors are returned before anything starts.
func New(cfg *config.Config, logger *logging.Logger, opts Options) (*Shell, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if opts.BaseDir == "" {
		opts.BaseDir = config.ExecutableDir()
	}
	if opts.AppName == "" {
		opts.AppName = cfg.Desktop.TrayTooltip
	}

	logger.Info("Initializing desktop shell",
		zap.String("env", cfg.Desktop.Env),
		zap.String("tenant_override", cfg.Desktop.Tenant),
		zap.String("bridge_addr", cfg.Bridge.Addr),
	)

	resolver := tenant.NewResolver(opts.BaseDir, logger.Component("tenant"))
	resolved, err := resolver.Resolve(cfg.Desktop.Env, cfg.Desktop.Tenant)
	if err != nil {
		return nil, err
	}
	logger.Info("Tenant resolved",
		zap.String("tenant", resolved.TenantID),
		zap.String("app_url", resolved.AppURL),
		zap.String("source", string(resolved.Source)),
	)

	s := &Shell{
		cfg:      cfg,
		logger:   logger,
		metrics:  monitoring.NewMetrics(),
		resolved: resolved,
		ready:    make(chan struct{}),
		quit:     make(chan struct{}),
	}

	origin := middleware.Origin(resolved.AppURL)

	s.tracer = tracing.New(logger.Component("trace"))
	s.store = securestore.New(logger.Component("store")).WithMetrics(s.metrics)
	s.hub = ws.NewHub(ws.Options{AllowedOrigins: []string{origin}}, logger.Component("bridge")).WithMetrics(s.metrics)
	s.view = viewhost.New(s.hub, logger.Component("view"))

	s.windows = window.NewManager(s.view, window.DefaultCloseBehavior(), s.requestQuit, logger.Component("window")).
		WithMetrics(s.metrics).
		WithObserver(s.emitWindowState)

	breaker := resilience.New("notify", resilience.Settings{
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to))
		},
	})
	bridge := notify.NewBridge(s.hub, breaker, logger.Component("notify")).WithMetrics(s.metrics)

	if opts.AutoLaunch == nil {
		opts.AutoLaunch = autolaunch.New(opts.AppName)
	}
	if opts.Opener == nil {
		opts.Opener = opener.New(logger.Component("opener"))
	}

	s.registry = service.NewRegistry(logger.Component("commands")).WithMetrics(s.metrics).WithTracer(s.tracer)
	if err := service.RegisterCommands(s.registry, service.Dependencies{
		Config:     resolver,
		Env:        cfg.Desktop.Env,
		Tenant:     cfg.Desktop.Tenant,
		Store:      s.store,
		Notifier:   bridge,
		AutoLaunch: opts.AutoLaunch,
		Opener:     opts.Opener,
	}); err != nil {
		return nil, fmt.Errorf("register commands: %w", err)
	}

	trayHost := opts.TrayHost
	if trayHost == nil {
		trayHost = systray.New(nil, logger.Component("systray"))
	}
	s.tray = tray.NewController(s.windows, trayHost, tray.Options{Tooltip: cfg.Desktop.TrayTooltip}, logger.Component("tray")).
		WithMetrics(s.metrics)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	var rateLimit *middleware.RateLimitConfig
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		rateLimit = &middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}
	}

	var origins []string
	if origin != "" {
		origins = append(origins, origin)
	}
	s.router = apihttp.NewRouter(apihttp.RouterConfig{
		Handlers:  apihttp.NewHandlers(s.registry, s.windows, s.hub, opts.Version),
		Hub:       s.hub,
		Metrics:   s.metrics,
		Tracer:    s.tracer,
		Logger:    logger.Component("bridge"),
		CORS:      middleware.DefaultCORSConfig(origins...),
		RateLimit: rateLimit,
	})

	logger.Info("Shell initialized successfully")
	return s, nil
}

// Resolved returns the tenant selected at startup
func (s *Shell) Resolved() *tenant.Resolved { return s.resolved }

// Windows returns the window lifecycle manager
func (s *Shell) Windows() *window.Manager { return s.windows }

// Tray returns the tray controller
func (s *Shell) Tray() *tray.Controller { return s.tray }

// Registry returns the command registry
func (s *Shell) Registry() *service.Registry { return s.registry }

// Router returns the bridge router
func (s *Shell) Router() *gin.Engine { return s.router }

// Addr returns the bridge address once Run is listening
func (s *Shell) Addr() string {
	<-s.ready
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run installs the tray and serves the bridge until ctx is cancelled or
// the user quits. A tray failure is logged and the shell keeps running.
func (s *Shell) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Bridge.Addr)
	if err != nil {
		close(s.ready)
		return fmt.Errorf("listen on %s: %w", s.cfg.Bridge.Addr, err)
	}

	s.mu.Lock()
	s.listener = ln
	s.server = &http.Server{Handler: s.router, ReadHeaderTimeout: 10 * time.Second}
	srv := s.server
	s.mu.Unlock()

	if err := s.tray.Install(); err != nil {
		s.logger.Warn("Continuing without tray", zap.Error(err))
	}
	close(s.ready)

	errCh := make(chan error, 1)
	go func() {
		defer logging.CrashHook(s.logger.Logger)
		s.logger.Info("Starting bridge", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutdown requested")
	case <-s.quit:
		s.logger.Info("Quit requested")
	case err := <-errCh:
		return fmt.Errorf("bridge: %w", err)
	}
	return nil
}

// Close releases every component. It is safe to call more than once.
func (s *Shell) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.logger.Info("Shutting down shell...")

		s.tray.Remove()
		s.hub.Close()
		s.store.Close()
		s.view.Destroy()

		s.mu.Lock()
		srv := s.server
		s.mu.Unlock()
		if srv != nil {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if shutdownErr := srv.Shutdown(ctx); shutdownErr != nil {
				s.logger.Error("Failed to stop bridge", zap.Error(shutdownErr))
				err = fmt.Errorf("failed to stop bridge: %w", shutdownErr)
			}
		}

		s.tracer.Close()
		_ = s.logger.Sync()
	})
	return err
}

// Done is closed once the user quits
func (s *Shell) Done() <-chan struct{} { return s.quit }

func (s *Shell) requestQuit() {
	s.quitOnce.Do(func() { close(s.quit) })
}

func (s *Shell) emitWindowState(change window.StateChange) {
	frame := types.Frame{Event: types.EventWindowState, Payload: change}
	if err := s.hub.Emit(frame); err != nil {
		s.logger.Debug("Window state not delivered to every view", zap.Error(err))
	}
}
