package http

import (
	"github.com/GriffinCanCode/deskshell/internal/api/middleware"
	"github.com/GriffinCanCode/deskshell/internal/api/ws"
	"github.com/GriffinCanCode/deskshell/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/deskshell/internal/infrastructure/tracing"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouterConfig collects what the bridge router is built from
type RouterConfig struct {
	Handlers  *Handlers
	Hub       *ws.Hub
	Metrics   *monitoring.Metrics
	Tracer    *tracing.Tracer
	Logger    *zap.Logger
	CORS      middleware.CORSConfig
	RateLimit *middleware.RateLimitConfig // nil disables limiting
}

// NewRouter builds the bridge's gin engine
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(middleware.Recovery(logger))
	if cfg.Tracer != nil {
		router.Use(tracing.HTTPMiddleware(cfg.Tracer))
	}
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS(cfg.CORS))
	if cfg.Metrics != nil {
		router.Use(monitoring.Middleware(cfg.Metrics))
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	router.GET("/", cfg.Handlers.Root)
	router.GET("/health", cfg.Handlers.Health)
	if cfg.Hub != nil {
		events := []gin.HandlerFunc{cfg.Hub.HandleConnection}
		if cfg.RateLimit != nil {
			events = append([]gin.HandlerFunc{middleware.GlobalRateLimit(*cfg.RateLimit)}, events...)
		}
		router.GET("/events", events...)
	}

	commands := router.Group("/")
	if cfg.RateLimit != nil {
		commands.Use(middleware.RateLimit(*cfg.RateLimit))
	}
	commands.GET("/commands", cfg.Handlers.ListCommands)
	commands.POST("/invoke/:command", cfg.Handlers.Invoke)
	commands.POST("/window/:action", cfg.Handlers.WindowAction)

	return router
}
