package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	api "github.com/GriffinCanCode/TermBridge/internal/api/http"
	"github.com/GriffinCanCode/TermBridge/internal/api/middleware"
	"github.com/GriffinCanCode/TermBridge/internal/infrastructure/config"
	"github.com/GriffinCanCode/TermBridge/internal/infrastructure/logging"
	"github.com/GriffinCanCode/TermBridge/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/TermBridge/internal/infrastructure/resilience"
	provider "github.com/GriffinCanCode/TermBridge/internal/providers/terminal"
	"github.com/GriffinCanCode/TermBridge/internal/terminal"
)

// Server wraps the HTTP server and its dependencies
type Server struct {
	cfg      *config.Config
	logger   *logging.Logger
	router   *gin.Engine
	registry *terminal.Registry
	cleanup  *terminal.Coordinator
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	platform, err := terminal.DetectPlatform()
	if err != nil {
		return nil, err
	}
	logger.Info("platform detected", zap.String("platform", string(platform)))

	launcherCfg := terminal.DefaultLauncherConfig()
	if cfg.Terminal.TempDir != "" {
		launcherCfg.ScopeDir = cfg.Terminal.TempDir
	}
	launcherCfg.LaunchTimeout = cfg.Terminal.LaunchTimeout
	launcherCfg.PollInterval = cfg.Terminal.PollInterval
	launcherCfg.DefaultLines = cfg.Terminal.DefaultLines
	launcherCfg.MaxLines = cfg.Terminal.MaxLines
	launcherCfg.Retry = resilience.Settings{
		Attempts: cfg.Terminal.LaunchRetries,
		Backoff:  resilience.DefaultSettings().Backoff,
	}

	launcher, err := terminal.NewLauncher(platform, launcherCfg, logger)
	if err != nil {
		return nil, err
	}

	promRegistry := prometheus.NewRegistry()
	metrics := monitoring.NewMetricsWithRegistry(promRegistry)

	registry := terminal.NewRegistry(launcher, logger).WithMetrics(metrics)
	cleanup := terminal.NewCoordinator(registry, launcherCfg.ScopeDir, logger)
	cleanup.Register()

	terminalProvider := provider.NewProvider(registry)
	handlers := api.NewHandlers(registry, terminalProvider)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}
	router.Use(monitoring.Middleware(metrics))

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{})))

	// Session management
	router.POST("/terminals", handlers.CreateTerminal)
	router.GET("/terminals", handlers.ListTerminals)
	router.POST("/terminals/:id/input", handlers.SendInput)
	router.GET("/terminals/:id/output", handlers.GetOutput)
	router.DELETE("/terminals/:id", handlers.CloseTerminal)

	// Tool surface
	router.GET("/services", handlers.ListServices)
	router.POST("/services/execute", handlers.ExecuteService)

	return &Server{
		cfg:      cfg,
		logger:   logger,
		router:   router,
		registry: registry,
		cleanup:  cleanup,
	}, nil
}

// Run starts the server and blocks until it stops.
func (s *Server) Run() error {
	addr := s.cfg.Server.Host + ":" + s.cfg.Server.Port
	s.logger.Info("starting termbridge", zap.String("addr", addr))
	if err := s.router.Run(addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close tears down every live session and removes artifacts.
func (s *Server) Close() error {
	s.cleanup.Shutdown()
	return s.logger.Sync()
}
