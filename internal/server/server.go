package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	// Registers the generated OpenAPI document with swag
	_ "github.com/ridwanfathin/rug-estimate-service/docs"
	"github.com/ridwanfathin/rug-estimate-service/internal/config"
	"github.com/ridwanfathin/rug-estimate-service/internal/handler"
	"github.com/ridwanfathin/rug-estimate-service/internal/middleware"
	"github.com/ridwanfathin/rug-estimate-service/internal/model"
)

const shutdownTimeout = 10 * time.Second

// HealthCheck reports whether a dependency is reachable
type HealthCheck func(ctx context.Context) error

// Server represents the HTTP server for the rug estimate service
type Server struct {
	router      *gin.Engine
	httpServer  *http.Server
	config      *config.Config
	logger      *slog.Logger
	healthCheck HealthCheck
}

// NewServer creates and configures a new server instance
func NewServer(cfg *config.Config, estimateHandler *handler.EstimateHandler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	// Create router
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.CORSOrigins))
	router.Use(middleware.RequestResponseLogger(logger, middleware.LoggerConfig{
		SkipPaths: []string{"/health"},
	}))

	// Create server
	server := &Server{
		router: router,
		config: cfg,
		logger: logger,
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}

	// Configure routes
	server.setupRoutes()

	var limiter gin.HandlerFunc
	if cfg.RateLimitPerMinute > 0 {
		counter := middleware.NewExpiringCounter(time.Minute, cfg.RateLimitMaxKeys)
		limiter = middleware.RateLimit(counter, cfg.RateLimitPerMinute)
	}
	if estimateHandler != nil {
		estimateHandler.RegisterRoutes(router, limiter)
	}

	return server
}

// SetHealthCheck sets the dependency probe used by /health
func (s *Server) SetHealthCheck(check HealthCheck) {
	s.healthCheck = check
}

// GetRouter returns the gin router instance
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// setupRoutes configures the routes that are not part of the API
func (s *Server) setupRoutes() {
	// Health check endpoint
	s.router.GET("/health", s.health)

	if !s.config.SwaggerEnabled {
		return
	}

	// API documentation endpoints
	// Access the Swagger UI at http://localhost:8080/api-docs/index.html
	swaggerHandler := ginSwagger.WrapHandler(swaggerFiles.Handler)
	s.router.GET("/api-docs/*any", swaggerHandler)

	s.router.GET("/api-docs", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/api-docs/index.html")
	})
}

func (s *Server) health(c *gin.Context) {
	storage := "disabled"
	if s.config.StorageConfigured() {
		storage = "configured"
	}

	if s.healthCheck != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.healthCheck(ctx); err != nil {
			s.logger.Warn("server.health.failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, model.HealthResponse{Status: "unavailable", Storage: storage})
			return
		}
	}
	c.JSON(http.StatusOK, model.HealthResponse{Status: "ok", Storage: storage})
}

// Start begins listening for requests and handles graceful shutdown
func (s *Server) Start() error {
	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)

	// Start server in a goroutine
	go func() {
		s.logger.Info("server.listen", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal or a listener failure
	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case sig := <-quit:
		s.logger.Info("server.shutdown", "signal", sig.String())
	}

	if err := s.Shutdown(); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	s.logger.Info("server.stopped")
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
