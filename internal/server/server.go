package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/pageza/wod-analyzer/backend/config"
	"github.com/pageza/wod-analyzer/backend/internal/api"
	"github.com/pageza/wod-analyzer/backend/internal/middleware"
)

const healthTimeout = 3 * time.Second

// HealthChecker reports whether a backing store is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	health HealthChecker
}

// New builds the router with the ambient middleware, /health, /metrics and
// the API routes. health and gatherer may be nil.
func New(cfg *config.Config, services api.Services, health HealthChecker, gatherer prometheus.Gatherer) *Server {
	router := gin.New()
	router.Use(middleware.RequestLogger(services.Metrics))
	router.Use(middleware.PanicRecovery(services.Metrics))
	router.Use(middleware.CORS(cfg.CORSOrigins))

	s := &Server{
		router: router,
		health: health,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}

	router.GET("/health", s.healthCheck)
	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
	api.RegisterRoutes(router, services)

	return s
}

// Handler exposes the router, mostly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthCheck(c *gin.Context) {
	if s.health != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()
		if err := s.health.HealthCheck(ctx); err != nil {
			log.WithError(err).Warn("health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": err.Error(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "ok",
	})
}

// Start listens until Shutdown is called. It returns nil after a clean shutdown.
func (s *Server) Start() error {
	log.WithField("addr", s.http.Addr).Info("starting server")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
