package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/weatherkit/internal/config"
	"github.com/vzahanych/weatherkit/internal/server/handlers"
	"github.com/vzahanych/weatherkit/internal/server/middlewares"
	"github.com/vzahanych/weatherkit/internal/service"
	"github.com/vzahanych/weatherkit/pkg/telemetry"
	"go.uber.org/zap"
)

type Server struct {
	cfg     config.ServerConfig
	engine  *gin.Engine
	server  *http.Server
	service service.WeatherService
	ready   handlers.ReadinessCheck
	logger  *zap.Logger
	tele    *telemetry.Telemetry
}

// NewServer wires the gin engine around svc. ready backs /health/ready and may be nil.
func NewServer(cfg config.ServerConfig, svc service.WeatherService, ready handlers.ReadinessCheck, logger *zap.Logger, tele *telemetry.Telemetry) *Server {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	engine.Use(middlewares.RequestIDMiddleware())
	engine.Use(middlewares.LoggingMiddleware(logger, "/health/live", "/health/ready", "/metrics"))
	engine.Use(middlewares.RecoveryMiddleware(logger, true))
	engine.Use(middlewares.TelemetryMiddleware(logger, tele))
	engine.Use(middlewares.MetricsMiddleware())

	s := &Server{
		cfg:     cfg,
		engine:  engine,
		service: svc,
		ready:   ready,
		logger:  logger,
		tele:    tele,
	}
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Second,
	}

	return s
}

func (s *Server) setupRoutes() {
	weather := handlers.NewWeatherHandler(s.service, s.logger)
	v1 := s.engine.Group("/v1")
	v1.GET("/availability", weather.GetAvailability)
	v1.GET("/weather", weather.GetWeather)
	v1.GET("/report", weather.GetReport)

	// Health endpoints (Kubernetes friendly)
	health := handlers.NewHealthHandler(s.logger, s.ready)
	s.engine.GET("/health", health.Health)
	s.engine.GET("/health/live", health.Liveness)
	s.engine.GET("/health/ready", health.Readiness)

	s.engine.GET("/metrics", handlers.NewMetricsHandler().ServeMetrics)
}

// Handler exposes the routed engine, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start listens until Shutdown is called. A clean shutdown returns nil.
func (s *Server) Start() error {
	s.logger.Info("Starting server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	timeout := time.Duration(s.cfg.ShutdownTimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	s.logger.Info("Shutting down server")
	return s.server.Shutdown(ctx)
}
