// Package server provides the HTTP API for the syntax service.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/mcpmoose/internal/syntax"
)

// Server serves mini-syntax snippets over HTTP.
type Server struct {
	echo    *echo.Echo
	syntax  *syntax.Service
	logger  *zap.Logger
	metrics *Metrics
	config  *Config
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
}

// NewServer creates the HTTP server around a loaded syntax service.
func NewServer(svc *syntax.Service, logger *zap.Logger, cfg *Config) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("syntax service cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{
			Host: "localhost",
			Port: 8000,
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	metrics := NewMetrics()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(metrics.Middleware())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	})

	s := &Server{
		echo:    e,
		syntax:  svc,
		logger:  logger,
		metrics: metrics,
		config:  cfg,
	}

	s.registerRoutes()

	return s, nil
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})))

	// Endpoint name kept from the original service for client compatibility.
	s.echo.POST("/get_syntax", s.handleGetSyntax)
}

// SyntaxRequest is the request body for POST /get_syntax.
type SyntaxRequest struct {
	Objects []string `json:"objects"`
}

// SyntaxReply is the response body for POST /get_syntax.
type SyntaxReply struct {
	Syntax string `json:"syntax"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// handleGetSyntax renders the mini syntax for the requested objects.
// Status mapping: 422 for an empty object list, 404 when any name is
// missing from the map, 400 for a malformed body.
func (s *Server) handleGetSyntax(c echo.Context) error {
	var req SyntaxRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid syntax request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	rendered, err := s.syntax.Render(req.Objects)
	if err != nil {
		var unknown *syntax.UnknownObjectsError
		switch {
		case errors.Is(err, syntax.ErrNoObjects):
			s.metrics.renderErrors.WithLabelValues("empty_list").Inc()
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		case errors.As(err, &unknown):
			s.metrics.renderErrors.WithLabelValues("unknown_object").Inc()
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "render failed")
		}
	}

	s.logger.Debug("rendered syntax",
		zap.Int("objects", len(req.Objects)),
		zap.Int("bytes", len(rendered)))

	return c.JSON(http.StatusOK, SyntaxReply{Syntax: rendered})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
