package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Fchery87/Rapid-CRM/internal/core/domain"
	"github.com/Fchery87/Rapid-CRM/internal/core/ports/driven"
	"github.com/Fchery87/Rapid-CRM/internal/core/ports/driving"
	"github.com/Fchery87/Rapid-CRM/internal/metrics"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// DefaultMaxUploadBytes caps multipart uploads to POST /api/v1/parse
const DefaultMaxUploadBytes = 10 << 20

// Server represents the HTTP server
type Server struct {
	httpServer     *http.Server
	router         *http.ServeMux
	version        string
	maxUploadBytes int64
	corsOrigins    []string
	metrics        *metrics.Metrics
	logger         *slog.Logger

	// Services
	parserService driving.ParserService
	reportService driving.ReportService

	// Infrastructure
	credentials driven.CredentialVerifier
	checks      map[string]Pinger // readiness checks by name (postgres, redis)
}

// Config holds server configuration
type Config struct {
	Host           string
	Port           int
	Version        string
	MaxUploadBytes int64
	CORSOrigins    []string
	Metrics        *metrics.Metrics // Optional: serves /metrics and instruments routes
	Logger         *slog.Logger
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:           "0.0.0.0",
		Port:           8080,
		Version:        "dev",
		MaxUploadBytes: DefaultMaxUploadBytes,
	}
}

// NewServer creates a new HTTP server
func NewServer(
	cfg Config,
	parserService driving.ParserService,
	reportService driving.ReportService,
	credentials driven.CredentialVerifier,
	checks map[string]Pinger, // can be nil
) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}

	s := &Server{
		router:         http.NewServeMux(),
		version:        cfg.Version,
		maxUploadBytes: cfg.MaxUploadBytes,
		corsOrigins:    cfg.CORSOrigins,
		metrics:        cfg.Metrics,
		logger:         cfg.Logger,
		parserService:  parserService,
		reportService:  reportService,
		credentials:    credentials,
		checks:         checks,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	s.setupRoutes()
	return s
}

// NewMetricsServer creates a server exposing only health, readiness and
// metrics, for worker processes that do not serve the API
func NewMetricsServer(cfg Config, checks map[string]Pinger) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	s := &Server{
		router:  http.NewServeMux(),
		version: cfg.Version,
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
		checks:  checks,
	}
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)
	if s.metrics != nil {
		s.router.Handle("GET /metrics", s.metrics.Handler())
	}
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	authMiddleware := NewAuthMiddleware(s.credentials)

	// Health endpoints (no auth)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)
	s.router.HandleFunc("GET /swagger/doc.json", s.handleSwaggerDoc)
	if s.metrics != nil {
		s.router.Handle("GET /metrics", s.metrics.Handler())
	}

	// Parse endpoints
	s.router.Handle("POST /api/v1/parse",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleParse), domain.ScopeParse))
	s.router.Handle("POST /api/v1/parse-from-url",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleParseFromURL), domain.ScopeParse))
	s.router.Handle("POST /api/v1/parse-jobs",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleCreateParseJob), domain.ScopeParse))
	s.router.Handle("GET /api/v1/parse-jobs/{id}",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleGetParseJob), domain.ScopeRead))

	// Report endpoints
	s.router.Handle("GET /api/v1/reports",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleListReports), domain.ScopeRead))
	s.router.Handle("GET /api/v1/reports/{id}",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleGetReport), domain.ScopeRead))
	s.router.Handle("GET /api/v1/reports/{id}/audit",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleGetReportAudit), domain.ScopeRead))

	// Vendor profiles
	s.router.Handle("GET /api/v1/vendors",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleListVendors), domain.ScopeRead))
}

// Handler returns the router wrapped in recovery, request id, logging,
// metrics and CORS middleware
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.router
	if len(s.corsOrigins) > 0 {
		h = NewCORSMiddleware(s.corsOrigins).Handler(h)
	}
	if s.metrics != nil {
		h = NewMetricsMiddleware(s.metrics).Handler(h)
	}
	h = NewLoggingMiddleware(s.logger).Handler(h)
	h = NewRequestIDMiddleware().Handler(h)
	return NewRecoveryMiddleware(s.logger).Handler(h)
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting http server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("http server stopped")
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
