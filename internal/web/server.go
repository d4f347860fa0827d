// Package web provides the HTTP API for invest-compare.
package web

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/evcraddock/invest-compare/internal/auth"
	"github.com/evcraddock/invest-compare/internal/comparison"
	"github.com/evcraddock/invest-compare/internal/logging"
)

// Config holds the optional parts of the server.
type Config struct {
	// APIKeys enables bearer-token auth on /api/ routes when set.
	APIKeys *auth.APIKeyStore
	// Gatherer backs /metrics. Defaults to the global registry.
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger
	// CreatePerMinute limits comparison creation per client IP; 0 disables it.
	CreatePerMinute int
	CreateBurst     int
}

// Server is the API HTTP server.
type Server struct {
	service *comparison.Service
	limiter *IPLimiter
	log     *zap.Logger
	mux     *http.ServeMux
	handler http.Handler
}

// NewServer creates an API server around a comparison service.
func NewServer(service *comparison.Service, cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}

	s := &Server{
		service: service,
		log:     cfg.Logger,
		mux:     http.NewServeMux(),
	}
	if cfg.CreatePerMinute > 0 {
		s.limiter = NewIPLimiter(cfg.CreatePerMinute, cfg.CreateBurst)
	}

	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	s.mux.HandleFunc("/api/comparisons", s.handleAPIComparisons)
	s.mux.HandleFunc("/api/comparisons/", s.handleAPIComparisons)

	var h http.Handler = s.mux
	if cfg.APIKeys != nil {
		h = auth.RequireAPIKey(cfg.APIKeys, cfg.Logger, h)
	}
	s.handler = logging.RequestLogger(cfg.Logger, h)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Close stops background work started by the server.
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	apiJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}
