package rpc

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/sentium-labs/bridge-optimizer/optimizer/router"
)

var serverLog zerolog.Logger

func init() {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	serverLog = zerolog.New(out).With().Timestamp().Str("component", "rpc").Logger()
}

// SetLogger allows setting a custom logger.
func SetLogger(l zerolog.Logger) {
	serverLog = l.With().Str("component", "rpc").Logger()
}

// ServerConfig holds configuration for the HTTP API.
type ServerConfig struct {
	Address        string
	AllowedOrigins []string
	RatePerMinute  int // 0 disables rate limiting
	EnableMetrics  bool
}

// DefaultServerConfig returns a default server configuration.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Address:        "localhost:8080",
		AllowedOrigins: []string{"http://localhost:3000"},
		RatePerMinute:  0,
		EnableMetrics:  true,
	}
}

// Server exposes route scoring and selection over HTTP. Handlers only run the
// core in inference mode, so concurrent requests are safe as long as no
// training is in flight.
type Server struct {
	config     *ServerConfig
	httpServer *http.Server
	optimizer  *router.RouteOptimizer
}

// NewServer creates the HTTP server around the given optimizer.
func NewServer(config *ServerConfig, optimizer *router.RouteOptimizer) *Server {
	if config == nil {
		config = DefaultServerConfig()
	}

	s := &Server{config: config, optimizer: optimizer}

	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.Recoverer)

	if config.RatePerMinute > 0 {
		mux.Use(httprate.LimitByIP(config.RatePerMinute, time.Minute))
	}

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: config.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	})
	mux.Use(corsHandler.Handler)

	mux.Get("/healthz", s.handleHealth)
	mux.Post("/v1/score", s.handleScore)
	mux.Post("/v1/optimize", s.handleOptimize)

	if config.EnableMetrics {
		mux.Handle("/metrics", promhttp.Handler())
	}

	s.httpServer = &http.Server{
		Addr:              config.Address,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Start begins serving; it blocks until the server stops.
func (s *Server) Start() error {
	serverLog.Info().Str("address", s.config.Address).Msg("Starting optimizer API")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	serverLog.Info().Msg("Shutting down optimizer API")
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the configured mux, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
