// Package server exposes the daemon's local HTTP API: health, manual
// checks, settings, and test notifications.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/benvon/dayflow/internal/config"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"
)

// Engine is the scheduling surface the API drives
type Engine interface {
	CheckNow(ctx context.Context, ignoreGates bool) bool
	SendTestNotification()
}

// HealthChecker probes one dependency
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Options configures the API server
type Options struct {
	Port        string
	FrontendURL string
	OTELEnabled bool
	RateLimit   string
	RedisClient *redis.Client
	Engine      Engine
	Settings    *config.Store
	Health      map[string]HealthChecker
	Logger      *zap.Logger
}

// Server is the local HTTP API
type Server struct {
	engine     Engine
	settings   *config.Store
	health     map[string]HealthChecker
	logger     *zap.Logger
	httpServer *http.Server
}

// New builds the server and its router
func New(opts Options) (*Server, error) {
	s := &Server{
		engine:   opts.Engine,
		settings: opts.Settings,
		health:   opts.Health,
		logger:   opts.Logger,
	}

	r := mux.NewRouter()

	if opts.OTELEnabled {
		r.Use(otelmux.Middleware("dayflow-engined"))
	}
	r.Use(SecurityHeaders)
	r.Use(MaxRequestSize(DefaultMaxRequestSize))
	r.Use(ContentType)
	r.Use(Timeout(30 * time.Second))
	r.Use(Recovery(opts.Logger))
	r.Use(Logging(opts.Logger))

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	if opts.RedisClient != nil {
		rateLimitMW, err := RateLimit(opts.RedisClient, opts.RateLimit)
		if err != nil {
			return nil, err
		}
		api.Use(rateLimitMW)
	}
	api.HandleFunc("/check", s.handleCheck).Methods(http.MethodPost)
	api.HandleFunc("/settings", s.handleGetSettings).Methods(http.MethodGet)
	api.HandleFunc("/settings", s.handlePatchSettings).Methods(http.MethodPatch)
	api.HandleFunc("/notifications/test", s.handleTestNotification).Methods(http.MethodPost)

	var handler http.Handler = r
	if opts.FrontendURL != "" {
		handler = cors.New(cors.Options{
			AllowedOrigins: []string{opts.FrontendURL},
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type"},
		}).Handler(r)
	}

	s.httpServer = &http.Server{
		Addr:           ":" + opts.Port,
		Handler:        handler,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	return s, nil
}

// Handler returns the configured root handler, for tests
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe blocks serving the API until Shutdown
func (s *Server) ListenAndServe() error {
	s.logger.Info("http api listening", zap.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
