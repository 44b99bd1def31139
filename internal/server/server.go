// Package server hosts the live blog site over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"git.home.luguber.info/inful/blogpress/internal/config"
	ferrors "git.home.luguber.info/inful/blogpress/internal/foundation/errors"
	"git.home.luguber.info/inful/blogpress/internal/logfields"
	"git.home.luguber.info/inful/blogpress/internal/metrics"
	"git.home.luguber.info/inful/blogpress/internal/server/middleware"
	"git.home.luguber.info/inful/blogpress/internal/version"
)

// HealthPath is answered by the server itself and never reaches the site handler.
const HealthPath = "/healthz"

const (
	readTimeout  = 30 * time.Second
	writeTimeout = 30 * time.Second
	idleTimeout  = 120 * time.Second
)

// HealthResponse is the body of HealthPath.
type HealthResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// Option configures a Server.
type Option func(*Server)

// WithRecorder sets the metrics recorder used for request observations.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *Server) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithMetricsHandler exposes h at the configured metrics path when metrics are enabled.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithErrorPage sets the handler rendered for recovered panics outside development.
func WithErrorPage(h http.Handler) Option {
	return func(s *Server) { s.errorPage = h }
}

// WithLogger overrides the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// Server wraps an http.Server serving the site handler.
type Server struct {
	cfg       config.ServerConfig
	site      http.Handler
	recorder  metrics.Recorder
	metrics   http.Handler
	errorPage http.Handler
	logger    *slog.Logger

	mu       sync.Mutex
	srv      *http.Server
	listener net.Listener
}

// New creates a server for the given site handler.
func New(cfg config.ServerConfig, site http.Handler, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		site:     site,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the full middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+HealthPath, s.handleHealth)
	if s.cfg.Metrics && s.metrics != nil {
		path := s.cfg.MetricsPath
		if path == "" {
			path = config.DefaultMetricsPath
		}
		mux.Handle("GET "+path, s.metrics)
	}
	mux.Handle("/", s.site)

	var h http.Handler = mux
	var errorPage http.Handler
	if !s.cfg.IsDevelopment() {
		h = middleware.HSTS(middleware.HSTSMaxAge)(h)
		if s.cfg.HTTPSRedirect {
			h = middleware.HTTPSRedirect(h)
		}
		errorPage = s.errorPage
	}
	adapter := ferrors.NewHTTPErrorAdapter(s.logger)
	return middleware.Chain(s.logger, adapter, s.recorder, errorPage)(h)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(HealthResponse{
		Status:    "healthy",
		Version:   version.Version,
		Timestamp: time.Now().UTC(),
	})
}

// Start binds the listener and serves in the background until Stop is called.
// Binding happens before Start returns so address conflicts surface immediately.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv != nil {
		return ferrors.RuntimeError("server already started").Build()
	}

	addr := s.cfg.Addr
	if addr == "" {
		addr = config.DefaultServerAddr
	}
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "failed to bind HTTP listener").
			WithContext("addr", addr).
			Build()
	}

	s.listener = ln
	s.srv = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}
	srv := s.srv

	go func() {
		if serveErr := srv.Serve(ln); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			s.logger.Error("HTTP server error", logfields.Error(serveErr))
		}
	}()

	s.logger.Info("HTTP server listening",
		slog.String("addr", ln.Addr().String()),
		slog.String("environment", s.cfg.Environment))
	return nil
}

// Addr returns the bound address, or the empty string before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.srv = nil
	s.listener = nil
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "HTTP server shutdown failed").Build()
	}
	s.logger.Info("HTTP server stopped")
	return nil
}
