// Package server serves the Prometheus metrics of a bigmul run over HTTP
// when -metrics-addr is set. It exposes /metrics and /health and shuts down
// gracefully when the run's context ends.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	apperrors "github.com/agbru/bigmul/internal/errors"
	"github.com/agbru/bigmul/internal/metrics"
)

// Timeouts configures the HTTP server.
type Timeouts struct {
	// ReadTimeout is the maximum duration for reading an entire request.
	ReadTimeout time.Duration
	// WriteTimeout is the maximum duration before timing out a response write.
	WriteTimeout time.Duration
	// IdleTimeout is the maximum time to wait for the next keep-alive request.
	IdleTimeout time.Duration
	// ShutdownTimeout is the maximum duration allowed for graceful shutdown.
	ShutdownTimeout time.Duration
}

// DefaultTimeouts returns the timeouts of a metrics endpoint.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    10 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}
}

// Server wraps an http.Server serving a metrics.Collector.
type Server struct {
	httpServer *http.Server
	collector  *metrics.Collector
	security   SecurityConfig
	timeouts   Timeouts
	logger     zerolog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithTimeouts overrides the default timeouts.
func WithTimeouts(t Timeouts) Option {
	return func(s *Server) { s.timeouts = t }
}

// WithSecurityConfig overrides the default security headers.
func WithSecurityConfig(c SecurityConfig) Option {
	return func(s *Server) { s.security = c }
}

// WithLogger sets the logger of server events.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New creates a server for collector listening on addr.
func New(addr string, collector *metrics.Collector, opts ...Option) *Server {
	s := &Server{
		collector: collector,
		security:  DefaultSecurityConfig(),
		timeouts:  DefaultTimeouts(),
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadTimeout:       s.timeouts.ReadTimeout,
		ReadHeaderTimeout: s.timeouts.ReadTimeout,
		WriteTimeout:      s.timeouts.WriteTimeout,
		IdleTimeout:       s.timeouts.IdleTimeout,
	}
	return s
}

// Handler returns the routes of the server with the middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", s.wrap(s.handleMetrics))
	mux.HandleFunc("/health", s.wrap(s.handleHealth))
	return mux
}

// wrap applies the middleware chain: security, then logging.
func (s *Server) wrap(handler http.HandlerFunc) http.HandlerFunc {
	return SecurityMiddleware(s.security, s.loggingMiddleware(handler))
}

func (s *Server) loggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next(w, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("metrics request")
	}
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.collector.Handler().ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, `{"status":"ok"}`)
}

// Serve accepts connections on l until ctx ends, then shuts down
// gracefully.
//
// Returns:
//   - error: An error if serving fails or the shutdown times out.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", l.Addr().String()).Msg("serving metrics")
		if err := s.httpServer.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return apperrors.WrapError(err, "metrics server failed")
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.timeouts.ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return apperrors.WrapError(err, "failed to gracefully shutdown metrics server")
	}
	s.logger.Debug().Msg("metrics server stopped")
	return nil
}

// Start listens on the configured address and serves in the background
// until ctx ends. Listen errors are returned synchronously; later serving
// errors are logged.
//
// Returns:
//   - net.Addr: The bound address, useful with ":0".
//   - error: An error if the address cannot be bound.
func (s *Server) Start(ctx context.Context) (net.Addr, error) {
	l, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return nil, apperrors.WrapError(err, "listening on %s", s.httpServer.Addr)
	}
	go func() {
		if err := s.Serve(ctx, l); err != nil {
			s.logger.Error().Err(err).Msg("metrics server")
		}
	}()
	return l.Addr(), nil
}
