// Package server exposes the analyzer over HTTP for the browser front-end
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ppiankov/betthink/internal/model"
	"github.com/ppiankov/betthink/internal/worker"
	"github.com/rs/zerolog/log"
)

// Analyzer runs one match analysis
type Analyzer interface {
	Analyze(ctx context.Context, query model.MatchQuery) (*model.Report, error)
}

// ReadinessChecker reports whether the completion backend can serve requests
type ReadinessChecker interface {
	IsAvailable(ctx context.Context) bool
}

// Server is the HTTP API
type Server struct {
	analyzer Analyzer
	ready    ReadinessChecker
	cfg      model.ServerConfig
	limiter  *worker.Limiter // per-client; nil disables
	handler  http.Handler
}

// New creates a server. limits.ClientRequestsPerMinute <= 0 disables per-client rate limiting.
func New(analyzer Analyzer, ready ReadinessChecker, cfg model.ServerConfig, limits model.RateLimitingConfig) *Server {
	s := &Server{
		analyzer: analyzer,
		ready:    ready,
		cfg:      cfg,
	}
	if limits.ClientRequestsPerMinute > 0 {
		s.limiter = worker.NewPerMinuteLimiter(limits.ClientRequestsPerMinute, limits.MaxTrackedClients)
	}
	s.handler = s.routes()
	return s
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.cfg.Addr).Msg("HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
