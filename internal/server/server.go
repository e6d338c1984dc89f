// Package server exposes the deadline feed and readiness scores over HTTP so that
// calendar clients can subscribe to the .ics feed.
package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/azan1ud/landlordshield/internal/certs"
	"github.com/azan1ud/landlordshield/internal/engine"
	"github.com/azan1ud/landlordshield/internal/metrics"
	"github.com/azan1ud/landlordshield/internal/model"
)

const shutdownTimeout = 10 * time.Second

// Config configures the HTTP server.
type Config struct {
	// Income, when set, drives /api/threshold and threshold-based feed filtering.
	Income *model.ThresholdInput
	// TLS, when set, serves HTTPS with the certificate it provides.
	TLS certs.Manager

	Addr          string
	OwnerID       string
	CalendarName  string
	UpcomingLimit int
}

// Server serves the compliance feed for one owner.
type Server struct {
	engine  *engine.ComplianceEngine
	metrics *metrics.Metrics
	logger  *slog.Logger
	clock   func() time.Time
	srv     *http.Server
	config  Config
}

// New creates a server. clock is read once per request; nil means time.Now.
func New(cfg Config, eng *engine.ComplianceEngine, m *metrics.Metrics, clock func() time.Time, logger *slog.Logger) *Server {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.New()
	}

	s := &Server{
		engine:  eng,
		metrics: m,
		logger:  logger,
		clock:   clock,
		config:  cfg,
	}
	s.srv = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	serve := s.srv.ListenAndServe
	scheme := "http"
	if s.config.TLS != nil {
		cert, err := s.config.TLS.GetOrCreateCertificate()
		if err != nil {
			return fmt.Errorf("failed to load TLS certificate: %w", err)
		}
		s.srv.TLSConfig = &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		}
		serve = func() error { return s.srv.ListenAndServeTLS("", "") }
		scheme = "https"
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", s.config.Addr, "scheme", scheme)
		if err := serve(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

// Handler returns the route tree.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}
