// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ventura Contributors

package web

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/samber/oops"

	"github.com/venturalabs/ventura/internal/observability"
)

// Server is the application HTTP server: the JSON API plus the page
// shell routes, behind the route guard.
type Server struct {
	addr       string
	handler    http.Handler
	logger     *slog.Logger
	listener   net.Listener
	httpServer *http.Server
	running    atomic.Bool
}

// NewServer assembles the full route table. The guard wraps everything
// so protected pages redirect before any handler runs; metrics, when
// present, count every request by route pattern.
func NewServer(addr string, api *Handler, guard *Guard, metrics *observability.Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	mux := api.Routes()
	mux.HandleFunc("GET /{$}", handleLanding)
	mux.HandleFunc("GET /dashboard/", handleDashboard)
	mux.HandleFunc("GET /dashboard", handleDashboard)

	var handler http.Handler = mux
	if metrics != nil {
		handler = countRequests(metrics, handler)
	}
	if guard != nil {
		handler = guard.Middleware(handler)
	}

	return &Server{
		addr:    addr,
		handler: handler,
		logger:  logger,
	}
}

// Start begins serving. It returns an error channel that receives any
// serve error and is closed on graceful stop.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Errorf("web server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.With("addr", s.addr).Wrap(err)
	}
	s.listener = listener

	httpSrv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = httpSrv

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if serveErr := httpSrv.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			s.logger.Error("web server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	s.logger.Info("web server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop gracefully shuts down the server, waiting for in-flight
// requests up to the context deadline.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.running.Store(true)
			return oops.With("operation", "shutdown_web_server").Wrap(err)
		}
	}

	s.logger.Info("web server stopped")
	return nil
}

// Addr returns the address the server is listening on, or empty if
// not running.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}

// countRequests records each request against the route pattern that
// matched, bucketed by status class.
func countRequests(metrics *observability.Metrics, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		metrics.RequestsTotal.WithLabelValues(route, statusClass(rec.status)).Inc()
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

// handleLanding serves the public landing page. The real UI is a
// separate frontend; this keeps the server self-contained for probes
// and local development.
func handleLanding(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // page write error is acceptable, client may disconnect
	w.Write([]byte("<!doctype html><title>Ventura</title><h1>Ventura</h1><p>Track your study time.</p>\n"))
}

// handleDashboard serves the dashboard shell. Only reachable with a
// session cookie; the guard redirects everyone else.
func handleDashboard(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // page write error is acceptable, client may disconnect
	w.Write([]byte("<!doctype html><title>Ventura Dashboard</title><h1>Dashboard</h1>\n"))
}
