/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/phuslu/log"

	"github.com/suparena/pipequeue"
)

// Server manages the HTTP server and routes
type Server struct {
	svc    *pipequeue.Service
	logger log.Logger
	router *http.ServeMux
	server *http.Server
}

// New creates an HTTP server for the given service, bound to addr.
func New(svc *pipequeue.Service, addr string, logger log.Logger) *Server {
	s := &Server{
		svc:    svc,
		logger: logger,
	}

	s.router = s.setupRoutes()

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.withMiddleware(s.router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the fully wired handler, middleware included.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.logger.Info().
		Str("address", s.server.Addr).
		Msg("HTTP server starting")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down HTTP server...")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info().Msg("HTTP server stopped")
	return nil
}
