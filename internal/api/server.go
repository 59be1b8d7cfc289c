package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/duckretail/insights/pkg/config"
	"github.com/duckretail/insights/pkg/logger"
)

// Report endpoints recompute from the in-memory snapshot, so request
// handling is CPU-bound and short; the write timeout only has to
// cover serializing a detailed price-index response.
const (
	readTimeout  = 10 * time.Second
	writeTimeout = 30 * time.Second
	idleTimeout  = 60 * time.Second
)

// Server wraps the HTTP server serving the report API.
type Server struct {
	httpServer *http.Server
	logger     *logger.Logger
	env        string
}

// New creates the API server around the given router.
func New(cfg *config.Config, log *logger.Logger, router http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      router,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			IdleTimeout:  idleTimeout,
		},
		logger: log,
		env:    cfg.Env,
	}
}

// Start blocks serving requests until Shutdown is called.
func (s *Server) Start() error {
	s.logger.WithFields(map[string]interface{}{
		"addr": s.httpServer.Addr,
		"env":  s.env,
	}).Info("Report API listening")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("serve report API: %w", err)
	}

	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Draining report API connections")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown report API: %w", err)
	}

	return nil
}
