// Package ops serves the operational HTTP endpoint of a standalone
// component: liveness and readiness probes plus Prometheus metrics. It is
// an auxiliary server; the lifecycle controller ties its lifetime to the
// hosted component's.
package ops

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/meridian-sys/standalone/internal/logger"
	"github.com/meridian-sys/standalone/pkg/config"
)

// Server is the ops HTTP server. Create it with NewServer and run it via
// Start; Stop drains in-flight requests.
type Server struct {
	server   *http.Server
	port     int
	stopOnce sync.Once
	stopErr  error
}

// NewServer creates an ops server from the resolved ops configuration.
// ready gates the readiness probe; nil means always ready.
func NewServer(cfg config.OpsConfig, ready func() bool) *Server {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      NewRouter(ready),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return &Server{server: server, port: cfg.Port}
}

// Port returns the configured listen port.
func (s *Server) Port() int {
	return s.port
}

// Start serves until ctx is cancelled or the listener fails. On
// cancellation it drains gracefully and returns nil; a listener failure
// (port already bound, for instance) is returned as an error.
func (s *Server) Start(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		logger.Info("ops server listening", "port", s.port)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Stop(shutdownCtx)
	case err := <-errChan:
		return fmt.Errorf("ops server failed: %w", err)
	}
}

// Stop drains the server. Safe to call multiple times and concurrently
// with Start.
func (s *Server) Stop(ctx context.Context) error {
	s.stopOnce.Do(func() {
		logger.Debug("ops server stopping")
		s.stopErr = s.server.Shutdown(ctx)
	})
	return s.stopErr
}
