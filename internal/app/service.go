package app

import (
	"context"
	"errors"
	stdhttp "net/http"

	"proposal-service/internal/audit"
	"proposal-service/internal/auth"
	"proposal-service/internal/config"
	"proposal-service/internal/http"
	"proposal-service/internal/http/middleware"

	"go.uber.org/zap"
)

const serverAddrPrefix = ":"

// Service is the running proposal API together with its background tasks.
type Service struct {
	config      *config.Config
	logger      *zap.Logger
	stores      *Stores
	sessions    *auth.Manager
	csrf        *middleware.CSRFMiddleware
	auditLogger *audit.Logger
	server      *http.Server
}

// Start runs the session purge loop and serves HTTP until Shutdown is called.
func (s *Service) Start(ctx context.Context) error {
	s.sessions.StartCleanup(ctx, 0)

	s.logger.Info("starting HTTP server",
		zap.String("port", s.config.Server.Port),
		zap.String("env", s.config.App.Env),
		zap.String("storage", s.config.Storage.Driver),
	)

	if err := s.server.Start(serverAddrPrefix + s.config.Server.Port); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, then flushes pending audit writes and
// closes storage.
func (s *Service) Shutdown(ctx context.Context) error {
	err := s.server.Shutdown(ctx)

	s.csrf.Stop()
	s.auditLogger.Wait()
	s.stores.Close()

	return err
}
