package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"hr-lite/internal/config"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// ShutdownHook releases a resource after the server has stopped accepting
// requests.
type ShutdownHook func(ctx context.Context) error

func NewHTTPServer(handler http.Handler, cfg config.ServerConfig) *http.Server {
	return &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

// StartHTTPServer serves until SIGINT or SIGTERM, then shuts down gracefully.
func StartHTTPServer(handler http.Handler, cfg config.ServerConfig, logger *zap.Logger, hooks ...ShutdownHook) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return Run(ctx, NewHTTPServer(handler, cfg), logger, hooks...)
}

// Run serves srv until ctx is done. A listen failure is returned as is; a
// normal shutdown returns nil. Hooks run in order after the server stops.
func Run(ctx context.Context, srv *http.Server, logger *zap.Logger, hooks ...ShutdownHook) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server running", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			logger.Error("HTTP server failed", zap.Error(err))
			runHooks(context.Background(), logger, hooks)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	if err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	} else {
		logger.Info("server exited gracefully")
	}

	runHooks(shutdownCtx, logger, hooks)
	return err
}

func runHooks(ctx context.Context, logger *zap.Logger, hooks []ShutdownHook) {
	for _, hook := range hooks {
		if err := hook(ctx); err != nil {
			logger.Warn("shutdown hook failed", zap.Error(err))
		}
	}
}
