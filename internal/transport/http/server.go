package http

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"fixmycity/internal/config"
	"fixmycity/internal/handler"
	"fixmycity/internal/logging"
	"fixmycity/internal/repository"
)

// NewSandbox wires the in-memory repositories, handlers and router.
func NewSandbox(cfg *config.Config, logger zerolog.Logger, requestLog bool) chi.Router {
	users := repository.NewUserRepository()
	reports := repository.NewReportRepository()

	return NewRouter(RouterConfig{
		AuthHandler:   handler.NewAuthHandler(users, cfg, logger),
		ReportHandler: handler.NewReportHandler(reports, users, logger),
		JWTSecret:     cfg.JWTSecret,
		RequestLog:    requestLog,
	})
}

// Run starts the sandbox API and blocks until SIGINT/SIGTERM.
func Run() error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	base, closeLog := logging.New(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: cfg.LogOutput,
	})
	defer closeLog()
	logger := logging.Component(base, "Server")

	// 2. Setup Server
	srv := &stdhttp.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           NewSandbox(cfg, logger, true),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("Starting sandbox API")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, stdhttp.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
