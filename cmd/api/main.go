package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/marcelsud/book-lending/book"
	"github.com/marcelsud/book-lending/config"
	"github.com/marcelsud/book-lending/internal/http/chi"
	"github.com/marcelsud/book-lending/internal/logging"
	"github.com/marcelsud/book-lending/internal/store"
	"github.com/marcelsud/book-lending/metrics"
	"github.com/marcelsud/book-lending/seed"
	"github.com/rs/zerolog"
)

/*
 * main wires the packages together: config, store, service, router.
 * Imports only go downwards: the application imports the business layer,
 * which imports the storage layer.
 */

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger := logging.New(cfg)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer stop()

	repo, err := store.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer repo.Close(context.Background())
	logger.Info().Str("driver", cfg.StoreDriver).Msg("store ready")

	s := book.NewService(repo)

	if cfg.SeedFile != "" {
		loader := seed.NewLoader()
		if err := loader.Load(cfg.SeedFile); err != nil {
			return err
		}
		created, err := loader.Apply(ctx, s)
		if err != nil {
			return err
		}
		logger.Info().Int("books", len(created)).Str("file", cfg.SeedFile).Msg("catalogue seeded")
	}

	opts := []chi.Option{
		chi.WithLogger(logger),
		chi.WithAllowedOrigins(cfg.AllowedOrigins()...),
		chi.WithRateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow),
		chi.WithTrustedProxy(cfg.TrustProxyHeaders),
	}
	if cfg.MetricsEnabled {
		exporter, err := metrics.NewOTelExporter(metrics.NewBookCollector(repo))
		if err != nil {
			return err
		}
		defer exporter.Shutdown(context.Background())
		opts = append(opts, chi.WithMetricsHandler(exporter.ServeHTTP()))
	}

	srv := &http.Server{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Addr:         ":" + cfg.Port,
		Handler:      chi.Handlers(ctx, s, opts...),
	}

	errShutdown := make(chan error, 1)
	go shutdown(srv, ctx, cfg.ShutdownTimeout, logger, errShutdown)
	logger.Info().Str("port", cfg.Port).Msg("listening")
	err = srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-errShutdown
}

func shutdown(server *http.Server, ctxShutdown context.Context, timeout time.Duration, logger zerolog.Logger, errShutdown chan error) {
	<-ctxShutdown.Done()

	ctxTimeout, stop := context.WithTimeout(context.Background(), timeout)
	defer stop()

	err := server.Shutdown(ctxTimeout)
	switch err {
	case nil:
		logger.Info().Msg("shutting down server")
		errShutdown <- nil
	case context.DeadlineExceeded:
		errShutdown <- fmt.Errorf("forcing closing the server")
	default:
		errShutdown <- fmt.Errorf("forcing closing the server: %w", err)
	}
}
