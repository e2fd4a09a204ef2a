package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmorgan81/gabu/internal/config"
	"github.com/dmorgan81/gabu/internal/handler"
	"github.com/dmorgan81/gabu/internal/inject"
	"github.com/dmorgan81/gabu/internal/log"
	"github.com/samber/do"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.New(os.Stderr, slog.LevelInfo).Error("invalid configuration", "error", err)
		return err
	}
	logger := log.New(os.Stderr, cfg.LogLevel)
	ctx = log.NewContext(ctx, logger)

	injector := inject.Setup(ctx, cfg)
	defer func() { _ = injector.Shutdown() }()

	// Resolve the bucket and build the store before listening so a bad
	// configuration never serves traffic.
	bucket, err := do.InvokeNamed[string](injector, "bucket")
	if err != nil {
		logger.Error("cannot resolve bucket", "error", err)
		return err
	}
	h, err := do.Invoke[*handler.Handler](injector)
	if err != nil {
		logger.Error("cannot build handler", "error", err)
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("listening", "addr", srv.Addr, "bucket", bucket, "backend", cfg.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.Error("server failed", "error", err)
		return err
	}
	return nil
}
