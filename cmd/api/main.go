// Command api serves the read-only query endpoints over a cleaned catalog
// CSV. The file is read once at startup; there is no reload. Shutdown is
// graceful on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"gamecatalog/internal/api"
	"gamecatalog/internal/config"
	"gamecatalog/internal/extract"
)

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	data, err := extract.New(cfg.CleanCSV, logger).Extract()
	if err != nil {
		return err
	}
	logger.Info("catalog loaded", zap.String("path", cfg.CleanCSV), zap.Int("rows", data.Len()))

	srv := api.New(api.Config{Addr: cfg.APIAddr}, data, logger)
	httpSrv := &http.Server{Addr: srv.Addr(), Handler: srv.Handler()}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.APIAddr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := newLogger(cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("api server failed", zap.Error(err))
	}
}

func newLogger(format string) (*zap.Logger, error) {
	if format == "json" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
