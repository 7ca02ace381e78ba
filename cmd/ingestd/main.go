// Package main runs the ingestion HTTP service.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/windnewsmapper/windnews-ingest/internal/api"
	"github.com/windnewsmapper/windnews-ingest/internal/config"
	"github.com/windnewsmapper/windnews-ingest/internal/fetch"
	"github.com/windnewsmapper/windnews-ingest/internal/ingest"
	"github.com/windnewsmapper/windnews-ingest/internal/logging"
	"github.com/windnewsmapper/windnews-ingest/internal/metrics"
	"github.com/windnewsmapper/windnews-ingest/internal/normalize"
	"github.com/windnewsmapper/windnews-ingest/internal/sources"
	"github.com/windnewsmapper/windnews-ingest/internal/store/memory"
	"github.com/windnewsmapper/windnews-ingest/internal/store/postgres"
)

// articleStore is what both backends provide to the service wiring.
type articleStore interface {
	ingest.ArticleStore
	Ping(ctx context.Context) error
	Close()
}

func main() {
	cfgPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if syncErr := logger.Sync(); syncErr != nil {
			fmt.Fprintf(os.Stderr, "logger sync failed: %v\n", syncErr)
		}
	}()
	zap.ReplaceGlobals(logger)
	metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := newStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("store init failed", zap.Error(err))
	}
	defer store.Close()

	fetcher := fetch.New(fetch.Config{
		UserAgent:     cfg.Crawler.UserAgent,
		Timeout:       cfg.FetchTimeout(),
		MaxRetries:    cfg.HTTP.MaxRetries,
		Backoff:       cfg.FetchBackoff(),
		RespectRobots: cfg.Crawler.RespectRobots,
	}, logger.Named("fetch"))

	registry := sources.Registry(cfg.Crawler.MaxPerSource)
	orchestrator := ingest.NewOrchestrator(
		fetcher,
		store,
		registry,
		normalize.Normalize,
		ingest.Config{Workers: cfg.Crawler.Concurrency},
		logger.Named("ingest"),
	)

	apiServer := api.NewServer(orchestrator, store, registry, logger.Named("api"))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server started", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}

func newStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (articleStore, error) {
	switch cfg.Store.Provider {
	case "postgres":
		logger.Info("connecting to postgres")
		store, err := postgres.New(ctx, postgres.Config{
			DSN:      cfg.DB.DSN,
			MaxConns: cfg.DB.MaxConns,
		})
		if err != nil {
			return nil, err
		}
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, err
		}
		return store, nil
	case "memory":
		logger.Info("using in-memory store, articles will not survive restarts")
		return memory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unknown store provider %q", cfg.Store.Provider)
	}
}
