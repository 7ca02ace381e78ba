// Package main runs a single ingestion pass and prints the run summary,
// suitable for cron-style triggering.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/windnewsmapper/windnews-ingest/internal/config"
	"github.com/windnewsmapper/windnews-ingest/internal/fetch"
	"github.com/windnewsmapper/windnews-ingest/internal/ingest"
	"github.com/windnewsmapper/windnews-ingest/internal/logging"
	"github.com/windnewsmapper/windnews-ingest/internal/normalize"
	"github.com/windnewsmapper/windnews-ingest/internal/sources"
	"github.com/windnewsmapper/windnews-ingest/internal/store/memory"
	"github.com/windnewsmapper/windnews-ingest/internal/store/postgres"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	if err := run(*cfgPath); err != nil {
		fmt.Fprintf(os.Stderr, "ingest failed: %v\n", err)
		os.Exit(1)
	}
}

func run(cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck // best-effort flush

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store ingest.ArticleStore
	switch cfg.Store.Provider {
	case "postgres":
		pgStore, err := postgres.New(ctx, postgres.Config{
			DSN:      cfg.DB.DSN,
			MaxConns: cfg.DB.MaxConns,
		})
		if err != nil {
			return fmt.Errorf("connect store: %w", err)
		}
		defer pgStore.Close()
		if err := pgStore.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
		store = pgStore
	case "memory":
		store = memory.NewStore()
	default:
		return fmt.Errorf("unknown store provider %q", cfg.Store.Provider)
	}

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

	summary, runErr := orchestrator.RunAll(ctx)

	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	fmt.Println(string(out))

	if runErr != nil {
		return fmt.Errorf("run aborted: %w", runErr)
	}
	logger.Info("run complete",
		zap.Int("total_scraped", summary.TotalScraped),
		zap.Int("new_articles_saved", summary.NewArticlesSaved),
	)
	return nil
}
