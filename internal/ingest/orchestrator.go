package ingest

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/windnewsmapper/windnews-ingest/internal/metrics"
)

// Config controls orchestrator behavior.
type Config struct {
	// Workers bounds how many sources are processed at once. The default of 1
	// processes sources sequentially in registration order.
	Workers int
}

// Orchestrator drives all registered source adapters through the
// fetch -> extract -> normalize -> persist pipeline. It holds only immutable
// collaborators; every RunAll call builds its own working set, so a single
// orchestrator may be shared across triggers.
type Orchestrator struct {
	fetcher   Fetcher
	store     ArticleStore
	adapters  []Adapter
	normalize Normalizer
	cfg       Config
	logger    *zap.Logger
	now       func() time.Time
}

// NewOrchestrator constructs an Orchestrator over a fixed adapter registry.
func NewOrchestrator(
	fetcher Fetcher,
	store ArticleStore,
	adapters []Adapter,
	normalize Normalizer,
	cfg Config,
	logger *zap.Logger,
) *Orchestrator {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics.Init()
	return &Orchestrator{
		fetcher:   fetcher,
		store:     store,
		adapters:  adapters,
		normalize: normalize,
		cfg:       cfg,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Adapters returns the registered source adapters in registration order.
func (o *Orchestrator) Adapters() []Adapter {
	out := make([]Adapter, len(o.adapters))
	copy(out, o.adapters)
	return out
}

// RunAll attempts every registered source and returns the aggregated run
// summary. A fetch or parse failure marks that source failed and the run
// continues; a persistence failure other than a duplicate aborts the run and
// is returned alongside the partial summary.
func (o *Orchestrator) RunAll(ctx context.Context) (RunSummary, error) {
	started := o.now()
	summary := RunSummary{
		RunID:     uuid.New(),
		StartedAt: started,
	}

	results := make([]SourceResult, len(o.adapters))
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg        sync.WaitGroup
		sem       = make(chan struct{}, o.cfg.Workers)
		fatalOnce sync.Once
		fatalErr  error
	)
	for i, adapter := range o.adapters {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, a Adapter) {
			defer wg.Done()
			defer func() { <-sem }()
			res, err := o.runSource(runCtx, a)
			results[idx] = res
			if err != nil {
				// Persistence is down; cancel in-flight fetches but keep
				// results already collected.
				fatalOnce.Do(func() {
					fatalErr = err
					cancel()
				})
			}
		}(i, adapter)
	}
	wg.Wait()

	for _, res := range results {
		summary.TotalScraped += res.Scraped
		summary.NewArticlesSaved += res.Saved
	}
	summary.PerSource = results
	summary.DurationMillis = o.now().Sub(started).Milliseconds()

	status := "succeeded"
	if fatalErr != nil {
		status = "failed"
	}
	metrics.ObserveRun(status, time.Duration(summary.DurationMillis)*time.Millisecond)
	o.logger.Info("ingestion run finished",
		zap.String("run_id", summary.RunID.String()),
		zap.Int("total_scraped", summary.TotalScraped),
		zap.Int("new_articles_saved", summary.NewArticlesSaved),
		zap.String("status", status),
	)

	if fatalErr != nil {
		return summary, fatalErr
	}
	return summary, nil
}

// runSource processes one source end to end. The returned error is non-nil
// only for persistence failures, which are fatal for the whole run;
// per-source fetch and parse failures are folded into the result.
func (o *Orchestrator) runSource(ctx context.Context, a Adapter) (SourceResult, error) {
	res := SourceResult{Source: a.Name()}

	body, err := o.fetcher.Fetch(ctx, a.BaseURL())
	if err != nil {
		return o.failSource(res, a, &FetchError{URL: a.BaseURL(), Err: err}), nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return o.failSource(res, a, &ParseError{Source: a.Name(), Err: err}), nil
	}

	raws, err := a.Extract(doc)
	if err != nil {
		return o.failSource(res, a, err), nil
	}
	res.Scraped = len(raws)

	now := o.now()
	for _, raw := range raws {
		article, err := o.normalize(raw, a.Name(), now)
		if err != nil {
			o.logger.Warn("skipping record",
				zap.String("source", a.Name()),
				zap.String("url", raw.URL),
				zap.Error(err),
			)
			continue
		}
		inserted, err := o.store.TryInsert(ctx, article)
		if err != nil {
			metrics.ObserveSource(res.Source, res.Scraped, res.Saved, res.Duplicates)
			return res, fmt.Errorf("insert article %s: %w", article.URL, err)
		}
		if inserted {
			res.Saved++
		} else {
			res.Duplicates++
		}
	}

	metrics.ObserveSource(res.Source, res.Scraped, res.Saved, res.Duplicates)
	o.logger.Debug("source processed",
		zap.String("source", a.Name()),
		zap.Int("scraped", res.Scraped),
		zap.Int("saved", res.Saved),
		zap.Int("duplicates", res.Duplicates),
	)
	return res, nil
}

func (o *Orchestrator) failSource(res SourceResult, a Adapter, cause error) SourceResult {
	res.Err = cause.Error()
	metrics.ObserveSourceFailure(res.Source)
	o.logger.Warn("source failed",
		zap.String("source", a.Name()),
		zap.String("url", a.BaseURL()),
		zap.Error(cause),
	)
	return res
}
