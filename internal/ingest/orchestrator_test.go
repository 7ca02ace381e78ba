package ingest_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windnewsmapper/windnews-ingest/internal/ingest"
	"github.com/windnewsmapper/windnews-ingest/internal/normalize"
	"github.com/windnewsmapper/windnews-ingest/internal/store/memory"
)

type stubFetcher struct {
	errs map[string]error
}

func (f *stubFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	return []byte("<html><body></body></html>"), nil
}

type stubAdapter struct {
	name string
	url  string
	raws []ingest.RawArticle
	err  error
}

func (a *stubAdapter) Name() string    { return a.name }
func (a *stubAdapter) BaseURL() string { return a.url }

func (a *stubAdapter) Extract(_ *goquery.Document) ([]ingest.RawArticle, error) {
	if a.err != nil {
		return nil, a.err
	}
	return a.raws, nil
}

type failingStore struct {
	err error
}

func (s *failingStore) TryInsert(_ context.Context, _ ingest.Article) (bool, error) {
	return false, s.err
}

func testNow() time.Time {
	return time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
}

func rawRecords(source string, n int) []ingest.RawArticle {
	out := make([]ingest.RawArticle, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, ingest.RawArticle{
			Title: fmt.Sprintf("Artykuł %d z %s", i, source),
			URL:   fmt.Sprintf("https://%s/artykul/%d", source, i),
		})
	}
	return out
}

func newOrchestrator(
	store ingest.ArticleStore,
	fetcher ingest.Fetcher,
	cfg ingest.Config,
	adapters ...ingest.Adapter,
) *ingest.Orchestrator {
	return ingest.NewOrchestrator(fetcher, store, adapters, normalize.Normalize, cfg, nil)
}

// Three sources: A produces 5 records of which 3 are already known, B fails
// its fetch, C produces 1 new record. The summary must still count all 6 raw
// records and report per-source outcomes in registration order.
func TestRunAllScenario(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	ctx := context.Background()

	adapterA := &stubAdapter{name: "a.example", url: "https://a.example/", raws: rawRecords("a.example", 5)}
	adapterB := &stubAdapter{name: "b.example", url: "https://b.example/"}
	adapterC := &stubAdapter{name: "c.example", url: "https://c.example/", raws: rawRecords("c.example", 1)}

	// Seed three of A's URLs as already ingested by a previous run.
	for _, raw := range adapterA.raws[:3] {
		article, err := normalize.Normalize(raw, adapterA.name, testNow())
		require.NoError(t, err)
		inserted, err := store.TryInsert(ctx, article)
		require.NoError(t, err)
		require.True(t, inserted)
	}

	fetcher := &stubFetcher{errs: map[string]error{
		"https://b.example/": errors.New("connection refused"),
	}}

	o := newOrchestrator(store, fetcher, ingest.Config{}, adapterA, adapterB, adapterC)
	summary, err := o.RunAll(ctx)
	require.NoError(t, err)

	assert.Equal(t, 6, summary.TotalScraped)
	assert.Equal(t, 3, summary.NewArticlesSaved)
	require.Len(t, summary.PerSource, 3)

	a := summary.PerSource[0]
	assert.Equal(t, "a.example", a.Source)
	assert.Equal(t, 5, a.Scraped)
	assert.Equal(t, 2, a.Saved)
	assert.Equal(t, 3, a.Duplicates)
	assert.Empty(t, a.Err)

	b := summary.PerSource[1]
	assert.Equal(t, "b.example", b.Source)
	assert.Zero(t, b.Scraped)
	assert.Contains(t, b.Err, "connection refused")

	c := summary.PerSource[2]
	assert.Equal(t, "c.example", c.Source)
	assert.Equal(t, 1, c.Scraped)
	assert.Equal(t, 1, c.Saved)
	assert.Empty(t, c.Err)
}

// Running twice against identical upstream content must save nothing the
// second time.
func TestRunAllIdempotent(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	adapter := &stubAdapter{name: "a.example", url: "https://a.example/", raws: rawRecords("a.example", 4)}
	o := newOrchestrator(store, &stubFetcher{}, ingest.Config{}, adapter)

	first, err := o.RunAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, first.NewArticlesSaved)

	second, err := o.RunAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, second.TotalScraped)
	assert.Zero(t, second.NewArticlesSaved)
	assert.Equal(t, 4, second.PerSource[0].Duplicates)
	assert.Equal(t, 4, store.Len())
}

// A source whose extraction always fails must not disturb the counts of any
// other source.
func TestRunAllIsolatesAdapterFailure(t *testing.T) {
	t.Parallel()

	healthy := func() []ingest.Adapter {
		return []ingest.Adapter{
			&stubAdapter{name: "a.example", url: "https://a.example/", raws: rawRecords("a.example", 3)},
			&stubAdapter{name: "c.example", url: "https://c.example/", raws: rawRecords("c.example", 2)},
		}
	}

	baselineStore := memory.NewStore()
	baseline, err := newOrchestrator(baselineStore, &stubFetcher{}, ingest.Config{}, healthy()...).
		RunAll(context.Background())
	require.NoError(t, err)

	adapters := healthy()
	broken := &stubAdapter{
		name: "b.example",
		url:  "https://b.example/",
		err:  &ingest.ParseError{Source: "b.example", Err: ingest.ErrStructureChanged},
	}
	adapters = []ingest.Adapter{adapters[0], broken, adapters[1]}

	store := memory.NewStore()
	summary, err := newOrchestrator(store, &stubFetcher{}, ingest.Config{}, adapters...).
		RunAll(context.Background())
	require.NoError(t, err)

	require.Len(t, summary.PerSource, 3)
	assert.Contains(t, summary.PerSource[1].Err, "article structure not found")
	assert.Equal(t, baseline.PerSource[0], summary.PerSource[0])
	assert.Equal(t, baseline.PerSource[1], summary.PerSource[2])
	assert.Equal(t, baseline.NewArticlesSaved, summary.NewArticlesSaved)
}

// Records failing validation are skipped one by one; siblings still persist.
func TestRunAllSkipsInvalidRecords(t *testing.T) {
	t.Parallel()

	adapter := &stubAdapter{
		name: "a.example",
		url:  "https://a.example/",
		raws: []ingest.RawArticle{
			{Title: "Dobry artykuł", URL: "https://a.example/ok"},
			{Title: "", URL: "https://a.example/missing-title"},
			{Title: "Zły odnośnik", URL: "/relative/only"},
		},
	}
	store := memory.NewStore()
	summary, err := newOrchestrator(store, &stubFetcher{}, ingest.Config{}, adapter).
		RunAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalScraped)
	assert.Equal(t, 1, summary.NewArticlesSaved)
	assert.Equal(t, 1, store.Len())
}

// Any persistence failure other than a duplicate aborts the run and is
// returned to the caller.
func TestRunAllFatalOnStoreFailure(t *testing.T) {
	t.Parallel()

	adapter := &stubAdapter{name: "a.example", url: "https://a.example/", raws: rawRecords("a.example", 2)}
	store := &failingStore{err: errors.New("connection pool closed")}

	_, err := newOrchestrator(store, &stubFetcher{}, ingest.Config{}, adapter).
		RunAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection pool closed")
}

// With a worker pool the merged summary must be identical to the sequential
// baseline, regardless of completion order.
func TestRunAllConcurrentMatchesSequential(t *testing.T) {
	t.Parallel()

	build := func() []ingest.Adapter {
		return []ingest.Adapter{
			&stubAdapter{name: "a.example", url: "https://a.example/", raws: rawRecords("a.example", 3)},
			&stubAdapter{name: "b.example", url: "https://b.example/", raws: rawRecords("b.example", 2)},
			&stubAdapter{name: "c.example", url: "https://c.example/", raws: rawRecords("c.example", 4)},
		}
	}

	seqStore := memory.NewStore()
	seq, err := newOrchestrator(seqStore, &stubFetcher{}, ingest.Config{Workers: 1}, build()...).
		RunAll(context.Background())
	require.NoError(t, err)

	conStore := memory.NewStore()
	con, err := newOrchestrator(conStore, &stubFetcher{}, ingest.Config{Workers: 3}, build()...).
		RunAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, seq.TotalScraped, con.TotalScraped)
	assert.Equal(t, seq.NewArticlesSaved, con.NewArticlesSaved)
	assert.Equal(t, seq.PerSource, con.PerSource)
	assert.Equal(t, seqStore.Len(), conStore.Len())
}
