// Package ingest defines the core types and contracts of the article
// ingestion pipeline: raw and canonical article shapes, the per-run summary,
// and the interfaces the orchestrator drives (fetching, extraction,
// persistence).
package ingest

import (
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
)

// Category labels an article by the dominant theme of its title.
type Category string

// The closed category taxonomy. Titles matching no keyword fall back to
// CategoryNews.
const (
	CategoryNews       Category = "news"
	CategoryInvestment Category = "investment"
	CategoryRegulatory Category = "regulatory"
	CategoryTechnical  Category = "technical"
)

// RawArticle is the as-extracted, source-specific representation of one
// article before normalization. Only URL is required to be non-empty.
type RawArticle struct {
	Title        string
	URL          string
	Teaser       string
	RawDate      string
	LocationHint string
}

// Article is the canonical, storage-ready article. URL is the unique key
// across the whole corpus; re-ingesting the same URL never creates a second
// row and never overwrites an existing one.
type Article struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	URL          string     `json:"url"`
	Source       string     `json:"source"`
	PublishedAt  *time.Time `json:"published_date"`
	Summary      string     `json:"summary,omitempty"`
	WindFarmName string     `json:"wind_farm_name,omitempty"`
	Location     *string    `json:"location"`
	Latitude     *float64   `json:"latitude"`
	Longitude    *float64   `json:"longitude"`
	Category     Category   `json:"category"`
	ScrapedAt    time.Time  `json:"scraped_at"`
	CreatedAt    time.Time  `json:"created_at"`
}

// SourceResult reports the outcome of one source within a run. Err is empty
// when the source was scraped successfully.
type SourceResult struct {
	Source     string `json:"source"`
	Scraped    int    `json:"scraped"`
	Saved      int    `json:"saved"`
	Duplicates int    `json:"duplicates"`
	Err        string `json:"error,omitempty"`
}

// RunSummary aggregates one full ingestion pass across all registered
// sources. TotalScraped counts raw records produced, including those later
// rejected by validation or deduplicated at insert time.
type RunSummary struct {
	RunID            uuid.UUID      `json:"run_id"`
	StartedAt        time.Time      `json:"started_at"`
	DurationMillis   int64          `json:"duration_ms"`
	TotalScraped     int            `json:"total_scraped"`
	NewArticlesSaved int            `json:"new_articles_saved"`
	PerSource        []SourceResult `json:"per_source"`
}

// Fetcher performs a bounded-time HTTP GET and returns the response body.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Adapter turns a fetched document from its fixed source into raw article
// records. Adapters are registered once at startup; each one owns exactly one
// source and holds no mutable state.
type Adapter interface {
	Name() string
	BaseURL() string
	Extract(doc *goquery.Document) ([]RawArticle, error)
}

// ArticleStore is the persistence collaborator boundary. TryInsert reports
// (false, nil) when the article URL is already known; the uniqueness
// constraint of the backing store is the authoritative dedup check.
type ArticleStore interface {
	TryInsert(ctx context.Context, article Article) (bool, error)
}

// Normalizer converts a raw record into its canonical form, or reports a
// validation error when required fields are missing or malformed.
type Normalizer func(raw RawArticle, source string, now time.Time) (Article, error)
