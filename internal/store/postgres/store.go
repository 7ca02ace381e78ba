// Package postgres provides the Postgres-backed article store.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/windnewsmapper/windnews-ingest/internal/ingest"
)

// uniqueViolation is the Postgres error code for a unique-constraint hit.
const uniqueViolation = "23505"

// Config controls the Postgres connection pool.
type Config struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
	Close()
}

// Store persists canonical articles in Postgres. The unique constraint on
// the url column is the sole dedup serialization point: TryInsert never does
// a separate existence check, so concurrent runs cannot race past it.
type Store struct {
	pool pgxPool
}

// New creates a Store with its own connection pool.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("db.dsn is required")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Store{pool: pool}, nil
}

// NewWithPool constructs a Store from an existing pool (primarily for
// testing with pgxmock).
func NewWithPool(pool pgxPool) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	return &Store{pool: pool}, nil
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	return nil
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS news_articles (
	id BIGSERIAL PRIMARY KEY,
	title TEXT NOT NULL,
	url TEXT NOT NULL UNIQUE,
	source TEXT NOT NULL,
	published_date TIMESTAMPTZ,
	summary TEXT,
	wind_farm_name TEXT,
	location TEXT,
	latitude DOUBLE PRECISION,
	longitude DOUBLE PRECISION,
	category TEXT NOT NULL DEFAULT 'news',
	scraped_at TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS news_articles_category_idx ON news_articles (category);
CREATE INDEX IF NOT EXISTS news_articles_published_idx ON news_articles (published_date DESC);
`

// EnsureSchema creates the news_articles table and its indexes if they do
// not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

const insertArticleSQL = `
INSERT INTO news_articles (
	title, url, source, published_date, summary, wind_farm_name,
	location, latitude, longitude, category, scraped_at, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
ON CONFLICT (url) DO NOTHING`

// TryInsert attempts to persist one article. It returns (false, nil) when
// the URL is already known; the existing row is left untouched
// (first-write-wins). Any other failure is a hard error.
func (s *Store) TryInsert(ctx context.Context, a ingest.Article) (bool, error) {
	tag, err := s.pool.Exec(ctx, insertArticleSQL,
		a.Title,
		a.URL,
		a.Source,
		a.PublishedAt,
		nullableText(a.Summary),
		nullableText(a.WindFarmName),
		a.Location,
		a.Latitude,
		a.Longitude,
		string(a.Category),
		a.ScrapedAt,
		a.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return false, nil
		}
		return false, fmt.Errorf("insert article: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func nullableText(s string) any {
	if s == "" {
		return nil
	}
	return s
}
