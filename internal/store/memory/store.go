// Package memory provides an in-memory article store for tests and local
// development runs without a database.
package memory

import (
	"context"
	"sync"

	"github.com/windnewsmapper/windnews-ingest/internal/ingest"
)

// Store keeps articles keyed by URL, enforcing the same first-write-wins
// dedup contract as the Postgres store. Safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	articles map[string]ingest.Article
	nextID   int64
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{articles: make(map[string]ingest.Article)}
}

// TryInsert stores the article unless its URL is already known. Duplicates
// never overwrite the existing entry.
func (s *Store) TryInsert(_ context.Context, article ingest.Article) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.articles[article.URL]; exists {
		return false, nil
	}
	s.nextID++
	article.ID = s.nextID
	s.articles[article.URL] = article
	return true, nil
}

// Ping always succeeds; the store has no external dependency.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op, present for symmetry with the Postgres store.
func (s *Store) Close() {}

// Len reports how many distinct articles are stored.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.articles)
}

// Get returns the stored article for a URL, if any.
func (s *Store) Get(url string) (ingest.Article, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.articles[url]
	return a, ok
}
