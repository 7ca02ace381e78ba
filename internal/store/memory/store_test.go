package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windnewsmapper/windnews-ingest/internal/ingest"
)

func TestTryInsertAssignsIDs(t *testing.T) {
	t.Parallel()

	store := NewStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		inserted, err := store.TryInsert(ctx, ingest.Article{
			Title: "Artykuł",
			URL:   fmt.Sprintf("https://example.pl/%d", i),
		})
		require.NoError(t, err)
		assert.True(t, inserted)
	}
	assert.Equal(t, 3, store.Len())

	a, ok := store.Get("https://example.pl/2")
	require.True(t, ok)
	assert.Equal(t, int64(3), a.ID)
}

func TestTryInsertFirstWriteWins(t *testing.T) {
	t.Parallel()

	store := NewStore()
	ctx := context.Background()

	inserted, err := store.TryInsert(ctx, ingest.Article{Title: "Pierwszy", URL: "https://example.pl/a"})
	require.NoError(t, err)
	require.True(t, inserted)

	inserted, err = store.TryInsert(ctx, ingest.Article{Title: "Drugi", URL: "https://example.pl/a"})
	require.NoError(t, err)
	assert.False(t, inserted)

	a, ok := store.Get("https://example.pl/a")
	require.True(t, ok)
	assert.Equal(t, "Pierwszy", a.Title)
	assert.Equal(t, 1, store.Len())
}

func TestTryInsertConcurrentSameURL(t *testing.T) {
	t.Parallel()

	store := NewStore()
	const writers = 16

	var wins int
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			inserted, err := store.TryInsert(context.Background(), ingest.Article{
				Title: "Wyścig",
				URL:   "https://example.pl/race",
			})
			assert.NoError(t, err)
			if inserted {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, store.Len())
}
