package graph

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flontology/flont/internal/domain"
)

// ---------------------------------------------------------------------------
// Manual mocks (moq-style with func fields)
// ---------------------------------------------------------------------------

type mockStore struct {
	InsertBatchFunc         func(ctx context.Context, b *domain.Batch) (domain.BatchCounts, error)
	ExistingLiteralKeysFunc func(ctx context.Context, keys []string) (map[string]bool, error)
}

func (m *mockStore) InsertBatch(ctx context.Context, b *domain.Batch) (domain.BatchCounts, error) {
	return m.InsertBatchFunc(ctx, b)
}

func (m *mockStore) ExistingLiteralKeys(ctx context.Context, keys []string) (map[string]bool, error) {
	if m.ExistingLiteralKeysFunc != nil {
		return m.ExistingLiteralKeysFunc(ctx, keys)
	}
	return map[string]bool{}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testLiteral(title string) *domain.Literal {
	key := domain.LiteralKey(title)
	entryKey := domain.EntryKey(key, domain.ClassNoun, 1)
	return &domain.Literal{
		ID:    domain.NewID(key),
		Key:   key,
		Title: title,
		Entries: []domain.LexicalEntry{{
			ID:         domain.NewID(entryKey),
			Key:        entryKey,
			LiteralKey: key,
			Class:      domain.ClassNoun,
			Ordinal:    1,
		}},
	}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestPopulatorFlushesAtThreshold(t *testing.T) {
	var inserts int
	store := &mockStore{
		InsertBatchFunc: func(_ context.Context, b *domain.Batch) (domain.BatchCounts, error) {
			inserts++
			return domain.BatchCounts{Literals: len(b.Literals), Entries: len(b.Entries)}, nil
		},
	}

	p, err := NewPopulator(store, testLogger(), Options{FlushSize: 4})
	require.NoError(t, err)

	ctx := context.Background()
	// Each literal stages 2 rows, so the threshold fires on every second add.
	require.NoError(t, p.Add(ctx, testLiteral("chat")))
	require.NoError(t, p.Add(ctx, testLiteral("chien")))
	require.NoError(t, p.Add(ctx, testLiteral("cheval")))

	assert.Equal(t, 1, inserts)

	require.NoError(t, p.Flush(ctx))
	assert.Equal(t, 2, inserts)

	stats := p.Stats()
	assert.Equal(t, 3, stats.Articles)
	assert.Equal(t, 0, stats.Duplicates)
	assert.Equal(t, 3, stats.Inserted.Literals)
	assert.Equal(t, 3, stats.Inserted.Entries)
}

func TestPopulatorSkipsDuplicateInRun(t *testing.T) {
	store := &mockStore{
		InsertBatchFunc: func(_ context.Context, b *domain.Batch) (domain.BatchCounts, error) {
			return domain.BatchCounts{Literals: len(b.Literals)}, nil
		},
	}

	p, err := NewPopulator(store, testLogger(), Options{})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, p.Add(ctx, testLiteral("chat")))
	require.NoError(t, p.Add(ctx, testLiteral("chat")))
	require.NoError(t, p.Flush(ctx))

	stats := p.Stats()
	assert.Equal(t, 1, stats.Articles)
	assert.Equal(t, 1, stats.Duplicates)
	assert.Equal(t, 1, stats.Inserted.Literals)
}

func TestPopulatorSkipsPersistedLiteral(t *testing.T) {
	var lookups int
	store := &mockStore{
		InsertBatchFunc: func(_ context.Context, b *domain.Batch) (domain.BatchCounts, error) {
			return domain.BatchCounts{}, nil
		},
		ExistingLiteralKeysFunc: func(_ context.Context, keys []string) (map[string]bool, error) {
			lookups++
			return map[string]bool{"_chat": true}, nil
		},
	}

	p, err := NewPopulator(store, testLogger(), Options{})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, p.Add(ctx, testLiteral("chat")))
	// Second add hits the cache, not the store.
	require.NoError(t, p.Add(ctx, testLiteral("chat")))

	assert.Equal(t, 1, lookups)

	stats := p.Stats()
	assert.Equal(t, 0, stats.Articles)
	assert.Equal(t, 2, stats.Duplicates)
}

func TestPopulatorRetriesTransientFlushError(t *testing.T) {
	var attempts int
	store := &mockStore{
		InsertBatchFunc: func(_ context.Context, b *domain.Batch) (domain.BatchCounts, error) {
			attempts++
			if attempts < 3 {
				return domain.BatchCounts{}, errors.New("connection reset")
			}
			return domain.BatchCounts{Literals: len(b.Literals)}, nil
		},
	}

	p, err := NewPopulator(store, testLogger(), Options{MaxRetryElapsed: 5 * time.Second})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, p.Add(ctx, testLiteral("chat")))
	require.NoError(t, p.Flush(ctx))

	assert.Equal(t, 3, attempts)
	assert.Equal(t, 1, p.Stats().Inserted.Literals)
}

func TestPopulatorFlushEmptyIsNoop(t *testing.T) {
	store := &mockStore{
		InsertBatchFunc: func(_ context.Context, b *domain.Batch) (domain.BatchCounts, error) {
			t.Fatal("InsertBatch called for empty batch")
			return domain.BatchCounts{}, nil
		},
	}

	p, err := NewPopulator(store, testLogger(), Options{})
	require.NoError(t, err)
	require.NoError(t, p.Flush(context.Background()))
	assert.Equal(t, 0, p.Stats().Flushes)
}
