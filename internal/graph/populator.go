// Package graph turns parsed literals into persisted graph rows. The
// Populator is the single writer of the pipeline: it resolves node identity
// through a bounded LRU cache backed by store lookups, stages rows into a
// batch and flushes them with retry on transient store errors.
package graph

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/flontology/flont/internal/domain"
)

// Store is the persistence the populator writes against.
type Store interface {
	InsertBatch(ctx context.Context, b *domain.Batch) (domain.BatchCounts, error)
	ExistingLiteralKeys(ctx context.Context, keys []string) (map[string]bool, error)
}

// Options tune the populator. Zero values fall back to defaults.
type Options struct {
	// FlushSize is the staged row count that triggers a batch write.
	FlushSize int
	// CacheSize bounds the literal identity cache.
	CacheSize int
	// MaxRetryElapsed bounds the retry window for one store operation.
	MaxRetryElapsed time.Duration
}

const (
	defaultFlushSize       = 2000
	defaultCacheSize       = 100_000
	defaultMaxRetryElapsed = 30 * time.Second
)

// Stats accumulates what one populate run did.
type Stats struct {
	Articles   int // literals staged for insert
	Duplicates int // literals skipped: already staged or already persisted
	Flushes    int
	Inserted   domain.BatchCounts
}

// Populator stages and writes parsed literals. Not safe for concurrent use;
// the pipeline feeds it from a single goroutine.
type Populator struct {
	store Store
	log   *slog.Logger
	cache *lru.Cache[string, struct{}]
	batch domain.Batch
	opts  Options
	stats Stats
}

// NewPopulator creates a Populator over the given store.
func NewPopulator(store Store, log *slog.Logger, opts Options) (*Populator, error) {
	if opts.FlushSize <= 0 {
		opts.FlushSize = defaultFlushSize
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = defaultCacheSize
	}
	if opts.MaxRetryElapsed <= 0 {
		opts.MaxRetryElapsed = defaultMaxRetryElapsed
	}

	cache, err := lru.New[string, struct{}](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create identity cache: %w", err)
	}

	return &Populator{
		store: store,
		log:   log,
		cache: cache,
		opts:  opts,
	}, nil
}

// Add resolves the literal's identity and stages its rows. A literal whose
// key is already known, from this run or from the store, is skipped whole:
// batches commit atomically, so a persisted key means a fully written
// literal. Crossing the flush threshold triggers a batch write.
func (p *Populator) Add(ctx context.Context, lit *domain.Literal) error {
	if p.cache.Contains(lit.Key) {
		p.stats.Duplicates++
		p.log.Debug("duplicate literal skipped", "key", lit.Key)
		return nil
	}

	existing, err := p.lookup(ctx, lit.Key)
	if err != nil {
		return fmt.Errorf("resolve literal %s: %w", lit.Key, err)
	}
	p.cache.Add(lit.Key, struct{}{})
	if existing {
		p.stats.Duplicates++
		p.log.Debug("persisted literal skipped", "key", lit.Key)
		return nil
	}

	p.batch.Add(lit)
	p.stats.Articles++

	if p.batch.Size() >= p.opts.FlushSize {
		return p.Flush(ctx)
	}
	return nil
}

// Flush writes the staged batch. Safe to call with an empty batch.
func (p *Populator) Flush(ctx context.Context) error {
	if p.batch.Size() == 0 {
		return nil
	}

	var counts domain.BatchCounts
	op := func() error {
		var err error
		counts, err = p.store.InsertBatch(ctx, &p.batch)
		return err
	}
	if err := backoff.Retry(op, p.newBackOff(ctx)); err != nil {
		return fmt.Errorf("flush batch: %w", err)
	}

	p.stats.Flushes++
	p.stats.Inserted.Literals += counts.Literals
	p.stats.Inserted.Entries += counts.Entries
	p.stats.Inserted.Senses += counts.Senses
	p.stats.Inserted.Inflections += counts.Inflections
	p.stats.Inserted.Relations += counts.Relations

	p.log.Debug("batch flushed",
		"staged", p.batch.Size(),
		"inserted", counts.Total(),
	)
	p.batch.Reset()

	return nil
}

// Stats returns the accumulated run statistics.
func (p *Populator) Stats() Stats {
	return p.stats
}

func (p *Populator) lookup(ctx context.Context, key string) (bool, error) {
	var existing map[string]bool
	op := func() error {
		var err error
		existing, err = p.store.ExistingLiteralKeys(ctx, []string{key})
		return err
	}
	if err := backoff.Retry(op, p.newBackOff(ctx)); err != nil {
		return false, err
	}
	return existing[key], nil
}

func (p *Populator) newBackOff(ctx context.Context) backoff.BackOffContext {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = p.opts.MaxRetryElapsed
	return backoff.WithContext(bo, ctx)
}
