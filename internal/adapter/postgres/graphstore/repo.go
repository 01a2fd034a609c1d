// Package graphstore implements the lexical graph repository using
// PostgreSQL. It manages 5 tables (literals + 4 dependent tables). Nodes are
// addressed by their stable key; every insert is idempotent via
// ON CONFLICT DO NOTHING, so repopulating from the same dump is a no-op.
package graphstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/flontology/flont/internal/adapter/postgres"
	"github.com/flontology/flont/internal/domain"
)

// Repo provides lexical graph persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
	txm  *postgres.TxManager
}

// New creates a new graph repository.
func New(pool *pgxpool.Pool, txm *postgres.TxManager) *Repo {
	return &Repo{pool: pool, txm: txm}
}

// InsertBatch writes one staged batch in a single transaction: literals
// first, then entries, senses, inflections and relations, so FK order
// holds. Returned counts are the rows actually inserted per table.
func (r *Repo) InsertBatch(ctx context.Context, b *domain.Batch) (domain.BatchCounts, error) {
	var counts domain.BatchCounts

	err := r.txm.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		if counts.Literals, err = r.bulkInsertLiterals(txCtx, b.Literals); err != nil {
			return err
		}
		if counts.Entries, err = r.bulkInsertEntries(txCtx, b.Entries); err != nil {
			return err
		}
		if counts.Senses, err = r.bulkInsertSenses(txCtx, b.Senses); err != nil {
			return err
		}
		if counts.Inflections, err = r.bulkInsertInflections(txCtx, b.Inflections); err != nil {
			return err
		}
		if counts.Relations, err = r.bulkInsertRelations(txCtx, b.Relations); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return domain.BatchCounts{}, err
	}

	return counts, nil
}

// bulkInsertLiterals inserts literals using pgx.Batch. Existing literals
// (by key) are skipped via ON CONFLICT DO NOTHING.
func (r *Repo) bulkInsertLiterals(ctx context.Context, literals []domain.Literal) (int, error) {
	if len(literals) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, l := range literals {
		batch.Queue(
			`INSERT INTO literals (id, key, title, etymology, pronunciation)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (key) DO NOTHING`,
			l.ID, l.Key, l.Title, l.Etymology, l.Pronunciation,
		)
	}

	return r.sendBatchExec(ctx, batch)
}

// bulkInsertEntries inserts lexical entries using pgx.Batch.
// Existing entries (by key) are skipped via ON CONFLICT DO NOTHING.
func (r *Repo) bulkInsertEntries(ctx context.Context, entries []domain.LexicalEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(
			`INSERT INTO lexical_entries (id, key, literal_key, class, ordinal, pronunciation, genders, numbers)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 ON CONFLICT (key) DO NOTHING`,
			e.ID, e.Key, e.LiteralKey, string(e.Class), e.Ordinal, e.Pronunciation,
			gendersToStrings(e.Genders), numbersToStrings(e.Numbers),
		)
	}

	return r.sendBatchExec(ctx, batch)
}

// bulkInsertSenses inserts lexical senses using pgx.Batch.
// Existing senses (by key) are skipped via ON CONFLICT DO NOTHING.
func (r *Repo) bulkInsertSenses(ctx context.Context, senses []domain.LexicalSense) (int, error) {
	if len(senses) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, s := range senses {
		batch.Queue(
			`INSERT INTO lexical_senses (id, key, entry_key, ordinal, gloss, tags, examples, depends_on_key)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 ON CONFLICT (key) DO NOTHING`,
			s.ID, s.Key, s.EntryKey, s.Ordinal,
			s.Definition.Gloss, emptyIfNil(s.Definition.Tags), emptyIfNil(s.Definition.Examples),
			nilIfEmpty(s.Definition.DependsOnKey),
		)
	}

	return r.sendBatchExec(ctx, batch)
}

// bulkInsertInflections inserts inflection facts using pgx.Batch.
// Existing facts (by unique constraint) are skipped via ON CONFLICT DO NOTHING.
func (r *Repo) bulkInsertInflections(ctx context.Context, forms []domain.InflectionForm) (int, error) {
	if len(forms) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, f := range forms {
		batch.Queue(
			`INSERT INTO inflection_forms (entry_key, feature, target_key)
			 VALUES ($1, $2, $3)
			 ON CONFLICT ON CONSTRAINT uq_inflection_forms DO NOTHING`,
			f.EntryKey, string(f.Feature), f.TargetKey,
		)
	}

	return r.sendBatchExec(ctx, batch)
}

// bulkInsertRelations inserts typed relations using pgx.Batch.
// Existing relations (by unique constraint) are skipped via ON CONFLICT DO NOTHING.
func (r *Repo) bulkInsertRelations(ctx context.Context, relations []domain.Relation) (int, error) {
	if len(relations) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, rel := range relations {
		batch.Queue(
			`INSERT INTO relations (source_key, kind, target_key, target_label)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT ON CONSTRAINT uq_relations DO NOTHING`,
			rel.SourceKey, string(rel.Kind), rel.TargetKey, rel.TargetLabel,
		)
	}

	return r.sendBatchExec(ctx, batch)
}

// ExistingLiteralKeys reports which of the given keys are already present.
// Used by the populator's identity cache on miss.
func (r *Repo) ExistingLiteralKeys(ctx context.Context, keys []string) (map[string]bool, error) {
	if len(keys) == 0 {
		return map[string]bool{}, nil
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := q.Query(ctx, `SELECT key FROM literals WHERE key = ANY($1)`, keys)
	if err != nil {
		return nil, fmt.Errorf("lookup literal keys: %w", err)
	}
	defer rows.Close()

	existing := make(map[string]bool, len(keys))
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan literal key: %w", err)
		}
		existing[key] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("lookup literal keys: %w", err)
	}

	return existing, nil
}

// Counts returns the per-table node and edge totals for the run summary.
func (r *Repo) Counts(ctx context.Context) (domain.GraphCounts, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var gc domain.GraphCounts
	row := q.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM literals),
			(SELECT COUNT(*) FROM lexical_entries),
			(SELECT COUNT(*) FROM lexical_senses),
			(SELECT COUNT(*) FROM inflection_forms),
			(SELECT COUNT(*) FROM relations)`)
	if err := row.Scan(&gc.Literals, &gc.Entries, &gc.Senses, &gc.Inflections, &gc.Relations); err != nil {
		return domain.GraphCounts{}, fmt.Errorf("count graph rows: %w", err)
	}

	return gc, nil
}

// sendBatchExec sends a pgx.Batch and counts affected rows from Exec results.
func (r *Repo) sendBatchExec(ctx context.Context, batch *pgx.Batch) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	results := q.SendBatch(ctx, batch)
	defer results.Close()

	var inserted int
	for range batch.Len() {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("batch exec: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}

	return inserted, nil
}

func gendersToStrings(gs []domain.Gender) []string {
	out := make([]string, len(gs))
	for i, g := range gs {
		out[i] = string(g)
	}
	return out
}

func numbersToStrings(ns []domain.GrammaticalNumber) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = string(n)
	}
	return out
}

// emptyIfNil keeps NOT NULL array columns happy for absent values.
func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// nilIfEmpty returns nil if s is empty, otherwise a pointer to s.
// Used for nullable TEXT columns where empty string means NULL.
func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
