package graphstore

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	postgres "github.com/flontology/flont/internal/adapter/postgres"
	"github.com/flontology/flont/internal/domain"
)

// psql builds queries with PostgreSQL $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// EntriesWithoutSenses returns the keys of lexical entries that ended up
// with no senses at all. Entries whose only definitions were inflection
// descriptions are expected here; anything else is an extraction anomaly.
func (r *Repo) EntriesWithoutSenses(ctx context.Context) ([]string, error) {
	query, args, err := psql.
		Select("e.key").
		From("lexical_entries e").
		LeftJoin("lexical_senses s ON s.entry_key = e.key").
		Where("s.key IS NULL").
		Where("NOT EXISTS (SELECT 1 FROM inflection_forms f WHERE f.entry_key = e.key)").
		OrderBy("e.key").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	return r.scanKeys(ctx, query, args)
}

// DanglingRelations returns relations whose target literal does not exist
// in the store. They are kept in the graph; the auditor reports them.
func (r *Repo) DanglingRelations(ctx context.Context) ([]domain.Relation, error) {
	query, args, err := psql.
		Select("rel.source_key", "rel.kind", "rel.target_key", "rel.target_label").
		From("relations rel").
		LeftJoin("literals l ON l.key = rel.target_key").
		Where("l.key IS NULL").
		OrderBy("rel.source_key", "rel.kind", "rel.target_key").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("scan dangling relations: %w", err)
	}
	defer rows.Close()

	var out []domain.Relation
	for rows.Next() {
		var rel domain.Relation
		var kind string
		if err := rows.Scan(&rel.SourceKey, &kind, &rel.TargetKey, &rel.TargetLabel); err != nil {
			return nil, fmt.Errorf("scan dangling relation: %w", err)
		}
		rel.Kind = domain.RelationKind(kind)
		out = append(out, rel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan dangling relations: %w", err)
	}

	return out, nil
}

// DanglingInflectionTargets returns the entry keys of inflection facts
// whose base literal is absent from the store.
func (r *Repo) DanglingInflectionTargets(ctx context.Context) ([]string, error) {
	query, args, err := psql.
		Select("DISTINCT f.entry_key").
		From("inflection_forms f").
		LeftJoin("literals l ON l.key = f.target_key").
		Where("l.key IS NULL").
		OrderBy("f.entry_key").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	return r.scanKeys(ctx, query, args)
}

func (r *Repo) scanKeys(ctx context.Context, query string, args []any) ([]string, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("scan keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan keys: %w", err)
	}

	return keys, nil
}
