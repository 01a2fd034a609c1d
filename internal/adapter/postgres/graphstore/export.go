package graphstore

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	postgres "github.com/flontology/flont/internal/adapter/postgres"
	"github.com/flontology/flont/internal/domain"
)

// Export scans use keyset pagination on the node key so the exporter can
// stream arbitrarily large graphs with bounded memory and resume from a
// checkpoint after an interrupted run.

// LiteralPage returns up to limit literals with key > afterKey, in key order.
func (r *Repo) LiteralPage(ctx context.Context, afterKey string, limit uint64) ([]domain.Literal, error) {
	builder := psql.
		Select("id", "key", "title", "etymology", "pronunciation").
		From("literals").
		OrderBy("key").
		Limit(limit)
	if afterKey != "" {
		builder = builder.Where(sq.Gt{"key": afterKey})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("scan literals: %w", err)
	}
	defer rows.Close()

	var out []domain.Literal
	for rows.Next() {
		var l domain.Literal
		if err := rows.Scan(&l.ID, &l.Key, &l.Title, &l.Etymology, &l.Pronunciation); err != nil {
			return nil, fmt.Errorf("scan literal: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan literals: %w", err)
	}

	return out, nil
}

// EntryPage returns up to limit lexical entries with key > afterKey, in key
// order.
func (r *Repo) EntryPage(ctx context.Context, afterKey string, limit uint64) ([]domain.LexicalEntry, error) {
	builder := psql.
		Select("id", "key", "literal_key", "class", "ordinal", "pronunciation", "genders", "numbers").
		From("lexical_entries").
		OrderBy("key").
		Limit(limit)
	if afterKey != "" {
		builder = builder.Where(sq.Gt{"key": afterKey})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("scan entries: %w", err)
	}
	defer rows.Close()

	var out []domain.LexicalEntry
	for rows.Next() {
		var e domain.LexicalEntry
		var class string
		var genders, numbers []string
		if err := rows.Scan(&e.ID, &e.Key, &e.LiteralKey, &class, &e.Ordinal, &e.Pronunciation, &genders, &numbers); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.Class = domain.GrammaticalClass(class)
		e.Genders = stringsToGenders(genders)
		e.Numbers = stringsToNumbers(numbers)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan entries: %w", err)
	}

	return out, nil
}

// SensePage returns up to limit lexical senses with key > afterKey, in key
// order.
func (r *Repo) SensePage(ctx context.Context, afterKey string, limit uint64) ([]domain.LexicalSense, error) {
	builder := psql.
		Select("id", "key", "entry_key", "ordinal", "gloss", "tags", "examples", "depends_on_key").
		From("lexical_senses").
		OrderBy("key").
		Limit(limit)
	if afterKey != "" {
		builder = builder.Where(sq.Gt{"key": afterKey})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("scan senses: %w", err)
	}
	defer rows.Close()

	var out []domain.LexicalSense
	for rows.Next() {
		var s domain.LexicalSense
		var dependsOn *string
		if err := rows.Scan(&s.ID, &s.Key, &s.EntryKey, &s.Ordinal,
			&s.Definition.Gloss, &s.Definition.Tags, &s.Definition.Examples, &dependsOn); err != nil {
			return nil, fmt.Errorf("scan sense: %w", err)
		}
		if dependsOn != nil {
			s.Definition.DependsOnKey = *dependsOn
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan senses: %w", err)
	}

	return out, nil
}

// RelationPage returns up to limit relations after the given cursor, in
// (source_key, kind, target_key) order. A zero cursor starts the scan.
func (r *Repo) RelationPage(ctx context.Context, after domain.Relation, limit uint64) ([]domain.Relation, error) {
	builder := psql.
		Select("source_key", "kind", "target_key", "target_label").
		From("relations").
		OrderBy("source_key", "kind", "target_key").
		Limit(limit)
	if after.SourceKey != "" {
		builder = builder.Where(
			sq.Expr("(source_key, kind, target_key) > (?, ?, ?)",
				after.SourceKey, string(after.Kind), after.TargetKey))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("scan relations: %w", err)
	}
	defer rows.Close()

	var out []domain.Relation
	for rows.Next() {
		var rel domain.Relation
		var kind string
		if err := rows.Scan(&rel.SourceKey, &kind, &rel.TargetKey, &rel.TargetLabel); err != nil {
			return nil, fmt.Errorf("scan relation: %w", err)
		}
		rel.Kind = domain.RelationKind(kind)
		out = append(out, rel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan relations: %w", err)
	}

	return out, nil
}

// InflectionPage returns up to limit inflection facts after the given
// cursor, in (entry_key, feature, target_key) order.
func (r *Repo) InflectionPage(ctx context.Context, after domain.InflectionForm, limit uint64) ([]domain.InflectionForm, error) {
	builder := psql.
		Select("entry_key", "feature", "target_key").
		From("inflection_forms").
		OrderBy("entry_key", "feature", "target_key").
		Limit(limit)
	if after.EntryKey != "" {
		builder = builder.Where(
			sq.Expr("(entry_key, feature, target_key) > (?, ?, ?)",
				after.EntryKey, string(after.Feature), after.TargetKey))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("scan inflections: %w", err)
	}
	defer rows.Close()

	var out []domain.InflectionForm
	for rows.Next() {
		var f domain.InflectionForm
		var feature string
		if err := rows.Scan(&f.EntryKey, &feature, &f.TargetKey); err != nil {
			return nil, fmt.Errorf("scan inflection: %w", err)
		}
		f.Feature = domain.InflectionFeature(feature)
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan inflections: %w", err)
	}

	return out, nil
}

func stringsToGenders(ss []string) []domain.Gender {
	if len(ss) == 0 {
		return nil
	}
	out := make([]domain.Gender, len(ss))
	for i, s := range ss {
		out[i] = domain.Gender(s)
	}
	return out
}

func stringsToNumbers(ss []string) []domain.GrammaticalNumber {
	if len(ss) == 0 {
		return nil
	}
	out := make([]domain.GrammaticalNumber, len(ss))
	for i, s := range ss {
		out[i] = domain.GrammaticalNumber(s)
	}
	return out
}
