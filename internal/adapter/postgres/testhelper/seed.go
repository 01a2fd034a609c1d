package testhelper

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flontology/flont/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedLiteral inserts a literal row with a unique key directly, bypassing
// the batch writer. Returns the filled domain.Literal.
func SeedLiteral(t *testing.T, pool *pgxpool.Pool) domain.Literal {
	t.Helper()
	ctx := context.Background()

	title := "mot-" + uniqueSuffix()
	lit := domain.Literal{
		Key:           domain.LiteralKey(title),
		Title:         title,
		Pronunciation: "mo",
	}
	lit.ID = domain.NewID(lit.Key)

	_, err := pool.Exec(ctx,
		`INSERT INTO literals (id, key, title, etymology, pronunciation, created_at)
		 VALUES ($1, $2, $3, $4, $5, now())`,
		lit.ID, lit.Key, lit.Title, lit.Etymology, lit.Pronunciation,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedLiteral insert: %v", err)
	}

	return lit
}

// SeedEntry inserts a lexical entry under the given literal.
func SeedEntry(t *testing.T, pool *pgxpool.Pool, lit domain.Literal, class domain.GrammaticalClass, ordinal int) domain.LexicalEntry {
	t.Helper()
	ctx := context.Background()

	entry := domain.LexicalEntry{
		Key:        domain.EntryKey(lit.Key, class, ordinal),
		LiteralKey: lit.Key,
		Class:      class,
		Ordinal:    ordinal,
	}
	entry.ID = domain.NewID(entry.Key)

	_, err := pool.Exec(ctx,
		`INSERT INTO lexical_entries (id, key, literal_key, class, ordinal, pronunciation, genders, numbers)
		 VALUES ($1, $2, $3, $4, $5, $6, '{}', '{}')`,
		entry.ID, entry.Key, entry.LiteralKey, string(entry.Class), entry.Ordinal, entry.Pronunciation,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedEntry insert: %v", err)
	}

	return entry
}
