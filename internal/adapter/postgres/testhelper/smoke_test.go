package testhelper

import (
	"context"
	"testing"

	"github.com/flontology/flont/internal/domain"
)

func TestSetupTestDB_Smoke(t *testing.T) {
	pool := SetupTestDB(t)

	lit := SeedLiteral(t, pool)
	entry := SeedEntry(t, pool, lit, domain.ClassNoun, 1)

	// Verify both rows exist via SELECT.
	var title string
	err := pool.QueryRow(
		context.Background(),
		`SELECT title FROM literals WHERE key = $1`,
		lit.Key,
	).Scan(&title)
	if err != nil {
		t.Fatalf("expected literal in DB, got error: %v", err)
	}
	if title != lit.Title {
		t.Fatalf("expected title %q, got %q", lit.Title, title)
	}

	var literalKey string
	err = pool.QueryRow(
		context.Background(),
		`SELECT literal_key FROM lexical_entries WHERE key = $1`,
		entry.Key,
	).Scan(&literalKey)
	if err != nil {
		t.Fatalf("expected entry in DB, got error: %v", err)
	}
	if literalKey != lit.Key {
		t.Fatalf("expected literal_key %q, got %q", lit.Key, literalKey)
	}
}
