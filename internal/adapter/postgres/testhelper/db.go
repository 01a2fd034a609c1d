// Package testhelper provides the shared database fixture for integration
// tests. Tests are skipped unless TEST_DATABASE_DSN points at a disposable
// PostgreSQL database; migrations are applied once per test run.
package testhelper

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/flontology/flont/internal/adapter/postgres"
	"github.com/flontology/flont/migrations"
)

var (
	once    sync.Once
	initErr error
)

// SetupTestDB connects to the database named by TEST_DATABASE_DSN, applies
// the embedded goose migrations (once for the entire test run), and returns
// a pgxpool.Pool. The pool is closed via t.Cleanup. Tests calling it must
// tolerate pre-existing rows or truncate the tables they touch.
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	once.Do(func() {
		initErr = postgres.Migrate(ctx, dsn, migrations.FS)
	})
	if initErr != nil {
		t.Fatalf("testhelper: migrate test DB: %v", initErr)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("testhelper: create pgxpool: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
	})

	return pool
}

// TruncateGraph empties every graph table so a test starts from a clean
// slate.
func TruncateGraph(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`TRUNCATE literals, lexical_entries, lexical_senses, inflection_forms, relations`)
	if err != nil {
		t.Fatalf("testhelper: truncate graph tables: %v", err)
	}
}
