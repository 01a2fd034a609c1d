package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flontology/flont/internal/adapter/postgres"
	"github.com/flontology/flont/internal/adapter/postgres/testhelper"
)

// literalExists checks whether a literal row with the given key exists.
func literalExists(t *testing.T, pool *pgxpool.Pool, key string) bool {
	t.Helper()
	var exists bool
	err := pool.QueryRow(
		context.Background(),
		`SELECT EXISTS(SELECT 1 FROM literals WHERE key = $1)`,
		key,
	).Scan(&exists)
	if err != nil {
		t.Fatalf("literalExists query: %v", err)
	}
	return exists
}

func insertLiteral(ctx context.Context, q postgres.Querier, key, title string) error {
	_, err := q.Exec(ctx,
		`INSERT INTO literals (id, key, title, created_at)
		 VALUES ($1, $2, $3, now())`,
		uuid.New(), key, title,
	)
	return err
}

func TestRunInTx_Commit(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	key := "_commit_" + uuid.New().String()[:8]

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		q := postgres.QuerierFromCtx(ctx, pool)
		return insertLiteral(ctx, q, key, "commit test")
	})
	if err != nil {
		t.Fatalf("RunInTx returned error: %v", err)
	}

	if !literalExists(t, pool, key) {
		t.Fatal("expected literal to exist after committed transaction")
	}
}

func TestRunInTx_RollbackOnError(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	key := "_rollback_" + uuid.New().String()[:8]
	sentinel := errors.New("business logic error")

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		q := postgres.QuerierFromCtx(ctx, pool)
		if execErr := insertLiteral(ctx, q, key, "rollback test"); execErr != nil {
			t.Fatalf("insert inside tx failed: %v", execErr)
		}
		return sentinel
	})

	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got: %v", err)
	}

	if literalExists(t, pool, key) {
		t.Fatal("expected literal NOT to exist after rolled-back transaction")
	}
}

func TestRunInTx_RollbackOnPanic(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	key := "_panic_" + uuid.New().String()[:8]

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic to be re-raised")
		}
		if r != "test panic" {
			t.Fatalf("expected panic value %q, got %v", "test panic", r)
		}

		// Verify data was rolled back.
		if literalExists(t, pool, key) {
			t.Fatal("expected literal NOT to exist after panic-rolled-back transaction")
		}
	}()

	_ = tm.RunInTx(context.Background(), func(ctx context.Context) error {
		q := postgres.QuerierFromCtx(ctx, pool)
		if err := insertLiteral(ctx, q, key, "panic test"); err != nil {
			t.Fatalf("insert inside tx failed: %v", err)
		}
		panic("test panic")
	})
}

func TestRunInTx_QuerierFromCtx_UsesTx(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	key := "_ctx_" + uuid.New().String()[:8]

	// Insert inside a transaction, then verify it's visible within the same tx
	// but NOT outside until commit.
	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		q := postgres.QuerierFromCtx(ctx, pool)
		if err := insertLiteral(ctx, q, key, "ctx test"); err != nil {
			return err
		}

		// Should be visible within the transaction.
		var exists bool
		err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM literals WHERE key = $1)`, key).Scan(&exists)
		if err != nil {
			return err
		}
		if !exists {
			t.Fatal("expected literal to be visible within the transaction")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("RunInTx returned error: %v", err)
	}

	// After commit, also visible outside.
	if !literalExists(t, pool, key) {
		t.Fatal("expected literal to exist after committed transaction")
	}
}
