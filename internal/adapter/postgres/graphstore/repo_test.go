package graphstore_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	postgres "github.com/flontology/flont/internal/adapter/postgres"
	"github.com/flontology/flont/internal/adapter/postgres/graphstore"
	"github.com/flontology/flont/internal/adapter/postgres/testhelper"
	"github.com/flontology/flont/internal/domain"
)

func newRepo(t *testing.T) *graphstore.Repo {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return graphstore.New(pool, postgres.NewTxManager(pool))
}

// makeLiteral builds a one-entry one-sense literal under a unique title so
// parallel tests sharing the database never collide.
func makeLiteral(prefix string) *domain.Literal {
	title := prefix + "-" + uuid.New().String()[:8]
	litKey := domain.LiteralKey(title)
	entryKey := domain.EntryKey(litKey, domain.ClassNoun, 1)
	senseKey := domain.SenseKey(entryKey, 1)

	return &domain.Literal{
		ID:    domain.NewID(litKey),
		Key:   litKey,
		Title: title,
		Entries: []domain.LexicalEntry{{
			ID:         domain.NewID(entryKey),
			Key:        entryKey,
			LiteralKey: litKey,
			Class:      domain.ClassNoun,
			Ordinal:    1,
			Senses: []domain.LexicalSense{{
				ID:         domain.NewID(senseKey),
				Key:        senseKey,
				EntryKey:   entryKey,
				Ordinal:    1,
				Definition: domain.Definition{Gloss: "some definition"},
			}},
		}},
	}
}

func TestRepo_InsertBatch_Basic(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()

	var batch domain.Batch
	batch.Add(makeLiteral("insert-basic"))
	batch.Add(makeLiteral("insert-basic"))

	counts, err := repo.InsertBatch(ctx, &batch)
	if err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}
	if counts.Literals != 2 || counts.Entries != 2 || counts.Senses != 2 {
		t.Errorf("counts = %+v, want 2/2/2", counts)
	}
}

func TestRepo_InsertBatch_Idempotent(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()

	lit := makeLiteral("insert-idem")
	var batch domain.Batch
	batch.Add(lit)

	first, err := repo.InsertBatch(ctx, &batch)
	if err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if first.Total() == 0 {
		t.Fatal("first insert wrote nothing")
	}

	second, err := repo.InsertBatch(ctx, &batch)
	if err != nil {
		t.Fatalf("second insert: %v", err)
	}
	if second.Total() != 0 {
		t.Errorf("second insert wrote %d rows, want 0", second.Total())
	}
}

func TestRepo_InsertBatch_Empty(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)

	counts, err := repo.InsertBatch(context.Background(), &domain.Batch{})
	if err != nil {
		t.Fatalf("InsertBatch empty: %v", err)
	}
	if counts.Total() != 0 {
		t.Errorf("expected 0, got %d", counts.Total())
	}
}

func TestRepo_ExistingLiteralKeys(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()

	lit := makeLiteral("existing-keys")
	var batch domain.Batch
	batch.Add(lit)
	if _, err := repo.InsertBatch(ctx, &batch); err != nil {
		t.Fatalf("insert: %v", err)
	}

	missing := "_never-inserted-" + uuid.New().String()[:8]
	existing, err := repo.ExistingLiteralKeys(ctx, []string{lit.Key, missing})
	if err != nil {
		t.Fatalf("ExistingLiteralKeys: %v", err)
	}
	if !existing[lit.Key] {
		t.Errorf("key %q not reported as existing", lit.Key)
	}
	if existing[missing] {
		t.Errorf("key %q reported as existing", missing)
	}
}

func TestRepo_DanglingRelations(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()

	lit := makeLiteral("dangling-rel")
	target := "_missing-target-" + uuid.New().String()[:8]
	lit.Entries[0].Relations = []domain.Relation{{
		SourceKey: lit.Entries[0].Key,
		Kind:      domain.RelationSynonym,
		TargetKey: target,
	}}

	var batch domain.Batch
	batch.Add(lit)
	if _, err := repo.InsertBatch(ctx, &batch); err != nil {
		t.Fatalf("insert: %v", err)
	}

	dangling, err := repo.DanglingRelations(ctx)
	if err != nil {
		t.Fatalf("DanglingRelations: %v", err)
	}
	found := false
	for _, rel := range dangling {
		if rel.TargetKey == target {
			found = true
			if rel.Kind != domain.RelationSynonym {
				t.Errorf("kind = %q, want synonym", rel.Kind)
			}
		}
	}
	if !found {
		t.Errorf("relation to %q not reported as dangling", target)
	}
}

func TestRepo_EntriesWithoutSenses(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()

	lit := makeLiteral("zero-senses")
	lit.Entries[0].Senses = nil

	var batch domain.Batch
	batch.Add(lit)
	if _, err := repo.InsertBatch(ctx, &batch); err != nil {
		t.Fatalf("insert: %v", err)
	}

	keys, err := repo.EntriesWithoutSenses(ctx)
	if err != nil {
		t.Fatalf("EntriesWithoutSenses: %v", err)
	}
	if !containsKey(keys, lit.Entries[0].Key) {
		t.Errorf("entry %q not reported", lit.Entries[0].Key)
	}
}

func TestRepo_EntriesWithoutSenses_IgnoresInflectionEntries(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()

	lit := makeLiteral("inflection-entry")
	lit.Entries[0].Senses = nil
	lit.Entries[0].Inflections = []domain.InflectionForm{{
		EntryKey:  lit.Entries[0].Key,
		Feature:   domain.FeaturePlural,
		TargetKey: "_base-" + uuid.New().String()[:8],
	}}

	var batch domain.Batch
	batch.Add(lit)
	if _, err := repo.InsertBatch(ctx, &batch); err != nil {
		t.Fatalf("insert: %v", err)
	}

	keys, err := repo.EntriesWithoutSenses(ctx)
	if err != nil {
		t.Fatalf("EntriesWithoutSenses: %v", err)
	}
	if containsKey(keys, lit.Entries[0].Key) {
		t.Errorf("inflection-only entry %q reported as anomaly", lit.Entries[0].Key)
	}
}

func TestRepo_LiteralPage_Keyset(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()

	var batch domain.Batch
	for i := range 5 {
		batch.Add(makeLiteral(fmt.Sprintf("page-%d", i)))
	}
	if _, err := repo.InsertBatch(ctx, &batch); err != nil {
		t.Fatalf("insert: %v", err)
	}

	var (
		after string
		total int
		prev  string
	)
	for {
		page, err := repo.LiteralPage(ctx, after, 2)
		if err != nil {
			t.Fatalf("LiteralPage: %v", err)
		}
		if len(page) == 0 {
			break
		}
		for _, l := range page {
			if l.Key <= prev {
				t.Fatalf("keys out of order: %q after %q", l.Key, prev)
			}
			prev = l.Key
			total++
		}
		after = page[len(page)-1].Key
	}

	if total < 5 {
		t.Errorf("paged over %d literals, want at least 5", total)
	}
}

func containsKey(keys []string, want string) bool {
	for _, k := range keys {
		if k == want {
			return true
		}
	}
	return false
}
