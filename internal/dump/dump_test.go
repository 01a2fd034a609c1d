package dump

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func newTestDump(t *testing.T, rows map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dump.sqlite3")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE entries (id INTEGER PRIMARY KEY, title TEXT, content TEXT)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	for title, content := range rows {
		if _, err := db.Exec(`INSERT INTO entries (title, content) VALUES (?, ?)`, title, content); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	return path
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope.sqlite3")); err == nil {
		t.Fatal("expected error for missing dump file")
	}
}

func TestCountAndEach(t *testing.T) {
	path := newTestDump(t, map[string]string{
		"chat":   "== {{langue|fr}} ==",
		"chien":  "== {{langue|fr}} ==",
		"cheval": "== {{langue|fr}} ==",
	})

	src, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer src.Close()

	ctx := context.Background()
	n, err := src.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 3 {
		t.Fatalf("count = %d, want 3", n)
	}

	var titles []string
	err = src.Each(ctx, 0, func(r Row) error {
		if r.ID == 0 {
			t.Errorf("row %q has zero id", r.Title)
		}
		titles = append(titles, r.Title)
		return nil
	})
	if err != nil {
		t.Fatalf("each: %v", err)
	}
	if len(titles) != 3 {
		t.Fatalf("saw %d rows, want 3", len(titles))
	}
}

func TestEachLimit(t *testing.T) {
	path := newTestDump(t, map[string]string{"a": "x", "b": "y", "c": "z"})
	src, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer src.Close()

	var seen int
	if err := src.Each(context.Background(), 2, func(Row) error {
		seen++
		return nil
	}); err != nil {
		t.Fatalf("each: %v", err)
	}
	if seen != 2 {
		t.Fatalf("saw %d rows, want 2", seen)
	}
}

func TestEachStopsOnCallbackError(t *testing.T) {
	path := newTestDump(t, map[string]string{"a": "x", "b": "y"})
	src, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer src.Close()

	sentinel := errors.New("stop")
	var seen int
	err = src.Each(context.Background(), 0, func(Row) error {
		seen++
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("err = %v, want sentinel", err)
	}
	if seen != 1 {
		t.Fatalf("callback ran %d times, want 1", seen)
	}
}
