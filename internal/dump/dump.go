// Package dump reads articles out of a wiki dump converted to a SQLite
// database with a single entries(id, title, content) table.
package dump

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite"
)

// Row is one article of the dump.
type Row struct {
	ID      int64
	Title   string
	Content string
}

// Source streams rows from the dump database.
type Source struct {
	db *sql.DB
}

// Open opens the dump database read-only. A missing file is an error,
// the driver would otherwise create an empty database.
func Open(path string) (*Source, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open dump: %w", err)
	}
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open dump: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open dump: %w", err)
	}
	return &Source{db: db}, nil
}

// Close releases the underlying connection.
func (s *Source) Close() error {
	return s.db.Close()
}

// Count returns the number of articles in the dump.
func (s *Source) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}

// Each streams rows in id order and calls fn for every one. A limit of 0
// reads the whole dump. The first error from fn stops the scan.
func (s *Source) Each(ctx context.Context, limit int64, fn func(Row) error) error {
	query := `SELECT id, title, content FROM entries ORDER BY id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("scan entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.ID, &r.Title, &r.Content); err != nil {
			return fmt.Errorf("scan entry: %w", err)
		}
		if err := fn(r); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("scan entries: %w", err)
	}
	return nil
}
