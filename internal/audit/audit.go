// Package audit checks the dump and the populated graph for
// inconsistencies: title collisions in the dump, relations pointing at
// absent literals, entries that produced nothing. Findings are reported,
// never repaired.
package audit

import (
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"

	"github.com/flontology/flont/internal/domain"
	"github.com/flontology/flont/internal/dump"
)

// maxSamples caps the example keys carried in a report.
const maxSamples = 20

// Source is the slice of the dump reader the auditor needs.
type Source interface {
	Count(ctx context.Context) (int64, error)
	Each(ctx context.Context, limit int64, fn func(dump.Row) error) error
}

// StoreScanner is the slice of the graph store the auditor needs.
type StoreScanner interface {
	EntriesWithoutSenses(ctx context.Context) ([]string, error)
	DanglingRelations(ctx context.Context) ([]domain.Relation, error)
	DanglingInflectionTargets(ctx context.Context) ([]string, error)
}

// DuplicateReport summarizes title collisions in the dump. Two articles
// collide when their titles map to the same literal key; a collision whose
// content also differs from the first occurrence is a dump inconsistency,
// not just a repeated row.
type DuplicateReport struct {
	Articles          int64
	Collisions        int
	ContentMismatches int
	Samples           []string // first colliding keys, capped
}

// StoreReport summarizes graph-side findings.
type StoreReport struct {
	EntriesWithoutSenses []string
	DanglingRelations    []domain.Relation
	DanglingInflections  []string
}

// Clean reports whether the store audit found nothing.
func (r StoreReport) Clean() bool {
	return len(r.EntriesWithoutSenses) == 0 &&
		len(r.DanglingRelations) == 0 &&
		len(r.DanglingInflections) == 0
}

// Auditor runs the consistency checks.
type Auditor struct {
	log *slog.Logger
}

// New creates an Auditor.
func New(log *slog.Logger) *Auditor {
	return &Auditor{log: log}
}

// CheckDuplicates scans every dump title and counts literal key collisions.
func (a *Auditor) CheckDuplicates(ctx context.Context, src Source) (DuplicateReport, error) {
	report := DuplicateReport{}

	// Content is compared by hash so the scan holds one word per key, not
	// the article text itself.
	seen := make(map[string]uint64)
	err := src.Each(ctx, 0, func(row dump.Row) error {
		report.Articles++
		key := domain.LiteralKey(row.Title)
		sum := contentHash(row.Content)
		if first, ok := seen[key]; ok {
			report.Collisions++
			if first != sum {
				report.ContentMismatches++
			}
			if len(report.Samples) < maxSamples {
				report.Samples = append(report.Samples, key)
			}
			return nil
		}
		seen[key] = sum
		return nil
	})
	if err != nil {
		return DuplicateReport{}, fmt.Errorf("scan dump titles: %w", err)
	}

	a.log.Info("duplicate check finished",
		"articles", report.Articles,
		"collisions", report.Collisions,
		"content_mismatches", report.ContentMismatches,
	)
	return report, nil
}

func contentHash(content string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(content))
	return h.Sum64()
}

// CheckStore runs the graph-side scans.
func (a *Auditor) CheckStore(ctx context.Context, store StoreScanner) (StoreReport, error) {
	var report StoreReport
	var err error

	if report.EntriesWithoutSenses, err = store.EntriesWithoutSenses(ctx); err != nil {
		return StoreReport{}, fmt.Errorf("scan entries without senses: %w", err)
	}
	if report.DanglingRelations, err = store.DanglingRelations(ctx); err != nil {
		return StoreReport{}, fmt.Errorf("scan dangling relations: %w", err)
	}
	if report.DanglingInflections, err = store.DanglingInflectionTargets(ctx); err != nil {
		return StoreReport{}, fmt.Errorf("scan dangling inflections: %w", err)
	}

	a.log.Info("store audit finished",
		"entries_without_senses", len(report.EntriesWithoutSenses),
		"dangling_relations", len(report.DanglingRelations),
		"dangling_inflections", len(report.DanglingInflections),
	)
	return report, nil
}
