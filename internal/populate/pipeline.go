// Package populate orchestrates the full population run: dump rows are
// parsed by a pool of workers, a single writer resolves identity and stages
// graph rows, then the store is audited and exported. Phases report their
// outcome individually; per-article anomalies never stop the run.
package populate

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/flontology/flont/internal/article"
	"github.com/flontology/flont/internal/audit"
	"github.com/flontology/flont/internal/domain"
	"github.com/flontology/flont/internal/dump"
	"github.com/flontology/flont/internal/graph"
)

// allPhases defines the canonical execution order.
var allPhases = []string{"populate", "audit", "export"}

// Config controls one pipeline run.
type Config struct {
	ResourceDir string // taxonomy override directory, "" = embedded defaults
	OutputPath  string // N-Triples target, "" = skip the export phase
	MaxArticles int64  // 0 = whole dump
	Workers     int    // parse workers, <= 0 = GOMAXPROCS
	DryRun      bool   // parse and report, write nothing
}

// Source is the slice of the dump reader the pipeline needs.
type Source interface {
	Count(ctx context.Context) (int64, error)
	Each(ctx context.Context, limit int64, fn func(dump.Row) error) error
}

// Populator is the single writer staging parsed literals.
type Populator interface {
	Add(ctx context.Context, lit *domain.Literal) error
	Flush(ctx context.Context) error
	Stats() graph.Stats
}

// Exporter streams the populated graph to a file.
type Exporter interface {
	Run(ctx context.Context, path string) (int64, error)
}

// PhaseResult holds the outcome of a single pipeline phase.
type PhaseResult struct {
	Processed int
	Skipped   int
	Anomalies int
	Duration  time.Duration
	Err       error
}

// Pipeline orchestrates the populate → audit → export sequence.
type Pipeline struct {
	log      *slog.Logger
	cfg      Config
	src      Source
	parser   *article.Parser
	pop      Populator
	auditor  *audit.Auditor
	scanner  audit.StoreScanner
	exporter Exporter

	results       map[string]PhaseResult
	diagCounts    map[article.DiagKind]int
	unknownTitles map[string]int
	storeReport   audit.StoreReport
}

// NewPipeline creates a new Pipeline.
func NewPipeline(
	log *slog.Logger,
	cfg Config,
	src Source,
	parser *article.Parser,
	pop Populator,
	auditor *audit.Auditor,
	scanner audit.StoreScanner,
	exporter Exporter,
) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	return &Pipeline{
		log:        log,
		cfg:        cfg,
		src:        src,
		parser:     parser,
		pop:        pop,
		auditor:    auditor,
		scanner:    scanner,
		exporter:   exporter,
		results:       make(map[string]PhaseResult),
		diagCounts:    make(map[article.DiagKind]int),
		unknownTitles: make(map[string]int),
	}
}

// Results returns phase results after Run completes.
func (p *Pipeline) Results() map[string]PhaseResult {
	return p.results
}

// HasAnomalies reports whether any phase recorded recoverable anomalies or
// the audit found inconsistencies. A fatal phase error is not an anomaly.
func (p *Pipeline) HasAnomalies() bool {
	for _, r := range p.results {
		if r.Anomalies > 0 {
			return true
		}
	}
	return !p.storeReport.Clean()
}

// Run executes the pipeline phases in order. The first fatal phase error
// stops the run and is returned.
func (p *Pipeline) Run(ctx context.Context) error {
	for _, phase := range allPhases {
		start := time.Now()
		p.log.Info("starting phase", slog.String("phase", phase))

		var result PhaseResult
		switch phase {
		case "populate":
			result = p.runPopulate(ctx)
		case "audit":
			result = p.runAudit(ctx)
		case "export":
			result = p.runExport(ctx)
		}
		result.Duration = time.Since(start)
		p.results[phase] = result

		if result.Err != nil {
			p.log.Error("phase failed",
				slog.String("phase", phase),
				slog.String("error", result.Err.Error()),
				slog.Duration("duration", result.Duration),
			)
			return fmt.Errorf("%s: %w", phase, result.Err)
		}
		p.log.Info("phase completed",
			slog.String("phase", phase),
			slog.Int("processed", result.Processed),
			slog.Int("skipped", result.Skipped),
			slog.Int("anomalies", result.Anomalies),
			slog.Duration("duration", result.Duration),
		)
	}

	p.summary()
	return nil
}

// parseOutcome carries one parsed article from a worker to the writer.
type parseOutcome struct {
	row   dump.Row
	lit   *domain.Literal
	diags []article.Diagnostic
}

// runPopulate streams the dump through the parse workers into the single
// writer. Articles without a matching language section are skipped; other
// diagnostics are counted and processing continues.
func (p *Pipeline) runPopulate(ctx context.Context) PhaseResult {
	total, err := p.src.Count(ctx)
	if err != nil {
		return PhaseResult{Err: err}
	}
	p.log.Info("dump opened", slog.Int64("articles", total), slog.Int("workers", p.cfg.Workers))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	rows := make(chan dump.Row, p.cfg.Workers*4)
	parsed := make(chan parseOutcome, p.cfg.Workers*4)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(rows)
		return p.src.Each(gctx, p.cfg.MaxArticles, func(row dump.Row) error {
			select {
			case rows <- row:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	})

	var workers sync.WaitGroup
	for range p.cfg.Workers {
		workers.Add(1)
		g.Go(func() error {
			defer workers.Done()
			for row := range rows {
				lit, diags := p.parser.Parse(row.Title, row.Content)
				select {
				case parsed <- parseOutcome{row: row, lit: lit, diags: diags}:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}
	go func() {
		workers.Wait()
		close(parsed)
	}()

	var result PhaseResult
	var writeErr error
	for outcome := range parsed {
		skipped := p.recordDiagnostics(outcome, &result)
		if skipped || writeErr != nil || p.cfg.DryRun {
			continue
		}
		if err := p.pop.Add(ctx, outcome.lit); err != nil {
			writeErr = err
			cancel()
		}
	}

	if writeErr != nil {
		return PhaseResult{Err: writeErr}
	}
	if err := g.Wait(); err != nil {
		return PhaseResult{Err: err}
	}
	if !p.cfg.DryRun {
		if err := p.pop.Flush(ctx); err != nil {
			return PhaseResult{Err: err}
		}
	}

	stats := p.popStats()
	p.log.Info("populate finished",
		slog.Int("staged", stats.Articles),
		slog.Int("duplicates", stats.Duplicates),
		slog.Int("inserted", stats.Inserted.Total()),
	)
	return result
}

// popStats returns populator stats, or zeros when a dry run carries no
// populator at all.
func (p *Pipeline) popStats() graph.Stats {
	if p.pop == nil {
		return graph.Stats{}
	}
	return p.pop.Stats()
}

// recordDiagnostics counts an article's diagnostics and reports whether the
// article is skipped outright (no section in the target language).
func (p *Pipeline) recordDiagnostics(outcome parseOutcome, result *PhaseResult) bool {
	skipped := false
	for _, d := range outcome.diags {
		p.diagCounts[d.Kind]++
		if d.Kind == article.DiagUnknownSection {
			p.unknownTitles[d.Detail]++
		}
		if d.Kind == article.DiagNoLanguage {
			skipped = true
			continue
		}
		result.Anomalies++
		p.log.Debug("article anomaly",
			slog.Int64("article_id", outcome.row.ID),
			slog.String("article", outcome.row.Title),
			slog.String("kind", string(d.Kind)),
			slog.String("detail", d.Detail),
		)
	}
	if skipped {
		result.Skipped++
	} else {
		result.Processed++
	}
	return skipped
}

func (p *Pipeline) runAudit(ctx context.Context) PhaseResult {
	if p.cfg.DryRun {
		return PhaseResult{Skipped: 1}
	}

	report, err := p.auditor.CheckStore(ctx, p.scanner)
	if err != nil {
		return PhaseResult{Err: err}
	}
	p.storeReport = report

	return PhaseResult{
		Anomalies: len(report.EntriesWithoutSenses) +
			len(report.DanglingRelations) +
			len(report.DanglingInflections),
	}
}

func (p *Pipeline) runExport(ctx context.Context) PhaseResult {
	if p.cfg.OutputPath == "" || p.cfg.DryRun {
		return PhaseResult{Skipped: 1}
	}

	triples, err := p.exporter.Run(ctx, p.cfg.OutputPath)
	if err != nil {
		return PhaseResult{Err: err}
	}
	return PhaseResult{Processed: int(triples)}
}

// summary logs the final per-category anomaly breakdown.
func (p *Pipeline) summary() {
	stats := p.popStats()
	attrs := []any{
		slog.Int("articles_processed", p.results["populate"].Processed),
		slog.Int("articles_skipped", p.results["populate"].Skipped),
		slog.Int("duplicates", stats.Duplicates),
		slog.Int("rows_inserted", stats.Inserted.Total()),
		slog.Int("triples_exported", p.results["export"].Processed),
	}
	for kind, count := range p.diagCounts {
		attrs = append(attrs, slog.Int("anomaly_"+string(kind), count))
	}
	if !p.storeReport.Clean() {
		attrs = append(attrs,
			slog.Int("entries_without_senses", len(p.storeReport.EntriesWithoutSenses)),
			slog.Int("dangling_relations", len(p.storeReport.DanglingRelations)),
			slog.Int("dangling_inflections", len(p.storeReport.DanglingInflections)),
		)
	}
	p.log.Info("pipeline completed", attrs...)

	if len(p.unknownTitles) > 0 {
		// Sorted so the report is stable between runs.
		titles := make([]string, 0, len(p.unknownTitles))
		for title := range p.unknownTitles {
			titles = append(titles, title)
		}
		sort.Strings(titles)
		for _, title := range titles {
			p.log.Warn("unknown section title",
				slog.String("title", title),
				slog.Int("occurrences", p.unknownTitles[title]),
			)
		}
	}
}
