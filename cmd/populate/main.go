// Command populate builds the lexical graph from a Wiktionary dump.
// It streams articles from the SQLite dump, parses their wikitext into
// literals, entries, senses, inflections and relations, writes them to
// PostgreSQL, audits the result, and optionally exports N-Triples.
//
// Flags:
//
//	--database      path to the SQLite dump (required)
//	--resources     taxonomy override directory (default: embedded)
//	--output        N-Triples output path (default: skip export)
//	--max-articles  stop after N articles (default: whole dump)
//	--workers       parse worker count (default: GOMAXPROCS)
//	--dry-run       parse and report without writing to DB
//	-v / -q         debug / warnings-only logging
//
// Exit codes: 0 = clean run, 1 = recoverable anomalies, 2 = fatal error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/flontology/flont/internal/adapter/postgres"
	"github.com/flontology/flont/internal/adapter/postgres/graphstore"
	"github.com/flontology/flont/internal/app"
	"github.com/flontology/flont/internal/article"
	"github.com/flontology/flont/internal/audit"
	"github.com/flontology/flont/internal/config"
	"github.com/flontology/flont/internal/dump"
	"github.com/flontology/flont/internal/export"
	"github.com/flontology/flont/internal/graph"
	"github.com/flontology/flont/internal/populate"
	"github.com/flontology/flont/internal/taxonomy"
	"github.com/flontology/flont/migrations"
)

func main() {
	dumpFlag := flag.String("database", "", "path to the SQLite dump (required)")
	resourcesFlag := flag.String("resources", "", "taxonomy override directory")
	outputFlag := flag.String("output", "", "N-Triples output path (default: skip export)")
	maxArticlesFlag := flag.Int64("max-articles", 0, "stop after N articles (0 = whole dump)")
	workersFlag := flag.Int("workers", 0, "parse worker count (0 = GOMAXPROCS)")
	dryRunFlag := flag.Bool("dry-run", false, "parse and report without writing to DB")
	verboseFlag := flag.Bool("v", false, "debug logging")
	quietFlag := flag.Bool("q", false, "warnings only")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	applyVerbosity(&cfg.Log, *verboseFlag, *quietFlag)

	logger := app.NewLogger(cfg.Log)

	if *dumpFlag == "" {
		logger.Error("missing required flag --database")
		os.Exit(2)
	}
	if cfg.Database.DSN == "" && !*dryRunFlag {
		logger.Error("database.dsn is required unless --dry-run is set")
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("starting populate",
		slog.String("version", app.BuildVersion()),
		slog.String("dump", *dumpFlag),
		slog.Bool("dry_run", *dryRunFlag),
	)

	os.Exit(run(ctx, logger, cfg, populate.Config{
		ResourceDir: *resourcesFlag,
		OutputPath:  *outputFlag,
		MaxArticles: *maxArticlesFlag,
		Workers:     firstPositive(*workersFlag, cfg.Pipeline.Workers),
		DryRun:      *dryRunFlag,
	}, *dumpFlag))
}

func run(ctx context.Context, logger *slog.Logger, cfg *config.Config, pipeCfg populate.Config, dumpPath string) int {
	src, err := dump.Open(dumpPath)
	if err != nil {
		logger.Error("open dump", slog.String("error", err.Error()))
		return 2
	}
	defer src.Close()

	tax, err := taxonomy.Load(pipeCfg.ResourceDir)
	if err != nil {
		logger.Error("load taxonomy", slog.String("error", err.Error()))
		return 2
	}
	parser := article.New(tax)
	auditor := audit.New(logger)

	var (
		pop      populate.Populator
		exporter populate.Exporter
		scanner  audit.StoreScanner
	)
	if !pipeCfg.DryRun {
		if err := postgres.Migrate(ctx, cfg.Database.DSN, migrations.FS); err != nil {
			logger.Error("apply migrations", slog.String("error", err.Error()))
			return 2
		}
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Error("connect to database", slog.String("error", err.Error()))
			return 2
		}
		defer pool.Close()

		store := graphstore.New(pool, postgres.NewTxManager(pool))
		scanner = store

		p, err := graph.NewPopulator(store, logger, graph.Options{
			FlushSize: cfg.Pipeline.FlushSize,
			CacheSize: cfg.Pipeline.CacheSize,
		})
		if err != nil {
			logger.Error("create populator", slog.String("error", err.Error()))
			return 2
		}
		pop = p

		exporter = export.New(store, logger, export.Options{
			PageSize:        cfg.Export.PageSize,
			MaxRetryElapsed: cfg.Export.MaxRetryElapsed,
		})
	}

	pipeline := populate.NewPipeline(logger, pipeCfg, src, parser, pop, auditor, scanner, exporter)
	if err := pipeline.Run(ctx); err != nil {
		logger.Error("pipeline failed", slog.String("error", err.Error()))
		return 2
	}
	if pipeline.HasAnomalies() {
		logger.Warn("pipeline completed with anomalies")
		return 1
	}
	logger.Info("pipeline completed cleanly")
	return 0
}

// applyVerbosity lets the CLI flags override the configured log level.
// -v wins over -q when both are given.
func applyVerbosity(cfg *config.LogConfig, verbose, quiet bool) {
	if quiet {
		cfg.Level = "warn"
	}
	if verbose {
		cfg.Level = "debug"
	}
}

func firstPositive(vals ...int) int {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}
