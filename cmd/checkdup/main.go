// Command checkdup scans a Wiktionary dump for article titles that
// normalize to the same graph key, and, when a database DSN is configured,
// checks the populated graph for consistency (entries without senses and
// dangling relation or inflection targets).
//
// Flags:
//
//	--database    path to the SQLite dump (required)
//	--skip-store  do not check the graph store even if a DSN is configured
//	-v / -q       debug / warnings-only logging
//
// Exit codes: 0 = clean, 1 = duplicates or inconsistencies found, 2 = fatal error.
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
	"github.com/flontology/flont/internal/audit"
	"github.com/flontology/flont/internal/config"
	"github.com/flontology/flont/internal/dump"
)

func main() {
	dumpFlag := flag.String("database", "", "path to the SQLite dump (required)")
	skipStoreFlag := flag.Bool("skip-store", false, "do not check the graph store")
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

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	os.Exit(run(ctx, logger, cfg, *dumpFlag, *skipStoreFlag))
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

func run(ctx context.Context, logger *slog.Logger, cfg *config.Config, dumpPath string, skipStore bool) int {
	src, err := dump.Open(dumpPath)
	if err != nil {
		logger.Error("open dump", slog.String("error", err.Error()))
		return 2
	}
	defer src.Close()

	auditor := audit.New(logger)

	report, err := auditor.CheckDuplicates(ctx, src)
	if err != nil {
		logger.Error("check duplicates", slog.String("error", err.Error()))
		return 2
	}

	dirty := report.Collisions > 0

	if !skipStore && cfg.Database.DSN != "" {
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Error("connect to database", slog.String("error", err.Error()))
			return 2
		}
		defer pool.Close()

		store := graphstore.New(pool, postgres.NewTxManager(pool))
		storeReport, err := auditor.CheckStore(ctx, store)
		if err != nil {
			logger.Error("check store", slog.String("error", err.Error()))
			return 2
		}
		if !storeReport.Clean() {
			dirty = true
		}
	}

	if dirty {
		return 1
	}
	return 0
}
