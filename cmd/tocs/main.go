// Command tocs extracts the distribution of section headings from a
// Wiktionary dump and writes it as TSV. The output is the raw material
// for maintaining the section taxonomy: each distinct (level, heading)
// pair appears once with its occurrence count and a sample article.
//
// Flags:
//
//	--database  path to the SQLite dump (required)
//	--output    TSV output path (default: stdout)
//	-v / -q     debug / warnings-only logging
//
// Exit codes: 0 = success, 2 = fatal error.
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/flontology/flont/internal/app"
	"github.com/flontology/flont/internal/audit"
	"github.com/flontology/flont/internal/config"
	"github.com/flontology/flont/internal/dump"
)

func main() {
	dumpFlag := flag.String("database", "", "path to the SQLite dump (required)")
	outputFlag := flag.String("output", "", "TSV output path (default: stdout)")
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

	os.Exit(run(ctx, logger, *dumpFlag, *outputFlag))
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

func run(ctx context.Context, logger *slog.Logger, dumpPath, outputPath string) int {
	src, err := dump.Open(dumpPath)
	if err != nil {
		logger.Error("open dump", slog.String("error", err.Error()))
		return 2
	}
	defer src.Close()

	var w io.Writer = os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			logger.Error("create output", slog.String("error", err.Error()))
			return 2
		}
		defer f.Close()
		w = f
	}

	headings, err := audit.New(logger).ExtractTOCs(ctx, src, w)
	if err != nil {
		logger.Error("extract tocs", slog.String("error", err.Error()))
		return 2
	}

	logger.Info("tocs extracted", slog.Int("headings", headings))
	return 0
}
