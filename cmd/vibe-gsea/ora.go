package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-gsea/internal/enrich"
	"github.com/inodb/vibe-gsea/internal/genestats"
	"github.com/inodb/vibe-gsea/internal/output"
)

func runORA(args []string) int {
	fs := flag.NewFlagSet("ora", flag.ExitOnError)

	var (
		gmtPath    string
		statsPath  string
		queryPath  string
		outputFile string
		universe   int
		minSize    int
		maxSize    int
		scoreSD    float64
		alpha      float64
		fdr        float64
		workers    int
		verbose    bool
	)

	fs.StringVar(&gmtPath, "gmt", "", "Gene set library in GMT format (required)")
	fs.StringVar(&statsPath, "stats", "", "Per-gene statistics table (CSV/TSV with gene, score, optional pvalue/padj columns)")
	fs.StringVar(&queryPath, "query", "", "Explicit query gene list, one gene per line (bypasses the threshold policy)")
	fs.StringVar(&outputFile, "o", "", "Output file (default: stdout)")
	fs.StringVar(&outputFile, "output", "", "Output file (default: stdout)")
	fs.IntVar(&universe, "universe", viper.GetInt("ora.universe"), "Background universe size (default: gene count in --stats)")
	fs.IntVar(&minSize, "min-size", intOr("sets.min_size", 5), "Minimum gene set size")
	fs.IntVar(&maxSize, "max-size", intOr("sets.max_size", 500), "Maximum gene set size")
	fs.Float64Var(&scoreSD, "score-sd", floatOr("ora.score_sd", 1.5), "Query threshold: standard deviations above the mean score")
	fs.Float64Var(&alpha, "alpha", floatOr("ora.alpha", 0.05), "Query threshold: maximum adjusted p-value")
	fs.Float64Var(&fdr, "fdr", 0, "Only report gene sets with adjusted p-value below this (0 = all)")
	fs.IntVar(&workers, "workers", 0, "Worker count (default: number of CPUs)")
	fs.BoolVar(&verbose, "verbose", false, "Verbose logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Test which gene sets are over-represented in a significant gene subset.

The query subset comes either from --query (explicit gene list) or from
--stats, where genes scoring above mean + score-sd standard deviations with
adjusted p-value below alpha are selected.

Usage:
  vibe-gsea ora [options]

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  vibe-gsea ora --gmt kegg.gmt --stats degs.csv --universe 20000
  vibe-gsea ora --gmt go_bp.gmt --query significant_genes.txt --universe 18000
  vibe-gsea ora --gmt kegg.gmt --stats degs.tsv --fdr 0.05 -o enrichment.tsv
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	if gmtPath == "" {
		fmt.Fprintf(os.Stderr, "Error: --gmt is required\n\n")
		fs.Usage()
		return ExitUsage
	}
	if statsPath == "" && queryPath == "" {
		fmt.Fprintf(os.Stderr, "Error: one of --stats or --query is required\n\n")
		fs.Usage()
		return ExitUsage
	}
	if queryPath != "" && universe <= 0 {
		fmt.Fprintf(os.Stderr, "Error: --universe is required with --query\n\n")
		fs.Usage()
		return ExitUsage
	}

	logger := newLogger(verbose)
	defer logger.Sync()

	catalog, err := enrich.LoadGMT(gmtPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading gene sets: %v\n", err)
		return ExitError
	}
	tested := catalog.FilterBySize(minSize, maxSize)
	fmt.Fprintf(os.Stderr, "Loaded %d gene sets (%d within size bounds [%d, %d])\n",
		catalog.Len(), tested.Len(), minSize, maxSize)

	var query []string
	if queryPath != "" {
		query, err = readGeneList(queryPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading query genes: %v\n", err)
			return ExitError
		}
	} else {
		db, err := genestats.Open(":memory:")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening statistics source: %v\n", err)
			return ExitError
		}
		defer db.Close()

		rows, err := db.LoadCSV(statsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading gene statistics: %v\n", err)
			return ExitError
		}

		list, err := enrich.NewRankedGeneList(genestats.ToEntries(rows))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitError
		}
		if universe == 0 {
			universe = list.Len()
		}
		query = list.QuerySubset(enrich.QueryPolicy{MinScoreSD: scoreSD, MaxAdjP: alpha})
		fmt.Fprintf(os.Stderr, "Selected %d query genes from %d\n", len(query), list.Len())
	}

	tester := enrich.NewORATester(enrich.ORAConfig{Universe: universe, Workers: workers})
	tester.SetLogger(logger)

	report, err := tester.Run(context.Background(), query, tested)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	if fdr > 0 {
		report.Results = report.Significant(fdr)
	}

	return writeReport(report, enrich.ModeORA, outputFile)
}

// readGeneList reads one gene identifier per line, skipping blanks and # comments.
func readGeneList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gene list: %w", err)
	}
	defer f.Close()

	var genes []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		genes = append(genes, line)
	}
	return genes, scanner.Err()
}

// writeReport writes a report to the output file or stdout.
func writeReport(report *enrich.Report, mode enrich.Mode, outputFile string) int {
	out := os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
			return ExitError
		}
		defer f.Close()
		out = f
	}

	if err := output.NewTabWriter(out, mode).WriteReport(report); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
		return ExitError
	}
	return ExitSuccess
}

// newLogger returns a development logger when verbose, a no-op otherwise.
func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func intOr(key string, fallback int) int {
	if viper.IsSet(key) {
		return viper.GetInt(key)
	}
	return fallback
}

func floatOr(key string, fallback float64) float64 {
	if viper.IsSet(key) {
		return viper.GetFloat64(key)
	}
	return fallback
}
