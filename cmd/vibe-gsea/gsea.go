package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/inodb/vibe-gsea/internal/enrich"
	"github.com/inodb/vibe-gsea/internal/genestats"
)

func runGSEA(args []string) int {
	fs := flag.NewFlagSet("gsea", flag.ExitOnError)

	var (
		gmtPath      string
		rnkPath      string
		outputFile   string
		permutations int
		seed         uint64
		weight       float64
		minSize      int
		maxSize      int
		fdr          float64
		workers      int
		verbose      bool
	)

	fs.StringVar(&gmtPath, "gmt", "", "Gene set library in GMT format (required)")
	fs.StringVar(&rnkPath, "rnk", "", "Ranked gene list (gene <tab> score, required)")
	fs.StringVar(&outputFile, "o", "", "Output file (default: stdout)")
	fs.StringVar(&outputFile, "output", "", "Output file (default: stdout)")
	fs.IntVar(&permutations, "permutations", intOr("gsea.permutations", enrich.DefaultPermutations), "Label permutation count for the null distribution")
	fs.Uint64Var(&seed, "seed", uint64(intOr("gsea.seed", 42)), "Base random seed (runs with the same seed reproduce exactly)")
	fs.Float64Var(&weight, "weight", floatOr("gsea.weight", enrich.DefaultWeight), "Score weight exponent (0 = unweighted Kolmogorov-Smirnov)")
	fs.IntVar(&minSize, "min-size", intOr("sets.min_size", 5), "Minimum gene set size")
	fs.IntVar(&maxSize, "max-size", intOr("sets.max_size", 500), "Maximum gene set size")
	fs.Float64Var(&fdr, "fdr", 0, "Only report gene sets with adjusted p-value below this (0 = all)")
	fs.IntVar(&workers, "workers", 0, "Worker count (default: number of CPUs)")
	fs.BoolVar(&verbose, "verbose", false, "Verbose logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Score gene sets against a fully ranked gene list with a weighted
running-sum statistic and a label-permutation null distribution.

Usage:
  vibe-gsea gsea [options]

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  vibe-gsea gsea --gmt kegg.gmt --rnk ranked.rnk
  vibe-gsea gsea --gmt kegg.gmt --rnk ranked.rnk --permutations 100 --seed 5
  vibe-gsea gsea --gmt kegg.gmt --rnk ranked.rnk --weight 0 --fdr 0.25 -o gsea.tsv
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	if gmtPath == "" || rnkPath == "" {
		fmt.Fprintf(os.Stderr, "Error: --gmt and --rnk are required\n\n")
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

	rows, err := genestats.ReadRNK(rnkPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading rank file: %v\n", err)
		return ExitError
	}
	list, err := enrich.NewRankedGeneList(genestats.ToEntries(rows))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	fmt.Fprintf(os.Stderr, "Ranked %d genes\n", list.Len())

	scorer := enrich.NewGSEAScorer(enrich.GSEAConfig{
		Permutations: permutations,
		Seed:         seed,
		Weight:       weight,
		Workers:      workers,
	})
	scorer.SetLogger(logger)

	report, err := scorer.Run(context.Background(), list, tested)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	if fdr > 0 {
		report.Results = report.Significant(fdr)
	}

	return writeReport(report, enrich.ModeGSEA, outputFile)
}
