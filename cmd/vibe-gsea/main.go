// Package main provides the vibe-gsea command-line tool.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Global flags
	var showVersion bool
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Parse()

	if showVersion {
		fmt.Printf("vibe-gsea version %s (%s) built %s\n", version, commit, date)
		return ExitSuccess
	}

	initConfig()

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		return ExitUsage
	}

	switch args[0] {
	case "ora":
		return runORA(args[1:])
	case "gsea":
		return runGSEA(args[1:])
	case "download":
		return runDownload(args[1:])
	case "config":
		return runConfig(args[1:])
	case "help":
		printUsage()
		return ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", args[0])
		printUsage()
		return ExitUsage
	}
}

// initConfig loads ~/.vibe-gsea.yaml if present; missing config is fine.
func initConfig() {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	viper.SetConfigName(".vibe-gsea")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(home)
	_ = viper.ReadInConfig()
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `vibe-gsea - Gene Set Enrichment Analysis

Usage:
  vibe-gsea [options] <command> [arguments]

Commands:
  ora         Over-representation analysis of a significant gene subset
  gsea        Rank-based gene set enrichment of a fully ranked gene list
  download    Download gene set libraries in GMT format
  config      Manage vibe-gsea configuration
  help        Show this help message

Global Options:
  --version   Show version information

Examples:
  # Download a gene set library (one-time setup)
  vibe-gsea download --library KEGG_2016

  # Over-representation analysis from a per-gene statistics table
  vibe-gsea ora --gmt kegg.gmt --stats degs.csv --universe 20000

  # Rank-based enrichment from a rank file
  vibe-gsea gsea --gmt kegg.gmt --rnk ranked.rnk --permutations 1000 --seed 5

For more information on a command, use:
  vibe-gsea <command> --help
`)
}
