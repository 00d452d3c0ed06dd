package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Enrichr gene set library export endpoint
const enrichrLibraryURL = "https://maayanlab.cloud/Enrichr/geneSetLibrary?mode=text&libraryName=%s"

func runDownload(args []string) int {
	fs := flag.NewFlagSet("download", flag.ExitOnError)

	var (
		library   string
		outputDir string
	)

	fs.StringVar(&library, "library", "KEGG_2016", "Gene set library name (e.g. KEGG_2016, GO_Biological_Process_2023)")
	fs.StringVar(&outputDir, "output", "", "Output directory (default: ~/.vibe-gsea/)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Download a gene set library in GMT format from the Enrichr collection.

Usage:
  vibe-gsea download [options]

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Download the KEGG 2016 pathway library (default)
  vibe-gsea download

  # Download GO biological process terms
  vibe-gsea download --library GO_Biological_Process_2023

  # Download to a custom directory
  vibe-gsea download --output /data/genesets
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	if outputDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot determine home directory: %v\n", err)
			return ExitError
		}
		outputDir = filepath.Join(home, ".vibe-gsea")
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		return ExitError
	}

	url := fmt.Sprintf(enrichrLibraryURL, library)
	destPath := filepath.Join(outputDir, library+".gmt")

	fmt.Fprintf(os.Stderr, "Downloading %s\n", url)
	if err := downloadFile(url, destPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error downloading library: %v\n", err)
		return ExitError
	}

	info, err := os.Stat(destPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	fmt.Fprintf(os.Stderr, "Saved %s (%d bytes)\n", destPath, info.Size())
	fmt.Fprintf(os.Stderr, "\nUse it with:\n  vibe-gsea ora --gmt %s ...\n", destPath)

	return ExitSuccess
}

// downloadFile fetches a URL to a local path through a temporary file, so a
// failed download never leaves a truncated library behind.
func downloadFile(url, destPath string) error {
	client := &http.Client{Timeout: 10 * time.Minute}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}

	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".download-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("write download: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close download: %w", err)
	}

	return os.Rename(tmp.Name(), destPath)
}
