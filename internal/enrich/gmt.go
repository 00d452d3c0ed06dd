package enrich

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// LoadGMT loads a gene-set catalog from a GMT file (one set per line:
// identifier, description, then member genes, tab-separated). Supports both
// plain and gzipped files.
func LoadGMT(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gmt file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f

	// Check for gzip magic number (0x1f, 0x8b)
	buf := make([]byte, 2)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read gmt header: %w", err)
	}
	if _, err := f.Seek(0, 0); err != nil {
		return nil, fmt.Errorf("seek gmt file: %w", err)
	}
	if n == 2 && buf[0] == 0x1f && buf[1] == 0x8b {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	return ParseGMT(reader)
}

// ParseGMT parses GMT content into a catalog. Blank lines and lines with
// fewer than three columns are skipped; member duplicates collapse.
func ParseGMT(reader io.Reader) (*Catalog, error) {
	scanner := bufio.NewScanner(reader)
	// Gene-set lines can run long (thousands of members)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 4*1024*1024)

	var sets []GeneSet
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			continue
		}

		id := fields[0]
		name := fields[1]
		var genes []string
		for _, g := range fields[2:] {
			g = strings.TrimSpace(g)
			if g != "" {
				genes = append(genes, g)
			}
		}
		if len(genes) == 0 {
			continue
		}
		sets = append(sets, NewGeneSet(id, name, genes))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read gmt line %d: %w", lineNum, err)
	}

	return NewCatalog(sets)
}
