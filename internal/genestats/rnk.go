package genestats

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadRNK reads a two-column rank file (gene <tab> score), the conventional
// input for rank-based enrichment. Supports plain and gzipped files; blank
// lines and # comments are skipped.
func ReadRNK(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rnk file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	return parseRNK(reader)
}

func parseRNK(reader io.Reader) ([]Row, error) {
	scanner := bufio.NewScanner(reader)
	var out []Row
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			return nil, fmt.Errorf("rnk line %d: expected gene and score columns", lineNum)
		}

		score, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("rnk line %d: parse score: %w", lineNum, err)
		}
		out = append(out, Row{Gene: strings.TrimSpace(fields[0]), Score: score})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read rnk file: %w", err)
	}
	return out, nil
}
