// Package genestats loads per-gene statistic tables (gene, score, p-values)
// used to build ranked gene lists and over-representation query subsets.
package genestats

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/inodb/vibe-gsea/internal/enrich"
)

// Row is one gene's statistics from an external per-gene test table.
type Row struct {
	Gene  string
	Score float64
	RawP  float64
	AdjP  float64
	HasP  bool
}

// DuckDB provides access to per-gene statistic tables through a DuckDB
// database. The path can be a database file or ":memory:" for ad-hoc CSV
// loading.
type DuckDB struct {
	db   *sql.DB
	path string
}

// Open opens a DuckDB-backed statistics source.
func Open(path string) (*DuckDB, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	return &DuckDB{db: db, path: path}, nil
}

// Close closes the database connection.
func (d *DuckDB) Close() error {
	return d.db.Close()
}

// LoadTable loads gene statistics from a table or view. The table must have
// gene and score columns; pvalue and padj columns are picked up when present.
func (d *DuckDB) LoadTable(table string) ([]Row, error) {
	return d.Query(fmt.Sprintf(`SELECT * FROM %q`, table))
}

// LoadCSV loads gene statistics from a delimited text file via DuckDB's
// read_csv_auto, which handles header detection, delimiters, and gzip.
func (d *DuckDB) LoadCSV(csvPath string) ([]Row, error) {
	escaped := strings.ReplaceAll(csvPath, "'", "''")
	return d.Query(fmt.Sprintf(`SELECT * FROM read_csv_auto('%s')`, escaped))
}

// Query runs an arbitrary query and maps its result to rows. Column names
// are matched case-insensitively: gene and score are required, pvalue and
// padj optional.
func (d *DuckDB) Query(query string) ([]Row, error) {
	rows, err := d.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query gene statistics: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	geneIdx, scoreIdx, pIdx, padjIdx := -1, -1, -1, -1
	for i, c := range cols {
		switch strings.ToLower(c) {
		case "gene", "gene_id", "symbol":
			geneIdx = i
		case "score", "stat", "statistic":
			scoreIdx = i
		case "pvalue", "p_value", "pval":
			pIdx = i
		case "padj", "p_adj", "qvalue", "adj_pvalue":
			padjIdx = i
		}
	}
	if geneIdx < 0 || scoreIdx < 0 {
		return nil, fmt.Errorf("gene statistics query must return gene and score columns, got %v", cols)
	}

	var out []Row
	for rows.Next() {
		gene := sql.NullString{}
		score := sql.NullFloat64{}
		rawP := sql.NullFloat64{}
		adjP := sql.NullFloat64{}

		dests := make([]any, len(cols))
		for i := range dests {
			var discard any
			dests[i] = &discard
		}
		dests[geneIdx] = &gene
		dests[scoreIdx] = &score
		if pIdx >= 0 {
			dests[pIdx] = &rawP
		}
		if padjIdx >= 0 {
			dests[padjIdx] = &adjP
		}

		if err := rows.Scan(dests...); err != nil {
			return nil, fmt.Errorf("scan gene statistics row: %w", err)
		}
		if !gene.Valid || !score.Valid {
			continue
		}

		r := Row{Gene: gene.String, Score: score.Float64}
		if rawP.Valid || adjP.Valid {
			r.RawP = rawP.Float64
			r.AdjP = adjP.Float64
			r.HasP = true
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ToEntries converts loaded rows into ranked-gene-list entries.
func ToEntries(rows []Row) []enrich.Entry {
	out := make([]enrich.Entry, len(rows))
	for i, r := range rows {
		out[i] = enrich.Entry{Gene: r.Gene, Score: r.Score, RawP: r.RawP, AdjP: r.AdjP, HasP: r.HasP}
	}
	return out
}
