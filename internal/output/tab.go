// Package output provides enrichment report formatters.
package output

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/vibe-gsea/internal/enrich"
)

// TabWriter writes an enrichment report in tab-delimited format. Column set
// depends on the mode that produced the report.
type TabWriter struct {
	w    *bufio.Writer
	mode enrich.Mode
}

// NewTabWriter creates a tab-delimited writer for the given mode.
func NewTabWriter(w io.Writer, mode enrich.Mode) *TabWriter {
	return &TabWriter{w: bufio.NewWriter(w), mode: mode}
}

func (tw *TabWriter) columns() []string {
	if tw.mode == enrich.ModeORA {
		return []string{
			"#Gene_set",
			"Name",
			"Intersection",
			"Query",
			"Set_size",
			"Universe",
			"Precision",
			"Recall",
			"Fold_enrichment",
			"P_value",
			"Adj_p_value",
		}
	}
	return []string{
		"#Gene_set",
		"Name",
		"Set_size",
		"Matched",
		"ES",
		"NES",
		"P_value",
		"Adj_p_value",
		"Leading_edge",
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns(), "\t") + "\n")
	return err
}

// WriteResult writes a single enrichment result.
func (tw *TabWriter) WriteResult(r enrich.EnrichmentResult) error {
	var fields []string
	if tw.mode == enrich.ModeORA {
		fields = []string{
			r.SetID,
			orDash(r.SetName),
			strconv.Itoa(r.Intersection),
			strconv.Itoa(r.Query),
			strconv.Itoa(r.SetSize),
			strconv.Itoa(r.Universe),
			formatFloat(r.Precision),
			formatFloat(r.Recall),
			formatFloat(r.Effect),
			formatFloat(r.RawP),
			formatFloat(r.AdjP),
		}
	} else {
		fields = []string{
			r.SetID,
			orDash(r.SetName),
			strconv.Itoa(r.SetSize),
			strconv.Itoa(r.Intersection),
			formatFloat(r.ES),
			formatFloat(r.NES),
			formatFloat(r.RawP),
			formatFloat(r.AdjP),
			orDash(strings.Join(r.LeadingEdge, ",")),
		}
	}
	_, err := tw.w.WriteString(strings.Join(fields, "\t") + "\n")
	return err
}

// WriteReport writes the header, every result, and skipped entries as
// trailing comment lines.
func (tw *TabWriter) WriteReport(report *enrich.Report) error {
	if err := tw.WriteHeader(); err != nil {
		return err
	}
	for _, r := range report.Results {
		if err := tw.WriteResult(r); err != nil {
			return err
		}
	}
	for _, s := range report.Skipped {
		if err := tw.WriteSkipped(s); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// WriteSkipped writes a skipped gene set as a comment line with its reason
// code, so skipped entries never masquerade as scored rows.
func (tw *TabWriter) WriteSkipped(s enrich.SkippedSet) error {
	_, err := fmt.Fprintf(tw.w, "# skipped\t%s\t%s\n", s.SetID, s.Reason)
	return err
}

// Flush flushes buffered output.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', 6, 64)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
