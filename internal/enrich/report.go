package enrich

import (
	"math"
	"sort"
)

// Mode identifies which tester produced a result.
type Mode string

const (
	ModeORA  Mode = "ora"
	ModeGSEA Mode = "gsea"
)

// SkipReason codes why a gene set was excluded from testing.
type SkipReason string

const (
	SkipEmptyOverlap    SkipReason = "empty_overlap"
	SkipComputation     SkipReason = "computation_failed"
	SkipInvalidUniverse SkipReason = "invalid_universe"
)

// EnrichmentResult is the outcome of testing one gene set. Mode-specific
// fields are populated for the mode that produced it.
type EnrichmentResult struct {
	SetID   string
	SetName string
	Mode    Mode

	Statistic float64 // intersection count (ORA) or enrichment score (GSEA)
	RawP      float64
	AdjP      float64
	Effect    float64 // fold enrichment (ORA) or NES (GSEA)

	// Over-representation fields
	Intersection int // k
	Query        int // n
	SetSize      int // K
	Universe     int // N
	Precision    float64
	Recall       float64

	// Rank-based fields
	ES          float64
	NES         float64
	LeadingEdge []string
}

// SkippedSet records a gene set excluded from testing with a reason code.
type SkippedSet struct {
	SetID  string
	Reason SkipReason
	Err    error
}

// Report is the final product of a run: one result per tested gene set plus
// skipped entries. Results are ordered by adjusted p-value ascending, ties
// broken by absolute effect size descending, then by identifier.
type Report struct {
	Mode    Mode
	Results []EnrichmentResult
	Skipped []SkippedSet
}

// Significant returns the results with adjusted p-value below alpha.
func (r *Report) Significant(alpha float64) []EnrichmentResult {
	var out []EnrichmentResult
	for _, res := range r.Results {
		if res.AdjP < alpha {
			out = append(out, res)
		}
	}
	return out
}

// sortResults orders results deterministically regardless of the order in
// which parallel workers completed.
func sortResults(rs []EnrichmentResult) {
	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].AdjP != rs[j].AdjP {
			return rs[i].AdjP < rs[j].AdjP
		}
		ei, ej := math.Abs(rs[i].Effect), math.Abs(rs[j].Effect)
		if ei != ej {
			return ei > ej
		}
		return rs[i].SetID < rs[j].SetID
	})
}
