// Package enrich implements gene-set enrichment statistics: over-representation
// tests against a fixed query subset, rank-based running-sum enrichment with a
// permutation null, and Benjamini-Hochberg correction across tested sets.
package enrich

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Entry is one gene in a ranked list: an identifier, its ranking score, and
// optionally the raw and adjusted p-values from the upstream per-gene test.
type Entry struct {
	Gene  string
	Score float64
	RawP  float64
	AdjP  float64
	HasP  bool // RawP/AdjP are meaningful (lists built from bare .rnk files carry none)
}

// RankedGeneList is a validated, immutable sequence of (gene, score) pairs.
// Gene identifiers are opaque and case-sensitive; each appears at most once.
// Filtering produces a new list, the source is never mutated.
type RankedGeneList struct {
	entries []Entry
	index   map[string]int
}

// NewRankedGeneList builds a list from gene/score entries. It fails with a
// ValidationError on duplicate gene identifiers or non-finite scores.
func NewRankedGeneList(entries []Entry) (*RankedGeneList, error) {
	index := make(map[string]int, len(entries))
	copied := make([]Entry, len(entries))
	for i, e := range entries {
		if e.Gene == "" {
			return nil, &ValidationError{Field: "gene", Msg: fmt.Sprintf("empty gene identifier at entry %d", i)}
		}
		if _, seen := index[e.Gene]; seen {
			return nil, &ValidationError{Field: "gene", Msg: fmt.Sprintf("duplicate gene identifier %q", e.Gene)}
		}
		if math.IsNaN(e.Score) || math.IsInf(e.Score, 0) {
			return nil, &ValidationError{Field: "score", Msg: fmt.Sprintf("non-finite score for gene %q", e.Gene)}
		}
		index[e.Gene] = i
		copied[i] = e
	}
	return &RankedGeneList{entries: copied, index: index}, nil
}

// Len returns the number of genes in the list.
func (l *RankedGeneList) Len() int { return len(l.entries) }

// Contains reports whether the gene identifier is present.
func (l *RankedGeneList) Contains(gene string) bool {
	_, ok := l.index[gene]
	return ok
}

// Entries returns a copy of the entries in input order.
func (l *RankedGeneList) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Genes returns the gene identifiers in input order.
func (l *RankedGeneList) Genes() []string {
	out := make([]string, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.Gene
	}
	return out
}

// FilterByThreshold returns a new list containing only entries satisfying the
// predicate. The receiver is unchanged.
func (l *RankedGeneList) FilterByThreshold(pred func(Entry) bool) *RankedGeneList {
	kept := make([]Entry, 0, len(l.entries))
	index := make(map[string]int)
	for _, e := range l.entries {
		if pred(e) {
			index[e.Gene] = len(kept)
			kept = append(kept, e)
		}
	}
	return &RankedGeneList{entries: kept, index: index}
}

// RankOrder returns the entries sorted descending by score. Ties keep stable
// input order; this is the canonical order for rank-based scoring.
func (l *RankedGeneList) RankOrder() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// QueryPolicy selects the over-representation query subset from a ranked
// list: genes scoring above mean + MinScoreSD standard deviations, and (where
// per-gene p-values are available) with adjusted p-value below MaxAdjP.
type QueryPolicy struct {
	MinScoreSD float64
	MaxAdjP    float64
}

// DefaultQueryPolicy returns the default thresholds (mean + 1.5 sd, padj < 0.05).
func DefaultQueryPolicy() QueryPolicy {
	return QueryPolicy{MinScoreSD: 1.5, MaxAdjP: 0.05}
}

// QuerySubset applies a QueryPolicy and returns the selected gene
// identifiers in input order.
func (l *RankedGeneList) QuerySubset(p QueryPolicy) []string {
	if len(l.entries) == 0 {
		return nil
	}
	scores := make([]float64, len(l.entries))
	for i, e := range l.entries {
		scores[i] = e.Score
	}
	mean := stat.Mean(scores, nil)
	sd := math.Sqrt(stat.Variance(scores, nil))
	cutoff := mean + p.MinScoreSD*sd

	var genes []string
	for _, e := range l.entries {
		if e.Score <= cutoff {
			continue
		}
		if e.HasP && e.AdjP >= p.MaxAdjP {
			continue
		}
		genes = append(genes, e.Gene)
	}
	return genes
}
