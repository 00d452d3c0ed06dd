package enrich

import "fmt"

// ValidationError reports malformed or out-of-domain input, such as duplicate
// gene identifiers, non-finite scores, empty gene sets, or p-values outside
// [0, 1]. A ValidationError on a ranked list, catalog, or query is fatal for
// the whole run.
type ValidationError struct {
	Field string // input that failed validation, e.g. "score", "query"
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// EmptyOverlapError reports a gene set with no members in the ranked list.
// The set is excluded from scoring and recorded as a skipped entry; it does
// not abort the batch.
type EmptyOverlapError struct {
	SetID string
}

func (e *EmptyOverlapError) Error() string {
	return fmt.Sprintf("gene set %s has no overlap with the ranked gene list", e.SetID)
}

// ComputationError reports a numeric failure (overflow, underflow, degenerate
// weights) that log-space arithmetic could not absorb. Fatal for that gene
// set's test only.
type ComputationError struct {
	SetID string
	Msg   string
}

func (e *ComputationError) Error() string {
	if e.SetID == "" {
		return fmt.Sprintf("computation failed: %s", e.Msg)
	}
	return fmt.Sprintf("computation failed for gene set %s: %s", e.SetID, e.Msg)
}
