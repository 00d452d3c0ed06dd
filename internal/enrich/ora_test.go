package enrich

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(t *testing.T, sets ...GeneSet) *Catalog {
	t.Helper()
	cat, err := NewCatalog(sets)
	require.NoError(t, err)
	return cat
}

func TestORATester_Basic(t *testing.T) {
	// Query of 5 genes, one set sharing 2 of its 10 members, universe of 50.
	set := NewGeneSet("PATH1", "pathway one", []string{
		"Q1", "Q2", "M3", "M4", "M5", "M6", "M7", "M8", "M9", "M10",
	})
	cat := testCatalog(t, set)

	tester := NewORATester(ORAConfig{Universe: 50})
	report, err := tester.Run(context.Background(), []string{"Q1", "Q2", "Q3", "Q4", "Q5"}, cat)
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.Empty(t, report.Skipped)

	res := report.Results[0]
	assert.Equal(t, "PATH1", res.SetID)
	assert.Equal(t, ModeORA, res.Mode)
	assert.Equal(t, 2, res.Intersection)
	assert.Equal(t, 5, res.Query)
	assert.Equal(t, 10, res.SetSize)
	assert.Equal(t, 50, res.Universe)
	// Reference tail for k=2, n=5, K=10, N=50
	assert.InDelta(t, 0.2581000207668527, res.RawP, 1e-9)
	assert.Equal(t, res.RawP, res.AdjP) // single test, BH is identity
	assert.InDelta(t, 0.4, res.Precision, 1e-12)
	assert.InDelta(t, 0.2, res.Recall, 1e-12)
	assert.InDelta(t, 2.0, res.Effect, 1e-12) // (2/5)/(10/50)
}

func TestORATester_QueryDeduplicated(t *testing.T) {
	cat := testCatalog(t, NewGeneSet("S", "", []string{"A", "B"}))
	tester := NewORATester(ORAConfig{Universe: 20})

	report, err := tester.Run(context.Background(), []string{"A", "A", "C", "C"}, cat)
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.Equal(t, 2, report.Results[0].Query)
	assert.Equal(t, 1, report.Results[0].Intersection)
}

func TestORATester_ZeroIntersectionScoresOne(t *testing.T) {
	cat := testCatalog(t, NewGeneSet("S", "", []string{"X", "Y", "Z"}))
	tester := NewORATester(ORAConfig{Universe: 100})

	report, err := tester.Run(context.Background(), []string{"A", "B"}, cat)
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.Equal(t, 0, report.Results[0].Intersection)
	assert.Equal(t, 1.0, report.Results[0].RawP)
	assert.Empty(t, report.Skipped)
}

func TestORATester_FullUniverseOverlap(t *testing.T) {
	// Gene set identical to the full universe: k = n = K => p = 1.
	genes := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"}
	cat := testCatalog(t, NewGeneSet("ALL", "everything", genes))
	tester := NewORATester(ORAConfig{Universe: 10})

	report, err := tester.Run(context.Background(), genes, cat)
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.InDelta(t, 1.0, report.Results[0].RawP, 1e-12)
}

func TestORATester_UniverseSmallerThanSetSkips(t *testing.T) {
	cat := testCatalog(t,
		NewGeneSet("BIG", "", []string{"A", "B", "C", "D", "E", "F"}),
		NewGeneSet("OK", "", []string{"A", "B"}),
	)
	tester := NewORATester(ORAConfig{Universe: 5})

	report, err := tester.Run(context.Background(), []string{"A", "B", "C"}, cat)
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.Equal(t, "OK", report.Results[0].SetID)

	require.Len(t, report.Skipped, 1)
	assert.Equal(t, "BIG", report.Skipped[0].SetID)
	assert.Equal(t, SkipInvalidUniverse, report.Skipped[0].Reason)
}

func TestORATester_TopLevelValidation(t *testing.T) {
	cat := testCatalog(t, NewGeneSet("S", "", []string{"A"}))
	var verr *ValidationError

	_, err := NewORATester(ORAConfig{Universe: 10}).Run(context.Background(), nil, cat)
	require.ErrorAs(t, err, &verr)

	_, err = NewORATester(ORAConfig{Universe: 0}).Run(context.Background(), []string{"A"}, cat)
	require.ErrorAs(t, err, &verr)

	_, err = NewORATester(ORAConfig{Universe: 2}).Run(context.Background(), []string{"A", "B", "C"}, cat)
	require.ErrorAs(t, err, &verr)
}

func TestORATester_SizeFilterRoundTrip(t *testing.T) {
	var sets []GeneSet
	for i := 1; i <= 10; i++ {
		genes := make([]string, i)
		for j := range genes {
			genes[j] = fmt.Sprintf("G%d_%d", i, j)
		}
		sets = append(sets, NewGeneSet(fmt.Sprintf("SET%d", i), "", genes))
	}
	cat := testCatalog(t, sets...)

	filtered := cat.FilterBySize(3, 6)
	tester := NewORATester(ORAConfig{Universe: 1000})
	report, err := tester.Run(context.Background(), []string{"G3_0", "G5_1"}, filtered)
	require.NoError(t, err)

	// No out-of-bounds set may appear in the report, scored or skipped.
	seen := 0
	for _, res := range report.Results {
		s, ok := filtered.Get(res.SetID)
		require.True(t, ok)
		assert.GreaterOrEqual(t, s.Size(), 3)
		assert.LessOrEqual(t, s.Size(), 6)
		seen++
	}
	assert.Equal(t, 4, seen)
	assert.Empty(t, report.Skipped)
}

func TestORATester_DeterministicAcrossWorkerCounts(t *testing.T) {
	var sets []GeneSet
	for i := 0; i < 30; i++ {
		genes := []string{fmt.Sprintf("A%d", i), fmt.Sprintf("B%d", i), "SHARED1", "SHARED2"}
		sets = append(sets, NewGeneSet(fmt.Sprintf("SET%02d", i), "", genes))
	}
	cat := testCatalog(t, sets...)
	query := []string{"SHARED1", "A3", "A7", "B11"}

	run := func(workers int) *Report {
		tester := NewORATester(ORAConfig{Universe: 500, Workers: workers})
		report, err := tester.Run(context.Background(), query, cat)
		require.NoError(t, err)
		return report
	}

	assert.Equal(t, run(1), run(8))
}

func TestORATester_Cancellation(t *testing.T) {
	cat := testCatalog(t, NewGeneSet("S", "", []string{"A"}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := NewORATester(ORAConfig{Universe: 10}).Run(ctx, []string{"A"}, cat)
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, report) // no partial report on cancellation
}

func TestORATester_ReportOrdering(t *testing.T) {
	cat := testCatalog(t,
		NewGeneSet("WEAK", "", []string{"X1", "X2", "X3", "X4", "Q1"}),
		NewGeneSet("STRONG", "", []string{"Q1", "Q2", "Q3", "X5", "X6"}),
	)
	tester := NewORATester(ORAConfig{Universe: 1000})
	report, err := tester.Run(context.Background(), []string{"Q1", "Q2", "Q3", "Q4"}, cat)
	require.NoError(t, err)
	require.Len(t, report.Results, 2)

	// Smallest adjusted p-value first.
	assert.Equal(t, "STRONG", report.Results[0].SetID)
	assert.LessOrEqual(t, report.Results[0].AdjP, report.Results[1].AdjP)
}
