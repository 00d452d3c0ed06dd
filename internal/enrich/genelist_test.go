package enrich

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRankedGeneList_Valid(t *testing.T) {
	list, err := NewRankedGeneList([]Entry{
		{Gene: "TP53", Score: 2.5},
		{Gene: "KRAS", Score: -1.0},
		{Gene: "MYC", Score: 0.3},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, list.Len())
	assert.True(t, list.Contains("KRAS"))
	assert.False(t, list.Contains("kras")) // identifiers are case-sensitive
}

func TestNewRankedGeneList_DuplicateGene(t *testing.T) {
	_, err := NewRankedGeneList([]Entry{
		{Gene: "TP53", Score: 1},
		{Gene: "TP53", Score: 2},
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "gene", verr.Field)
}

func TestNewRankedGeneList_NonFiniteScore(t *testing.T) {
	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := NewRankedGeneList([]Entry{{Gene: "TP53", Score: bad}})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "score", verr.Field)
	}
}

func TestNewRankedGeneList_EmptyIdentifier(t *testing.T) {
	_, err := NewRankedGeneList([]Entry{{Gene: "", Score: 1}})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestRankOrder_DescendingStableTies(t *testing.T) {
	list, err := NewRankedGeneList([]Entry{
		{Gene: "A", Score: 1},
		{Gene: "B", Score: 3},
		{Gene: "C", Score: 1}, // ties with A, must keep input order
		{Gene: "D", Score: 2},
	})
	require.NoError(t, err)

	order := list.RankOrder()
	got := make([]string, len(order))
	for i, e := range order {
		got[i] = e.Gene
	}
	assert.Equal(t, []string{"B", "D", "A", "C"}, got)
}

func TestFilterByThreshold_DoesNotMutateSource(t *testing.T) {
	list, err := NewRankedGeneList([]Entry{
		{Gene: "A", Score: 5},
		{Gene: "B", Score: -5},
		{Gene: "C", Score: 2},
	})
	require.NoError(t, err)

	filtered := list.FilterByThreshold(func(e Entry) bool { return e.Score > 0 })
	assert.Equal(t, 2, filtered.Len())
	assert.False(t, filtered.Contains("B"))

	// source unchanged
	assert.Equal(t, 3, list.Len())
	assert.True(t, list.Contains("B"))
}

func TestEntries_ReturnsCopy(t *testing.T) {
	list, err := NewRankedGeneList([]Entry{{Gene: "A", Score: 1}})
	require.NoError(t, err)

	entries := list.Entries()
	entries[0].Gene = "mutated"
	assert.True(t, list.Contains("A"))
	assert.Equal(t, "A", list.Entries()[0].Gene)
}

func TestQuerySubset_ScoreAndAdjPThresholds(t *testing.T) {
	// Scores: eight background genes at 0, two outliers.
	entries := []Entry{
		{Gene: "HIT1", Score: 10, RawP: 1e-6, AdjP: 1e-4, HasP: true},
		{Gene: "HIT2", Score: 9, RawP: 1e-5, AdjP: 0.5, HasP: true}, // fails padj cutoff
	}
	for _, g := range []string{"B1", "B2", "B3", "B4", "B5", "B6", "B7", "B8"} {
		entries = append(entries, Entry{Gene: g, Score: 0, RawP: 0.9, AdjP: 0.95, HasP: true})
	}
	list, err := NewRankedGeneList(entries)
	require.NoError(t, err)

	got := list.QuerySubset(DefaultQueryPolicy())
	assert.Equal(t, []string{"HIT1"}, got)
}

func TestQuerySubset_NoPValuesScoreOnly(t *testing.T) {
	entries := []Entry{{Gene: "HIT", Score: 10}}
	for _, g := range []string{"B1", "B2", "B3", "B4", "B5", "B6", "B7", "B8", "B9"} {
		entries = append(entries, Entry{Gene: g, Score: 0})
	}
	list, err := NewRankedGeneList(entries)
	require.NoError(t, err)

	got := list.QuerySubset(DefaultQueryPolicy())
	assert.Equal(t, []string{"HIT"}, got)
}

func TestQuerySubset_EmptyList(t *testing.T) {
	list, err := NewRankedGeneList(nil)
	require.NoError(t, err)
	assert.Nil(t, list.QuerySubset(DefaultQueryPolicy()))
}
