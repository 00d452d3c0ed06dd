package enrich

import (
	"fmt"
	"math"
	"sort"
)

// AdjustBH applies Benjamini-Hochberg false-discovery-rate adjustment to a
// collection of raw p-values and returns the adjusted values in the same
// order. Adjusted values satisfy adjusted >= raw for every entry and are
// non-decreasing along the raw-ascending order. Fails with a ValidationError
// if any p-value lies outside [0, 1].
func AdjustBH(ps []float64) ([]float64, error) {
	m := len(ps)
	if m == 0 {
		return nil, nil
	}

	order := make([]int, m)
	for i := range order {
		order[i] = i
	}
	for i, p := range ps {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return nil, &ValidationError{Field: "p-value", Msg: fmt.Sprintf("value %v at index %d outside [0,1]", p, i)}
		}
	}
	sort.SliceStable(order, func(a, b int) bool { return ps[order[a]] < ps[order[b]] })

	adjusted := make([]float64, m)
	running := 1.0
	for rank := m - 1; rank >= 0; rank-- {
		i := order[rank]
		v := ps[i] * float64(m) / float64(rank+1)
		if v < running {
			running = v
		}
		if running > 1 {
			adjusted[i] = 1
		} else {
			adjusted[i] = running
		}
	}
	return adjusted, nil
}
