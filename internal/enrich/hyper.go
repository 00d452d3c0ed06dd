package enrich

import (
	"math"

	"gonum.org/v1/gonum/stat/combin"
)

// logChoose returns log C(n, k), or -Inf when the coefficient is zero.
func logChoose(n, k int) float64 {
	if k < 0 || k > n {
		return math.Inf(-1)
	}
	if k == 0 || k == n {
		return 0
	}
	return combin.LogGeneralizedBinomial(float64(n), float64(k))
}

// HyperTail computes the one-sided hypergeometric tail probability of
// drawing at least k members of a K-sized gene set in a query of size n from
// a universe of size N:
//
//	p = sum_{i=k}^{min(K,n)} C(K,i) C(N-K,n-i) / C(N,n)
//
// Each term is computed in log space to avoid overflow for large universes.
// k <= 0 yields 1 (no enrichment signal).
func HyperTail(k, n, K, N int) (float64, error) {
	if n < 0 || K < 0 || N < 0 {
		return 0, &ValidationError{Field: "hypergeometric", Msg: "negative population parameter"}
	}
	if K > N || n > N {
		return 0, &ValidationError{Field: "hypergeometric", Msg: "term or query size exceeds universe"}
	}
	if k <= 0 {
		return 1, nil
	}
	hi := K
	if n < hi {
		hi = n
	}
	if k > hi {
		return 0, nil
	}

	denom := logChoose(N, n)
	sum := 0.0
	for i := k; i <= hi; i++ {
		term := logChoose(K, i) + logChoose(N-K, n-i) - denom
		sum += math.Exp(term)
	}
	if math.IsNaN(sum) || math.IsInf(sum, 0) {
		return 0, &ComputationError{Msg: "hypergeometric tail sum is not finite"}
	}
	if sum > 1 {
		sum = 1 // accumulated rounding can push past 1
	}
	return sum, nil
}
