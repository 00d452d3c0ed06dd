package enrich

import (
	"math/rand/v2"
	"sort"
)

// splitmix64 is the SplitMix64 finalizer, used to derive independent
// sub-seeds from a base seed and a permutation index.
func splitmix64(x uint64) uint64 {
	z := x + 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// permRNG returns the generator for one permutation. Each permutation index
// maps to a fixed sub-seed of the base seed, so null distributions are
// identical for a given (seed, count) regardless of worker scheduling.
func permRNG(base uint64, index int) *rand.Rand {
	s1 := splitmix64(base ^ (0x9e3779b97f4a7c15 * uint64(index+1)))
	s2 := splitmix64(s1)
	return rand.New(rand.NewPCG(s1, s2))
}

// samplePositions draws m distinct rank positions from [0, total) using
// Floyd's algorithm and returns them sorted ascending. Sampling member
// positions uniformly is equivalent to permuting gene labels against the
// fixed score ranking.
func samplePositions(rng *rand.Rand, total, m int) []int {
	chosen := make(map[int]struct{}, m)
	for j := total - m; j < total; j++ {
		t := rng.IntN(j + 1)
		if _, taken := chosen[t]; taken {
			chosen[j] = struct{}{}
		} else {
			chosen[t] = struct{}{}
		}
	}
	out := make([]int, 0, m)
	for p := range chosen {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}
